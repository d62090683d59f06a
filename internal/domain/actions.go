package domain

import "strings"

// CommandType - внутренний числовой идентификатор команды рендерера
type CommandType uint8

const (
	CommandUnknown CommandType = iota
	CommandSelect
	CommandMove
	CommandAttack
	CommandProduce
	CommandResupply
	CommandPause
	CommandResume
)

// Маппинг для конвертации JSON -> Domain
var commandStringToType = map[string]CommandType{
	"SELECT":   CommandSelect,
	"MOVE":     CommandMove,
	"ATTACK":   CommandAttack,
	"PRODUCE":  CommandProduce,
	"RESUPPLY": CommandResupply,
	"PAUSE":    CommandPause,
	"RESUME":   CommandResume,
}

// Маппинг для логов Domain -> String
var commandTypeToString = map[CommandType]string{
	CommandSelect:   "SELECT",
	CommandMove:     "MOVE",
	CommandAttack:   "ATTACK",
	CommandProduce:  "PRODUCE",
	CommandResupply: "RESUPPLY",
	CommandPause:    "PAUSE",
	CommandResume:   "RESUME",
}

// ParseCommand конвертирует строку из JSON в CommandType
func ParseCommand(s string) CommandType {
	upper := strings.ToUpper(s)
	if val, ok := commandStringToType[upper]; ok {
		return val
	}
	return CommandUnknown
}

// String реализует интерфейс Stringer
func (c CommandType) String() string {
	if val, ok := commandTypeToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

func (c CommandType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CommandType) UnmarshalText(text []byte) error {
	*c = ParseCommand(string(text))
	return nil
}
