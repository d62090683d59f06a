package handlers

import (
	"encoding/json"

	"frontline-server/internal/domain"
)

// Commander описывает приказы, которые рендерер может отдать сессии.
// Session неявно реализует этот интерфейс.
type Commander interface {
	Select(p domain.Position, multi bool) bool
	MoveCommand(p domain.Position) int
	AttackCommand(p domain.Position) (domain.Unit, bool)
	ProduceUnit(t domain.UnitType) (domain.Unit, bool)
	Resupply() (int, bool)
	SetPaused(paused bool) bool
}

// Context передает хендлеру сессию и источник команды.
type Context struct {
	Battle Commander
	Client string // ID подключения рендерера
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в журнал сессии напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, COMBAT, ERROR)
	Sound   string // Аудио-триггер, пусто - без звука
}

// HandlerFunc - это контракт для любой команды (SELECT, MOVE, ATTACK...).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
