package domain

import (
	"encoding/json"
	"time"
)

// ReplayCommand - команда рендерера, принятая сессией.
// Вместе с сидом сессии этого достаточно, чтобы восстановить ход боя.
type ReplayCommand struct {
	// Frame - номер вызова Session.Tick, в начале которого команда исполнена
	Frame   int64           `json:"frame"`
	Tick    int64           `json:"tick"`
	Time    int64           `json:"time"`    // симуляционное время, мс
	Command CommandType     `json:"command"` // Что сделал
	Payload json.RawMessage `json:"payload,omitempty"`
}

// BattleReport - итог боя для журнала после боя.
type BattleReport struct {
	SessionID  string    `json:"sessionId"`
	Scenario   string    `json:"scenario"`
	ScenarioID int       `json:"scenarioId"`
	Seed       int64     `json:"seed"` // Зерно рандома сессии
	Difficulty string    `json:"difficulty"`
	StartedAt  time.Time `json:"startedAt"`

	Ticks      int64 `json:"ticks"`
	DurationMs int64 `json:"durationMs"`

	GameOver     bool   `json:"gameOver"`
	Victory      bool   `json:"victory"`
	DefeatReason string `json:"defeatReason,omitempty"`
	Score        int    `json:"score"`
	Waves        int    `json:"waves"`

	AlliedLost int `json:"alliedLost"`
	AxisLost   int `json:"axisLost"`

	ObjectivesCompleted int `json:"objectivesCompleted"`
	ObjectivesTotal     int `json:"objectivesTotal"`

	Events   []CombatEvent   `json:"events"`
	Commands []ReplayCommand `json:"commands"`
	// Frames - дельты всех вызовов Tick, мс. В JSON не отдаются.
	Frames []float64 `json:"-"`
}

// ReplayLog - все, что нужно для точного повтора боя: сид, сценарий,
// дельты кадров и принятые команды.
type ReplayLog struct {
	Seed       int64
	StartedAt  time.Time
	ScenarioID int
	Difficulty string
	Frames     []float64
	Commands   []ReplayCommand
}

// Replay вынимает из отчета журнал для повтора.
func (r BattleReport) Replay() ReplayLog {
	return ReplayLog{
		Seed:       r.Seed,
		StartedAt:  r.StartedAt,
		ScenarioID: r.ScenarioID,
		Difficulty: r.Difficulty,
		Frames:     append([]float64(nil), r.Frames...),
		Commands:   append([]ReplayCommand(nil), r.Commands...),
	}
}

// Outcome - короткая метка исхода.
func (r BattleReport) Outcome() string {
	switch {
	case !r.GameOver:
		return "unfinished"
	case r.Victory:
		return "victory"
	default:
		return "defeat"
	}
}
