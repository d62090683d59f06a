package storage

import (
	"time"

	"gorm.io/datatypes"
)

// Models - таблицы журнала боев, для AutoMigrate.
var Models = []any{
	&BattleRecord{},
	&CombatEventRecord{},
	&CommandRecord{},
}

// BattleRecord - строка журнала на один бой.
type BattleRecord struct {
	SessionID  string    `json:"sessionId" gorm:"primaryKey;size:32"`
	Scenario   string    `json:"scenario" gorm:"size:64;index"`
	ScenarioID int       `json:"scenarioId"`
	Seed       int64     `json:"seed"`
	Difficulty string    `json:"difficulty" gorm:"size:16"`
	StartedAt  time.Time `json:"startedAt" gorm:"index"`
	CreatedAt  time.Time `json:"createdAt"`

	Ticks        int64  `json:"ticks"`
	DurationMs   int64  `json:"durationMs"`
	Outcome      string `json:"outcome" gorm:"size:16;index"`
	DefeatReason string `json:"defeatReason" gorm:"size:64"`
	Score        int    `json:"score"`
	Waves        int    `json:"waves"`

	AlliedLost          int `json:"alliedLost"`
	AxisLost            int `json:"axisLost"`
	ObjectivesCompleted int `json:"objectivesCompleted"`
	ObjectivesTotal     int `json:"objectivesTotal"`

	Events   []CombatEventRecord `json:"events,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Commands []CommandRecord     `json:"commands,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// CombatEventRecord - запись боевого журнала. Полное событие лежит в Details.
type CombatEventRecord struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	SessionID string         `gorm:"size:32;index"`
	Seq       int            `gorm:"index"`
	Kind      string         `gorm:"size:16;index"`
	Timestamp int64          `gorm:"index"`
	Damage    int            `json:"damage"`
	Details   datatypes.JSON `json:"details"`
}

// CommandRecord - принятая команда рендерера.
type CommandRecord struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	SessionID string         `gorm:"size:32;index"`
	Seq       int            `gorm:"index"`
	Frame     int64          `json:"frame"`
	Tick      int64          `json:"tick"`
	Time      int64          `json:"time"`
	Command   string         `gorm:"size:16"`
	Payload   datatypes.JSON `json:"payload"`
}
