package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Frame - полный снимок боя для рендерера.
// Отправляется после каждого тика симуляции.
type Frame struct {
	// Type тип сообщения. Всегда "FRAME".
	Type string `json:"type"`

	// Tick номер тика сессии, Time - симуляционное время в мс.
	Tick int64 `json:"tick"`
	Time int64 `json:"time"`

	Scenario string `json:"scenario"`

	Field       FieldMeta        `json:"field"`
	Units       []UnitView       `json:"units"`
	Buildings   []BuildingView   `json:"buildings"`
	Projectiles []ProjectileView `json:"projectiles"`
	Explosions  []ExplosionView  `json:"explosions"`

	// Selection ID выбранных союзных юнитов.
	Selection []string `json:"selection"`

	Resources  ResourcesView   `json:"resources"`
	Objectives []ObjectiveView `json:"objectives"`
	State      StateView       `json:"state"`

	// Sounds - аудио-триггеры, сработавшие с прошлого кадра.
	Sounds []string `json:"sounds,omitempty"`

	// Logs срез новых сообщений с прошлого кадра.
	Logs []LogEntry `json:"logs,omitempty"`
}

// FieldMeta - размеры поля боя.
type FieldMeta struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// PointView - точка на поле.
type PointView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnitView это DTO для юнита любой стороны.
type UnitView struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Name     string    `json:"name"`
	Faction  string    `json:"faction"`
	Pos      PointView `json:"pos"`
	Rotation float64   `json:"rotation"`

	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`

	Morale     float64 `json:"morale"`
	Ammunition float64 `json:"ammunition"`
	Fuel       float64 `json:"fuel"`
	Experience int     `json:"experience"`

	IsMoving    bool       `json:"isMoving"`
	IsAttacking bool       `json:"isAttacking"`
	Target      *PointView `json:"target,omitempty"`
	Selected    bool       `json:"selected,omitempty"`

	// AIState только для юнитов оси
	AIState string `json:"aiState,omitempty"`
}

// BuildingView это DTO для строения.
type BuildingView struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Name            string    `json:"name"`
	Pos             PointView `json:"pos"`
	Width           float64   `json:"width"`
	Height          float64   `json:"height"`
	HP              int       `json:"hp"`
	MaxHP           int       `json:"maxHp"`
	Faction         string    `json:"faction"`
	IsObjective     bool      `json:"isObjective"`
	IsControlled    bool      `json:"isControlled"`
	ControlProgress float64   `json:"controlProgress"`
}

// ProjectileView - снаряд в полете.
type ProjectileView struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Pos     PointView `json:"pos"`
	Heading float64   `json:"heading"`
	Faction string    `json:"faction"`
}

// ExplosionView - эффект взрыва. Progress 0..1.
type ExplosionView struct {
	ID       string    `json:"id"`
	Size     string    `json:"size"`
	Pos      PointView `json:"pos"`
	Radius   float64   `json:"radius"`
	Progress float64   `json:"progress"`
}

// ResourcesView - пул союзников и подсказки для UI.
type ResourcesView struct {
	Money          float64 `json:"money"`
	Fuel           float64 `json:"fuel"`
	Ammunition     float64 `json:"ammunition"`
	Supply         float64 `json:"supply"`
	Reinforcements int     `json:"reinforcements"`

	// NextReinforcementMs - сколько осталось до следующего подкрепления.
	NextReinforcementMs float64 `json:"nextReinforcementMs"`

	// Levels качественная оценка запасов (critical, low, medium, high).
	Levels map[string]string `json:"levels,omitempty"`
}

// ObjectiveView - задача миссии.
type ObjectiveView struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	Description   string  `json:"description"`
	Completed     bool    `json:"completed"`
	Progress      float64 `json:"progress"` // проценты 0..100
	Required      int     `json:"required"`
	TimeRemaining int64   `json:"timeRemaining,omitempty"`
}

// StateView - сводное состояние сессии.
type StateView struct {
	IsPaused         bool   `json:"isPaused"`
	IsGameOver       bool   `json:"isGameOver"`
	Victory          bool   `json:"victory"`
	DefeatReason     string `json:"defeatReason,omitempty"`
	CurrentWave      int    `json:"currentWave"`
	EnemiesRemaining int    `json:"enemiesRemaining"`
	Score            int    `json:"score"`
}

// LogEntry представляет одну запись в боевом журнале.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, OBJECTIVE, ERROR
	Timestamp int64  `json:"timestamp"` // симуляционное время, мс
}

// Имена аудио-триггеров, для Frame.Sounds
const (
	SoundMissionStart      = "missionStart"
	SoundVictory           = "victory"
	SoundDefeat            = "defeat"
	SoundUnitSelect        = "unitSelect"
	SoundMoveCommand       = "moveCommand"
	SoundAttackCommand     = "attackCommand"
	SoundUnitProduced      = "unitProduced"
	SoundUnitDestroyed     = "unitDestroyed"
	SoundObjectiveComplete = "objectiveComplete"
	SoundError             = "error"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от рендерера.
type ClientCommand struct {
	// Action название команды: SELECT, MOVE, ATTACK, PRODUCE, RESUPPLY, PAUSE, RESUME.
	Action string `json:"action"`

	// Payload JSON-объект с данными для команды. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// SelectPayload - клик по полю. Multi переключает юнита в текущем выделении.
type SelectPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Multi bool    `json:"multi,omitempty"`
}

// PositionPayload используется для приказов в точку (MOVE, ATTACK).
type PositionPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ProducePayload - заказ юнита на производство.
type ProducePayload struct {
	UnitType string `json:"unitType"`
}
