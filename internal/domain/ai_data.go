package domain

import "strings"

// AIState - состояние конечного автомата вражеского юнита.
type AIState uint8

const (
	AIStateIdle AIState = iota
	AIStatePatrolling
	AIStateAttacking
	AIStateDefending
	AIStateRetreating
	AIStateRegrouping
)

var aiStateNames = map[AIState]string{
	AIStateIdle:       "idle",
	AIStatePatrolling: "patrolling",
	AIStateAttacking:  "attacking",
	AIStateDefending:  "defending",
	AIStateRetreating: "retreating",
	AIStateRegrouping: "regrouping",
}

var aiStateByName = map[string]AIState{
	"idle":       AIStateIdle,
	"patrolling": AIStatePatrolling,
	"attacking":  AIStateAttacking,
	"defending":  AIStateDefending,
	"retreating": AIStateRetreating,
	"regrouping": AIStateRegrouping,
}

// ParseAIState - неизвестное имя дает idle.
func ParseAIState(s string) AIState {
	if st, ok := aiStateByName[strings.ToLower(s)]; ok {
		return st
	}
	return AIStateIdle
}

func (s AIState) String() string {
	if name, ok := aiStateNames[s]; ok {
		return name
	}
	return "idle"
}

func (s AIState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *AIState) UnmarshalText(text []byte) error {
	*s = ParseAIState(string(text))
	return nil
}

// AIData - мозги вражеского юнита. Связана с юнитом по UnitID,
// меняется только движком ИИ.
type AIData struct {
	UnitID       EntityID `json:"unitId"`
	State        AIState  `json:"state"`
	LastDecision int64    `json:"lastDecision"`

	// Цель: юнит или здание (вид определяется по EntityID.Kind)
	TargetID EntityID `json:"targetId,omitempty"`

	PatrolPoints []Position `json:"patrolPoints,omitempty"`
	PatrolIndex  int        `json:"patrolIndex"`

	AlertLevel             float64   `json:"alertLevel"`
	LastKnownEnemyPosition *Position `json:"lastKnownEnemyPosition,omitempty"`
}

// CurrentWaypoint возвращает активную точку патруля.
func (a *AIData) CurrentWaypoint() (Position, bool) {
	if len(a.PatrolPoints) == 0 {
		return Position{}, false
	}
	return a.PatrolPoints[a.PatrolIndex%len(a.PatrolPoints)], true
}

// AdvanceWaypoint переключает на следующую точку по кругу.
func (a *AIData) AdvanceWaypoint() {
	if len(a.PatrolPoints) == 0 {
		return
	}
	a.PatrolIndex = (a.PatrolIndex + 1) % len(a.PatrolPoints)
}

// AdjustAlert меняет тревогу в пределах 0..100.
func (a *AIData) AdjustAlert(delta float64) {
	a.AlertLevel = clamp(a.AlertLevel+delta, 0, 100)
}

// Clone - глубокая копия для снимков.
func (a AIData) Clone() AIData {
	out := a
	if a.PatrolPoints != nil {
		out.PatrolPoints = append([]Position(nil), a.PatrolPoints...)
	}
	if a.LastKnownEnemyPosition != nil {
		p := *a.LastKnownEnemyPosition
		out.LastKnownEnemyPosition = &p
	}
	return out
}
