package systems

import (
	"math"
	"sort"

	"frontline-server/internal/domain"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

const (
	patrolArrivalRadius  = 30.0
	retreatDistance      = 200.0
	regroupHoldRadius    = 50.0
	attackApproachFactor = 0.8
	minAttackMorale      = 15.0

	// Восстановление в зоне перегруппировки, ед/мс
	regroupMoraleRate = 0.02
	regroupAmmoRate   = 0.05

	// Тревога и мораль, ед/мс
	alertDecayRate     = 0.01
	highAlertMorale    = 0.005
	lowAlertMorale     = 0.002
	highAlertThreshold = 70.0
	lowAlertThreshold  = 30.0
)

// StateChange - переход автомата за тик.
type StateChange struct {
	UnitID domain.EntityID
	Rule   string
	From   domain.AIState
	To     domain.AIState
}

// AIResult - итог тика ИИ.
type AIResult struct {
	Units       []domain.Unit
	Changed     bool
	Transitions []StateChange
}

// AIEngine ведет автоматы вражеских юнитов. AIData хранится здесь
// и связывается с юнитом по id.
type AIEngine struct {
	clock  domain.Clock
	table  *TransitionTable
	brains map[domain.EntityID]*domain.AIData
}

func NewAIEngine(clock domain.Clock) *AIEngine {
	return NewAIEngineWithTable(clock, MustDefaultTable())
}

func NewAIEngineWithTable(clock domain.Clock, table *TransitionTable) *AIEngine {
	return &AIEngine{
		clock:  clock,
		table:  table,
		brains: make(map[domain.EntityID]*domain.AIData),
	}
}

// Register подключает мозги к юниту.
func (e *AIEngine) Register(data domain.AIData) {
	d := data.Clone()
	e.brains[d.UnitID] = &d
}

// Forget удаляет мозги убранного юнита.
func (e *AIEngine) Forget(id domain.EntityID) {
	delete(e.brains, id)
}

// Brain - копия данных ИИ юнита.
func (e *AIEngine) Brain(id domain.EntityID) (domain.AIData, bool) {
	d, ok := e.brains[id]
	if !ok {
		return domain.AIData{}, false
	}
	return d.Clone(), true
}

// Brains - копии всех записей, по возрастанию id.
func (e *AIEngine) Brains() []domain.AIData {
	out := make([]domain.AIData, 0, len(e.brains))
	for _, d := range e.brains {
		out = append(out, d.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out
}

// Reset забывает всех.
func (e *AIEngine) Reset() {
	e.brains = make(map[domain.EntityID]*domain.AIData)
}

// Update: решение (по интервалу), исполнение состояния, движение, статус.
func (e *AIEngine) Update(enemyUnits, playerUnits []domain.Unit, deltaMs float64) AIResult {
	if deltaMs < 0 {
		deltaMs = 0
	}
	now := e.clock.Now()
	res := AIResult{Units: append([]domain.Unit(nil), enemyUnits...)}

	for i := range res.Units {
		u := &res.Units[i]
		brain, ok := e.brains[u.ID]
		if !ok || !u.IsAlive() {
			continue
		}
		before := *u

		if float64(now-brain.LastDecision) >= DecisionInterval(brain.AlertLevel) {
			if change, moved := e.decide(u, brain, playerUnits, now); moved {
				res.Transitions = append(res.Transitions, change)
			}
		}

		e.execute(u, brain, playerUnits, deltaMs)
		StepTowards(u, MovementSpeed(u, StateSpeedFactor(brain.State)), deltaMs)
		updateStatus(u, brain, deltaMs)

		if !sameUnit(before, *u) {
			res.Changed = true
		}
	}
	return res
}

func (e *AIEngine) decide(u *domain.Unit, brain *domain.AIData, players []domain.Unit, now int64) (StateChange, bool) {
	s := Assess(u, brain, players)
	brain.LastDecision = now
	if idx := s.NearestIndex(); idx >= 0 {
		p := players[idx].Position
		brain.LastKnownEnemyPosition = &p
	}

	row, ok := e.table.Decide(brain.State, s)
	if !ok {
		return StateChange{}, false
	}

	switch row.Target {
	case TargetNearest:
		if idx := s.NearestIndex(); idx >= 0 {
			brain.TargetID = players[idx].ID
		} else {
			brain.TargetID = domain.NoEntity
		}
	case TargetClear:
		brain.TargetID = domain.NoEntity
	}
	brain.AdjustAlert(row.AlertDelta)

	if row.To == brain.State {
		return StateChange{}, false
	}

	change := StateChange{UnitID: u.ID, Rule: row.Name, From: brain.State, To: row.To}
	brain.State = row.To

	logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"unit":      u.ID.String(),
		"rule":      row.Name,
		"from":      change.From.String(),
		"to":        change.To.String(),
		"alert":     brain.AlertLevel,
	}).Debug("AI state changed")
	return change, true
}

func (e *AIEngine) execute(u *domain.Unit, brain *domain.AIData, players []domain.Unit, deltaMs float64) {
	switch brain.State {
	case domain.AIStateIdle:
		u.Stop()
		u.IsAttacking = false

	case domain.AIStatePatrolling:
		wp, ok := brain.CurrentWaypoint()
		if !ok {
			return
		}
		if u.Position.DistanceTo(wp) <= patrolArrivalRadius {
			brain.AdvanceWaypoint()
			wp, _ = brain.CurrentWaypoint()
		}
		u.MoveTo(wp)

	case domain.AIStateAttacking:
		executeAttack(u, brain, players)

	case domain.AIStateDefending:
		idx, dist := FindNearest(u.Position, players)
		u.Stop()
		if idx >= 0 && dist <= u.Stats.Range && canOpenFire(u) {
			engage(u, &players[idx])
			return
		}
		u.IsAttacking = false

	case domain.AIStateRetreating:
		u.IsAttacking = false
		u.MoveTo(retreatPosition(u, brain, players))

	case domain.AIStateRegrouping:
		u.IsAttacking = false
		spot := domain.RestZone.Clamp(u.Position)
		if u.Position.DistanceTo(spot) > regroupHoldRadius {
			u.MoveTo(spot)
		} else {
			u.Stop()
		}
		u.Morale = math.Min(domain.MaxCondition, u.Morale+deltaMs*regroupMoraleRate)
		u.Ammunition = math.Min(domain.MaxCondition, u.Ammunition+deltaMs*regroupAmmoRate)
	}
}

func executeAttack(u *domain.Unit, brain *domain.AIData, players []domain.Unit) {
	idx := indexOf(players, brain.TargetID)
	if idx < 0 || !players[idx].IsAlive() {
		idx = FindBestTarget(u, brain.AlertLevel, players)
		if idx < 0 {
			brain.TargetID = domain.NoEntity
			u.Stop()
			u.IsAttacking = false
			return
		}
		brain.TargetID = players[idx].ID
	}

	target := &players[idx]
	dist := u.Position.DistanceTo(target.Position)
	if dist <= u.Stats.Range {
		u.Stop()
		if canOpenFire(u) {
			engage(u, target)
		} else {
			u.IsAttacking = false
		}
		return
	}

	approach := dist - u.Stats.Range*attackApproachFactor
	u.MoveTo(domain.ManeuverBounds.Clamp(u.Position.Toward(target.Position, approach)))
	u.IsAttacking = false
}

// engage выставляет намерение атаки. Урон и перезарядку решает боевая система.
func engage(u, target *domain.Unit) {
	u.FaceTowards(target.Position)
	u.IsAttacking = true
	u.TargetID = target.ID
}

func canOpenFire(u *domain.Unit) bool {
	return u.Ammunition > 0 && u.Fuel > 0 && u.IsAlive() && u.Morale > minAttackMorale
}

func retreatPosition(u *domain.Unit, brain *domain.AIData, players []domain.Unit) domain.Position {
	from, ok := domain.Position{}, false
	if idx, _ := FindNearest(u.Position, players); idx >= 0 {
		from, ok = players[idx].Position, true
	} else if brain.LastKnownEnemyPosition != nil {
		from, ok = *brain.LastKnownEnemyPosition, true
	}

	if ok {
		if d := u.Position.DistanceTo(from); d > 0 {
			away := domain.Position{
				X: u.Position.X + (u.Position.X-from.X)/d*retreatDistance,
				Y: u.Position.Y + (u.Position.Y-from.Y)/d*retreatDistance,
			}
			return domain.ManeuverBounds.Clamp(away)
		}
	}

	// Тыл по умолчанию
	rear := domain.Position{X: math.Max(600, u.Position.X+100), Y: math.Max(50, u.Position.Y-50)}
	return domain.ManeuverBounds.Clamp(rear)
}

func updateStatus(u *domain.Unit, brain *domain.AIData, deltaMs float64) {
	switch {
	case brain.AlertLevel > highAlertThreshold:
		u.Morale = math.Max(0, u.Morale-deltaMs*highAlertMorale)
	case brain.AlertLevel < lowAlertThreshold:
		u.Morale = math.Min(domain.MaxCondition, u.Morale+deltaMs*lowAlertMorale)
	}
	brain.AdjustAlert(-deltaMs * alertDecayRate)
}

func indexOf(units []domain.Unit, id domain.EntityID) int {
	if id.IsZero() {
		return -1
	}
	for i := range units {
		if units[i].ID == id {
			return i
		}
	}
	return -1
}

func sameUnit(a, b domain.Unit) bool {
	if (a.TargetPosition == nil) != (b.TargetPosition == nil) {
		return false
	}
	if a.TargetPosition != nil && *a.TargetPosition != *b.TargetPosition {
		return false
	}
	a.TargetPosition, b.TargetPosition = nil, nil
	return a == b
}
