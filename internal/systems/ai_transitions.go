package systems

import (
	"fmt"

	"frontline-server/internal/domain"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// TargetPolicy - что делать с целью ИИ при переходе.
type TargetPolicy uint8

const (
	TargetKeep    TargetPolicy = iota // оставить как есть
	TargetNearest                     // ближайший противник
	TargetClear                       // сбросить
)

// Transition - строка таблицы переходов.
// When - выражение над Situation, компилируется один раз.
type Transition struct {
	Name       string
	From       domain.AIState
	When       string
	To         domain.AIState
	AlertDelta float64
	Target     TargetPolicy

	program *vm.Program
}

// DefaultTransitions - поведение вражеских юнитов.
// Порядок важен: внутри состояния срабатывает первая подходящая строка.
func DefaultTransitions() []Transition {
	return []Transition{
		{Name: "idle-engage", From: domain.AIStateIdle, When: "(UnderAttack || EnemyInRange) && CanEngage", To: domain.AIStateAttacking, AlertDelta: 40, Target: TargetNearest},
		{Name: "idle-flee", From: domain.AIStateIdle, When: "UnderAttack || EnemyInRange", To: domain.AIStateRetreating, AlertDelta: 40, Target: TargetNearest},
		{Name: "idle-alerted", From: domain.AIStateIdle, When: "EnemyDetected", To: domain.AIStatePatrolling, AlertDelta: 20},

		{Name: "patrol-engage", From: domain.AIStatePatrolling, When: "UnderAttack || (EnemyInRange && CanEngage)", To: domain.AIStateAttacking, AlertDelta: 30, Target: TargetNearest},
		{Name: "patrol-fall-back", From: domain.AIStatePatrolling, When: "ShouldRetreat", To: domain.AIStateRetreating, AlertDelta: 10, Target: TargetClear},
		{Name: "patrol-hold", From: domain.AIStatePatrolling, When: "EnemyDetected", To: domain.AIStateDefending, AlertDelta: 15},

		{Name: "attack-break-off", From: domain.AIStateAttacking, When: "ShouldRetreat || !CanEngage", To: domain.AIStateRetreating, AlertDelta: -10, Target: TargetClear},
		{Name: "attack-lost-contact", From: domain.AIStateAttacking, When: "!HasEnemy || NearestDistance > Range * 2", To: domain.AIStateDefending, AlertDelta: -5, Target: TargetClear},
		{Name: "attack-retarget", From: domain.AIStateAttacking, When: "true", To: domain.AIStateAttacking, Target: TargetNearest},

		{Name: "defend-engage", From: domain.AIStateDefending, When: "UnderAttack || (EnemyInRange && CanEngage)", To: domain.AIStateAttacking, AlertDelta: 25, Target: TargetNearest},
		{Name: "defend-fall-back", From: domain.AIStateDefending, When: "ShouldRetreat", To: domain.AIStateRetreating, AlertDelta: 10, Target: TargetClear},
		{Name: "defend-stand-down", From: domain.AIStateDefending, When: "!EnemyDetected && AlertLevel < 30", To: domain.AIStatePatrolling, AlertDelta: -10},

		{Name: "retreat-regroup", From: domain.AIStateRetreating, When: "SafePosition && HealthFraction > 0.4", To: domain.AIStateRegrouping, AlertDelta: -5},
		{Name: "retreat-counter", From: domain.AIStateRetreating, When: "EnemyInRange && !ShouldRetreat && CanEngage", To: domain.AIStateAttacking, AlertDelta: -5, Target: TargetNearest},
		{Name: "retreat-continue", From: domain.AIStateRetreating, When: "true", To: domain.AIStateRetreating, AlertDelta: -5},

		{Name: "regroup-hold", From: domain.AIStateRegrouping, When: "HealthFraction > 0.7 && Ammunition > 50 && EnemyDetected", To: domain.AIStateDefending, AlertDelta: -5},
		{Name: "regroup-patrol", From: domain.AIStateRegrouping, When: "HealthFraction > 0.7 && Ammunition > 50", To: domain.AIStatePatrolling, AlertDelta: -5},
		{Name: "regroup-engage", From: domain.AIStateRegrouping, When: "UnderAttack && CanEngage", To: domain.AIStateAttacking, AlertDelta: 20, Target: TargetNearest},
	}
}

// TransitionTable - скомпилированная таблица, сгруппированная по исходному состоянию.
type TransitionTable struct {
	byState map[domain.AIState][]Transition
}

// NewTransitionTable компилирует условия. Ошибка означает битое выражение.
func NewTransitionTable(rows []Transition) (*TransitionTable, error) {
	t := &TransitionTable{byState: make(map[domain.AIState][]Transition)}
	for _, r := range rows {
		prog, err := expr.Compile(r.When, expr.Env(Situation{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile transition %q: %w", r.Name, err)
		}
		r.program = prog
		t.byState[r.From] = append(t.byState[r.From], r)
	}
	return t, nil
}

// MustDefaultTable - таблица по умолчанию. Паникует только при ошибке в самих правилах.
func MustDefaultTable() *TransitionTable {
	t, err := NewTransitionTable(DefaultTransitions())
	if err != nil {
		panic(err)
	}
	return t
}

// Decide возвращает первую сработавшую строку для состояния.
// ok=false - ничего не сработало, состояние сохраняется.
func (t *TransitionTable) Decide(state domain.AIState, s Situation) (Transition, bool) {
	for _, r := range t.byState[state] {
		out, err := vm.Run(r.program, s)
		if err != nil {
			continue
		}
		if hit, _ := out.(bool); hit {
			return r, true
		}
	}
	return Transition{}, false
}

// Rows - число строк для состояния.
func (t *TransitionTable) Rows(state domain.AIState) int {
	return len(t.byState[state])
}
