package battlefield

import (
	"math"

	"frontline-server/internal/domain"
)

// Параметры патруля
const (
	PatrolRadius = 150.0
	PatrolPoints = 4
)

// Registry создает юнитов и владеет аллокатором их ID.
type Registry struct {
	ids *domain.IDAllocator
}

func NewRegistry() *Registry {
	return &Registry{ids: domain.NewIDAllocator(domain.KindUnit)}
}

// CreateUnit создает юнита с полным здоровьем, боезапасом и топливом.
func (r *Registry) CreateUnit(t domain.UnitType, pos domain.Position, faction domain.Faction) domain.Unit {
	tpl := Template(t)

	u := domain.Unit{
		ID:         r.ids.Next(faction),
		Type:       tpl.Type,
		Faction:    faction,
		Position:   pos,
		Stats:      tpl.Stats,
		Morale:     domain.AlliedStartMorale,
		Ammunition: domain.MaxCondition,
		Fuel:       domain.MaxCondition,
	}
	if faction == domain.FactionAxis {
		u.Morale = domain.AxisStartMorale
		u.Rotation = math.Pi // смотрят на запад, на союзников
	}
	return u
}

// NewAIData создает мозги для вражеского юнита: патруль вокруг точки появления.
func (r *Registry) NewAIData(u domain.Unit) domain.AIData {
	return domain.AIData{
		UnitID:       u.ID,
		State:        domain.AIStatePatrolling,
		PatrolPoints: GeneratePatrolPoints(u.Position),
	}
}

// CreateEnemyUnit создает юнита оси вместе с его AI-записью.
func (r *Registry) CreateEnemyUnit(t domain.UnitType, pos domain.Position) (domain.Unit, domain.AIData) {
	u := r.CreateUnit(t, pos, domain.FactionAxis)
	return u, r.NewAIData(u)
}

// CreateInitialForces возвращает стартовый состав стороны для сценария.
func (r *Registry) CreateInitialForces(s Scenario, faction domain.Faction) []domain.Unit {
	roster := Roster(s, faction)
	units := make([]domain.Unit, 0, len(roster))
	for _, e := range roster {
		units = append(units, r.CreateUnit(e.Type, e.At, faction))
	}
	return units
}

// CreateReinforcements создает волну подкрепления оси.
func (r *Registry) CreateReinforcements() ([]domain.Unit, []domain.AIData) {
	wave := ReinforcementWave()
	units := make([]domain.Unit, 0, len(wave))
	brains := make([]domain.AIData, 0, len(wave))
	for _, e := range wave {
		u, ai := r.CreateEnemyUnit(e.Type, e.At)
		units = append(units, u)
		brains = append(brains, ai)
	}
	return units, brains
}

// GeneratePatrolPoints - 4 точки на окружности радиуса 150, прижатые к полю.
func GeneratePatrolPoints(center domain.Position) []domain.Position {
	points := make([]domain.Position, 0, PatrolPoints)
	for i := 0; i < PatrolPoints; i++ {
		angle := float64(i) / PatrolPoints * 2 * math.Pi
		p := domain.Position{
			X: center.X + math.Cos(angle)*PatrolRadius,
			Y: center.Y + math.Sin(angle)*PatrolRadius,
		}
		points = append(points, domain.ManeuverBounds.Clamp(p))
	}
	return points
}
