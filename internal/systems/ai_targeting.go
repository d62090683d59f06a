package systems

import (
	"math"

	"frontline-server/internal/domain"
)

// Situation - то, что юнит ИИ знает о бое в момент решения.
// Служит окружением для условий таблицы переходов.
type Situation struct {
	HasEnemy        bool
	EnemyDetected   bool
	EnemyInRange    bool
	UnderAttack     bool
	ShouldRetreat   bool
	CanEngage       bool
	SafePosition    bool
	NearestDistance float64
	DetectionRange  float64
	Range           float64

	HealthFraction float64
	Ammunition     float64
	Fuel           float64
	Morale         float64
	AlertLevel     float64

	nearest int
}

// NearestIndex - индекс ближайшего живого противника, -1 если нет.
func (s Situation) NearestIndex() int {
	return s.nearest
}

// Assess собирает ситуацию для юнита ИИ.
func Assess(u *domain.Unit, brain *domain.AIData, opponents []domain.Unit) Situation {
	s := Situation{
		nearest:         -1,
		NearestDistance: math.Inf(1),
		Range:           u.Stats.Range,
		HealthFraction:  u.HealthFraction(),
		Ammunition:      u.Ammunition,
		Fuel:            u.Fuel,
		Morale:          u.Morale,
		AlertLevel:      brain.AlertLevel,
	}

	s.nearest, s.NearestDistance = FindNearest(u.Position, opponents)
	s.HasEnemy = s.nearest >= 0
	s.DetectionRange = DetectionRange(u, brain.AlertLevel)

	if s.HasEnemy {
		s.EnemyInRange = s.NearestDistance <= u.Stats.Range
		s.EnemyDetected = s.NearestDistance <= s.DetectionRange
	} else {
		s.NearestDistance = -1
	}

	s.UnderAttack = IsUnderAttack(u, opponents)
	s.ShouldRetreat = ShouldRetreat(u, brain.AlertLevel)
	s.CanEngage = s.HasEnemy && CanEngage(u)
	s.SafePosition = !s.HasEnemy || s.NearestDistance > u.Stats.Range*2
	return s
}

// FindNearest - индекс ближайшего живого юнита и расстояние до него.
func FindNearest(from domain.Position, units []domain.Unit) (int, float64) {
	best := -1
	bestDist := math.Inf(1)
	for i := range units {
		if !units[i].IsAlive() {
			continue
		}
		d := from.DistanceTo(units[i].Position)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// DecisionInterval - пауза между решениями, мс. Чем выше тревога, тем чаще.
func DecisionInterval(alert float64) float64 {
	alert = math.Max(0, math.Min(100, alert))
	return math.Max(300, 1000*(1-alert/100*0.7))
}

// DetectionRange - дальность обнаружения с поправкой на класс и тревогу.
func DetectionRange(u *domain.Unit, alert float64) float64 {
	r := u.Stats.Range * 1.5
	switch {
	case u.Type.IsInfantry():
		r *= 0.8
	case u.Type.IsAir():
		r *= 2.0
	}
	return r * (0.7 + alert/100*0.3)
}

// IsUnderAttack - кто-то из противников атакует юнит и достает его.
func IsUnderAttack(u *domain.Unit, opponents []domain.Unit) bool {
	for i := range opponents {
		o := &opponents[i]
		if !o.IsAlive() || !o.IsAttacking || o.TargetID != u.ID {
			continue
		}
		if o.Position.DistanceTo(u.Position) <= o.Stats.Range {
			return true
		}
	}
	return false
}

// ShouldRetreat - ранен, деморализован под высокой тревогой или без ресурсов.
func ShouldRetreat(u *domain.Unit, alert float64) bool {
	lowHealth := u.HealthFraction() < 0.3
	broken := u.Morale < 25 && alert > 85
	lowSupply := u.Ammunition < 15 || u.Fuel < 20
	return lowHealth || broken || lowSupply
}

// CanEngage - годность к бою по ресурсам, здоровью и морали.
func CanEngage(u *domain.Unit) bool {
	return u.Ammunition > 10 && u.Fuel > 10 &&
		u.HealthFraction() > 0.2 && u.Morale > 20
}

// Ценность цели для ИИ
var aiTargetValue = map[domain.UnitClass]float64{
	domain.ClassArtillery: 40,
	domain.ClassArmor:     35,
	domain.ClassAntiTank:  30,
	domain.ClassInfantry:  20,
}

// HasAdvantageAgainst - известные выигрышные пары.
func HasAdvantageAgainst(attacker, target domain.UnitType) bool {
	a, t := attacker.Class(), target.Class()
	switch {
	case a == domain.ClassAircraft:
		return true
	case a == domain.ClassArmor && t == domain.ClassInfantry:
		return true
	case a == domain.ClassInfantry && t == domain.ClassArtillery:
		return true
	}
	return false
}

// TargetScore - оценка кандидата для ИИ. Вне дальности обнаружения 0.
func TargetScore(u, candidate *domain.Unit, detection float64) float64 {
	dist := u.Position.DistanceTo(candidate.Position)
	if detection <= 0 || dist > detection {
		return 0
	}
	score := math.Max(0, (detection-dist)/detection*40)
	score += (1 - candidate.HealthFraction()) * 30
	score += aiTargetValue[candidate.Type.Class()]
	if HasAdvantageAgainst(u.Type, candidate.Type) {
		score += 25
	}
	return score
}

// FindBestTarget выбирает цель для ИИ среди живых противников в зоне
// обнаружения. Возвращает индекс или -1.
func FindBestTarget(u *domain.Unit, alert float64, opponents []domain.Unit) int {
	detection := DetectionRange(u, alert)
	best := -1
	bestScore := 0.0
	for i := range opponents {
		c := &opponents[i]
		if !c.IsAlive() {
			continue
		}
		score := TargetScore(u, c, detection)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
