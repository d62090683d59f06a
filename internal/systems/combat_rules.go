package systems

import (
	"math"

	"frontline-server/internal/domain"
)

// Перезарядка по классу, мс
var attackCooldowns = map[domain.UnitClass]int64{
	domain.ClassArmor:     2500,
	domain.ClassArtillery: 4000,
	domain.ClassAntiTank:  3000,
	domain.ClassInfantry:  1000,
	domain.ClassAircraft:  8000,
}

// DefaultAttackCooldown - для классов без своей записи (саперы).
const DefaultAttackCooldown int64 = 1500

// AttackCooldown возвращает перезарядку типа в мс.
func AttackCooldown(t domain.UnitType) int64 {
	if cd, ok := attackCooldowns[t.Class()]; ok {
		return cd
	}
	return DefaultAttackCooldown
}

// Ценность цели для боевой системы
var combatTargetValue = map[domain.UnitClass]float64{
	domain.ClassArtillery: 30,
	domain.ClassArmor:     25,
	domain.ClassAntiTank:  20,
	domain.ClassInfantry:  15,
}

// CanAttack - проверка готовности юнита к выстрелу.
func CanAttack(u *domain.Unit, now int64) bool {
	if u.Ammunition <= 0 || u.Fuel <= 0 || u.Stats.Health <= 0 || u.Morale <= 10 {
		return false
	}
	if !u.HasFired {
		return true
	}
	return now-u.LastAttack >= AttackCooldown(u.Type)
}

// CombatTargetScore - приоритет цели для стрельбы. Цель вне дальности дает 0.
func CombatTargetScore(attacker, candidate *domain.Unit) float64 {
	dist := attacker.Position.DistanceTo(candidate.Position)
	reach := attacker.Stats.Range
	if reach <= 0 || dist > reach {
		return 0
	}

	score := (reach - dist) / reach * 30
	score += (1 - candidate.HealthFraction()) * 20
	score += combatTargetValue[candidate.Type.Class()]

	if candidate.IsAttacking && candidate.TargetID == attacker.ID {
		score += 40
	}
	return score
}

// SelectCombatTarget выбирает лучшую живую цель в пределах дальности.
// Возвращает индекс в opponents или -1.
func SelectCombatTarget(attacker *domain.Unit, opponents []domain.Unit) int {
	best := -1
	bestScore := 0.0
	for i := range opponents {
		c := &opponents[i]
		if !c.IsAlive() {
			continue
		}
		if attacker.Position.DistanceTo(c.Position) > attacker.Stats.Range {
			continue
		}
		score := CombatTargetScore(attacker, c)
		if best == -1 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// ComputeAccuracy - итоговая точность выстрела, всегда в [0.10, 0.95].
func ComputeAccuracy(attacker, target *domain.Unit, distance float64) float64 {
	acc := attacker.Stats.Accuracy

	if attacker.Stats.Range > 0 {
		frac := math.Min(1, math.Max(0, distance/attacker.Stats.Range))
		acc *= 1 - frac*0.3
	}
	acc *= 0.5 + attacker.HealthFraction()*0.5
	acc *= 0.7 + attacker.Morale/domain.MaxCondition*0.3

	if target.IsMoving {
		acc *= 0.7
	}
	acc *= 1 + float64(attacker.ExperienceLevel)*0.05

	switch attacker.Type.Class() {
	case domain.ClassAntiTank:
		if target.Type.Class() == domain.ClassArmor {
			acc *= 1.2
		}
	case domain.ClassArtillery:
		acc *= 0.8
	}

	return ClampAccuracy(acc)
}

// ClampAccuracy прижимает точность к [MinAccuracy, MaxAccuracy].
func ClampAccuracy(acc float64) float64 {
	if math.IsNaN(acc) {
		return domain.MinAccuracy
	}
	return math.Max(domain.MinAccuracy, math.Min(domain.MaxAccuracy, acc))
}

// MatchupDamageMultiplier - множитель урона по паре классов.
func MatchupDamageMultiplier(attacker, target domain.UnitType) float64 {
	a, t := attacker.Class(), target.Class()
	switch {
	case a == domain.ClassAntiTank && t == domain.ClassArmor:
		return 1.5
	case a == domain.ClassArtillery && t == domain.ClassInfantry:
		return 1.3
	case a == domain.ClassArtillery && t == domain.ClassArmor:
		return 0.8
	case a == domain.ClassArmor && t == domain.ClassInfantry:
		return 1.2
	}
	return 1
}

// ArmorMitigation - доля урона, прошедшая через броню.
func ArmorMitigation(armor int) float64 {
	if armor <= 0 {
		return 1
	}
	return 1 - float64(armor)/float64(armor+100)
}

// ComputeDamage считает урон попадания. Два броска: разброс и крит.
func ComputeDamage(attacker, target *domain.Unit, rng domain.Random) (damage int, critical bool) {
	variance := 1 + (rng.Float64()-0.5)*0.2

	raw := float64(attacker.Stats.Damage) * variance
	raw *= ArmorMitigation(target.Stats.Armor)
	raw *= MatchupDamageMultiplier(attacker.Type, target.Type)
	raw *= 1 + 0.1*float64(attacker.ExperienceLevel)

	critChance := 0.05 + 0.02*float64(attacker.ExperienceLevel)
	if rng.Float64() < critChance {
		raw *= 2
		critical = true
	}

	damage = int(math.Floor(raw))
	if damage < 1 {
		damage = 1
	}
	return damage, critical
}

// ProjectileTypeFor - чем стреляет тип.
func ProjectileTypeFor(t domain.UnitType) domain.ProjectileType {
	switch t.Class() {
	case domain.ClassArmor, domain.ClassArtillery, domain.ClassAntiTank:
		return domain.ProjectileShell
	case domain.ClassAircraft:
		return domain.ProjectileRocket
	default:
		return domain.ProjectileBullet
	}
}

// ExplosionProfile - параметры взрыва по типу снаряда.
type ExplosionProfile struct {
	Size     domain.ExplosionSize
	Damage   int
	Duration float64
	Radius   float64
}

var explosionProfiles = map[domain.ProjectileType]ExplosionProfile{
	domain.ProjectileBullet: {Size: domain.ExplosionSmall, Damage: 10, Duration: 500, Radius: 20},
	domain.ProjectileShell:  {Size: domain.ExplosionMedium, Damage: 40, Duration: 800, Radius: 40},
	domain.ProjectileRocket: {Size: domain.ExplosionLarge, Damage: 80, Duration: 1000, Radius: 60},
}

// ExplosionFor возвращает профиль взрыва.
func ExplosionFor(t domain.ProjectileType) ExplosionProfile {
	if p, ok := explosionProfiles[t]; ok {
		return p
	}
	return explosionProfiles[domain.ProjectileBullet]
}
