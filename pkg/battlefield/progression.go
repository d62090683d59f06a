package battlefield

import (
	"math"

	"frontline-server/internal/domain"
)

// AwardKill засчитывает убийство и при переходе на новый уровень
// усиливает юнита. Возвращает true, если уровень вырос.
func AwardKill(u *domain.Unit) bool {
	u.KillCount++
	level := u.KillCount / domain.ExperiencePerLevel
	if level > domain.MaxExperienceLevel {
		level = domain.MaxExperienceLevel
	}
	if level <= u.ExperienceLevel {
		return false
	}
	u.ExperienceLevel = level
	Upgrade(u)
	return true
}

// Upgrade пересчитывает характеристики от базовых по текущему уровню опыта.
// Базу берем из таблицы, чтобы повторные апгрейды не накапливались.
func Upgrade(u *domain.Unit) {
	base := StatsFor(u.Type)
	mult := 1 + float64(u.ExperienceLevel)*0.1

	wounds := u.Stats.MaxHealth - u.Stats.Health
	u.Stats.MaxHealth = int(math.Floor(float64(base.MaxHealth) * mult))
	u.Stats.Health = u.Stats.MaxHealth - wounds
	if u.Stats.Health < 0 {
		u.Stats.Health = 0
	}
	u.Stats.Damage = int(math.Floor(float64(base.Damage) * mult))
	u.Stats.Accuracy = math.Min(domain.MaxAccuracy, base.Accuracy+float64(u.ExperienceLevel)*0.02)
}

// Repair лечит юнита. Мертвым не помогает.
func Repair(u *domain.Unit, amount int) {
	u.Heal(amount)
}

// Resupply заправляет и пополняет юнита, мораль +20.
func Resupply(u *domain.Unit) {
	if !u.IsAlive() {
		return
	}
	u.Ammunition = domain.MaxCondition
	u.Fuel = domain.MaxCondition
	u.Morale = math.Min(domain.MaxCondition, u.Morale+20)
}

// Effectiveness - боеспособность 0..1: здоровье 40%, мораль 30%, боезапас 20%, топливо 10%.
func Effectiveness(u domain.Unit) float64 {
	return u.HealthFraction()*0.4 +
		u.Morale/domain.MaxCondition*0.3 +
		u.Ammunition/domain.MaxCondition*0.2 +
		u.Fuel/domain.MaxCondition*0.1
}
