package domain

import "math"

// IsAlive - юнит с health <= 0 мертв и не участвует в бою.
func (u *Unit) IsAlive() bool {
	return u.Stats.Health > 0
}

// HealthFraction - доля здоровья 0..1.
func (u *Unit) HealthFraction() float64 {
	if u.Stats.MaxHealth <= 0 {
		return 0
	}
	return float64(u.Stats.Health) / float64(u.Stats.MaxHealth)
}

// TakeDamage наносит урон и снимает мораль. Возвращает true, если юнит погиб именно сейчас.
func (u *Unit) TakeDamage(amount int) bool {
	if !u.IsAlive() {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	u.Stats.Health -= amount
	if u.Stats.Health < 0 {
		u.Stats.Health = 0
	}

	loss := math.Min(MaxMoraleLossPerHit, float64(amount)/MoraleLossDivisor)
	u.Morale = math.Max(0, u.Morale-loss)

	if u.Stats.Health == 0 {
		u.IsMoving = false
		u.IsAttacking = false
		u.AttackOrder = false
		u.TargetPosition = nil
		return true
	}
	return false
}

// Heal лечит юнита, не выше maxHealth.
func (u *Unit) Heal(amount int) {
	if !u.IsAlive() || amount <= 0 {
		return // Не лечим трупы
	}
	u.Stats.Health += amount
	if u.Stats.Health > u.Stats.MaxHealth {
		u.Stats.Health = u.Stats.MaxHealth
	}
}

// Stop сбрасывает намерение движения.
func (u *Unit) Stop() {
	u.IsMoving = false
	u.TargetPosition = nil
}

// MoveTo выставляет намерение движения.
func (u *Unit) MoveTo(p Position) {
	u.TargetPosition = &p
	u.IsMoving = true
}

// FaceTowards поворачивает юнита на точку.
func (u *Unit) FaceTowards(p Position) {
	u.Rotation = u.Position.AngleTo(p)
}

// ClampCondition держит мораль, боезапас и топливо в 0..100.
func (u *Unit) ClampCondition() {
	u.Morale = clamp(u.Morale, 0, MaxCondition)
	u.Ammunition = clamp(u.Ammunition, 0, MaxCondition)
	u.Fuel = clamp(u.Fuel, 0, MaxCondition)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
