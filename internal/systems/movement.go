package systems

import (
	"math"

	"frontline-server/internal/domain"
)

// Расход топлива на единицу пройденного пути
const FuelPerDistance = 0.02

// MovementResult - результат шага движения
type MovementResult struct {
	Moved    float64 // пройденная дистанция
	HasMoved bool
	Arrived  bool // цель достигнута, движение остановлено
}

// MovementSpeed - скорость с учетом состояния юнита.
// stateFactor задает поправку режима (отход, атака), для игрока 1.
func MovementSpeed(u *domain.Unit, stateFactor float64) float64 {
	if !u.IsAlive() {
		return 0
	}
	morale := math.Max(0.5, u.Morale/domain.MaxCondition)
	speed := u.Stats.Speed * u.HealthFraction() * (u.Fuel / domain.MaxCondition) * morale
	return math.Max(0, speed*stateFactor)
}

// StateSpeedFactor - поправка скорости по состоянию ИИ.
func StateSpeedFactor(state domain.AIState) float64 {
	switch state {
	case domain.AIStateRetreating:
		return 1.2
	case domain.AIStateAttacking:
		return 0.9
	}
	return 1
}

// StepTowards двигает юнит к TargetPosition. Меняет юнит на месте.
// В радиусе MoveArrivalThreshold юнит встает точно в точку и останавливается.
func StepTowards(u *domain.Unit, speed, deltaMs float64) MovementResult {
	var res MovementResult
	if !u.IsMoving || u.TargetPosition == nil || !u.IsAlive() {
		return res
	}

	target := *u.TargetPosition
	dist := u.Position.DistanceTo(target)

	if dist <= domain.MoveArrivalThreshold {
		u.Position = target
		u.TargetPosition = nil
		u.IsMoving = false
		res.Moved = dist
		res.HasMoved = dist > 0
		res.Arrived = true
		return res
	}

	step := speed * deltaMs / 1000
	if step <= 0 {
		return res
	}
	if step > dist {
		step = dist
	}

	u.Rotation = u.Position.AngleTo(target)
	u.Position = u.Position.Toward(target, step)
	u.Fuel = math.Max(0, u.Fuel-step*FuelPerDistance)

	res.Moved = step
	res.HasMoved = true
	return res
}
