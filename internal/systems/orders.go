package systems

import (
	"frontline-server/internal/domain"
)

// OrdersResult - итог тика для юнитов игрока.
type OrdersResult struct {
	Units   []domain.Unit
	Changed bool
}

// UpdatePlayerUnits исполняет приказы игрока и двигает юнитов.
// Приказ атаки держится до гибели цели: в дальности юнит стоит и ведет огонь,
// иначе сближается до 80% дальности. Свободные юниты отвечают огнем по
// противнику в дальности.
func UpdatePlayerUnits(players, enemies []domain.Unit, deltaMs float64) OrdersResult {
	if deltaMs < 0 {
		deltaMs = 0
	}
	res := OrdersResult{Units: append([]domain.Unit(nil), players...)}

	for i := range res.Units {
		u := &res.Units[i]
		if !u.IsAlive() {
			continue
		}
		before := *u

		switch {
		case u.AttackOrder:
			followAttackOrder(u, enemies)
		case !u.IsMoving:
			idx, dist := FindNearest(u.Position, enemies)
			if idx >= 0 && dist <= u.Stats.Range {
				engage(u, &enemies[idx])
			} else {
				u.IsAttacking = false
			}
		default:
			u.IsAttacking = false
		}

		StepTowards(u, MovementSpeed(u, 1), deltaMs)

		if !sameUnit(before, *u) {
			res.Changed = true
		}
	}
	return res
}

func followAttackOrder(u *domain.Unit, enemies []domain.Unit) {
	v := ValidateTarget(u, u.TargetID, enemies)
	if !v.Valid {
		u.AttackOrder = false
		u.IsAttacking = false
		u.TargetID = domain.NoEntity
		return
	}

	target := &enemies[v.Index]
	if v.InRange {
		u.Stop()
		engage(u, target)
		return
	}

	dist := u.Position.DistanceTo(target.Position)
	approach := dist - u.Stats.Range*attackApproachFactor
	u.MoveTo(domain.ManeuverBounds.Clamp(u.Position.Toward(target.Position, approach)))
	u.IsAttacking = false
}
