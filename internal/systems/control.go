package systems

import (
	"math"

	"frontline-server/internal/domain"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ControlResult - итог борьбы за здания.
type ControlResult struct {
	Buildings []domain.Building
	Changed   bool
	// Здания, сменившие владельца в этом тике
	Flipped []domain.Building
}

// UpdateBuildingControl двигает шкалу контроля объектовых зданий к стороне,
// у которой больше живых юнитов в радиусе захвата. Союзники ведут шкалу к 100,
// ось к 0. Равенство - шкала стоит. Разрушенные здания не оспариваются.
func UpdateBuildingControl(buildings []domain.Building, players, enemies []domain.Unit, deltaMs float64) ControlResult {
	res := ControlResult{Buildings: append([]domain.Building(nil), buildings...)}
	if deltaMs <= 0 {
		return res
	}
	sec := deltaMs / 1000

	for i := range res.Buildings {
		b := &res.Buildings[i]
		if !b.IsObjective || b.IsDestroyed() {
			continue
		}

		allied := countNear(players, b.Position, domain.CaptureRadius)
		axis := countNear(enemies, b.Position, domain.CaptureRadius)
		before := *b

		switch {
		case allied > axis:
			b.ControlProgress = math.Min(domain.ControlProgressMax, b.ControlProgress+float64(allied)*domain.AlliedCaptureRate*sec)
			if b.ControlProgress >= domain.ControlProgressMax {
				b.IsControlled = true
				b.Faction = domain.FactionAllied
			}
		case axis > allied:
			b.ControlProgress = math.Max(0, b.ControlProgress-float64(axis)*domain.AxisCaptureRate*sec)
			if b.ControlProgress <= 0 {
				b.IsControlled = false
				b.Faction = domain.FactionAxis
			}
		default:
			continue
		}

		if *b != before {
			res.Changed = true
		}
		if b.Faction != before.Faction {
			res.Flipped = append(res.Flipped, *b)
			logger.Log.WithFields(logrus.Fields{
				"component": "control_system",
				"building":  b.Name,
				"faction":   b.Faction.String(),
			}).Info("Building changed hands")
		}
	}
	return res
}

func countNear(units []domain.Unit, p domain.Position, radius float64) int {
	n := 0
	for i := range units {
		if units[i].IsAlive() && units[i].Position.DistanceTo(p) <= radius {
			n++
		}
	}
	return n
}

// DamageBuildings наносит урон взрывов зданиям противоположной стороны,
// чей контур попадает в радиус. Возвращает разрушенные в этом вызове здания.
func DamageBuildings(buildings []domain.Building, explosions []domain.Explosion) ([]domain.Building, []domain.Building) {
	out := append([]domain.Building(nil), buildings...)
	var destroyed []domain.Building
	for _, ex := range explosions {
		for i := range out {
			b := &out[i]
			if b.IsDestroyed() || b.Faction == ex.SourceFaction {
				continue
			}
			if b.DistanceTo(ex.Position) > ex.Radius {
				continue
			}
			if b.TakeDamage(ex.Damage) {
				destroyed = append(destroyed, *b)
				logger.Log.WithFields(logrus.Fields{
					"component": "combat_system",
					"building":  b.Name,
				}).Warn("Building destroyed")
			}
		}
	}
	return out, destroyed
}
