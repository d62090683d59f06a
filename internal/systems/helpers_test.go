package systems

import (
	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"
)

// scriptedRandom отдает заранее заданные значения, потом 0.5.
type scriptedRandom struct {
	values []float64
	calls  int
}

func (r *scriptedRandom) Float64() float64 {
	r.calls++
	if len(r.values) == 0 {
		return 0.5
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

func script(values ...float64) *scriptedRandom {
	return &scriptedRandom{values: values}
}

func newUnit(reg *battlefield.Registry, t domain.UnitType, f domain.Faction, x, y float64) domain.Unit {
	return reg.CreateUnit(t, domain.Position{X: x, Y: y}, f)
}
