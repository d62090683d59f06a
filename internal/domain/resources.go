package domain

// Resources - общий пул стороны.
type Resources struct {
	Money          float64 `json:"money"`
	Fuel           float64 `json:"fuel"`
	Ammunition     float64 `json:"ammunition"`
	Reinforcements int     `json:"reinforcements"`
	Supply         float64 `json:"supply"`
}

// ResourceLimits - потолки пула.
type ResourceLimits struct {
	Money          float64 `json:"money" mapstructure:"money"`
	Fuel           float64 `json:"fuel" mapstructure:"fuel"`
	Ammunition     float64 `json:"ammunition" mapstructure:"ammunition"`
	Reinforcements int     `json:"reinforcements" mapstructure:"reinforcements"`
	Supply         float64 `json:"supply" mapstructure:"supply"`
}

// Clamp прижимает все значения к [0, max].
func (r Resources) Clamp(max ResourceLimits) Resources {
	r.Money = clamp(r.Money, 0, max.Money)
	r.Fuel = clamp(r.Fuel, 0, max.Fuel)
	r.Ammunition = clamp(r.Ammunition, 0, max.Ammunition)
	r.Supply = clamp(r.Supply, 0, max.Supply)
	if r.Reinforcements < 0 {
		r.Reinforcements = 0
	}
	if r.Reinforcements > max.Reinforcements {
		r.Reinforcements = max.Reinforcements
	}
	return r
}
