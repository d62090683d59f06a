package systems

import (
	"math"
	"strings"

	"frontline-server/internal/domain"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ResourceConfig - скорости и потолки пула. Значения в секундах, кулдаун в мс.
type ResourceConfig struct {
	MoneyRate             float64               `json:"moneyRate" mapstructure:"moneyRate"`
	FuelPerMovingUnit     float64               `json:"fuelPerMovingUnit" mapstructure:"fuelPerMovingUnit"`
	AmmoPerAttackingUnit  float64               `json:"ammoPerAttackingUnit" mapstructure:"ammoPerAttackingUnit"`
	ReinforcementCooldown float64               `json:"reinforcementCooldown" mapstructure:"reinforcementCooldown"`
	SupplyRate            float64               `json:"supplyRate" mapstructure:"supplyRate"`
	FactoryMoneyBonus     float64               `json:"factoryMoneyBonus" mapstructure:"factoryMoneyBonus"`
	DepotSupplyBonus      float64               `json:"depotSupplyBonus" mapstructure:"depotSupplyBonus"`
	Max                   domain.ResourceLimits `json:"max" mapstructure:"max"`
}

// DefaultResourceConfig - базовый баланс.
func DefaultResourceConfig() ResourceConfig {
	return ResourceConfig{
		MoneyRate:             50,
		FuelPerMovingUnit:     0.1,
		AmmoPerAttackingUnit:  0.05,
		ReinforcementCooldown: 30000,
		SupplyRate:            10,
		FactoryMoneyBonus:     25,
		DepotSupplyBonus:      5,
		Max: domain.ResourceLimits{
			Money:          5000,
			Fuel:           100,
			Ammunition:     100,
			Reinforcements: 10,
			Supply:         100,
		},
	}
}

// Доля кулдауна, после которой штаб дает подкрепление досрочно
const hqReinforcementShare = 0.7

// Difficulty - пресет сложности.
type Difficulty uint8

const (
	DifficultyMedium Difficulty = iota
	DifficultyEasy
	DifficultyHard
	DifficultyExpert
)

var difficultyNames = map[Difficulty]string{
	DifficultyEasy:   "easy",
	DifficultyMedium: "medium",
	DifficultyHard:   "hard",
	DifficultyExpert: "expert",
}

var difficultyMultipliers = map[Difficulty]float64{
	DifficultyEasy:   1.5,
	DifficultyMedium: 1.0,
	DifficultyHard:   0.7,
	DifficultyExpert: 0.5,
}

// ParseDifficulty - неизвестное имя дает medium.
func ParseDifficulty(s string) Difficulty {
	for d, name := range difficultyNames {
		if strings.EqualFold(name, s) {
			return d
		}
	}
	return DifficultyMedium
}

func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return "medium"
}

// Multiplier - множитель дохода (кулдаун делится на него).
func (d Difficulty) Multiplier() float64 {
	if m, ok := difficultyMultipliers[d]; ok {
		return m
	}
	return 1
}

// ResourceEngine - накопление и расход общего пула игрока.
type ResourceEngine struct {
	config             ResourceConfig
	reinforcementTimer float64
}

func NewResourceEngine(cfg ResourceConfig) *ResourceEngine {
	return &ResourceEngine{config: cfg}
}

// Config - текущие параметры (с учетом сложности).
func (e *ResourceEngine) Config() ResourceConfig {
	return e.config
}

// SetDifficulty применяет пресет к базовой конфигурации.
func (e *ResourceEngine) SetDifficulty(base ResourceConfig, d Difficulty) {
	m := d.Multiplier()
	cfg := base
	cfg.MoneyRate *= m
	cfg.ReinforcementCooldown /= m
	e.config = cfg

	logger.Log.WithFields(logrus.Fields{
		"component":  "resource_system",
		"difficulty": d.String(),
		"moneyRate":  cfg.MoneyRate,
		"cooldownMs": cfg.ReinforcementCooldown,
	}).Info("Difficulty applied")
}

// Update начисляет и списывает ресурсы за deltaMs. Результат всегда в [0, max].
func (e *ResourceEngine) Update(res domain.Resources, deltaMs float64, units []domain.Unit, buildings []domain.Building) domain.Resources {
	if !(deltaMs > 0) || math.IsInf(deltaMs, 1) {
		return res.Clamp(e.config.Max)
	}
	sec := deltaMs / 1000
	out := res

	out.Money += e.config.MoneyRate * sec

	moving, attacking := 0, 0
	for i := range units {
		if !units[i].IsAlive() {
			continue
		}
		if units[i].IsMoving {
			moving++
		}
		if units[i].IsAttacking {
			attacking++
		}
	}
	out.Fuel -= float64(moving) * e.config.FuelPerMovingUnit * sec
	out.Ammunition -= float64(attacking) * e.config.AmmoPerAttackingUnit * sec

	e.reinforcementTimer += deltaMs
	if e.config.ReinforcementCooldown > 0 && e.reinforcementTimer >= e.config.ReinforcementCooldown {
		out.Reinforcements++
		e.reinforcementTimer -= e.config.ReinforcementCooldown
	}

	out.Supply += e.config.SupplyRate * sec

	hqBonus := false
	for i := range buildings {
		b := &buildings[i]
		if !b.AlliedControlled() || b.IsDestroyed() {
			continue
		}
		switch b.Type {
		case domain.BuildingFactory:
			out.Money += e.config.FactoryMoneyBonus * sec
		case domain.BuildingDepot:
			out.Fuel += e.config.DepotSupplyBonus * sec
			out.Ammunition += e.config.DepotSupplyBonus * sec
		case domain.BuildingHeadquarters:
			if !hqBonus && e.reinforcementTimer >= e.config.ReinforcementCooldown*hqReinforcementShare {
				out.Reinforcements++
				e.reinforcementTimer = 0
				hqBonus = true
			}
		}
	}

	return out.Clamp(e.config.Max)
}

// NextReinforcementIn - мс до следующего подкрепления.
func (e *ResourceEngine) NextReinforcementIn() float64 {
	return math.Max(0, e.config.ReinforcementCooldown-e.reinforcementTimer)
}

// Reset обнуляет таймер подкреплений.
func (e *ResourceEngine) Reset() {
	e.reinforcementTimer = 0
}

// EmergencySupply: 2 подкрепления меняются на +30 топлива и боеприпасов.
func (e *ResourceEngine) EmergencySupply(res domain.Resources) (domain.Resources, bool) {
	if res.Reinforcements < 2 {
		return res, false
	}
	out := res
	out.Reinforcements -= 2
	out.Fuel = math.Min(e.config.Max.Fuel, out.Fuel+30)
	out.Ammunition = math.Min(e.config.Max.Ammunition, out.Ammunition+30)
	return out, true
}

// SellUnit возвращает 60% стоимости юнита.
func (e *ResourceEngine) SellUnit(res domain.Resources, u *domain.Unit) domain.Resources {
	refund := math.Floor(float64(u.Stats.Cost) * 0.6)
	res.Money = math.Min(e.config.Max.Money, res.Money+refund)
	return res
}

// ResourceLevel - качественная оценка запаса.
type ResourceLevel string

const (
	LevelCritical ResourceLevel = "critical"
	LevelLow      ResourceLevel = "low"
	LevelMedium   ResourceLevel = "medium"
	LevelHigh     ResourceLevel = "high"
)

// ResourceStatus - уровни по каждому ресурсу.
type ResourceStatus struct {
	Money          ResourceLevel `json:"money"`
	Fuel           ResourceLevel `json:"fuel"`
	Ammunition     ResourceLevel `json:"ammunition"`
	Reinforcements ResourceLevel `json:"reinforcements"`
}

func levelOf(current, max float64) ResourceLevel {
	if max <= 0 {
		return LevelCritical
	}
	ratio := current / max
	switch {
	case ratio < 0.15:
		return LevelCritical
	case ratio < 0.4:
		return LevelLow
	case ratio < 0.8:
		return LevelMedium
	}
	return LevelHigh
}

// Status оценивает пул относительно потолков.
func (e *ResourceEngine) Status(res domain.Resources) ResourceStatus {
	m := e.config.Max
	return ResourceStatus{
		Money:          levelOf(res.Money, m.Money),
		Fuel:           levelOf(res.Fuel, m.Fuel),
		Ammunition:     levelOf(res.Ammunition, m.Ammunition),
		Reinforcements: levelOf(float64(res.Reinforcements), float64(m.Reinforcements)),
	}
}

// Cost - цена действия в ресурсах.
type Cost struct {
	Money          float64
	Fuel           float64
	Ammunition     float64
	Reinforcements int
}

// CanAfford - хватает ли всего сразу.
func CanAfford(res domain.Resources, c Cost) bool {
	return res.Money >= c.Money &&
		res.Fuel >= c.Fuel &&
		res.Ammunition >= c.Ammunition &&
		res.Reinforcements >= c.Reinforcements
}

// SpendMoney - все или ничего.
func SpendMoney(res domain.Resources, amount float64) (domain.Resources, bool) {
	if amount < 0 || res.Money < amount {
		return res, false
	}
	res.Money -= amount
	return res, true
}

func SpendFuel(res domain.Resources, amount float64) (domain.Resources, bool) {
	if amount < 0 || res.Fuel < amount {
		return res, false
	}
	res.Fuel -= amount
	return res, true
}

func SpendAmmunition(res domain.Resources, amount float64) (domain.Resources, bool) {
	if amount < 0 || res.Ammunition < amount {
		return res, false
	}
	res.Ammunition -= amount
	return res, true
}

// UseReinforcement списывает одно подкрепление.
func UseReinforcement(res domain.Resources) (domain.Resources, bool) {
	if res.Reinforcements <= 0 {
		return res, false
	}
	res.Reinforcements--
	return res, true
}
