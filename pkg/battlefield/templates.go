package battlefield

import "frontline-server/internal/domain"

// UnitTemplate - строка таблицы характеристик с текстами для UI.
type UnitTemplate struct {
	Type        domain.UnitType
	Name        string
	Description string
	Stats       domain.UnitStats
}

// Единственная авторитетная таблица характеристик. Наружу отдаются только копии.
var unitTemplates = map[domain.UnitType]UnitTemplate{
	// --- СОЮЗНИКИ ---
	domain.UnitInfantry: {
		Name:        "Infantry Squad",
		Description: "Versatile riflemen. Cheap and quick, effective against exposed crews.",
		Stats:       stats(80, 5, 25, 120, 60, 100, 0.75),
	},
	domain.UnitTankSherman: {
		Name:        "M4 Sherman",
		Description: "Reliable medium tank with balanced armor and firepower.",
		Stats:       stats(200, 40, 65, 180, 45, 300, 0.85),
	},
	domain.UnitTankT34: {
		Name:        "T-34 Medium Tank",
		Description: "Sloped armor and a fast chassis.",
		Stats:       stats(180, 35, 60, 175, 50, 280, 0.80),
	},
	domain.UnitArtillery: {
		Name:        "Field Artillery",
		Description: "Long range indirect fire. Fragile up close.",
		Stats:       stats(60, 10, 120, 300, 25, 250, 0.70),
	},
	domain.UnitAntiTank: {
		Name:        "Anti-Tank Gun",
		Description: "Specialised against armor.",
		Stats:       stats(70, 15, 85, 200, 40, 200, 0.90),
	},
	domain.UnitEngineer: {
		Name:        "Combat Engineers",
		Description: "Support troops. Repair, resupply and fortify.",
		Stats:       stats(60, 8, 15, 80, 55, 150, 0.65),
	},

	// --- ОСЬ ---
	domain.UnitPanzerIV: {
		Name:        "Panzer IV",
		Description: "Main German battle tank. Heavy armor, accurate gun.",
		Stats:       stats(220, 45, 70, 190, 42, 350, 0.88),
	},
	domain.UnitGermanInfantry: {
		Name:        "Wehrmacht Infantry",
		Description: "Well drilled infantry with good small-arms accuracy.",
		Stats:       stats(75, 7, 28, 125, 65, 120, 0.82),
	},
	domain.UnitStuka: {
		Name:        "Ju 87 Stuka",
		Description: "Dive bomber. Devastating strikes, thin skin.",
		Stats:       stats(40, 2, 150, 250, 120, 400, 0.75),
	},
}

// DefaultUnitType - подставляется для неизвестных типов.
const DefaultUnitType = domain.UnitInfantry

func stats(health, armor, damage int, reach, speed float64, cost int, accuracy float64) domain.UnitStats {
	return domain.UnitStats{
		Health:    health,
		MaxHealth: health,
		Armor:     armor,
		Damage:    damage,
		Range:     reach,
		Speed:     speed,
		Cost:      cost,
		Accuracy:  accuracy,
	}
}

// Template возвращает шаблон типа. Для неизвестного типа - шаблон пехоты.
func Template(t domain.UnitType) UnitTemplate {
	tpl, ok := unitTemplates[t]
	if !ok {
		tpl = unitTemplates[DefaultUnitType]
		t = DefaultUnitType
	}
	tpl.Type = t
	return tpl
}

// StatsFor возвращает независимую копию базовых характеристик.
func StatsFor(t domain.UnitType) domain.UnitStats {
	return Template(t).Stats
}

// CostOf - цена производства.
func CostOf(t domain.UnitType) int {
	return StatsFor(t).Cost
}

// DisplayName - имя для UI.
func DisplayName(t domain.UnitType) string {
	return Template(t).Name
}

// Description - описание для UI.
func Description(t domain.UnitType) string {
	return Template(t).Description
}

// Producible - что союзники могут строить.
var Producible = []domain.UnitType{
	domain.UnitInfantry,
	domain.UnitTankSherman,
	domain.UnitTankT34,
	domain.UnitArtillery,
	domain.UnitAntiTank,
	domain.UnitEngineer,
}

// --- ЗДАНИЯ ---

var buildingMaxHealth = map[domain.BuildingType]int{
	domain.BuildingHeadquarters: 500,
	domain.BuildingFactory:      400,
	domain.BuildingDepot:        200,
	domain.BuildingBunker:       600,
	domain.BuildingObjective:    300,
}

// DefaultBuildingHealth - для неизвестного типа здания.
const DefaultBuildingHealth = 250

// BuildingMaxHealth - прочность здания по типу.
func BuildingMaxHealth(t domain.BuildingType) int {
	if hp, ok := buildingMaxHealth[t]; ok {
		return hp
	}
	return DefaultBuildingHealth
}

var buildingDescriptions = map[domain.BuildingType]string{
	domain.BuildingHeadquarters: "Command post. Speeds up reinforcements while held.",
	domain.BuildingFactory:      "Production facility. Generates extra funds.",
	domain.BuildingDepot:        "Supply depot. Provides fuel and ammunition.",
	domain.BuildingBunker:       "Fortified position.",
	domain.BuildingObjective:    "Strategic point. Capture to complete objectives.",
}

// BuildingDescription - описание здания для UI.
func BuildingDescription(t domain.BuildingType) string {
	if d, ok := buildingDescriptions[t]; ok {
		return d
	}
	return "Structure."
}
