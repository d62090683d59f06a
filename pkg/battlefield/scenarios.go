package battlefield

import (
	"strings"

	"frontline-server/internal/domain"
)

// Scenario - идентификатор миссии.
type Scenario int

const (
	ScenarioOverlord   Scenario = 0
	ScenarioStalingrad Scenario = 1
	ScenarioBarbarossa Scenario = 2
	// ScenarioSkirmish - запасной вариант для неизвестных id.
	ScenarioSkirmish Scenario = -1
)

var scenarioNames = map[Scenario]string{
	ScenarioOverlord:   "Operation Overlord",
	ScenarioStalingrad: "Battle of Stalingrad",
	ScenarioBarbarossa: "Operation Barbarossa",
	ScenarioSkirmish:   "Skirmish",
}

var scenarioKeys = map[string]Scenario{
	"overlord":   ScenarioOverlord,
	"normandy":   ScenarioOverlord,
	"stalingrad": ScenarioStalingrad,
	"barbarossa": ScenarioBarbarossa,
	"skirmish":   ScenarioSkirmish,
}

// ParseScenario принимает ключ ("stalingrad") или номер ("1").
// Неизвестное значение дает ScenarioSkirmish.
func ParseScenario(s string) Scenario {
	key := strings.ToLower(strings.TrimSpace(s))
	if sc, ok := scenarioKeys[key]; ok {
		return sc
	}
	switch key {
	case "0":
		return ScenarioOverlord
	case "1":
		return ScenarioStalingrad
	case "2":
		return ScenarioBarbarossa
	}
	return ScenarioSkirmish
}

func (s Scenario) String() string {
	if name, ok := scenarioNames[s]; ok {
		return name
	}
	return scenarioNames[ScenarioSkirmish]
}

// Known - есть ли для сценария авторские данные.
func (s Scenario) Known() bool {
	_, ok := alliedRosters[s]
	return ok
}

// RosterEntry - юнит стартового состава.
type RosterEntry struct {
	Type domain.UnitType
	At   domain.Position
}

func at(t domain.UnitType, x, y float64) RosterEntry {
	return RosterEntry{Type: t, At: domain.Position{X: x, Y: y}}
}

var alliedRosters = map[Scenario][]RosterEntry{
	ScenarioOverlord: {
		at(domain.UnitInfantry, 150, 700),
		at(domain.UnitInfantry, 200, 720),
		at(domain.UnitInfantry, 250, 700),
		at(domain.UnitTankSherman, 120, 650),
		at(domain.UnitTankSherman, 180, 630),
		at(domain.UnitEngineer, 300, 680),
		at(domain.UnitAntiTank, 350, 660),
	},
	ScenarioStalingrad: {
		at(domain.UnitInfantry, 100, 600),
		at(domain.UnitInfantry, 150, 620),
		at(domain.UnitInfantry, 200, 600),
		at(domain.UnitTankT34, 80, 550),
		at(domain.UnitTankT34, 160, 570),
		at(domain.UnitArtillery, 50, 700),
		at(domain.UnitAntiTank, 250, 650),
		at(domain.UnitEngineer, 300, 680),
	},
	ScenarioBarbarossa: {
		at(domain.UnitInfantry, 120, 650),
		at(domain.UnitInfantry, 170, 670),
		at(domain.UnitTankT34, 100, 600),
		at(domain.UnitTankT34, 200, 580),
		at(domain.UnitArtillery, 60, 720),
		at(domain.UnitArtillery, 140, 740),
		at(domain.UnitAntiTank, 280, 650),
	},
}

var defaultAlliedRoster = []RosterEntry{
	at(domain.UnitInfantry, 150, 700),
	at(domain.UnitTankSherman, 120, 650),
	at(domain.UnitArtillery, 80, 720),
}

var axisRosters = map[Scenario][]RosterEntry{
	ScenarioOverlord: {
		at(domain.UnitGermanInfantry, 800, 200),
		at(domain.UnitGermanInfantry, 900, 180),
		at(domain.UnitGermanInfantry, 1000, 220),
		at(domain.UnitGermanInfantry, 850, 160),
		at(domain.UnitPanzerIV, 950, 120),
		at(domain.UnitPanzerIV, 1050, 140),
		at(domain.UnitAntiTank, 750, 250),
		at(domain.UnitAntiTank, 1100, 200),
		at(domain.UnitStuka, 600, 50),
	},
	ScenarioStalingrad: {
		at(domain.UnitGermanInfantry, 1000, 300),
		at(domain.UnitGermanInfantry, 1050, 280),
		at(domain.UnitGermanInfantry, 1100, 320),
		at(domain.UnitGermanInfantry, 950, 260),
		at(domain.UnitGermanInfantry, 1020, 340),
		at(domain.UnitPanzerIV, 900, 200),
		at(domain.UnitPanzerIV, 1000, 180),
		at(domain.UnitPanzerIV, 1100, 220),
		at(domain.UnitAntiTank, 1150, 300),
		at(domain.UnitStuka, 800, 100),
		at(domain.UnitStuka, 1200, 80),
	},
	ScenarioBarbarossa: {
		at(domain.UnitPanzerIV, 900, 150),
		at(domain.UnitPanzerIV, 1000, 120),
		at(domain.UnitPanzerIV, 1100, 180),
		at(domain.UnitPanzerIV, 950, 200),
		at(domain.UnitGermanInfantry, 850, 250),
		at(domain.UnitGermanInfantry, 950, 280),
		at(domain.UnitGermanInfantry, 1050, 260),
		at(domain.UnitGermanInfantry, 1150, 290),
		at(domain.UnitAntiTank, 800, 300),
		at(domain.UnitStuka, 700, 50),
		at(domain.UnitStuka, 1200, 60),
	},
}

var defaultAxisRoster = []RosterEntry{
	at(domain.UnitGermanInfantry, 900, 200),
	at(domain.UnitPanzerIV, 950, 150),
	at(domain.UnitAntiTank, 1000, 250),
}

// reinforcementWave - подкрепление оси, которое выходит из-за правого края.
var reinforcementWave = []RosterEntry{
	at(domain.UnitGermanInfantry, 1120, 150),
	at(domain.UnitGermanInfantry, 1150, 220),
	at(domain.UnitPanzerIV, 1100, 90),
}

// Roster возвращает копию стартового состава стороны.
func Roster(s Scenario, faction domain.Faction) []RosterEntry {
	var src []RosterEntry
	switch faction {
	case domain.FactionAllied:
		r, ok := alliedRosters[s]
		if !ok {
			r = defaultAlliedRoster
		}
		src = r
	case domain.FactionAxis:
		r, ok := axisRosters[s]
		if !ok {
			r = defaultAxisRoster
		}
		src = r
	}
	return append([]RosterEntry(nil), src...)
}

// ReinforcementWave - состав волны подкрепления оси.
func ReinforcementWave() []RosterEntry {
	return append([]RosterEntry(nil), reinforcementWave...)
}

// --- ЗДАНИЯ ---

// BuildingSpec - здание в данных сценария.
type BuildingSpec struct {
	Type          domain.BuildingType
	Name          string
	At            domain.Position
	Width, Height float64
	Faction       domain.Faction
	Objective     bool
}

func building(t domain.BuildingType, name string, x, y, w, h float64, f domain.Faction, objective bool) BuildingSpec {
	return BuildingSpec{Type: t, Name: name, At: domain.Position{X: x, Y: y}, Width: w, Height: h, Faction: f, Objective: objective}
}

const (
	allied = domain.FactionAllied
	axis   = domain.FactionAxis
)

var scenarioBuildings = map[Scenario][]BuildingSpec{
	ScenarioOverlord: {
		building(domain.BuildingObjective, "Radar Station", 700, 150, 60, 40, axis, true),
		building(domain.BuildingBunker, "Bunker WN-61", 800, 200, 80, 50, axis, true),
		building(domain.BuildingBunker, "Bunker WN-62", 900, 180, 80, 50, axis, true),
		building(domain.BuildingObjective, "Artillery Battery", 1000, 250, 50, 30, axis, true),
		building(domain.BuildingHeadquarters, "Allied HQ", 100, 750, 100, 60, allied, false),
	},
	ScenarioStalingrad: {
		building(domain.BuildingFactory, "Tractor Factory", 300, 400, 120, 80, allied, false),
		building(domain.BuildingObjective, "Train Station", 800, 350, 100, 70, axis, true),
		building(domain.BuildingDepot, "Supply Depot", 150, 600, 60, 40, allied, false),
		building(domain.BuildingBunker, "German Bunker", 600, 300, 70, 45, axis, false),
		building(domain.BuildingHeadquarters, "Soviet HQ", 50, 700, 90, 50, allied, false),
	},
	ScenarioBarbarossa: {
		building(domain.BuildingDepot, "German Depot", 650, 300, 80, 50, axis, true),
		building(domain.BuildingHeadquarters, "Soviet Command", 200, 500, 100, 60, allied, false),
		building(domain.BuildingBunker, "German Bunker", 500, 200, 70, 45, axis, false),
		building(domain.BuildingFactory, "German Factory", 900, 150, 90, 60, axis, false),
		building(domain.BuildingObjective, "Strategic Point", 750, 400, 60, 40, axis, true),
	},
}

var defaultBuildings = []BuildingSpec{
	building(domain.BuildingObjective, "Strategic Point", 800, 200, 60, 40, axis, true),
	building(domain.BuildingHeadquarters, "Allied HQ", 150, 650, 80, 50, allied, false),
}

// Buildings возвращает копию списка зданий сценария.
func Buildings(s Scenario) []BuildingSpec {
	src, ok := scenarioBuildings[s]
	if !ok {
		src = defaultBuildings
	}
	return append([]BuildingSpec(nil), src...)
}

// BuildBuildings создает здания сценария. Союзные стартуют захваченными (100),
// здания оси - на нуле шкалы.
func BuildBuildings(s Scenario, ids *domain.IDAllocator) []domain.Building {
	specs := Buildings(s)
	out := make([]domain.Building, 0, len(specs))
	for _, spec := range specs {
		hp := BuildingMaxHealth(spec.Type)
		b := domain.Building{
			ID:          ids.Next(spec.Faction),
			Type:        spec.Type,
			Name:        spec.Name,
			Position:    spec.At,
			Width:       spec.Width,
			Height:      spec.Height,
			Health:      hp,
			MaxHealth:   hp,
			Faction:     spec.Faction,
			IsObjective: spec.Objective,
		}
		if spec.Faction == domain.FactionAllied {
			b.IsControlled = true
			b.ControlProgress = domain.ControlProgressMax
		}
		out = append(out, b)
	}
	return out
}

// --- ЗАДАЧИ ---

const (
	minute = int64(60_000)
)

var destroyReinforcements = domain.ObjectiveSpec{
	Kind:           domain.ObjectiveDestroy,
	Description:    "Destroy German Reinforcements",
	Required:       3,
	TimeLimit:      5 * minute,
	Reinforcements: true,
}

var scenarioObjectives = map[Scenario][]domain.ObjectiveSpec{
	ScenarioOverlord: {
		{Kind: domain.ObjectiveCapture, Description: "Secure Radar Station", Required: 1, Buildings: []string{"Radar Station"}},
		{
			Kind:        domain.ObjectiveCapture,
			Description: "Control Atlantic Wall Bunkers",
			Required:    2,
			Buildings:   []string{"Bunker WN-61", "Bunker WN-62"},
			Unlocks:     []domain.ObjectiveSpec{destroyReinforcements},
		},
		{Kind: domain.ObjectiveDestroy, Description: "Eliminate German Artillery", Required: 3},
		{Kind: domain.ObjectiveSurvive, Description: "Hold positions for 10 minutes", Required: 1, TimeLimit: 10 * minute},
	},
	ScenarioStalingrad: {
		{Kind: domain.ObjectiveDefend, Description: "Hold Stalingrad Factory", Required: 1},
		{Kind: domain.ObjectiveDestroy, Description: "Destroy German Panzers", Required: 5},
		{Kind: domain.ObjectiveCapture, Description: "Retake Train Station", Required: 1, Buildings: []string{"Train Station"}},
		{Kind: domain.ObjectiveSurvive, Description: "Survive for 15 minutes", Required: 1, TimeLimit: 15 * minute},
	},
	ScenarioBarbarossa: {
		{Kind: domain.ObjectiveDestroy, Description: "Stop German Advance", Required: 8},
		{Kind: domain.ObjectiveCapture, Description: "Secure Supply Depot", Required: 1, Buildings: []string{"German Depot"}},
		{Kind: domain.ObjectiveDefend, Description: "Protect Command Center", Required: 1},
		{Kind: domain.ObjectiveSurvive, Description: "Survive for 20 minutes", Required: 1, TimeLimit: 20 * minute},
	},
}

var defaultObjectives = []domain.ObjectiveSpec{
	{Kind: domain.ObjectiveDestroy, Description: "Eliminate all enemies", Required: 5},
	{Kind: domain.ObjectiveSurvive, Description: "Survive for 5 minutes", Required: 1, TimeLimit: 5 * minute},
}

// Objectives возвращает копию набора задач сценария.
func Objectives(s Scenario) []domain.ObjectiveSpec {
	src, ok := scenarioObjectives[s]
	if !ok {
		src = defaultObjectives
	}
	return append([]domain.ObjectiveSpec(nil), src...)
}
