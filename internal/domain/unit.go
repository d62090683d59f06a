package domain

import (
	"fmt"
	"strings"
)

// UnitType - закрытый перечень типов юнитов обеих сторон.
type UnitType uint8

const (
	UnitUnknown UnitType = iota
	// Союзники
	UnitInfantry
	UnitTankSherman
	UnitTankT34
	UnitArtillery
	UnitAntiTank
	UnitEngineer
	// Ось
	UnitPanzerIV
	UnitGermanInfantry
	UnitStuka
)

var unitTypeNames = map[UnitType]string{
	UnitInfantry:       "infantry",
	UnitTankSherman:    "tank_sherman",
	UnitTankT34:        "tank_t34",
	UnitArtillery:      "artillery",
	UnitAntiTank:       "anti_tank",
	UnitEngineer:       "engineer",
	UnitPanzerIV:       "panzer_iv",
	UnitGermanInfantry: "german_infantry",
	UnitStuka:          "stuka",
}

var unitTypeByName = func() map[string]UnitType {
	m := make(map[string]UnitType, len(unitTypeNames))
	for t, name := range unitTypeNames {
		m[name] = t
	}
	return m
}()

// AllUnitTypes - в порядке объявления, для таблиц и UI.
var AllUnitTypes = []UnitType{
	UnitInfantry, UnitTankSherman, UnitTankT34, UnitArtillery, UnitAntiTank,
	UnitEngineer, UnitPanzerIV, UnitGermanInfantry, UnitStuka,
}

// ParseUnitType конвертирует строку в UnitType. Неизвестное имя -> UnitUnknown.
func ParseUnitType(s string) UnitType {
	if t, ok := unitTypeByName[strings.ToLower(s)]; ok {
		return t
	}
	return UnitUnknown
}

func (t UnitType) String() string {
	if s, ok := unitTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

func (t UnitType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *UnitType) UnmarshalText(text []byte) error {
	parsed := ParseUnitType(string(text))
	if parsed == UnitUnknown {
		return fmt.Errorf("unknown unit type %q", text)
	}
	*t = parsed
	return nil
}

// UnitClass - боевой класс. Все матчапы и ценности целей считаются по классу.
type UnitClass uint8

const (
	ClassSupport UnitClass = iota // саперы и все, что не попало в другие классы
	ClassInfantry
	ClassArmor
	ClassArtillery
	ClassAntiTank
	ClassAircraft
)

var unitClassNames = map[UnitClass]string{
	ClassSupport:   "support",
	ClassInfantry:  "infantry",
	ClassArmor:     "armor",
	ClassArtillery: "artillery",
	ClassAntiTank:  "anti_tank",
	ClassAircraft:  "aircraft",
}

func (c UnitClass) String() string {
	if s, ok := unitClassNames[c]; ok {
		return s
	}
	return "unknown"
}

// Class возвращает боевой класс типа.
func (t UnitType) Class() UnitClass {
	switch t {
	case UnitInfantry, UnitGermanInfantry:
		return ClassInfantry
	case UnitTankSherman, UnitTankT34, UnitPanzerIV:
		return ClassArmor
	case UnitArtillery:
		return ClassArtillery
	case UnitAntiTank:
		return ClassAntiTank
	case UnitStuka:
		return ClassAircraft
	default:
		return ClassSupport
	}
}

func (t UnitType) IsInfantry() bool {
	c := t.Class()
	return c == ClassInfantry || t == UnitEngineer
}

func (t UnitType) IsVehicle() bool {
	c := t.Class()
	return c == ClassArmor || c == ClassArtillery || c == ClassAntiTank
}

func (t UnitType) IsAir() bool {
	return t.Class() == ClassAircraft
}

// UnitStats - базовые характеристики. Копируется по значению.
type UnitStats struct {
	Health    int     `json:"health"`
	MaxHealth int     `json:"maxHealth"`
	Armor     int     `json:"armor"`
	Damage    int     `json:"damage"`
	Range     float64 `json:"range"`
	Speed     float64 `json:"speed"`
	Cost      int     `json:"cost"`
	Accuracy  float64 `json:"accuracy"`
}

// Unit - боевая единица любой стороны.
type Unit struct {
	ID       EntityID  `json:"id"`
	Type     UnitType  `json:"type"`
	Faction  Faction   `json:"faction"`
	Position Position  `json:"position"`
	Rotation float64   `json:"rotation"`
	Stats    UnitStats `json:"stats"`

	// Намерение движения
	TargetPosition *Position `json:"targetPosition,omitempty"`
	IsMoving       bool      `json:"isMoving"`

	// Намерение атаки
	TargetID    EntityID `json:"targetId,omitempty"`
	IsAttacking bool     `json:"isAttacking"`
	LastAttack  int64    `json:"lastAttack"`
	HasFired    bool     `json:"hasFired"`
	// Приказ игрока держать цель TargetID до ее гибели
	AttackOrder bool `json:"attackOrder,omitempty"`

	// Прогрессия
	ExperienceLevel int `json:"experienceLevel"`
	KillCount       int `json:"killCount"`

	// Состояние, 0..100
	Morale     float64 `json:"morale"`
	Ammunition float64 `json:"ammunition"`
	Fuel       float64 `json:"fuel"`
}
