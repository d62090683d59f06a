package domain

import (
	"math"
	"strings"
)

// BuildingType - тип строения.
type BuildingType uint8

const (
	BuildingUnknown BuildingType = iota
	BuildingHeadquarters
	BuildingFactory
	BuildingDepot
	BuildingBunker
	BuildingObjective
)

var buildingTypeNames = map[BuildingType]string{
	BuildingHeadquarters: "headquarters",
	BuildingFactory:      "factory",
	BuildingDepot:        "depot",
	BuildingBunker:       "bunker",
	BuildingObjective:    "objective",
}

var buildingTypeByName = map[string]BuildingType{
	"headquarters": BuildingHeadquarters,
	"hq":           BuildingHeadquarters,
	"factory":      BuildingFactory,
	"depot":        BuildingDepot,
	"bunker":       BuildingBunker,
	"objective":    BuildingObjective,
}

func ParseBuildingType(s string) BuildingType {
	if t, ok := buildingTypeByName[strings.ToLower(s)]; ok {
		return t
	}
	return BuildingUnknown
}

func (t BuildingType) String() string {
	if s, ok := buildingTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

func (t BuildingType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *BuildingType) UnmarshalText(text []byte) error {
	*t = ParseBuildingType(string(text))
	return nil
}

// IsCritical - потеря такого здания означает поражение.
func (t BuildingType) IsCritical() bool {
	return t == BuildingHeadquarters || t == BuildingFactory
}

// Building - статичное строение. Position - центр, Width/Height - габариты.
type Building struct {
	ID              EntityID     `json:"id"`
	Type            BuildingType `json:"type"`
	Name            string       `json:"name"`
	Position        Position     `json:"position"`
	Width           float64      `json:"width"`
	Height          float64      `json:"height"`
	Health          int          `json:"health"`
	MaxHealth       int          `json:"maxHealth"`
	Faction         Faction      `json:"faction"`
	IsObjective     bool         `json:"isObjective"`
	IsControlled    bool         `json:"isControlled"`
	ControlProgress float64      `json:"controlProgress"`
}

func (b *Building) IsDestroyed() bool {
	return b.Health <= 0
}

// IsCriticallyDamaged - меньше четверти прочности.
func (b *Building) IsCriticallyDamaged() bool {
	if b.MaxHealth <= 0 {
		return false
	}
	return float64(b.Health)/float64(b.MaxHealth) < CriticalDamageShare
}

// TakeDamage снижает прочность. Возвращает true, если здание разрушено этим ударом.
func (b *Building) TakeDamage(amount int) bool {
	if b.IsDestroyed() || amount <= 0 {
		return false
	}
	b.Health -= amount
	if b.Health <= 0 {
		b.Health = 0
		return true
	}
	return false
}

// Repair восстанавливает прочность. Разрушенное здание не чинится.
func (b *Building) Repair(amount int) {
	if b.IsDestroyed() || amount <= 0 {
		return
	}
	b.Health = int(math.Min(float64(b.MaxHealth), float64(b.Health+amount)))
}

// AlliedControlled - здание под контролем союзников (верхняя граница шкалы).
func (b *Building) AlliedControlled() bool {
	return b.IsControlled && b.Faction == FactionAllied
}

// Footprint - прямоугольник здания.
func (b *Building) Footprint() Rect {
	return Rect{
		MinX: b.Position.X - b.Width/2,
		MinY: b.Position.Y - b.Height/2,
		MaxX: b.Position.X + b.Width/2,
		MaxY: b.Position.Y + b.Height/2,
	}
}

// DistanceTo - расстояние от точки до ближайшей кромки здания (0 внутри).
func (b *Building) DistanceTo(p Position) float64 {
	return b.Footprint().Clamp(p).DistanceTo(p)
}
