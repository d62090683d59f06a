package domain

import (
	"fmt"
	"strings"
)

// Faction - сторона конфликта.
type Faction uint8

const (
	FactionNone Faction = iota
	FactionAllied
	FactionAxis
)

var factionNames = map[Faction]string{
	FactionAllied: "allied",
	FactionAxis:   "axis",
}

var factionByName = map[string]Faction{
	"allied": FactionAllied,
	"player": FactionAllied,
	"axis":   FactionAxis,
	"enemy":  FactionAxis,
}

func ParseFaction(s string) Faction {
	if f, ok := factionByName[strings.ToLower(s)]; ok {
		return f
	}
	return FactionNone
}

func (f Faction) String() string {
	if s, ok := factionNames[f]; ok {
		return s
	}
	return "none"
}

// Opponent возвращает противоположную сторону.
func (f Faction) Opponent() Faction {
	switch f {
	case FactionAllied:
		return FactionAxis
	case FactionAxis:
		return FactionAllied
	default:
		return FactionNone
	}
}

func (f Faction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Faction) UnmarshalText(text []byte) error {
	parsed := ParseFaction(string(text))
	if parsed == FactionNone && string(text) != "none" {
		return fmt.Errorf("unknown faction %q", text)
	}
	*f = parsed
	return nil
}
