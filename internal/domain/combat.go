package domain

import "fmt"

// ProjectileType - визуальный и поражающий тип снаряда.
type ProjectileType uint8

const (
	ProjectileBullet ProjectileType = iota
	ProjectileShell
	ProjectileRocket
)

var projectileTypeNames = map[ProjectileType]string{
	ProjectileBullet: "bullet",
	ProjectileShell:  "shell",
	ProjectileRocket: "rocket",
}

func (t ProjectileType) String() string {
	if s, ok := projectileTypeNames[t]; ok {
		return s
	}
	return "bullet"
}

func (t ProjectileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ExplosionSize - класс размера взрыва.
type ExplosionSize uint8

const (
	ExplosionSmall ExplosionSize = iota
	ExplosionMedium
	ExplosionLarge
)

var explosionSizeNames = map[ExplosionSize]string{
	ExplosionSmall:  "small",
	ExplosionMedium: "medium",
	ExplosionLarge:  "large",
}

func (s ExplosionSize) String() string {
	if name, ok := explosionSizeNames[s]; ok {
		return name
	}
	return "small"
}

func (s ExplosionSize) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CombatEventKind - тип записи боевого журнала.
type CombatEventKind uint8

const (
	EventHit CombatEventKind = iota
	EventMiss
	EventDestroy
	EventCritical
)

var combatEventKindNames = map[CombatEventKind]string{
	EventHit:      "hit",
	EventMiss:     "miss",
	EventDestroy:  "destroy",
	EventCritical: "critical",
}

func (k CombatEventKind) String() string {
	if s, ok := combatEventKindNames[k]; ok {
		return s
	}
	return "hit"
}

func (k CombatEventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *CombatEventKind) UnmarshalText(text []byte) error {
	for kind, name := range combatEventKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown combat event kind %q", text)
}

// Projectile - снаряд в полете.
type Projectile struct {
	ID               EntityID       `json:"id"`
	Position         Position       `json:"position"`
	Velocity         Position       `json:"velocity"` // ед/с
	Damage           int            `json:"damage"`
	Range            float64        `json:"range"`
	DistanceTraveled float64        `json:"distanceTraveled"`
	SourceID         EntityID       `json:"sourceId"`
	SourceFaction    Faction        `json:"sourceFaction"`
	TargetID         EntityID       `json:"targetId,omitempty"` // пусто = промах
	Type             ProjectileType `json:"type"`
}

// IsMiss - снаряд летит мимо, без цели.
func (p *Projectile) IsMiss() bool {
	return p.TargetID.IsZero()
}

// Explosion - короткоживущий эффект попадания.
type Explosion struct {
	ID            EntityID      `json:"id"`
	Position      Position      `json:"position"`
	Radius        float64       `json:"radius"`
	Damage        int           `json:"damage"`
	Duration      float64       `json:"duration"` // мс
	Elapsed       float64       `json:"elapsed"`
	Size          ExplosionSize `json:"size"`
	SourceFaction Faction       `json:"sourceFaction"`
}

// Finished - эффект отыграл.
func (e *Explosion) Finished() bool {
	return e.Elapsed >= e.Duration
}

// CombatEvent - запись боевого журнала.
type CombatEvent struct {
	ID         EntityID        `json:"id"`
	Kind       CombatEventKind `json:"kind"`
	AttackerID EntityID        `json:"attackerId"`
	TargetID   EntityID        `json:"targetId"`
	Damage     int             `json:"damage"`
	Position   Position        `json:"position"`
	Timestamp  int64           `json:"timestamp"`
}
