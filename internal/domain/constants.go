package domain

// Размеры поля боя
const (
	BattlefieldWidth  = 1200.0
	BattlefieldHeight = 800.0
)

var (
	// ProjectileBounds - за этими границами снаряд удаляется.
	ProjectileBounds = Rect{MinX: -100, MinY: -100, MaxX: 1300, MaxY: 900}
	// ManeuverBounds - куда ИИ разрешено отступать и патрулировать.
	ManeuverBounds = Rect{MinX: 50, MinY: 50, MaxX: 1150, MaxY: 750}
	// RestZone - тыловой район перегруппировки стороны оси.
	RestZone = Rect{MinX: 700, MinY: 50, MaxX: 1100, MaxY: 200}
)

// Состояние юнита при создании
const (
	MaxCondition       = 100.0 // мораль, боезапас, топливо
	AlliedStartMorale  = 100.0
	AxisStartMorale    = 85.0
	MaxExperienceLevel = 10
)

// Боевые константы
const (
	ProjectileSpeed     = 400.0 // ед/с
	HitRadius           = 20.0
	MissSpread          = 0.3 // рад, полный разброс промаха
	CombatEventWindowMs = 5000
	MaxMoraleLossPerHit = 20.0
	MoraleLossDivisor   = 5.0
	MinAccuracy         = 0.10
	MaxAccuracy         = 0.95
)

// Захват зданий
const (
	CaptureRadius        = 80.0
	AlliedCaptureRate    = 20.0 // % в секунду на юнит
	AxisCaptureRate      = 15.0
	ControlProgressMax   = 100.0
	CriticalDamageShare  = 0.25
	ExperiencePerLevel   = 5 // убийств на уровень
	MaxAlliedUnits       = 20
	CommandPickRadius    = 30.0
	FormationSpacing     = 40.0
	FormationColumns     = 3
	MoveArrivalThreshold = 5.0
)
