package domain

import "strings"

// ObjectiveKind - тип задачи сценария.
type ObjectiveKind uint8

const (
	ObjectiveCapture ObjectiveKind = iota
	ObjectiveDestroy
	ObjectiveDefend
	ObjectiveSurvive
)

var objectiveKindNames = map[ObjectiveKind]string{
	ObjectiveCapture: "capture",
	ObjectiveDestroy: "destroy",
	ObjectiveDefend:  "defend",
	ObjectiveSurvive: "survive",
}

var objectiveKindByName = map[string]ObjectiveKind{
	"capture": ObjectiveCapture,
	"destroy": ObjectiveDestroy,
	"defend":  ObjectiveDefend,
	"survive": ObjectiveSurvive,
}

// ParseObjectiveKind - неизвестное имя трактуется как destroy.
func ParseObjectiveKind(s string) ObjectiveKind {
	if k, ok := objectiveKindByName[strings.ToLower(s)]; ok {
		return k
	}
	return ObjectiveDestroy
}

func (k ObjectiveKind) String() string {
	if s, ok := objectiveKindNames[k]; ok {
		return s
	}
	return "destroy"
}

func (k ObjectiveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ObjectiveKind) UnmarshalText(text []byte) error {
	*k = ParseObjectiveKind(string(text))
	return nil
}

// ObjectiveSpec - описание задачи в данных сценария.
type ObjectiveSpec struct {
	Kind        ObjectiveKind
	Description string
	Required    int
	TimeLimit   int64    // мс, 0 - без лимита
	Buildings   []string // имена зданий для capture; пусто - любые объектовые
	// Unlocks открываются после выполнения этой задачи.
	Unlocks []ObjectiveSpec
	// Reinforcements - при появлении задачи противник получает подкрепление.
	Reinforcements bool
}

// Objective - задача в игре.
type Objective struct {
	ID            EntityID      `json:"id"`
	Kind          ObjectiveKind `json:"kind"`
	Description   string        `json:"description"`
	Completed     bool          `json:"completed"`
	Progress      float64       `json:"progress"`
	Required      int           `json:"required"`
	TimeLimit     int64         `json:"timeLimit,omitempty"`
	TimeRemaining int64         `json:"timeRemaining,omitempty"`
	BuildingIDs   []EntityID    `json:"buildingIds,omitempty"`
	StartedAt     int64         `json:"startedAt"`
	CompletedAt   int64         `json:"completedAt,omitempty"`

	Unlocks        []ObjectiveSpec `json:"-"`
	Reinforcements bool            `json:"-"`
}

// IsPrimary - все, кроме survive.
func (o *Objective) IsPrimary() bool {
	return o.Kind != ObjectiveSurvive
}

// IsTimed - у задачи есть лимит времени.
func (o *Objective) IsTimed() bool {
	return o.TimeLimit > 0
}

// Deadline - момент истечения лимита.
func (o *Objective) Deadline() int64 {
	return o.StartedAt + o.TimeLimit
}

// ProgressPercent - прогресс в процентах 0..100.
func (o *Objective) ProgressPercent() float64 {
	if o.Completed {
		return 100
	}
	if o.Required <= 0 {
		return 0
	}
	return clamp(o.Progress/float64(o.Required)*100, 0, 100)
}
