package systems

import (
	"math"

	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Причины поражения
const (
	DefeatForcesLost      = "all units lost"
	DefeatCriticalLoss    = "critical building destroyed"
	DefeatTimeExpired     = "time limit expired"
	partialVictoryShare   = 0.7
	baseVictoryBonus      = 1000
	waveVictoryBonus      = 200
	cleanSweepBonus       = 500
	highThresholdRequired = 3
)

var objectiveBaseScore = map[domain.ObjectiveKind]int{
	domain.ObjectiveCapture: 500,
	domain.ObjectiveDestroy: 300,
	domain.ObjectiveDefend:  400,
	domain.ObjectiveSurvive: 200,
}

// ObjectiveResult - итог проверки задач.
type ObjectiveResult struct {
	GameOver       bool
	Victory        bool
	PartialVictory bool // бонус за основные задачи начислен в этом тике
	DefeatReason   string
	Score          int
	Completed      []domain.Objective
	New            []domain.Objective
}

// ObjectiveEngine ведет задачи миссии и условия победы.
type ObjectiveEngine struct {
	clock       domain.Clock
	ids         *domain.IDAllocator
	buildingIDs *domain.IDAllocator

	objectives []domain.Objective
	startedAt  int64

	// Все враги, которых мы когда-либо видели
	seenEnemies map[domain.EntityID]struct{}
	// Потери врага на момент появления destroy-задачи
	baselines      map[domain.EntityID]int
	buildingByName map[string]domain.EntityID
	lastDestroyed  int
	partialAwarded bool
}

func NewObjectiveEngine(clock domain.Clock) *ObjectiveEngine {
	e := &ObjectiveEngine{clock: clock}
	e.Reset()
	return e
}

// Reset очищает задачи и счетчики.
func (e *ObjectiveEngine) Reset() {
	e.ids = domain.NewIDAllocator(domain.KindObjective)
	e.buildingIDs = domain.NewIDAllocator(domain.KindBuilding)
	e.objectives = nil
	e.seenEnemies = make(map[domain.EntityID]struct{})
	e.baselines = make(map[domain.EntityID]int)
	e.buildingByName = make(map[string]domain.EntityID)
	e.partialAwarded = false
	e.lastDestroyed = 0
	e.startedAt = e.clock.Now()
}

// Initialize загружает задачи сценария и возвращает его здания.
func (e *ObjectiveEngine) Initialize(s battlefield.Scenario) []domain.Building {
	e.Reset()

	buildings := battlefield.BuildBuildings(s, e.buildingIDs)
	for _, b := range buildings {
		e.buildingByName[b.Name] = b.ID
	}
	for _, spec := range battlefield.Objectives(s) {
		e.AddObjective(spec)
	}

	logger.Log.WithFields(logrus.Fields{
		"component":  "objective_system",
		"scenario":   s.String(),
		"objectives": len(e.objectives),
		"buildings":  len(buildings),
	}).Info("Objectives initialized")
	return buildings
}

// AddObjective создает задачу по описанию. Отсчет времени идет с текущего момента.
func (e *ObjectiveEngine) AddObjective(spec domain.ObjectiveSpec) domain.Objective {
	now := e.clock.Now()
	o := domain.Objective{
		ID:             e.ids.Next(domain.FactionAllied),
		Kind:           spec.Kind,
		Description:    spec.Description,
		Required:       spec.Required,
		TimeLimit:      spec.TimeLimit,
		TimeRemaining:  spec.TimeLimit,
		StartedAt:      now,
		Unlocks:        spec.Unlocks,
		Reinforcements: spec.Reinforcements,
	}
	for _, name := range spec.Buildings {
		if id, ok := e.buildingByName[name]; ok {
			o.BuildingIDs = append(o.BuildingIDs, id)
		}
	}
	if o.Kind == domain.ObjectiveDestroy {
		e.baselines[o.ID] = e.lastDestroyed
	}
	e.objectives = append(e.objectives, o)
	return o
}

// RemoveObjective убирает задачу по id.
func (e *ObjectiveEngine) RemoveObjective(id domain.EntityID) bool {
	for i := range e.objectives {
		if e.objectives[i].ID == id {
			e.objectives = append(e.objectives[:i], e.objectives[i+1:]...)
			delete(e.baselines, id)
			return true
		}
	}
	return false
}

// CheckObjectives пересчитывает прогресс, начисляет очки и решает исход боя.
func (e *ObjectiveEngine) CheckObjectives(players, enemies []domain.Unit, buildings []domain.Building, state domain.GameState) ObjectiveResult {
	now := e.clock.Now()
	res := ObjectiveResult{Score: state.Score}

	for i := range enemies {
		e.seenEnemies[enemies[i].ID] = struct{}{}
	}
	destroyed := e.destroyedSoFar(enemies)
	e.lastDestroyed = destroyed

	// Survive-задачи, не выполненные до этой проверки
	var pendingSurvive []int
	for i := range e.objectives {
		o := &e.objectives[i]
		if o.Kind == domain.ObjectiveSurvive && o.IsTimed() && !o.Completed {
			pendingSurvive = append(pendingSurvive, i)
		}
	}

	var unlocked []domain.ObjectiveSpec
	for i := range e.objectives {
		o := &e.objectives[i]
		if o.Completed {
			continue
		}

		o.Progress = e.progress(o, buildings, destroyed, now)
		if o.IsTimed() {
			o.TimeRemaining = max(0, o.Deadline()-now)
		}

		if o.Progress >= float64(o.Required) {
			o.Completed = true
			o.CompletedAt = now
			res.Score += ObjectiveScore(o)
			res.Completed = append(res.Completed, *o)
			unlocked = append(unlocked, o.Unlocks...)

			logger.Log.WithFields(logrus.Fields{
				"component": "objective_system",
				"objective": o.Description,
				"kind":      o.Kind.String(),
			}).Info("Objective completed")
		}
	}

	for _, spec := range unlocked {
		res.New = append(res.New, e.AddObjective(spec))
	}

	allComplete, primaryComplete, primaries := true, true, 0
	for i := range e.objectives {
		o := &e.objectives[i]
		if o.IsPrimary() {
			primaries++
		}
		if !o.Completed {
			allComplete = false
			if o.IsPrimary() {
				primaryComplete = false
			}
		}
	}

	// Поражение
	switch {
	case !anyAlive(players):
		res.DefeatReason = DefeatForcesLost
	case criticalBuildingLost(buildings):
		res.DefeatReason = DefeatCriticalLoss
	default:
		for _, i := range pendingSurvive {
			if now > e.objectives[i].Deadline() {
				res.DefeatReason = DefeatTimeExpired
				break
			}
		}
	}

	if res.DefeatReason != "" {
		res.GameOver = true
		res.Victory = false
		logger.Log.WithFields(logrus.Fields{
			"component": "objective_system",
			"reason":    res.DefeatReason,
		}).Warn("Mission failed")
		return res
	}

	if allComplete && len(e.objectives) > 0 {
		res.GameOver = true
		res.Victory = true
		res.Score += VictoryBonus(state)
		return res
	}

	if primaryComplete && primaries > 0 && !e.partialAwarded {
		e.partialAwarded = true
		res.PartialVictory = true
		res.Score += int(math.Floor(float64(VictoryBonus(state)) * partialVictoryShare))
	}
	return res
}

func (e *ObjectiveEngine) progress(o *domain.Objective, buildings []domain.Building, destroyed int, now int64) float64 {
	required := float64(o.Required)
	switch o.Kind {
	case domain.ObjectiveCapture:
		return math.Min(required, float64(capturedCount(o, buildings)))
	case domain.ObjectiveDestroy:
		return math.Min(required, float64(max(0, destroyed-e.baselines[o.ID])))
	case domain.ObjectiveDefend:
		standing := 0
		for i := range buildings {
			b := &buildings[i]
			if b.Type.IsCritical() && b.Faction == domain.FactionAllied && !b.IsDestroyed() {
				standing++
			}
		}
		if standing > 0 && standing >= o.Required {
			return 1
		}
		return 0
	case domain.ObjectiveSurvive:
		if !o.IsTimed() {
			return o.Progress
		}
		return math.Min(1, float64(now-o.StartedAt)/float64(o.TimeLimit))
	}
	return o.Progress
}

func capturedCount(o *domain.Objective, buildings []domain.Building) int {
	n := 0
	for i := range buildings {
		b := &buildings[i]
		if !b.AlliedControlled() {
			continue
		}
		if len(o.BuildingIDs) > 0 {
			if containsID(o.BuildingIDs, b.ID) {
				n++
			}
			continue
		}
		if b.IsObjective {
			n++
		}
	}
	return n
}

// destroyedSoFar - увиденные враги, которых больше нет среди живых.
func (e *ObjectiveEngine) destroyedSoFar(enemies []domain.Unit) int {
	alive := 0
	for i := range enemies {
		if !enemies[i].IsAlive() {
			continue
		}
		if _, ok := e.seenEnemies[enemies[i].ID]; ok {
			alive++
		}
	}
	return len(e.seenEnemies) - alive
}

// ObjectiveScore - очки за выполнение.
func ObjectiveScore(o *domain.Objective) int {
	score, ok := objectiveBaseScore[o.Kind]
	if !ok {
		score = 200
	}
	if o.Required > highThresholdRequired {
		score += o.Required * 50
	}
	if o.IsTimed() && o.TimeRemaining > 0 {
		score += int(math.Floor(float64(o.TimeRemaining) / float64(o.TimeLimit) * 200))
	}
	return score
}

// VictoryBonus - 1000 + 200 за волну + 500 если врагов не осталось.
func VictoryBonus(state domain.GameState) int {
	bonus := baseVictoryBonus + waveVictoryBonus*state.CurrentWave
	if state.EnemiesRemaining == 0 {
		bonus += cleanSweepBonus
	}
	return bonus
}

func anyAlive(units []domain.Unit) bool {
	for i := range units {
		if units[i].IsAlive() {
			return true
		}
	}
	return false
}

func criticalBuildingLost(buildings []domain.Building) bool {
	for i := range buildings {
		b := &buildings[i]
		if b.Type.IsCritical() && b.Faction == domain.FactionAllied && b.IsDestroyed() {
			return true
		}
	}
	return false
}

func containsID(ids []domain.EntityID, id domain.EntityID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// NextDeadline - ближайший срок невыполненной survive-задачи.
func (e *ObjectiveEngine) NextDeadline() (int64, bool) {
	var best int64
	found := false
	for i := range e.objectives {
		o := &e.objectives[i]
		if o.Completed || o.Kind != domain.ObjectiveSurvive || !o.IsTimed() {
			continue
		}
		if d := o.Deadline(); !found || d < best {
			best, found = d, true
		}
	}
	return best, found
}

// StartedAt - начало миссии.
func (e *ObjectiveEngine) StartedAt() int64 {
	return e.startedAt
}

// Objectives - копия всех задач.
func (e *ObjectiveEngine) Objectives() []domain.Objective {
	return append([]domain.Objective(nil), e.objectives...)
}

// Current - первая невыполненная задача.
func (e *ObjectiveEngine) Current() (domain.Objective, bool) {
	for _, o := range e.objectives {
		if !o.Completed {
			return o, true
		}
	}
	return domain.Objective{}, false
}

func (e *ObjectiveEngine) CompletedObjectives() []domain.Objective {
	return e.filter(true)
}

func (e *ObjectiveEngine) Active() []domain.Objective {
	return e.filter(false)
}

func (e *ObjectiveEngine) filter(completed bool) []domain.Objective {
	var out []domain.Objective
	for _, o := range e.objectives {
		if o.Completed == completed {
			out = append(out, o)
		}
	}
	return out
}

// ObjectiveProgress - сводка выполнения.
type ObjectiveProgress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

func (e *ObjectiveEngine) Progress() ObjectiveProgress {
	p := ObjectiveProgress{Total: len(e.objectives)}
	for _, o := range e.objectives {
		if o.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}

// UpdateDescription меняет текст задачи.
func (e *ObjectiveEngine) UpdateDescription(id domain.EntityID, text string) bool {
	for i := range e.objectives {
		if e.objectives[i].ID == id {
			e.objectives[i].Description = text
			return true
		}
	}
	return false
}
