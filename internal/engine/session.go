package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
	"frontline-server/internal/systems"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"
	"frontline-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// StartingResources - пул союзников на старте миссии.
var StartingResources = domain.Resources{
	Money:          1000,
	Fuel:           100,
	Ammunition:     100,
	Reinforcements: 3,
}

const (
	commandBuffer     = 100
	maxPendingLogs    = 200
	maxPendingSounds  = 64
	maxRecordedEvents = 20000
	// Час боя при 60 кадрах в секунду
	maxRecordedFrames = 60 * 60 * 60

	// Цена пополнения одного юнита из общего пула
	resupplyFuelCost = 10.0
	resupplyAmmoCost = 10.0
)

// Option настраивает сессию при создании.
type Option func(*Session)

func WithDifficulty(d systems.Difficulty) Option {
	return func(s *Session) { s.difficulty = d }
}

func WithResourceConfig(cfg systems.ResourceConfig) Option {
	return func(s *Session) { s.resourceCfg = cfg }
}

func WithAudio(sink AudioSink) Option {
	return func(s *Session) {
		if sink != nil {
			s.audio = sink
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

func WithID(id string) Option {
	return func(s *Session) { s.ID = id }
}

// Session представляет собой одну запущенную миссию.
// Владеет часами, движками и состоянием обеих сторон. Все методы, кроме
// Submit, вызываются из одной горутины (Runner или headless-цикл).
type Session struct {
	ID       string
	Scenario battlefield.Scenario
	Seed     int64 // Сид, с которого началась миссия

	difficulty  systems.Difficulty
	resourceCfg systems.ResourceConfig

	clock    *domain.SimClock
	elapsed  float64 // точное время в мс, clock хранит целую часть
	rng      *rand.Rand
	registry *battlefield.Registry

	combat     *systems.CombatEngine
	ai         *systems.AIEngine
	economy    *systems.ResourceEngine
	objectives *systems.ObjectiveEngine

	players   []domain.Unit
	enemies   []domain.Unit
	buildings []domain.Building
	resources domain.Resources
	state     domain.GameState

	defeatReason string
	selection    []domain.EntityID
	tick         int64

	// Каналы коммуникации
	CommandChan chan domain.InternalCommand

	handlers map[domain.CommandType]handlers.HandlerFunc

	// Новое с прошлого кадра
	Logs   []api.LogEntry
	sounds []string
	logSeq int

	audio   AudioSink
	metrics *Metrics

	// Журнал для отчета после боя
	startedWall time.Time
	history     []domain.CombatEvent
	commands    []domain.ReplayCommand
	frames      []float64
	alliedLost  int
	axisLost    int
}

// NewSession разворачивает сценарий: здания, задачи, обе стороны и стартовый пул.
func NewSession(scenario battlefield.Scenario, seed int64, opts ...Option) *Session {
	s := &Session{
		ID:          utils.NewID("battle"),
		Scenario:    scenario,
		Seed:        seed,
		difficulty:  systems.DifficultyMedium,
		resourceCfg: systems.DefaultResourceConfig(),
		clock:       domain.NewSimClock(0),
		rng:         rand.New(rand.NewSource(seed)),
		registry:    battlefield.NewRegistry(),
		CommandChan: make(chan domain.InternalCommand, commandBuffer),
		handlers:    make(map[domain.CommandType]handlers.HandlerFunc),
		audio:       nopAudio{},
		startedWall: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.combat = systems.NewCombatEngine(s.rng, s.clock)
	s.ai = systems.NewAIEngine(s.clock)
	s.economy = systems.NewResourceEngine(s.resourceCfg)
	s.economy.SetDifficulty(s.resourceCfg, s.difficulty)
	s.objectives = systems.NewObjectiveEngine(s.clock)

	s.buildings = s.objectives.Initialize(scenario)
	s.players = s.registry.CreateInitialForces(scenario, domain.FactionAllied)
	for _, u := range s.registry.CreateInitialForces(scenario, domain.FactionAxis) {
		s.addEnemy(u, s.registry.NewAIData(u))
	}

	s.resources = StartingResources.Clamp(s.economy.Config().Max)
	s.state = domain.NewGameState()
	s.state.EnemiesRemaining = len(s.enemies)

	s.registerHandlers()

	logger.Log.WithFields(logrus.Fields{
		"session":    s.ID,
		"scenario":   scenario.String(),
		"seed":       seed,
		"difficulty": s.difficulty.String(),
		"allied":     len(s.players),
		"axis":       len(s.enemies),
	}).Info("Session created")

	s.trigger(api.SoundMissionStart)
	s.AddLog(fmt.Sprintf("Миссия начата: %s.", scenario), "INFO")
	return s
}

func (s *Session) addEnemy(u domain.Unit, brain domain.AIData) {
	s.enemies = append(s.enemies, u)
	s.ai.Register(brain)
}

// Tick продвигает бой на deltaMs. Сначала применяются накопленные команды.
// Шаг дробится так, чтобы проверка задач пришлась ровно на срок survive-задачи.
// Возвращает false, когда бой окончен.
func (s *Session) Tick(deltaMs float64) bool {
	if s.state.IsGameOver {
		s.drainCommands()
		return false
	}
	s.drainCommands()
	// NaN и бесконечность - пустой кадр
	if math.IsNaN(deltaMs) || math.IsInf(deltaMs, 0) {
		deltaMs = 0
	}
	if len(s.frames) < maxRecordedFrames {
		s.frames = append(s.frames, deltaMs)
	}
	if s.state.IsPaused || !(deltaMs > 0) {
		return true
	}

	remaining := deltaMs
	for remaining > 0 && !s.state.IsGameOver {
		step := remaining
		landing := false
		var deadline int64

		if d, ok := s.objectives.NextDeadline(); ok {
			if until := float64(d) - s.elapsed; until > 0 && until <= step {
				step, landing, deadline = until, true, d
			}
		}

		// 1. Часы
		s.elapsed += step
		if landing {
			s.elapsed = float64(deadline)
		}
		s.clock.Advance(int64(math.Floor(s.elapsed)) - s.clock.Now())

		s.step(step)
		remaining -= step
	}
	return !s.state.IsGameOver
}

func (s *Session) step(deltaMs float64) {
	wall := time.Now()
	s.tick++
	var st tickStats

	// 2. Приказы игрока
	orders := systems.UpdatePlayerUnits(s.players, s.enemies, deltaMs)
	s.players = orders.Units

	// 3. ИИ
	brains := s.ai.Update(s.enemies, s.players, deltaMs)
	s.enemies = brains.Units
	for _, tr := range brains.Transitions {
		logger.Log.WithFields(logrus.Fields{
			"session":   s.ID,
			"component": "ai_system",
			"unit":      tr.UnitID.String(),
			"rule":      tr.Rule,
			"from":      tr.From.String(),
			"to":        tr.To.String(),
		}).Debug("AI state changed")
	}

	// 4. Бой
	combat := s.combat.Update(s.players, s.enemies, deltaMs)
	s.players, s.enemies = combat.PlayerUnits, combat.EnemyUnits
	s.recordCombat(combat.NewEvents, &st)

	// 5. Взрывы по зданиям
	var ruined []domain.Building
	s.buildings, ruined = systems.DamageBuildings(s.buildings, combat.NewExplosions)
	for _, b := range ruined {
		s.AddLog(fmt.Sprintf("Здание разрушено: %s.", b.Name), "COMBAT")
	}

	// 6. Экономика
	s.resources = s.economy.Update(s.resources, deltaMs, s.players, s.buildings)

	// 7. Контроль зданий
	ctrl := systems.UpdateBuildingControl(s.buildings, s.players, s.enemies, deltaMs)
	s.buildings = ctrl.Buildings
	for _, b := range ctrl.Flipped {
		s.AddLog(fmt.Sprintf("%s под контролем: %s.", b.Name, b.Faction), "OBJECTIVE")
	}

	// 8. Задачи и исход боя
	s.state.EnemiesRemaining = countAlive(s.enemies)
	s.applyObjectives(s.objectives.CheckObjectives(s.players, s.enemies, s.buildings, s.state), &st)

	// 9. Уборка погибших
	s.pruneDead()

	st.wallMs = float64(time.Since(wall).Microseconds()) / 1000
	s.metrics.record(context.Background(), s.Scenario.String(), st)
}

func (s *Session) recordCombat(events []domain.CombatEvent, st *tickStats) {
	destroyed := false
	for _, ev := range events {
		switch ev.Kind {
		case domain.EventMiss:
			st.shots++
		case domain.EventHit, domain.EventCritical:
			st.shots++
			st.hits++
		case domain.EventDestroy:
			destroyed = true
			if ev.TargetID.Faction() == domain.FactionAllied {
				s.alliedLost++
				st.destroyedAllied++
			} else {
				s.axisLost++
				st.destroyedAxis++
			}
			s.AddLog(fmt.Sprintf("Уничтожен: %s.", s.unitName(ev.TargetID)), "COMBAT")
		}
		if len(s.history) < maxRecordedEvents {
			s.history = append(s.history, ev)
		}
	}
	if destroyed {
		s.trigger(api.SoundUnitDestroyed)
	}
}

func (s *Session) applyObjectives(res systems.ObjectiveResult, st *tickStats) {
	s.state.Score = res.Score

	for _, o := range res.Completed {
		st.objectives++
		s.trigger(api.SoundObjectiveComplete)
		s.AddLog(fmt.Sprintf("Задача выполнена: %s.", o.Description), "OBJECTIVE")
	}
	if res.PartialVictory {
		s.AddLog("Основные задачи выполнены, бонус начислен.", "OBJECTIVE")
	}
	for _, o := range res.New {
		s.AddLog(fmt.Sprintf("Новая задача: %s.", o.Description), "OBJECTIVE")
		if o.Reinforcements {
			s.spawnReinforcements()
		}
	}

	if !res.GameOver {
		return
	}
	s.state.IsGameOver = true
	s.state.Victory = res.Victory
	s.defeatReason = res.DefeatReason
	if res.Victory {
		s.trigger(api.SoundVictory)
		s.AddLog(fmt.Sprintf("Победа! Счет: %d.", s.state.Score), "OBJECTIVE")
	} else {
		s.trigger(api.SoundDefeat)
		s.AddLog(fmt.Sprintf("Поражение: %s.", res.DefeatReason), "OBJECTIVE")
	}

	logger.Log.WithFields(logrus.Fields{
		"session": s.ID,
		"victory": res.Victory,
		"reason":  res.DefeatReason,
		"score":   s.state.Score,
		"sim_ms":  s.clock.Now(),
	}).Info("Battle finished")
}

// spawnReinforcements выводит волну оси у восточного края.
func (s *Session) spawnReinforcements() {
	units, brains := s.registry.CreateReinforcements()
	for i := range units {
		s.addEnemy(units[i], brains[i])
	}
	s.state.CurrentWave++
	s.state.EnemiesRemaining = countAlive(s.enemies)
	s.AddLog(fmt.Sprintf("Противник получил подкрепление (волна %d).", s.state.CurrentWave), "COMBAT")
}

func (s *Session) pruneDead() {
	alive := s.players[:0]
	for _, u := range s.players {
		if u.IsAlive() {
			alive = append(alive, u)
		}
	}
	s.players = alive

	aliveEnemies := s.enemies[:0]
	for _, u := range s.enemies {
		if u.IsAlive() {
			aliveEnemies = append(aliveEnemies, u)
			continue
		}
		s.ai.Forget(u.ID)
	}
	s.enemies = aliveEnemies

	kept := s.selection[:0]
	for _, id := range s.selection {
		if s.playerIndex(id) >= 0 {
			kept = append(kept, id)
		}
	}
	s.selection = kept
}

func (s *Session) trigger(name string) {
	s.audio.Trigger(name)
	if len(s.sounds) >= maxPendingSounds {
		s.sounds = s.sounds[1:]
	}
	s.sounds = append(s.sounds, name)
}

func (s *Session) playerIndex(id domain.EntityID) int {
	for i := range s.players {
		if s.players[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) unitName(id domain.EntityID) string {
	list := s.players
	if id.Faction() == domain.FactionAxis {
		list = s.enemies
	}
	for i := range list {
		if list[i].ID == id {
			return battlefield.DisplayName(list[i].Type)
		}
	}
	return id.String()
}

func countAlive(units []domain.Unit) int {
	n := 0
	for i := range units {
		if units[i].IsAlive() {
			n++
		}
	}
	return n
}

// --- ЧТЕНИЕ СОСТОЯНИЯ ---

func (s *Session) Now() int64 {
	return s.clock.Now()
}

func (s *Session) TickCount() int64 {
	return s.tick
}

func (s *Session) State() domain.GameState {
	return s.state
}

func (s *Session) DefeatReason() string {
	return s.defeatReason
}

func (s *Session) Resources() domain.Resources {
	return s.resources
}

func (s *Session) Difficulty() systems.Difficulty {
	return s.difficulty
}

// PlayerUnits и EnemyUnits - копии списков.
func (s *Session) PlayerUnits() []domain.Unit {
	return append([]domain.Unit(nil), s.players...)
}

func (s *Session) EnemyUnits() []domain.Unit {
	return append([]domain.Unit(nil), s.enemies...)
}

func (s *Session) Buildings() []domain.Building {
	return append([]domain.Building(nil), s.buildings...)
}

func (s *Session) Objectives() []domain.Objective {
	return s.objectives.Objectives()
}

func (s *Session) Brains() []domain.AIData {
	return s.ai.Brains()
}

func (s *Session) Selection() []domain.EntityID {
	return append([]domain.EntityID(nil), s.selection...)
}

// Report собирает отчет после боя. Можно вызывать и до конца миссии.
func (s *Session) Report() domain.BattleReport {
	progress := s.objectives.Progress()
	return domain.BattleReport{
		SessionID:           s.ID,
		Scenario:            s.Scenario.String(),
		ScenarioID:          int(s.Scenario),
		Seed:                s.Seed,
		Difficulty:          s.difficulty.String(),
		StartedAt:           s.startedWall,
		Ticks:               s.tick,
		DurationMs:          s.clock.Now(),
		GameOver:            s.state.IsGameOver,
		Victory:             s.state.Victory,
		DefeatReason:        s.defeatReason,
		Score:               s.state.Score,
		Waves:               s.state.CurrentWave,
		AlliedLost:          s.alliedLost,
		AxisLost:            s.axisLost,
		ObjectivesCompleted: progress.Completed,
		ObjectivesTotal:     progress.Total,
		Events:              append([]domain.CombatEvent(nil), s.history...),
		Commands:            append([]domain.ReplayCommand(nil), s.commands...),
		Frames:              append([]float64(nil), s.frames...),
	}
}
