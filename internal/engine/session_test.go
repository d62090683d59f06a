package engine

import (
	"encoding/json"
	"math"
	"testing"

	"frontline-server/internal/domain"
	"frontline-server/internal/systems"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Стартовый состав skirmish: пехота (150,700), Шерман (120,650), артиллерия (80,720).
// Ось: пехота (900,200), Panzer IV (950,150), ПТО (1000,250).
func newSkirmish(t *testing.T) (*Session, *AudioRecorder) {
	t.Helper()
	rec := &AudioRecorder{}
	s := NewSession(battlefield.ScenarioSkirmish, 7, WithAudio(rec), WithID("test"))
	return s, rec
}

func submit(t *testing.T, s *Session, action string, payload any) {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = b
	}
	require.NoError(t, s.Submit("tester", api.ClientCommand{Action: action, Payload: raw}))
	s.Tick(0)
}

func TestNewSession_StartingState(t *testing.T) {
	s, rec := newSkirmish(t)

	assert.Equal(t, "test", s.ID)
	assert.Equal(t, StartingResources, s.Resources())
	assert.Len(t, s.PlayerUnits(), 3)
	assert.Len(t, s.EnemyUnits(), 3)
	assert.Len(t, s.Brains(), 3)
	assert.Len(t, s.Objectives(), 2)
	assert.Equal(t, 1, s.State().CurrentWave)
	assert.Equal(t, 3, s.State().EnemiesRemaining)
	assert.Equal(t, systems.DifficultyMedium, s.Difficulty())
	assert.Equal(t, int64(0), s.Now())
	assert.Equal(t, 1, rec.Count(api.SoundMissionStart))
}

func TestSelect_SingleAndMulti(t *testing.T) {
	s, _ := newSkirmish(t)
	infantry := s.players[0].ID
	tank := s.players[1].ID

	assert.True(t, s.Select(domain.Position{X: 155, Y: 705}, false))
	assert.Equal(t, []domain.EntityID{infantry}, s.Selection())

	// Без multi новый клик заменяет выделение
	assert.True(t, s.Select(domain.Position{X: 120, Y: 650}, false))
	assert.Equal(t, []domain.EntityID{tank}, s.Selection())

	// multi добавляет и снимает
	assert.True(t, s.Select(domain.Position{X: 150, Y: 700}, true))
	assert.ElementsMatch(t, []domain.EntityID{infantry, tank}, s.Selection())
	assert.True(t, s.Select(domain.Position{X: 120, Y: 650}, true))
	assert.Equal(t, []domain.EntityID{infantry}, s.Selection())

	// Промах с multi ничего не меняет, без multi - снимает выделение
	assert.False(t, s.Select(domain.Position{X: 600, Y: 400}, true))
	assert.Len(t, s.Selection(), 1)
	assert.False(t, s.Select(domain.Position{X: 600, Y: 400}, false))
	assert.Empty(t, s.Selection())
}

func TestSelect_IgnoresEnemies(t *testing.T) {
	s, _ := newSkirmish(t)
	assert.False(t, s.Select(domain.Position{X: 900, Y: 200}, false))
	assert.Empty(t, s.Selection())
}

func TestMoveCommand_Formation(t *testing.T) {
	s, _ := newSkirmish(t)
	s.Select(domain.Position{X: 150, Y: 700}, false)
	s.Select(domain.Position{X: 120, Y: 650}, true)

	n := s.MoveCommand(domain.Position{X: 600, Y: 400})
	require.Equal(t, 2, n)

	first := s.players[0]
	require.NotNil(t, first.TargetPosition)
	assert.Equal(t, domain.Position{X: 560, Y: 360}, *first.TargetPosition)
	assert.True(t, first.IsMoving)

	second := s.players[1]
	require.NotNil(t, second.TargetPosition)
	assert.Equal(t, domain.Position{X: 600, Y: 360}, *second.TargetPosition)

	// Артиллерия не выбрана
	assert.Nil(t, s.players[2].TargetPosition)
}

func TestMoveCommand_ClampedToField(t *testing.T) {
	s, _ := newSkirmish(t)
	s.Select(domain.Position{X: 150, Y: 700}, false)

	s.MoveCommand(domain.Position{X: 10, Y: 10})
	require.NotNil(t, s.players[0].TargetPosition)
	assert.Equal(t, domain.Position{X: 0, Y: 0}, *s.players[0].TargetPosition)
}

func TestMoveCommand_CancelsAttackOrder(t *testing.T) {
	s, _ := newSkirmish(t)
	s.Select(domain.Position{X: 150, Y: 700}, false)

	_, ok := s.AttackCommand(domain.Position{X: 900, Y: 200})
	require.True(t, ok)
	require.True(t, s.players[0].AttackOrder)

	s.MoveCommand(domain.Position{X: 400, Y: 400})
	assert.False(t, s.players[0].AttackOrder)
	assert.False(t, s.players[0].IsAttacking)
	assert.Equal(t, domain.NoEntity, s.players[0].TargetID)
}

func TestAttackCommand(t *testing.T) {
	s, _ := newSkirmish(t)

	_, ok := s.AttackCommand(domain.Position{X: 900, Y: 200})
	assert.False(t, ok, "без выделения приказ не отдается")

	s.Select(domain.Position{X: 150, Y: 700}, false)
	_, ok = s.AttackCommand(domain.Position{X: 500, Y: 500})
	assert.False(t, ok, "в точке нет врага")

	target, ok := s.AttackCommand(domain.Position{X: 905, Y: 195})
	require.True(t, ok)
	assert.Equal(t, domain.UnitGermanInfantry, target.Type)
	assert.Equal(t, target.ID, s.players[0].TargetID)
	assert.True(t, s.players[0].AttackOrder)
	assert.True(t, s.players[0].IsAttacking)
}

func TestProduceUnit(t *testing.T) {
	s, _ := newSkirmish(t)

	u, ok := s.ProduceUnit(domain.UnitInfantry)
	require.True(t, ok)
	assert.Equal(t, domain.FactionAllied, u.Faction)
	assert.Equal(t, 900.0, s.Resources().Money)
	assert.Len(t, s.PlayerUnits(), 4)
	assert.True(t, productionZone.Contains(u.Position), "высадка в зоне производства: %+v", u.Position)
}

func TestProduceUnit_NotEnoughMoney(t *testing.T) {
	s, _ := newSkirmish(t)
	s.resources.Money = 250

	_, ok := s.ProduceUnit(domain.UnitTankSherman)
	assert.False(t, ok)
	assert.Equal(t, 250.0, s.Resources().Money)
	assert.Len(t, s.PlayerUnits(), 3)
}

func TestProduceUnit_UnitLimit(t *testing.T) {
	s, _ := newSkirmish(t)
	s.resources.Money = 5000
	for countAlive(s.players) < domain.MaxAlliedUnits {
		s.players = append(s.players, s.registry.CreateUnit(domain.UnitInfantry, domain.Position{X: 300, Y: 600}, domain.FactionAllied))
	}

	_, ok := s.ProduceUnit(domain.UnitInfantry)
	assert.False(t, ok)
	assert.Equal(t, 5000.0, s.Resources().Money)
}

func TestResupply_PaysPerUnit(t *testing.T) {
	s, _ := newSkirmish(t)
	s.players[0].Ammunition = 10
	s.players[1].Ammunition = 10
	s.resources.Fuel = 15

	s.Select(domain.Position{X: 150, Y: 700}, false)
	s.Select(domain.Position{X: 120, Y: 650}, true)

	n, ok := s.Resupply()
	require.True(t, ok)
	assert.Equal(t, 1, n, "топлива хватает только на одного")
	assert.Equal(t, 5.0, s.Resources().Fuel)
	assert.Equal(t, 90.0, s.Resources().Ammunition)
	assert.Equal(t, domain.MaxCondition, s.players[0].Ammunition)
	assert.Equal(t, 10.0, s.players[1].Ammunition)
}

func TestResupply_NothingSelected(t *testing.T) {
	s, _ := newSkirmish(t)
	n, ok := s.Resupply()
	assert.False(t, ok)
	assert.Zero(t, n)
	assert.Equal(t, StartingResources, s.Resources())
}

func TestSubmit_SelectAndMoveThroughHandlers(t *testing.T) {
	s, rec := newSkirmish(t)

	submit(t, s, "SELECT", api.SelectPayload{X: 150, Y: 700})
	submit(t, s, "MOVE", api.PositionPayload{X: 600, Y: 400})

	assert.Equal(t, 1, rec.Count(api.SoundUnitSelect))
	assert.Equal(t, 1, rec.Count(api.SoundMoveCommand))
	require.NotNil(t, s.players[0].TargetPosition)

	rep := s.Report()
	require.Len(t, rep.Commands, 2)
	assert.Equal(t, domain.CommandSelect, rep.Commands[0].Command)
	assert.Equal(t, domain.CommandMove, rep.Commands[1].Command)
}

func TestSubmit_Produce(t *testing.T) {
	s, rec := newSkirmish(t)

	submit(t, s, "PRODUCE", api.ProducePayload{UnitType: "tank_sherman"})

	assert.Equal(t, 1, rec.Count(api.SoundUnitProduced))
	assert.Equal(t, 700.0, s.Resources().Money)
	assert.Len(t, s.PlayerUnits(), 4)
}

func TestSubmit_InvalidPayloadIsRejected(t *testing.T) {
	s, rec := newSkirmish(t)
	s.Frame() // очистка стартовых логов

	submit(t, s, "MOVE", api.PositionPayload{X: -5, Y: 400})
	submit(t, s, "PRODUCE", api.ProducePayload{UnitType: "panzer_iv"})
	submit(t, s, "SELECT", nil)

	assert.Equal(t, 3, rec.Count(api.SoundError))
	assert.Empty(t, s.Report().Commands, "отклоненные команды не пишутся")

	frame := s.Frame()
	require.Len(t, frame.Logs, 3)
	for _, l := range frame.Logs {
		assert.Equal(t, "ERROR", l.Type)
	}
}

func TestSubmit_UnknownCommand(t *testing.T) {
	s, _ := newSkirmish(t)
	err := s.Submit("tester", api.ClientCommand{Action: "FLY"})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestSubmit_QueueFull(t *testing.T) {
	s, _ := newSkirmish(t)
	cmd := api.ClientCommand{Action: "PAUSE"}
	for i := 0; i < commandBuffer; i++ {
		require.NoError(t, s.Submit("tester", cmd))
	}
	assert.ErrorIs(t, s.Submit("tester", cmd), ErrQueueFull)
}

func TestPauseAndResume(t *testing.T) {
	s, _ := newSkirmish(t)

	submit(t, s, "PAUSE", nil)
	require.True(t, s.State().IsPaused)

	assert.True(t, s.Tick(500))
	assert.Equal(t, int64(0), s.Now(), "на паузе время стоит")
	assert.Equal(t, int64(0), s.TickCount())

	submit(t, s, "RESUME", nil)
	require.False(t, s.State().IsPaused)
	assert.True(t, s.Tick(16))
	assert.Equal(t, int64(16), s.Now())
	assert.Equal(t, int64(1), s.TickCount())
}

func TestTick_FractionalClock(t *testing.T) {
	s, _ := newSkirmish(t)
	for i := 0; i < 3; i++ {
		s.Tick(16.5)
	}
	assert.Equal(t, int64(49), s.Now())

	assert.True(t, s.Tick(-10))
	assert.Equal(t, int64(49), s.Now(), "отрицательная дельта не двигает часы")
}

func TestTick_SurviveCompletesExactlyAtDeadline(t *testing.T) {
	s, _ := newSkirmish(t)
	s.enemies = nil

	require.True(t, s.Tick(300_050))
	assert.Equal(t, int64(300_050), s.Now())
	assert.Equal(t, int64(2), s.TickCount(), "шаг разбит по сроку задачи")

	var survive domain.Objective
	for _, o := range s.Objectives() {
		if o.Kind == domain.ObjectiveSurvive {
			survive = o
		}
	}
	require.True(t, survive.Completed)
	assert.Equal(t, int64(300_000), survive.CompletedAt)
	assert.False(t, s.State().IsGameOver)
	assert.Positive(t, s.State().Score)
}

func TestTick_DefeatWhenForcesLost(t *testing.T) {
	s, rec := newSkirmish(t)
	s.players = nil

	assert.False(t, s.Tick(16))
	assert.True(t, s.State().IsGameOver)
	assert.False(t, s.State().Victory)
	assert.Equal(t, systems.DefeatForcesLost, s.DefeatReason())
	assert.Equal(t, 1, rec.Count(api.SoundDefeat))

	// Дальше время не идет
	before := s.Now()
	assert.False(t, s.Tick(16))
	assert.Equal(t, before, s.Now())

	rep := s.Report()
	assert.Equal(t, "defeat", rep.Outcome())
	assert.Equal(t, systems.DefeatForcesLost, rep.DefeatReason)
}

func TestSession_Deterministic(t *testing.T) {
	run := func() *Session {
		s := NewSession(battlefield.ScenarioOverlord, 99)
		s.Select(domain.Position{X: 150, Y: 700}, false)
		s.MoveCommand(domain.Position{X: 700, Y: 300})
		for i := 0; i < 600; i++ {
			if !s.Tick(16) {
				break
			}
		}
		return s
	}
	a, b := run(), run()

	assert.Equal(t, a.PlayerUnits(), b.PlayerUnits())
	assert.Equal(t, a.EnemyUnits(), b.EnemyUnits())
	assert.Equal(t, a.State(), b.State())
	assert.Equal(t, a.Report().Events, b.Report().Events)
}

func TestFrame_DrainsSoundsAndLogs(t *testing.T) {
	s, _ := newSkirmish(t)
	s.Select(domain.Position{X: 150, Y: 700}, false)

	first := s.Frame()
	assert.Equal(t, "FRAME", first.Type)
	assert.Contains(t, first.Sounds, api.SoundMissionStart)
	assert.NotEmpty(t, first.Logs)
	assert.Len(t, first.Units, 6)
	assert.Len(t, first.Objectives, 2)
	assert.Equal(t, []string{s.players[0].ID.String()}, first.Selection)
	assert.Equal(t, 1000.0, first.Resources.Money)
	assert.Equal(t, domain.BattlefieldWidth, first.Field.Width)

	var selected, withAI int
	for _, u := range first.Units {
		if u.Selected {
			selected++
		}
		if u.AIState != "" {
			withAI++
		}
	}
	assert.Equal(t, 1, selected)
	assert.Equal(t, 3, withAI)

	second := s.Frame()
	assert.Empty(t, second.Sounds)
	assert.Empty(t, second.Logs)
}

func TestAddLog_Capped(t *testing.T) {
	s, _ := newSkirmish(t)
	for i := 0; i < maxPendingLogs+50; i++ {
		s.AddLog("x", "INFO")
	}
	assert.Len(t, s.Logs, maxPendingLogs)
}

func TestTick_NonFiniteDelta(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
	}{
		{"zero", 0},
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSkirmish(t)
			res := s.Resources()

			assert.True(t, s.Tick(tt.delta))
			assert.Equal(t, int64(0), s.Now())
			assert.Equal(t, int64(0), s.TickCount())
			assert.Equal(t, res, s.Resources())
			assert.Equal(t, []float64{0}, s.frames)

			require.True(t, s.Tick(16))
			assert.Equal(t, int64(16), s.Now())
			assert.Equal(t, res.Reinforcements, s.Resources().Reinforcements)
			assert.False(t, math.IsNaN(s.Resources().Fuel))
		})
	}
}
