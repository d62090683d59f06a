package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"frontline-server/internal/domain"
	"frontline-server/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func unitID(f domain.Faction, i uint64) domain.EntityID {
	return domain.PackEntityID(domain.KindUnit, f, i)
}

func sampleReport(id string, started time.Time) domain.BattleReport {
	return domain.BattleReport{
		SessionID:    id,
		Scenario:     "Battle of Stalingrad",
		ScenarioID:   1,
		Seed:         42,
		Difficulty:   "hard",
		StartedAt:    started,
		Ticks:        1200,
		DurationMs:   20000,
		GameOver:     true,
		Victory:      false,
		DefeatReason: "all units lost",
		Score:        700,
		Waves:        2,
		AlliedLost:   8,
		AxisLost:     5,

		ObjectivesCompleted: 2,
		ObjectivesTotal:     5,
		Events: []domain.CombatEvent{
			{
				ID:         domain.PackEntityID(domain.KindEvent, domain.FactionNone, 1),
				Kind:       domain.EventHit,
				AttackerID: unitID(domain.FactionAllied, 1),
				TargetID:   unitID(domain.FactionAxis, 2),
				Damage:     30,
				Position:   domain.Position{X: 500, Y: 300},
				Timestamp:  1500,
			},
			{
				ID:         domain.PackEntityID(domain.KindEvent, domain.FactionNone, 2),
				Kind:       domain.EventDestroy,
				AttackerID: unitID(domain.FactionAllied, 1),
				TargetID:   unitID(domain.FactionAxis, 2),
				Position:   domain.Position{X: 500, Y: 300},
				Timestamp:  2500,
			},
		},
		Commands: []domain.ReplayCommand{
			{Frame: 3, Tick: 3, Time: 48, Command: domain.CommandSelect, Payload: json.RawMessage(`{"x":100,"y":600}`)},
			{Frame: 9, Tick: 9, Time: 150, Command: domain.CommandPause},
		},
		Frames: []float64{16, 16.5, 0, 33.3},
	}
}

func openMemory(t *testing.T) *Recorder {
	t.Helper()
	db, err := Open(Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "journal.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	rec, err := NewRecorder(db)
	require.NoError(t, err)
	return rec
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mongo"})
	assert.Error(t, err)

	_, err = Open(Config{Driver: "postgres"})
	assert.Error(t, err, "без DSN postgres не открывается")
}

func TestRecorder_SaveAndLoad(t *testing.T) {
	rec := openMemory(t)
	ctx := context.Background()
	started := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rep := sampleReport("battle1", started)

	require.NoError(t, rec.Save(ctx, rep))

	got, err := rec.Load(ctx, "battle1")
	require.NoError(t, err)

	assert.Equal(t, rep.SessionID, got.SessionID)
	assert.Equal(t, rep.ScenarioID, got.ScenarioID)
	assert.Equal(t, rep.Seed, got.Seed)
	assert.True(t, rep.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, "defeat", got.Outcome())
	assert.Equal(t, rep.DefeatReason, got.DefeatReason)
	assert.Equal(t, rep.Score, got.Score)
	assert.Equal(t, rep.AxisLost, got.AxisLost)
	assert.Equal(t, rep.Events, got.Events)

	require.Len(t, got.Commands, 2)
	assert.Equal(t, domain.CommandSelect, got.Commands[0].Command)
	assert.JSONEq(t, `{"x":100,"y":600}`, string(got.Commands[0].Payload))
	assert.Equal(t, int64(9), got.Commands[1].Frame)
	assert.Empty(t, got.Commands[1].Payload)
}

func TestRecorder_SaveReplacesBattle(t *testing.T) {
	rec := openMemory(t)
	ctx := context.Background()
	rep := sampleReport("battle1", time.Now().UTC())

	require.NoError(t, rec.Save(ctx, rep))
	rep.Score = 1500
	rep.Events = rep.Events[:1]
	require.NoError(t, rec.Save(ctx, rep))

	got, err := rec.Load(ctx, "battle1")
	require.NoError(t, err)
	assert.Equal(t, 1500, got.Score)
	assert.Len(t, got.Events, 1)
}

func TestRecorder_ListAndDelete(t *testing.T) {
	rec := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, rec.Save(ctx, sampleReport("old", base)))
	require.NoError(t, rec.Save(ctx, sampleReport("new", base.Add(time.Hour))))

	list, err := rec.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].SessionID)
	assert.Equal(t, "defeat", list[0].Outcome)
	assert.Empty(t, list[0].Events, "список без событий")

	require.NoError(t, rec.Delete(ctx, "old"))
	_, err = rec.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrBattleNotFound)
}

func TestReplay_BinaryRoundTrip(t *testing.T) {
	rep := sampleReport("battle1", time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	log := rep.Replay()

	var buf bytes.Buffer
	require.NoError(t, WriteReplay(&buf, log))

	got, err := ReadReplay(&buf)
	require.NoError(t, err)
	assert.Equal(t, log.Seed, got.Seed)
	assert.Equal(t, log.ScenarioID, got.ScenarioID)
	assert.Equal(t, "hard", got.Difficulty)
	assert.True(t, log.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, log.Frames, got.Frames)
	require.Len(t, got.Commands, 2)
	assert.Equal(t, log.Commands[0], got.Commands[0])
	assert.Nil(t, got.Commands[1].Payload)
}

func TestReplay_RejectsForeignFile(t *testing.T) {
	_, err := ReadReplay(bytes.NewReader([]byte("CDRP0000000000000000000000000000000000000000")))
	assert.Error(t, err)
}

func TestReplay_RejectsNonFiniteFrames(t *testing.T) {
	for _, dt := range []float64{math.Inf(1), math.Inf(-1), math.NaN(), -1} {
		log := domain.ReplayLog{Seed: 1, Difficulty: "medium", Frames: []float64{16, dt, 16}}

		var buf bytes.Buffer
		require.NoError(t, WriteReplay(&buf, log))

		_, err := ReadReplay(&buf)
		assert.ErrorIs(t, err, ErrCorruptReplay, "delta %v", dt)
	}
}

func TestReplay_RejectsOversizedCounts(t *testing.T) {
	log := sampleReport("battle1", time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)).Replay()
	var buf bytes.Buffer
	require.NoError(t, WriteReplay(&buf, log))
	valid := buf.Bytes()

	// FrameCount и CommandCount лежат по смещениям 32 и 36
	tests := []struct {
		name   string
		offset int
	}{
		{"frame count", 32},
		{"command count", 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]byte(nil), valid...)
			binary.LittleEndian.PutUint32(data[tt.offset:], math.MaxUint32)

			_, err := ReadReplay(bytes.NewReader(data))
			assert.ErrorIs(t, err, ErrCorruptReplay)
		})
	}
}

func TestReplayStore_SaveLoad(t *testing.T) {
	store, err := NewReplayStore(filepath.Join(t.TempDir(), "replays"))
	require.NoError(t, err)

	log := sampleReport("battle1", time.Now()).Replay()
	path, err := store.Save(log)
	require.NoError(t, err)
	assert.Equal(t, ReplayExt, filepath.Ext(path))

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, log.Frames, got.Frames)
	assert.Len(t, got.Commands, 2)
}
