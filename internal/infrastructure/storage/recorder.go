package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"frontline-server/internal/domain"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrBattleNotFound = errors.New("battle not found")

// Recorder пишет отчеты о боях в базу и читает их обратно.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder мигрирует схему и возвращает журнал.
func NewRecorder(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("migrate battle journal: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Save сохраняет отчет целиком. Повторное сохранение того же боя заменяет запись.
func (r *Recorder) Save(ctx context.Context, rep domain.BattleReport) error {
	rec, err := toRecord(rep)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteBattle(tx, rep.SessionID); err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return fmt.Errorf("save battle %s: %w", rep.SessionID, err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "storage",
		"session":   rep.SessionID,
		"outcome":   rec.Outcome,
		"events":    len(rec.Events),
		"commands":  len(rec.Commands),
	}).Info("Battle recorded")
	return nil
}

// List - последние бои, новые сверху. Без событий и команд.
func (r *Recorder) List(ctx context.Context, limit int) ([]BattleRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []BattleRecord
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	return out, nil
}

// Load восстанавливает отчет по ID сессии.
func (r *Recorder) Load(ctx context.Context, sessionID string) (domain.BattleReport, error) {
	var rec BattleRecord
	err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Preload("Commands", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		First(&rec, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.BattleReport{}, fmt.Errorf("%w: %s", ErrBattleNotFound, sessionID)
	}
	if err != nil {
		return domain.BattleReport{}, fmt.Errorf("load battle %s: %w", sessionID, err)
	}
	return fromRecord(rec)
}

// Delete удаляет бой вместе с событиями и командами.
func (r *Recorder) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteBattle(tx, sessionID)
	})
}

func deleteBattle(tx *gorm.DB, sessionID string) error {
	if err := tx.Where("session_id = ?", sessionID).Delete(&CombatEventRecord{}).Error; err != nil {
		return err
	}
	if err := tx.Where("session_id = ?", sessionID).Delete(&CommandRecord{}).Error; err != nil {
		return err
	}
	return tx.Where("session_id = ?", sessionID).Delete(&BattleRecord{}).Error
}

func toRecord(rep domain.BattleReport) (BattleRecord, error) {
	rec := BattleRecord{
		SessionID:           rep.SessionID,
		Scenario:            rep.Scenario,
		ScenarioID:          rep.ScenarioID,
		Seed:                rep.Seed,
		Difficulty:          rep.Difficulty,
		StartedAt:           rep.StartedAt,
		Ticks:               rep.Ticks,
		DurationMs:          rep.DurationMs,
		Outcome:             rep.Outcome(),
		DefeatReason:        rep.DefeatReason,
		Score:               rep.Score,
		Waves:               rep.Waves,
		AlliedLost:          rep.AlliedLost,
		AxisLost:            rep.AxisLost,
		ObjectivesCompleted: rep.ObjectivesCompleted,
		ObjectivesTotal:     rep.ObjectivesTotal,
	}

	rec.Events = make([]CombatEventRecord, 0, len(rep.Events))
	for i, ev := range rep.Events {
		details, err := json.Marshal(ev)
		if err != nil {
			return BattleRecord{}, fmt.Errorf("encode event %d: %w", i, err)
		}
		rec.Events = append(rec.Events, CombatEventRecord{
			SessionID: rep.SessionID,
			Seq:       i,
			Kind:      ev.Kind.String(),
			Timestamp: ev.Timestamp,
			Damage:    ev.Damage,
			Details:   datatypes.JSON(details),
		})
	}

	rec.Commands = make([]CommandRecord, 0, len(rep.Commands))
	for i, cmd := range rep.Commands {
		rec.Commands = append(rec.Commands, CommandRecord{
			SessionID: rep.SessionID,
			Seq:       i,
			Frame:     cmd.Frame,
			Tick:      cmd.Tick,
			Time:      cmd.Time,
			Command:   cmd.Command.String(),
			Payload:   datatypes.JSON(cmd.Payload),
		})
	}
	return rec, nil
}

func fromRecord(rec BattleRecord) (domain.BattleReport, error) {
	rep := domain.BattleReport{
		SessionID:           rec.SessionID,
		Scenario:            rec.Scenario,
		ScenarioID:          rec.ScenarioID,
		Seed:                rec.Seed,
		Difficulty:          rec.Difficulty,
		StartedAt:           rec.StartedAt,
		Ticks:               rec.Ticks,
		DurationMs:          rec.DurationMs,
		GameOver:            rec.Outcome != "unfinished",
		Victory:             rec.Outcome == "victory",
		DefeatReason:        rec.DefeatReason,
		Score:               rec.Score,
		Waves:               rec.Waves,
		AlliedLost:          rec.AlliedLost,
		AxisLost:            rec.AxisLost,
		ObjectivesCompleted: rec.ObjectivesCompleted,
		ObjectivesTotal:     rec.ObjectivesTotal,
	}

	for _, er := range rec.Events {
		var ev domain.CombatEvent
		if err := json.Unmarshal(er.Details, &ev); err != nil {
			return domain.BattleReport{}, fmt.Errorf("decode event %d: %w", er.Seq, err)
		}
		rep.Events = append(rep.Events, ev)
	}
	for _, cr := range rec.Commands {
		rep.Commands = append(rep.Commands, domain.ReplayCommand{
			Frame:   cr.Frame,
			Tick:    cr.Tick,
			Time:    cr.Time,
			Command: domain.ParseCommand(cr.Command),
			Payload: json.RawMessage(cr.Payload),
		})
	}
	return rep, nil
}
