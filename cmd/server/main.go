package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine"
	"frontline-server/internal/infrastructure/storage"
	"frontline-server/internal/network"
	"frontline-server/internal/server"
	"frontline-server/internal/version"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Конфигурация: файл + FRONTLINE_*, флаги поверх
	var (
		configPath string
		seed       int64
		scenario   string
		replayPath string
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (default ./frontline.*)")
	flag.Int64Var(&seed, "seed", 0, "Session seed (0 = from config or time)")
	flag.StringVar(&scenario, "scenario", "", "Scenario key: overlord, stalingrad, barbarossa, skirmish")
	flag.StringVar(&replayPath, "replay", "", "Path to .flrp replay file to re-simulate headless")
	flag.Parse()

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	if seed != 0 {
		cfg.Seed = seed
	}
	if scenario != "" {
		cfg.Scenario = scenario
	}

	logger.Log.Info("Starting Frontline battle server...")
	logger.Log.Info(version.String())

	// РЕЖИМ ПОВТОРА
	if replayPath != "" {
		runReplay(cfg, replayPath)
		return
	}

	metrics, err := engine.NewMetrics()
	if err != nil {
		logger.Log.WithError(err).Warn("Metrics disabled")
	}

	sc := battlefield.ParseScenario(cfg.Scenario)
	session := engine.NewSession(sc, cfg.Seed,
		engine.WithDifficulty(cfg.DifficultyLevel()),
		engine.WithResourceConfig(cfg.Resources),
		engine.WithMetrics(metrics),
	)
	logger.Log.WithFields(logrus.Fields{
		"scenario": sc.String(),
		"seed":     cfg.Seed,
		"tickRate": cfg.TickRate,
	}).Info("Battle prepared")

	hub := network.NewBroadcaster()
	runner := engine.NewRunner(session, cfg.TickInterval(), hub)
	srv := server.New(runner, hub, cfg.Server.Port)

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvDone := make(chan error, 1)
	go func() {
		srvDone <- srv.Run(ctx)
	}()

	// 2. Бой до победы, поражения или сигнала
	report := runner.Run(ctx)
	persist(cfg, report)

	// Сервер живет до сигнала: рендерер показывает итог, debug отдает отчет
	select {
	case <-ctx.Done():
	case err := <-srvDone:
		if err != nil {
			logger.Log.WithError(err).Error("Server stopped")
		}
		return
	}
	logger.Log.Info("Shutting down...")
	if err := <-srvDone; err != nil {
		logger.Log.WithError(err).Error("Server shutdown error")
	}
	logger.Log.Info("Done.")
}

// persist пишет отчет в журнал боев и файл повтора, если они включены.
func persist(cfg engine.Config, rep domain.BattleReport) {
	log := logger.Log.WithField("session", rep.SessionID)

	if cfg.Storage.ReplayDir != "" {
		store, err := storage.NewReplayStore(cfg.Storage.ReplayDir)
		if err == nil {
			var path string
			if path, err = store.Save(rep.Replay()); err == nil {
				log.WithField("path", path).Info("Replay saved")
			}
		}
		if err != nil {
			log.WithError(err).Error("Failed to save replay")
		}
	}

	if !cfg.Storage.Enabled {
		return
	}
	db, err := storage.Open(storage.Config{Driver: cfg.Storage.Driver, Path: cfg.Storage.Path, DSN: cfg.Storage.DSN})
	if err != nil {
		log.WithError(err).Error("Battle journal unavailable")
		return
	}
	rec, err := storage.NewRecorder(db)
	if err != nil {
		log.WithError(err).Error("Battle journal unavailable")
		return
	}
	if err := rec.Save(context.Background(), rep); err != nil {
		log.WithError(err).Error("Failed to record battle")
	}
}

func runReplay(cfg engine.Config, path string) {
	logger.Log.Info("Mode: Replay Simulation")

	store := &storage.ReplayStore{}
	replayLog, err := store.Load(path)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load replay")
	}

	session, err := engine.Replay(replayLog, engine.WithResourceConfig(cfg.Resources))
	if err != nil {
		logger.Log.WithError(err).Error("Replay diverged")
	}
	rep := session.Report()
	logger.Log.WithFields(logrus.Fields{
		"outcome": rep.Outcome(),
		"score":   rep.Score,
		"sim_ms":  rep.DurationMs,
		"axis":    rep.AxisLost,
		"allied":  rep.AlliedLost,
	}).Info("Replay result")
}
