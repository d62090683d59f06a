package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine"
	"frontline-server/internal/infrastructure/storage"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

const defaultDB = "frontline.db"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}
	logger.Init()
	logger.Log.SetLevel(logrus.WarnLevel)

	switch os.Args[1] {
	case "list":
		limit := 20
		if len(os.Args) > 3 {
			if n, err := strconv.Atoi(os.Args[3]); err == nil {
				limit = n
			}
		}
		withRecorder(argOr(2, defaultDB), func(r *storage.Recorder) error {
			return list(r, limit)
		})
	case "show":
		if len(os.Args) < 3 {
			fmt.Println("Usage: aarview show <session_id> [db]")
			return
		}
		withRecorder(argOr(3, defaultDB), func(r *storage.Recorder) error {
			return show(r, os.Args[2])
		})
	case "replay":
		if len(os.Args) < 3 {
			fmt.Println("Usage: aarview replay <file.flrp>")
			return
		}
		if err := replay(os.Args[2]); err != nil {
			fmt.Printf("Replay failed: %v\n", err)
			os.Exit(1)
		}
	case "clock":
		if len(os.Args) < 3 {
			fmt.Println("Usage: aarview clock <sim_ms>")
			return
		}
		ms, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid time: %v\n", err)
			return
		}
		fmt.Println(simClock(ms))
	default:
		printHelp()
	}
}

func argOr(i int, fallback string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return fallback
}

func withRecorder(path string, fn func(*storage.Recorder) error) {
	db, err := storage.Open(storage.Config{Driver: "sqlite", Path: path})
	if err != nil {
		fmt.Printf("Cannot open %s: %v\n", path, err)
		os.Exit(1)
	}
	rec, err := storage.NewRecorder(db)
	if err == nil {
		err = fn(rec)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func list(r *storage.Recorder, limit int) error {
	battles, err := r.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(battles) == 0 {
		fmt.Println("No battles recorded.")
		return nil
	}
	fmt.Printf("%-18s %-22s %-8s %-10s %6s %8s %s\n", "SESSION", "SCENARIO", "DIFF", "OUTCOME", "SCORE", "TIME", "STARTED")
	for _, b := range battles {
		fmt.Printf("%-18s %-22s %-8s %-10s %6d %8s %s\n",
			b.SessionID, b.Scenario, b.Difficulty, b.Outcome, b.Score, simClock(b.DurationMs), b.StartedAt.Format(time.RFC3339))
	}
	return nil
}

func show(r *storage.Recorder, id string) error {
	rep, err := r.Load(context.Background(), id)
	if err != nil {
		return err
	}
	fmt.Printf("Battle %s: %s (%s), seed %d\n", rep.SessionID, rep.Scenario, rep.Difficulty, rep.Seed)
	fmt.Printf("Started %s, lasted %s over %d ticks\n", rep.StartedAt.Format(time.RFC3339), simClock(rep.DurationMs), rep.Ticks)
	fmt.Printf("Outcome: %s", rep.Outcome())
	if rep.DefeatReason != "" {
		fmt.Printf(" (%s)", rep.DefeatReason)
	}
	fmt.Printf(", score %d, waves %d\n", rep.Score, rep.Waves)
	fmt.Printf("Losses: allied %d, axis %d. Objectives %d/%d\n", rep.AlliedLost, rep.AxisLost, rep.ObjectivesCompleted, rep.ObjectivesTotal)

	kinds := map[domain.CombatEventKind]int{}
	for _, ev := range rep.Events {
		kinds[ev.Kind]++
	}
	fmt.Printf("Fire: hit=%d critical=%d miss=%d destroy=%d\n",
		kinds[domain.EventHit], kinds[domain.EventCritical], kinds[domain.EventMiss], kinds[domain.EventDestroy])

	fmt.Printf("Commands (%d):\n", len(rep.Commands))
	for _, c := range rep.Commands {
		fmt.Printf("  %s  %-8s %s\n", simClock(c.Time), c.Command, string(c.Payload))
	}
	return nil
}

func replay(path string) error {
	store := &storage.ReplayStore{}
	log, err := store.Load(path)
	if err != nil {
		return err
	}
	s, err := engine.Replay(log)
	if err != nil {
		return err
	}
	rep := s.Report()
	fmt.Printf("Replayed %d frames, %d commands: %s, score %d, sim %s\n",
		len(log.Frames), len(log.Commands), rep.Outcome(), rep.Score, simClock(rep.DurationMs))
	return nil
}

// simClock форматирует мс симуляции как mm:ss.mmm
func simClock(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%02d:%02d.%03d", int(d.Minutes()), int(d.Seconds())%60, ms%1000)
}

func printHelp() {
	fmt.Println(`aarview - разбор боев после боя
Commands:
  list [db] [n]          - последние бои из журнала (по умолчанию frontline.db)
  show <session> [db]    - подробный отчет по бою
  replay <file.flrp>     - заново проиграть бой из файла повтора
  clock <sim_ms>         - перевести время симуляции в mm:ss.mmm`)
}
