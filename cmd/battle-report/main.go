package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine"
	"frontline-server/internal/infrastructure/storage"
	"frontline-server/internal/systems"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

type runStats struct {
	runIndex int
	seed     int64

	firstHitMs     int64
	firstDestroyMs int64

	hits      int
	misses    int
	criticals int
	destroys  int
	sounds    map[string]int

	report domain.BattleReport
}

func main() {
	var (
		runs       int
		ticks      int
		seedBase   int64
		seedStep   int64
		scenario   string
		difficulty string
		dt         float64
		dbPath     string
	)
	flag.IntVar(&runs, "runs", 5, "number of headless battles")
	flag.IntVar(&ticks, "ticks", 36000, "max ticks per battle")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "overlord", "scenario key")
	flag.StringVar(&difficulty, "difficulty", "medium", "easy, medium, hard, expert")
	flag.Float64Var(&dt, "dt", 1000.0/60, "simulated ms per tick")
	flag.StringVar(&dbPath, "db", "", "sqlite battle journal to record runs into")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 || dt <= 0 {
		fmt.Println("error: -ticks and -dt must be > 0")
		return
	}

	logger.Init()
	logger.Log.SetLevel(logrus.WarnLevel)

	sc := battlefield.ParseScenario(scenario)
	level := systems.ParseDifficulty(difficulty)

	var rec *storage.Recorder
	if dbPath != "" {
		db, err := storage.Open(storage.Config{Driver: "sqlite", Path: dbPath})
		if err == nil {
			rec, err = storage.NewRecorder(db)
		}
		if err != nil {
			fmt.Printf("error: battle journal: %v\n", err)
			return
		}
	}

	fmt.Printf("=== Headless Battle Report ===\n")
	fmt.Printf("scenario=%q difficulty=%s runs=%d ticks=%d dt=%.2fms seed_base=%d seed_step=%d\n\n",
		sc.String(), level, runs, ticks, dt, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runBattle(i+1, seed, sc, level, ticks, dt)
		all = append(all, rs)
		printRun(rs)

		if rec != nil {
			if err := rec.Save(context.Background(), rs.report); err != nil {
				fmt.Printf("warn: record run %d: %v\n", rs.runIndex, err)
			}
		}
	}

	printAggregate(all)
}

// runBattle крутит бой без рендерера: союзники держат позиции, ИИ оси наступает.
func runBattle(runIndex int, seed int64, sc battlefield.Scenario, level systems.Difficulty, ticks int, dt float64) runStats {
	audio := &engine.AudioRecorder{}
	s := engine.NewSession(sc, seed, engine.WithDifficulty(level), engine.WithAudio(audio))

	for i := 0; i < ticks; i++ {
		if !s.Tick(dt) {
			break
		}
	}

	rs := runStats{
		runIndex:       runIndex,
		seed:           seed,
		firstHitMs:     -1,
		firstDestroyMs: -1,
		sounds:         map[string]int{},
		report:         s.Report(),
	}
	for _, ev := range rs.report.Events {
		switch ev.Kind {
		case domain.EventHit:
			rs.hits++
		case domain.EventCritical:
			rs.criticals++
		case domain.EventMiss:
			rs.misses++
		case domain.EventDestroy:
			rs.destroys++
			if rs.firstDestroyMs < 0 {
				rs.firstDestroyMs = ev.Timestamp
			}
		}
		if rs.firstHitMs < 0 && (ev.Kind == domain.EventHit || ev.Kind == domain.EventCritical) {
			rs.firstHitMs = ev.Timestamp
		}
	}
	for _, name := range audio.Triggered {
		rs.sounds[name]++
	}
	return rs
}

func (rs runStats) accuracy() float64 {
	shots := rs.hits + rs.criticals + rs.misses
	if shots == 0 {
		return 0
	}
	return float64(rs.hits+rs.criticals) / float64(shots)
}

func printRun(rs runStats) {
	r := rs.report
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome=%s reason=%q score=%d sim=%.1fs ticks=%d waves=%d\n",
		r.Outcome(), r.DefeatReason, r.Score, float64(r.DurationMs)/1000, r.Ticks, r.Waves)
	fmt.Printf("losses: allied=%d axis=%d objectives=%d/%d\n",
		r.AlliedLost, r.AxisLost, r.ObjectivesCompleted, r.ObjectivesTotal)
	fmt.Printf("fire: hits=%d crits=%d misses=%d destroys=%d accuracy=%.2f first_hit=%dms first_kill=%dms\n",
		rs.hits, rs.criticals, rs.misses, rs.destroys, rs.accuracy(), rs.firstHitMs, rs.firstDestroyMs)
	fmt.Printf("audio: %s\n\n", joinCounts(rs.sounds))
}

func printAggregate(all []runStats) {
	var victories, defeats, unfinished int
	var score, duration, allied, axis float64
	reasons := map[string]int{}
	for _, rs := range all {
		switch rs.report.Outcome() {
		case "victory":
			victories++
		case "defeat":
			defeats++
			reasons[rs.report.DefeatReason]++
		default:
			unfinished++
		}
		score += float64(rs.report.Score)
		duration += float64(rs.report.DurationMs) / 1000
		allied += float64(rs.report.AlliedLost)
		axis += float64(rs.report.AxisLost)
	}
	n := float64(len(all))

	fmt.Printf("=== Aggregate (%d runs) ===\n", len(all))
	fmt.Printf("victories=%d defeats=%d unfinished=%d\n", victories, defeats, unfinished)
	fmt.Printf("avg_score=%.1f avg_sim=%.1fs avg_allied_lost=%.1f avg_axis_lost=%.1f\n",
		score/n, duration/n, allied/n, axis/n)
	if len(reasons) > 0 {
		fmt.Printf("defeat_reasons: %s\n", joinCounts(reasons))
	}
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}
