package engine

import (
	"context"
	"sync"
	"time"

	"frontline-server/internal/domain"
	"frontline-server/pkg/api"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MaxFrameDeltaMs - потолок дельты одного кадра. Долгая пауза процесса
// не превращается в один огромный шаг симуляции.
const MaxFrameDeltaMs = 100.0

// Publisher рассылает кадры подписчикам (network.Broadcaster).
type Publisher interface {
	Broadcast(frame api.Frame)
}

// Snapshot - состояние сессии для debug-эндпоинтов, снимается после каждого тика.
type Snapshot struct {
	Tick         int64                `json:"tick"`
	Time         int64                `json:"time"`
	PlayerUnits  []domain.Unit        `json:"playerUnits"`
	EnemyUnits   []domain.Unit        `json:"enemyUnits"`
	Brains       []domain.AIData      `json:"brains"`
	Buildings    []domain.Building    `json:"buildings"`
	Objectives   []domain.Objective   `json:"objectives"`
	Resources    domain.Resources     `json:"resources"`
	State        domain.GameState     `json:"state"`
	DefeatReason string               `json:"defeatReason,omitempty"`
	Recent       []domain.CombatEvent `json:"recentEvents"`
}

// Runner - часы реального времени: раз в интервал меряет прошедшее время,
// вызывает Session.Tick и рассылает кадр. Единственная горутина, которая
// трогает сессию.
type Runner struct {
	session  *Session
	interval time.Duration
	hub      Publisher

	mu       sync.RWMutex
	snapshot Snapshot
	report   *domain.BattleReport
	done     chan struct{}
}

func NewRunner(s *Session, interval time.Duration, hub Publisher) *Runner {
	if interval <= 0 {
		interval = time.Second / 60
	}
	r := &Runner{
		session:  s,
		interval: interval,
		hub:      hub,
		done:     make(chan struct{}),
	}
	r.snapshot = s.Snapshot()
	return r
}

// Run крутит цикл до отмены ctx или конца боя и возвращает отчет.
func (r *Runner) Run(ctx context.Context) domain.BattleReport {
	log := logger.Log.WithFields(logrus.Fields{
		"session":  r.session.ID,
		"scenario": r.session.Scenario.String(),
	})
	log.WithField("interval", r.interval).Info("Runner started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.publish()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info("Runner stopped")
			return r.finish()
		case now := <-ticker.C:
			running := r.session.Tick(FrameDelta(now.Sub(last)))
			last = now
			r.publish()
			if !running {
				log.WithField("score", r.session.State().Score).Info("Battle over, runner stopped")
				return r.finish()
			}
		}
	}
}

// FrameDelta переводит реальный интервал в мс симуляции с потолком.
func FrameDelta(d time.Duration) float64 {
	ms := float64(d.Microseconds()) / 1000
	if ms < 0 {
		return 0
	}
	if ms > MaxFrameDeltaMs {
		return MaxFrameDeltaMs
	}
	return ms
}

func (r *Runner) publish() {
	snap := r.session.Snapshot()
	frame := r.session.Frame()

	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()

	if r.hub != nil {
		r.hub.Broadcast(frame)
	}
}

func (r *Runner) finish() domain.BattleReport {
	rep := r.session.Report()
	r.mu.Lock()
	r.report = &rep
	r.mu.Unlock()
	close(r.done)
	return rep
}

// Submit передает команду рендерера в сессию.
func (r *Runner) Submit(client string, cmd api.ClientCommand) error {
	return r.session.Submit(client, cmd)
}

// Snapshot - последний снимок после тика.
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Done закрывается, когда Run вернул управление.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Report - отчет после остановки. false, пока Run не завершился.
func (r *Runner) Report() (domain.BattleReport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.report == nil {
		return domain.BattleReport{}, false
	}
	return *r.report, true
}

// Snapshot снимает копию состояния. Вызывать из горутины сессии.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:         s.tick,
		Time:         s.clock.Now(),
		PlayerUnits:  s.PlayerUnits(),
		EnemyUnits:   s.EnemyUnits(),
		Brains:       s.Brains(),
		Buildings:    s.Buildings(),
		Objectives:   s.Objectives(),
		Resources:    s.resources,
		State:        s.state,
		DefeatReason: s.defeatReason,
		Recent:       s.combat.Events(),
	}
}
