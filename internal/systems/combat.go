package systems

import (
	"math"

	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// CombatResult - итог одного тика боевой системы.
type CombatResult struct {
	PlayerUnits        []domain.Unit
	EnemyUnits         []domain.Unit
	PlayerUnitsChanged bool
	EnemyUnitsChanged  bool

	Events        []domain.CombatEvent // скользящее окно 5с
	NewEvents     []domain.CombatEvent // появились в этом тике
	Projectiles   []domain.Projectile
	Explosions    []domain.Explosion
	NewExplosions []domain.Explosion
}

// CombatEngine разрешает атаки, полет снарядов и попадания.
// Владеет списками снарядов, взрывов и журналом событий.
type CombatEngine struct {
	rng   domain.Random
	clock domain.Clock

	projectiles []domain.Projectile
	explosions  []domain.Explosion
	events      []domain.CombatEvent

	projectileIDs *domain.IDAllocator
	explosionIDs  *domain.IDAllocator
	eventIDs      *domain.IDAllocator
}

func NewCombatEngine(rng domain.Random, clock domain.Clock) *CombatEngine {
	return &CombatEngine{
		rng:           rng,
		clock:         clock,
		projectileIDs: domain.NewIDAllocator(domain.KindProjectile),
		explosionIDs:  domain.NewIDAllocator(domain.KindExplosion),
		eventIDs:      domain.NewIDAllocator(domain.KindEvent),
	}
}

// battle - рабочая копия обеих сторон на время тика.
type battle struct {
	allied, axis               []domain.Unit
	alliedChanged, axisChanged bool
}

func (b *battle) side(f domain.Faction) (*[]domain.Unit, *bool) {
	if f == domain.FactionAxis {
		return &b.axis, &b.axisChanged
	}
	return &b.allied, &b.alliedChanged
}

func (b *battle) find(id domain.EntityID) (*domain.Unit, *bool) {
	list, changed := b.side(id.Faction())
	for i := range *list {
		if (*list)[i].ID == id {
			return &(*list)[i], changed
		}
	}
	return nil, nil
}

// Update выполняет тик: полет снарядов, попадания, новые выстрелы, очистка.
// Входные срезы не меняются, результат содержит копии.
func (e *CombatEngine) Update(playerUnits, enemyUnits []domain.Unit, deltaMs float64) CombatResult {
	if deltaMs < 0 {
		deltaMs = 0
	}
	now := e.clock.Now()

	b := &battle{
		allied: append([]domain.Unit(nil), playerUnits...),
		axis:   append([]domain.Unit(nil), enemyUnits...),
	}
	var newEvents []domain.CombatEvent
	var newExplosions []domain.Explosion

	for i := range e.explosions {
		e.explosions[i].Elapsed += deltaMs
	}

	// 1-2. Полет и попадания
	alive := e.projectiles[:0]
	for _, p := range e.projectiles {
		hit, keep := e.advanceProjectile(&p, b, deltaMs, now, &newEvents)
		if hit {
			exp := e.spawnExplosion(p)
			newExplosions = append(newExplosions, exp)
			continue
		}
		if keep {
			alive = append(alive, p)
		}
	}
	e.projectiles = alive

	// 3. Новые выстрелы
	e.resolveAttacks(b.allied, b.axis, &b.alliedChanged, now, &newEvents)
	e.resolveAttacks(b.axis, b.allied, &b.axisChanged, now, &newEvents)

	// 4. Очистка
	e.events = append(e.events, newEvents...)
	e.pruneEvents(now)
	e.pruneExplosions()

	return CombatResult{
		PlayerUnits:        b.allied,
		EnemyUnits:         b.axis,
		PlayerUnitsChanged: b.alliedChanged,
		EnemyUnitsChanged:  b.axisChanged,
		Events:             e.Events(),
		NewEvents:          newEvents,
		Projectiles:        e.Projectiles(),
		Explosions:         e.Explosions(),
		NewExplosions:      newExplosions,
	}
}

// advanceProjectile двигает снаряд на dt. Попадание проверяется по всему
// отрезку пути, чтобы быстрый снаряд не проскочил цель на длинном кадре.
func (e *CombatEngine) advanceProjectile(p *domain.Projectile, b *battle, deltaMs float64, now int64, events *[]domain.CombatEvent) (hit, keep bool) {
	dt := deltaMs / 1000
	start := p.Position
	end := start.Shift(p.Velocity.X*dt, p.Velocity.Y*dt)

	if !p.IsMiss() {
		target, changed := b.find(p.TargetID)
		if target == nil || !target.IsAlive() {
			// Цели больше нет - снаряд летит дальше как промах
			p.TargetID = domain.NoEntity
		} else if closest, d := closestOnSegment(start, end, target.Position); d <= domain.HitRadius {
			p.DistanceTraveled += start.DistanceTo(closest)
			p.Position = closest
			*changed = true
			e.applyHit(p, target, b, now, events)
			return true, false
		}
	}

	p.Position = end
	p.DistanceTraveled += start.DistanceTo(end)

	if p.DistanceTraveled > p.Range || !domain.ProjectileBounds.Contains(p.Position) {
		return false, false
	}
	return false, true
}

// applyHit наносит урон цели и фиксирует уничтожение.
func (e *CombatEngine) applyHit(p *domain.Projectile, target *domain.Unit, b *battle, now int64, events *[]domain.CombatEvent) {
	died := target.TakeDamage(p.Damage)
	if !died {
		return
	}

	*events = append(*events, domain.CombatEvent{
		ID:         e.eventIDs.Next(p.SourceFaction),
		Kind:       domain.EventDestroy,
		AttackerID: p.SourceID,
		TargetID:   target.ID,
		Damage:     p.Damage,
		Position:   target.Position,
		Timestamp:  now,
	})

	if shooter, changed := b.find(p.SourceID); shooter != nil && shooter.IsAlive() {
		if battlefield.AwardKill(shooter) {
			logger.Log.WithFields(logrus.Fields{
				"component": "combat_system",
				"unit":      shooter.ID.String(),
				"level":     shooter.ExperienceLevel,
			}).Debug("Unit promoted.")
		}
		*changed = true
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "combat_system",
		"attacker":  p.SourceID.String(),
		"target":    target.ID.String(),
		"type":      target.Type.String(),
	}).Info("Unit destroyed.")
}

func (e *CombatEngine) spawnExplosion(p domain.Projectile) domain.Explosion {
	profile := ExplosionFor(p.Type)
	exp := domain.Explosion{
		ID:            e.explosionIDs.Next(p.SourceFaction),
		Position:      p.Position,
		Radius:        profile.Radius,
		Damage:        profile.Damage,
		Duration:      profile.Duration,
		Size:          profile.Size,
		SourceFaction: p.SourceFaction,
	}
	e.explosions = append(e.explosions, exp)
	return exp
}

// resolveAttacks обрабатывает юнитов с флагом IsAttacking.
func (e *CombatEngine) resolveAttacks(attackers, opponents []domain.Unit, changed *bool, now int64, events *[]domain.CombatEvent) {
	for i := range attackers {
		u := &attackers[i]
		if !u.IsAttacking || !CanAttack(u, now) {
			continue
		}

		idx := SelectCombatTarget(u, opponents)
		if idx < 0 {
			continue
		}
		target := &opponents[idx]
		dist := u.Position.DistanceTo(target.Position)
		if dist > u.Stats.Range {
			continue
		}

		accuracy := ComputeAccuracy(u, target, dist)
		isHit := e.rng.Float64() <= accuracy

		ev := domain.CombatEvent{
			ID:         e.eventIDs.Next(u.Faction),
			Kind:       domain.EventMiss,
			AttackerID: u.ID,
			TargetID:   target.ID,
			Position:   target.Position,
			Timestamp:  now,
		}

		heading := u.Position.AngleTo(target.Position)
		proj := domain.Projectile{
			ID:            e.projectileIDs.Next(u.Faction),
			Position:      u.Position,
			Range:         u.Stats.Range,
			SourceID:      u.ID,
			SourceFaction: u.Faction,
			Type:          ProjectileTypeFor(u.Type),
		}

		if isHit {
			dmg, crit := ComputeDamage(u, target, e.rng)
			proj.Damage = dmg
			proj.TargetID = target.ID
			ev.Damage = dmg
			ev.Kind = domain.EventHit
			if crit {
				ev.Kind = domain.EventCritical
			}
		} else {
			heading += (e.rng.Float64() - 0.5) * domain.MissSpread
		}
		proj.Velocity = domain.Position{
			X: math.Cos(heading) * domain.ProjectileSpeed,
			Y: math.Sin(heading) * domain.ProjectileSpeed,
		}

		e.projectiles = append(e.projectiles, proj)
		*events = append(*events, ev)

		u.Ammunition = math.Max(0, u.Ammunition-1)
		u.IsAttacking = false
		u.LastAttack = now
		u.HasFired = true
		u.TargetID = target.ID
		u.Rotation = u.Position.AngleTo(target.Position)
		*changed = true
	}
}

func (e *CombatEngine) pruneEvents(now int64) {
	kept := e.events[:0]
	for _, ev := range e.events {
		if now-ev.Timestamp <= domain.CombatEventWindowMs {
			kept = append(kept, ev)
		}
	}
	e.events = kept
}

func (e *CombatEngine) pruneExplosions() {
	kept := e.explosions[:0]
	for _, ex := range e.explosions {
		if !ex.Finished() {
			kept = append(kept, ex)
		}
	}
	e.explosions = kept
}

// Projectiles - копия активных снарядов.
func (e *CombatEngine) Projectiles() []domain.Projectile {
	return append([]domain.Projectile(nil), e.projectiles...)
}

// Explosions - копия активных взрывов.
func (e *CombatEngine) Explosions() []domain.Explosion {
	return append([]domain.Explosion(nil), e.explosions...)
}

// Events - копия журнала за последние 5 секунд.
func (e *CombatEngine) Events() []domain.CombatEvent {
	return append([]domain.CombatEvent(nil), e.events...)
}

// Reset очищает боевое состояние (новая миссия).
func (e *CombatEngine) Reset() {
	e.projectiles = nil
	e.explosions = nil
	e.events = nil
}

// closestOnSegment - ближайшая к p точка отрезка [a,b] и расстояние до нее.
func closestOnSegment(a, b, p domain.Position) (domain.Position, float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a, a.DistanceTo(p)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	c := domain.Position{X: a.X + dx*t, Y: a.Y + dy*t}
	return c, c.DistanceTo(p)
}
