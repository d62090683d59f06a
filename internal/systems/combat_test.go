package systems

import (
	"math"
	"testing"

	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func duel(t *testing.T) (*battlefield.Registry, domain.Unit, domain.Unit) {
	t.Helper()
	reg := battlefield.NewRegistry()
	attacker := newUnit(reg, domain.UnitTankSherman, domain.FactionAllied, 0, 0)
	defender := newUnit(reg, domain.UnitTankSherman, domain.FactionAxis, 100, 0)
	require.Equal(t, 65, attacker.Stats.Damage)
	require.Equal(t, 40, defender.Stats.Armor)
	require.Equal(t, 200, defender.Stats.Health)
	return reg, attacker, defender
}

func TestCombat_ForcedHitAppliesExactDamage(t *testing.T) {
	_, attacker, defender := duel(t)
	attacker.IsAttacking = true

	clock := domain.NewSimClock(1000)
	rng := script(0.0, 0.5, 0.99) // попадание, разброс x1.0, без крита
	engine := NewCombatEngine(rng, clock)

	res := engine.Update([]domain.Unit{attacker}, []domain.Unit{defender}, 16)

	require.Len(t, res.NewEvents, 1)
	ev := res.NewEvents[0]
	expected := int(math.Floor(65 * 1.0 * (1 - 40.0/140.0)))
	assert.Equal(t, domain.EventHit, ev.Kind)
	assert.Equal(t, expected, ev.Damage)
	assert.Equal(t, 46, expected)

	shooter := res.PlayerUnits[0]
	assert.False(t, shooter.IsAttacking, "attack flag resets after the shot")
	assert.True(t, shooter.HasFired)
	assert.Equal(t, int64(1000), shooter.LastAttack)
	assert.Equal(t, 99.0, shooter.Ammunition)
	assert.True(t, res.PlayerUnitsChanged)
	require.Len(t, res.Projectiles, 1)

	// 250 мс полета - снаряд проходит 100 ед и попадает
	clock.Advance(250)
	res = engine.Update(res.PlayerUnits, res.EnemyUnits, 250)

	assert.Empty(t, res.Projectiles)
	require.Len(t, res.NewExplosions, 1)
	assert.Equal(t, domain.ExplosionMedium, res.NewExplosions[0].Size)
	assert.Equal(t, 200-46, res.EnemyUnits[0].Stats.Health)
	assert.True(t, res.EnemyUnitsChanged)
	assert.Equal(t, 3, rng.calls, "no extra draws on the flight tick")
}

func TestCombat_InputSlicesUntouched(t *testing.T) {
	_, attacker, defender := duel(t)
	attacker.IsAttacking = true
	players := []domain.Unit{attacker}

	engine := NewCombatEngine(script(0.0, 0.5, 0.99), domain.NewSimClock(0))
	engine.Update(players, []domain.Unit{defender}, 16)

	assert.True(t, players[0].IsAttacking)
	assert.Equal(t, 100.0, players[0].Ammunition)
}

func TestCombat_MissedProjectileExpiresPastRange(t *testing.T) {
	reg := battlefield.NewRegistry()
	attacker := newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 200, 200)
	target := newUnit(reg, domain.UnitGermanInfantry, domain.FactionAxis, 300, 200)
	attacker.IsAttacking = true

	clock := domain.NewSimClock(0)
	engine := NewCombatEngine(script(0.99, 0.5), clock) // промах, без отклонения
	res := engine.Update([]domain.Unit{attacker}, []domain.Unit{target}, 0)

	require.Len(t, res.Projectiles, 1)
	assert.True(t, res.Projectiles[0].IsMiss())
	assert.Equal(t, domain.EventMiss, res.NewEvents[0].Kind)

	last := 0.0
	ticks := 0
	for len(res.Projectiles) > 0 {
		p := res.Projectiles[0]
		assert.Greater(t, p.DistanceTraveled, last-1e-9)
		last = p.DistanceTraveled
		clock.Advance(100)
		res = engine.Update(res.PlayerUnits, res.EnemyUnits, 100)
		ticks++
		require.Less(t, ticks, 10)
	}

	// 40 ед за тик: 40, 80, 120 живы, на 160 снаряд снят
	assert.Equal(t, 4, ticks)
	assert.Equal(t, 120.0, last)
	assert.Equal(t, target.Stats.Health, res.EnemyUnits[0].Stats.Health)
}

func TestCombat_DeadTargetTurnsProjectileIntoMiss(t *testing.T) {
	_, attacker, defender := duel(t)
	attacker.IsAttacking = true

	clock := domain.NewSimClock(0)
	engine := NewCombatEngine(script(0.0, 0.5, 0.99), clock)
	res := engine.Update([]domain.Unit{attacker}, []domain.Unit{defender}, 0)
	require.Len(t, res.Projectiles, 1)

	enemies := res.EnemyUnits
	enemies[0].Stats.Health = 0

	clock.Advance(100)
	res = engine.Update(res.PlayerUnits, enemies, 100)

	require.Len(t, res.Projectiles, 1)
	assert.True(t, res.Projectiles[0].IsMiss())
	assert.Empty(t, res.NewExplosions)
}

func TestCombat_KillCreditsShooter(t *testing.T) {
	_, attacker, defender := duel(t)
	attacker.IsAttacking = true
	defender.Stats.Health = 10

	clock := domain.NewSimClock(0)
	engine := NewCombatEngine(script(0.0, 0.5, 0.99), clock)
	res := engine.Update([]domain.Unit{attacker}, []domain.Unit{defender}, 0)

	clock.Advance(300)
	res = engine.Update(res.PlayerUnits, res.EnemyUnits, 300)

	assert.Equal(t, 0, res.EnemyUnits[0].Stats.Health)
	assert.Equal(t, 1, res.PlayerUnits[0].KillCount)

	var kinds []domain.CombatEventKind
	for _, ev := range res.Events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []domain.CombatEventKind{domain.EventHit, domain.EventDestroy}, kinds)
}

func TestCombat_EventsPrunedAfterWindow(t *testing.T) {
	_, attacker, defender := duel(t)
	attacker.IsAttacking = true

	clock := domain.NewSimClock(0)
	engine := NewCombatEngine(script(0.99, 0.5), clock)
	res := engine.Update([]domain.Unit{attacker}, []domain.Unit{defender}, 0)
	require.Len(t, res.Events, 1)

	clock.Advance(5000)
	res = engine.Update(res.PlayerUnits, res.EnemyUnits, 0)
	assert.Len(t, res.Events, 1, "exactly 5s old is kept")

	clock.Advance(1)
	res = engine.Update(res.PlayerUnits, res.EnemyUnits, 1)
	assert.Empty(t, res.Events)
}

func TestCombat_NoShotWithoutTargetInRange(t *testing.T) {
	reg := battlefield.NewRegistry()
	attacker := newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 0, 0)
	far := newUnit(reg, domain.UnitGermanInfantry, domain.FactionAxis, 500, 0)
	attacker.IsAttacking = true

	rng := script()
	engine := NewCombatEngine(rng, domain.NewSimClock(0))
	res := engine.Update([]domain.Unit{attacker}, []domain.Unit{far}, 16)

	assert.Empty(t, res.Projectiles)
	assert.False(t, res.PlayerUnitsChanged)
	assert.Equal(t, 0, rng.calls)
}

func TestCanAttack_Cooldown(t *testing.T) {
	reg := battlefield.NewRegistry()
	u := newUnit(reg, domain.UnitTankSherman, domain.FactionAllied, 0, 0)

	assert.True(t, CanAttack(&u, 0), "first shot is never on cooldown")

	u.HasFired = true
	u.LastAttack = 1000
	assert.False(t, CanAttack(&u, 3499))
	assert.True(t, CanAttack(&u, 3500))

	u.Morale = 10
	assert.False(t, CanAttack(&u, 10000))
}

func TestAttackCooldown_ByClass(t *testing.T) {
	assert.Equal(t, int64(2500), AttackCooldown(domain.UnitPanzerIV))
	assert.Equal(t, int64(4000), AttackCooldown(domain.UnitArtillery))
	assert.Equal(t, int64(3000), AttackCooldown(domain.UnitAntiTank))
	assert.Equal(t, int64(1000), AttackCooldown(domain.UnitGermanInfantry))
	assert.Equal(t, int64(8000), AttackCooldown(domain.UnitStuka))
	assert.Equal(t, DefaultAttackCooldown, AttackCooldown(domain.UnitEngineer))
}

func TestComputeAccuracy_Clamped(t *testing.T) {
	reg := battlefield.NewRegistry()

	ace := newUnit(reg, domain.UnitAntiTank, domain.FactionAllied, 0, 0)
	ace.Stats.Accuracy = 0.95
	ace.ExperienceLevel = 10
	tank := newUnit(reg, domain.UnitPanzerIV, domain.FactionAxis, 0, 0)
	assert.Equal(t, domain.MaxAccuracy, ComputeAccuracy(&ace, &tank, 0))

	rookie := newUnit(reg, domain.UnitArtillery, domain.FactionAllied, 0, 0)
	rookie.Stats.Health = 1
	rookie.Morale = 0
	rookie.Stats.Accuracy = 0.1
	runner := newUnit(reg, domain.UnitGermanInfantry, domain.FactionAxis, 0, 0)
	runner.IsMoving = true
	assert.Equal(t, domain.MinAccuracy, ComputeAccuracy(&rookie, &runner, rookie.Stats.Range))
}

func TestComputeDamage_CriticalAndFloor(t *testing.T) {
	reg := battlefield.NewRegistry()
	at := newUnit(reg, domain.UnitAntiTank, domain.FactionAllied, 0, 0)
	tank := newUnit(reg, domain.UnitPanzerIV, domain.FactionAxis, 0, 0)

	dmg, crit := ComputeDamage(&at, &tank, script(0.5, 0.0))
	assert.True(t, crit)
	// 85 * (100/145) * 1.5 * 2
	assert.Equal(t, int(math.Floor(85*(100.0/145.0)*1.5*2)), dmg)

	weak := newUnit(reg, domain.UnitEngineer, domain.FactionAllied, 0, 0)
	weak.Stats.Damage = 0
	dmg, _ = ComputeDamage(&weak, &tank, script(0.0, 0.99))
	assert.Equal(t, 1, dmg)
}

func TestSelectCombatTarget_PrefersThreat(t *testing.T) {
	reg := battlefield.NewRegistry()
	me := newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 0, 0)
	near := newUnit(reg, domain.UnitGermanInfantry, domain.FactionAxis, 20, 0)
	shooter := newUnit(reg, domain.UnitGermanInfantry, domain.FactionAxis, 100, 0)
	shooter.IsAttacking = true
	shooter.TargetID = me.ID
	dead := newUnit(reg, domain.UnitGermanInfantry, domain.FactionAxis, 5, 0)
	dead.Stats.Health = 0

	idx := SelectCombatTarget(&me, []domain.Unit{near, shooter, dead})
	assert.Equal(t, 1, idx)

	assert.Equal(t, -1, SelectCombatTarget(&me, []domain.Unit{dead}))
}

func TestDamageBuildings_OnlyOpposingSide(t *testing.T) {
	buildings := []domain.Building{
		{ID: 1, Name: "bunker", Faction: domain.FactionAxis, Position: domain.Position{X: 100, Y: 100}, Width: 40, Height: 40, Health: 50, MaxHealth: 600},
		{ID: 2, Name: "hq", Faction: domain.FactionAllied, Position: domain.Position{X: 100, Y: 100}, Width: 40, Height: 40, Health: 500, MaxHealth: 500},
	}
	boom := domain.Explosion{Position: domain.Position{X: 150, Y: 100}, Radius: 40, Damage: 80, SourceFaction: domain.FactionAllied}

	out, destroyed := DamageBuildings(buildings, []domain.Explosion{boom})

	require.Len(t, destroyed, 1)
	assert.Equal(t, "bunker", destroyed[0].Name)
	assert.Equal(t, 0, out[0].Health)
	assert.Equal(t, 500, out[1].Health)
	assert.Equal(t, 50, buildings[0].Health)
}

func TestCombat_ZeroHealthTargetSkippedSameTick(t *testing.T) {
	reg, first, defender := duel(t)
	second := newUnit(reg, domain.UnitTankSherman, domain.FactionAllied, 0, 10)
	backup := newUnit(reg, domain.UnitTankSherman, domain.FactionAxis, 150, 0)
	defender.Stats.Health = 46 // ровно один выстрел
	first.IsAttacking = true

	clock := domain.NewSimClock(1000)
	// выстрел first: попадание, разброс x1.0, без крита; выстрел second: промах, разброс
	engine := NewCombatEngine(script(0.0, 0.5, 0.99, 0.99, 0.5), clock)

	res := engine.Update([]domain.Unit{first, second}, []domain.Unit{defender, backup}, 16)
	require.Len(t, res.NewEvents, 1)
	require.Equal(t, defender.ID, res.NewEvents[0].TargetID)
	require.Equal(t, 46, res.NewEvents[0].Damage)

	// В этом же тике снаряд добивает цель, а second открывает огонь
	players := res.PlayerUnits
	players[1].IsAttacking = true
	clock.Advance(250)
	res = engine.Update(players, res.EnemyUnits, 250)

	assert.Equal(t, 0, res.EnemyUnits[0].Stats.Health)
	assert.False(t, res.EnemyUnits[0].IsAlive())

	var destroyed, secondShots []domain.CombatEvent
	for _, ev := range res.NewEvents {
		if ev.Kind == domain.EventDestroy {
			destroyed = append(destroyed, ev)
		}
		if ev.AttackerID == second.ID {
			secondShots = append(secondShots, ev)
		}
	}
	require.Len(t, destroyed, 1)
	assert.Equal(t, defender.ID, destroyed[0].TargetID)

	require.Len(t, secondShots, 1, "second fires once, at the surviving unit")
	assert.Equal(t, backup.ID, secondShots[0].TargetID)
}
