package systems

import (
	"testing"

	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerOrders_ApproachThenEngage(t *testing.T) {
	reg := battlefield.NewRegistry()
	tank := newUnit(reg, domain.UnitTankSherman, domain.FactionAllied, 100, 400)
	target := newUnit(reg, domain.UnitPanzerIV, domain.FactionAxis, 500, 400)
	tank.AttackOrder = true
	tank.TargetID = target.ID

	res := UpdatePlayerUnits([]domain.Unit{tank}, []domain.Unit{target}, 100)
	got := res.Units[0]
	require.NotNil(t, got.TargetPosition)
	// 400 - 0.8*180 = 256 ед к цели
	assert.InDelta(t, 356, got.TargetPosition.X, 1e-6)
	assert.True(t, got.IsMoving)
	assert.False(t, got.IsAttacking)
	assert.Greater(t, got.Position.X, 100.0)

	got.Position = domain.Position{X: 400, Y: 400}
	res = UpdatePlayerUnits([]domain.Unit{got}, []domain.Unit{target}, 100)
	got = res.Units[0]
	assert.True(t, got.IsAttacking)
	assert.False(t, got.IsMoving)
	assert.Equal(t, target.ID, got.TargetID)
	assert.True(t, got.AttackOrder)
}

func TestPlayerOrders_DeadTargetClearsOrder(t *testing.T) {
	reg := battlefield.NewRegistry()
	tank := newUnit(reg, domain.UnitTankSherman, domain.FactionAllied, 100, 400)
	target := newUnit(reg, domain.UnitPanzerIV, domain.FactionAxis, 200, 400)
	target.Stats.Health = 0
	tank.AttackOrder = true
	tank.TargetID = target.ID

	res := UpdatePlayerUnits([]domain.Unit{tank}, []domain.Unit{target}, 100)
	got := res.Units[0]
	assert.False(t, got.AttackOrder)
	assert.False(t, got.IsAttacking)
	assert.True(t, got.TargetID.IsZero())
}

func TestPlayerOrders_IdleReturnsFire(t *testing.T) {
	reg := battlefield.NewRegistry()
	inf := newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 100, 400)
	near := newUnit(reg, domain.UnitGermanInfantry, domain.FactionAxis, 200, 400)

	res := UpdatePlayerUnits([]domain.Unit{inf}, []domain.Unit{near}, 16)
	assert.True(t, res.Units[0].IsAttacking)
	assert.True(t, res.Changed)

	inf.MoveTo(domain.Position{X: 100, Y: 100})
	res = UpdatePlayerUnits([]domain.Unit{inf}, []domain.Unit{near}, 16)
	assert.False(t, res.Units[0].IsAttacking, "units on the move hold fire")
}

func TestValidateTarget(t *testing.T) {
	reg := battlefield.NewRegistry()
	me := newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 0, 0)
	friend := newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 10, 0)
	foe := newUnit(reg, domain.UnitGermanInfantry, domain.FactionAxis, 500, 0)

	v := ValidateTarget(&me, foe.ID, []domain.Unit{friend, foe})
	assert.True(t, v.Valid)
	assert.False(t, v.InRange)
	assert.Equal(t, 1, v.Index)

	v = ValidateTarget(&me, friend.ID, []domain.Unit{friend, foe})
	assert.False(t, v.Valid)

	v = ValidateTarget(&me, domain.NoEntity, []domain.Unit{foe})
	assert.False(t, v.Valid)
	assert.NotEmpty(t, v.Message)
}

func TestFindUnitAt(t *testing.T) {
	reg := battlefield.NewRegistry()
	units := []domain.Unit{
		newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 100, 100),
		newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 120, 100),
	}
	assert.Equal(t, 1, FindUnitAt(domain.Position{X: 125, Y: 100}, units, 30))
	assert.Equal(t, -1, FindUnitAt(domain.Position{X: 300, Y: 100}, units, 30))
}

func TestStepTowards(t *testing.T) {
	u := domain.Unit{Stats: domain.UnitStats{Health: 10, MaxHealth: 10, Speed: 100}, Fuel: 100, Morale: 100}
	u.MoveTo(domain.Position{X: 100, Y: 0})

	speed := MovementSpeed(&u, 1)
	assert.Equal(t, 100.0, speed)

	res := StepTowards(&u, speed, 500)
	assert.True(t, res.HasMoved)
	assert.InDelta(t, 50, u.Position.X, 1e-9)
	assert.InDelta(t, 100-50*FuelPerDistance, u.Fuel, 1e-9)

	u.Position.X = 96
	res = StepTowards(&u, speed, 16)
	assert.True(t, res.Arrived)
	assert.Equal(t, 100.0, u.Position.X)
	assert.False(t, u.IsMoving)
	assert.Nil(t, u.TargetPosition)
}

func TestMovementSpeed_Factors(t *testing.T) {
	u := domain.Unit{Stats: domain.UnitStats{Health: 5, MaxHealth: 10, Speed: 100}, Fuel: 50, Morale: 20}
	// 100 * 0.5 * 0.5 * max(0.5, 0.2) * 1.2
	assert.InDelta(t, 15, MovementSpeed(&u, StateSpeedFactor(domain.AIStateRetreating)), 1e-9)
	assert.Equal(t, 0.9, StateSpeedFactor(domain.AIStateAttacking))
	assert.Equal(t, 1.0, StateSpeedFactor(domain.AIStatePatrolling))
}
