package systems

import (
	"testing"

	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func objectiveBuilding(progress float64, f domain.Faction) domain.Building {
	return domain.Building{
		ID:              domain.PackEntityID(domain.KindBuilding, f, 1),
		Name:            "Strategic Point",
		Type:            domain.BuildingObjective,
		Position:        domain.Position{X: 500, Y: 500},
		Width:           60,
		Height:          40,
		Health:          300,
		MaxHealth:       300,
		Faction:         f,
		IsObjective:     true,
		IsControlled:    f == domain.FactionAllied,
		ControlProgress: progress,
	}
}

func TestBuildingControl_AlliedCapture(t *testing.T) {
	reg := battlefield.NewRegistry()
	players := []domain.Unit{
		newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 480, 500),
		newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 520, 500),
	}
	b := objectiveBuilding(0, domain.FactionAxis)

	res := UpdateBuildingControl([]domain.Building{b}, players, nil, 1000)
	require.True(t, res.Changed)
	assert.Equal(t, 40.0, res.Buildings[0].ControlProgress)
	assert.False(t, res.Buildings[0].IsControlled)

	res = UpdateBuildingControl(res.Buildings, players, nil, 2000)
	got := res.Buildings[0]
	assert.Equal(t, 100.0, got.ControlProgress)
	assert.True(t, got.IsControlled)
	assert.Equal(t, domain.FactionAllied, got.Faction)
	require.Len(t, res.Flipped, 1)
}

func TestBuildingControl_AxisRetakes(t *testing.T) {
	reg := battlefield.NewRegistry()
	enemies := []domain.Unit{newUnit(reg, domain.UnitGermanInfantry, domain.FactionAxis, 500, 540)}
	b := objectiveBuilding(100, domain.FactionAllied)

	res := UpdateBuildingControl([]domain.Building{b}, nil, enemies, 1000)
	assert.Equal(t, 85.0, res.Buildings[0].ControlProgress)
	assert.True(t, res.Buildings[0].IsControlled)

	res = UpdateBuildingControl(res.Buildings, nil, enemies, 10000)
	got := res.Buildings[0]
	assert.Equal(t, 0.0, got.ControlProgress)
	assert.False(t, got.IsControlled)
	assert.Equal(t, domain.FactionAxis, got.Faction)
}

func TestBuildingControl_TieAndDestroyed(t *testing.T) {
	reg := battlefield.NewRegistry()
	players := []domain.Unit{newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 500, 520)}
	enemies := []domain.Unit{newUnit(reg, domain.UnitGermanInfantry, domain.FactionAxis, 500, 480)}

	b := objectiveBuilding(50, domain.FactionAxis)
	res := UpdateBuildingControl([]domain.Building{b}, players, enemies, 1000)
	assert.False(t, res.Changed)
	assert.Equal(t, 50.0, res.Buildings[0].ControlProgress)

	ruin := objectiveBuilding(50, domain.FactionAxis)
	ruin.Health = 0
	res = UpdateBuildingControl([]domain.Building{ruin}, players, nil, 1000)
	assert.False(t, res.Changed)

	far := []domain.Unit{newUnit(reg, domain.UnitInfantry, domain.FactionAllied, 800, 800)}
	res = UpdateBuildingControl([]domain.Building{b}, far, nil, 1000)
	assert.False(t, res.Changed)
}
