package engine

import (
	"math"

	"frontline-server/internal/domain"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
)

// Frame создает снимок боя для рендерера. Звуки и записи журнала,
// накопленные с прошлого кадра, уходят в этот кадр и очищаются.
func (s *Session) Frame() api.Frame {
	frame := api.Frame{
		Type:     "FRAME",
		Tick:     s.tick,
		Time:     s.clock.Now(),
		Scenario: s.Scenario.String(),
		Field:    api.FieldMeta{Width: domain.BattlefieldWidth, Height: domain.BattlefieldHeight},
		State: api.StateView{
			IsPaused:         s.state.IsPaused,
			IsGameOver:       s.state.IsGameOver,
			Victory:          s.state.Victory,
			DefeatReason:     s.defeatReason,
			CurrentWave:      s.state.CurrentWave,
			EnemiesRemaining: s.state.EnemiesRemaining,
			Score:            s.state.Score,
		},
		Resources: s.resourcesView(),
	}

	// 1. Юниты
	selected := make(map[domain.EntityID]bool, len(s.selection))
	for _, id := range s.selection {
		selected[id] = true
		frame.Selection = append(frame.Selection, id.String())
	}
	frame.Units = make([]api.UnitView, 0, len(s.players)+len(s.enemies))
	for i := range s.players {
		v := unitView(&s.players[i])
		v.Selected = selected[s.players[i].ID]
		frame.Units = append(frame.Units, v)
	}
	for i := range s.enemies {
		v := unitView(&s.enemies[i])
		if brain, ok := s.ai.Brain(s.enemies[i].ID); ok {
			v.AIState = brain.State.String()
		}
		frame.Units = append(frame.Units, v)
	}

	// 2. Здания
	frame.Buildings = make([]api.BuildingView, 0, len(s.buildings))
	for _, b := range s.buildings {
		frame.Buildings = append(frame.Buildings, api.BuildingView{
			ID:              b.ID.String(),
			Type:            b.Type.String(),
			Name:            b.Name,
			Pos:             point(b.Position),
			Width:           b.Width,
			Height:          b.Height,
			HP:              b.Health,
			MaxHP:           b.MaxHealth,
			Faction:         b.Faction.String(),
			IsObjective:     b.IsObjective,
			IsControlled:    b.IsControlled,
			ControlProgress: b.ControlProgress,
		})
	}

	// 3. Снаряды и взрывы
	for _, p := range s.combat.Projectiles() {
		frame.Projectiles = append(frame.Projectiles, api.ProjectileView{
			ID:      p.ID.String(),
			Type:    p.Type.String(),
			Pos:     point(p.Position),
			Heading: math.Atan2(p.Velocity.Y, p.Velocity.X),
			Faction: p.SourceFaction.String(),
		})
	}
	for _, e := range s.combat.Explosions() {
		progress := 1.0
		if e.Duration > 0 {
			progress = math.Min(1, e.Elapsed/e.Duration)
		}
		frame.Explosions = append(frame.Explosions, api.ExplosionView{
			ID:       e.ID.String(),
			Size:     e.Size.String(),
			Pos:      point(e.Position),
			Radius:   e.Radius,
			Progress: progress,
		})
	}

	// 4. Задачи
	for _, o := range s.objectives.Objectives() {
		frame.Objectives = append(frame.Objectives, api.ObjectiveView{
			ID:            o.ID.String(),
			Kind:          o.Kind.String(),
			Description:   o.Description,
			Completed:     o.Completed,
			Progress:      o.ProgressPercent(),
			Required:      o.Required,
			TimeRemaining: o.TimeRemaining,
		})
	}

	// 5. Накопленное с прошлого кадра
	frame.Sounds = s.sounds
	frame.Logs = s.Logs
	s.sounds = nil
	s.Logs = nil

	return frame
}

func (s *Session) resourcesView() api.ResourcesView {
	status := s.economy.Status(s.resources)
	return api.ResourcesView{
		Money:               s.resources.Money,
		Fuel:                s.resources.Fuel,
		Ammunition:          s.resources.Ammunition,
		Supply:              s.resources.Supply,
		Reinforcements:      s.resources.Reinforcements,
		NextReinforcementMs: s.economy.NextReinforcementIn(),
		Levels: map[string]string{
			"money":          string(status.Money),
			"fuel":           string(status.Fuel),
			"ammunition":     string(status.Ammunition),
			"reinforcements": string(status.Reinforcements),
		},
	}
}

func unitView(u *domain.Unit) api.UnitView {
	v := api.UnitView{
		ID:          u.ID.String(),
		Type:        u.Type.String(),
		Name:        battlefield.DisplayName(u.Type),
		Faction:     u.Faction.String(),
		Pos:         point(u.Position),
		Rotation:    u.Rotation,
		HP:          u.Stats.Health,
		MaxHP:       u.Stats.MaxHealth,
		Morale:      u.Morale,
		Ammunition:  u.Ammunition,
		Fuel:        u.Fuel,
		Experience:  u.ExperienceLevel,
		IsMoving:    u.IsMoving,
		IsAttacking: u.IsAttacking,
	}
	if u.TargetPosition != nil {
		t := point(*u.TargetPosition)
		v.Target = &t
	}
	return v
}

func point(p domain.Position) api.PointView {
	return api.PointView{X: p.X, Y: p.Y}
}
