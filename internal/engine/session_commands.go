package engine

import (
	"errors"
	"fmt"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
	"frontline-server/internal/engine/handlers/actions"
	"frontline-server/internal/systems"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrQueueFull      = errors.New("command queue is full")
)

// Зона высадки произведенных юнитов
var productionZone = domain.Rect{
	MinX: 100, MaxX: 200,
	MinY: domain.BattlefieldHeight - 150, MaxY: domain.BattlefieldHeight - 100,
}

func (s *Session) registerHandlers() {
	s.handlers[domain.CommandSelect] = handlers.WithPayload(actions.HandleSelect)
	s.handlers[domain.CommandMove] = handlers.WithPayload(actions.HandleMove)
	s.handlers[domain.CommandAttack] = handlers.WithPayload(actions.HandleAttack)
	s.handlers[domain.CommandProduce] = handlers.WithPayload(actions.HandleProduce)
	s.handlers[domain.CommandResupply] = handlers.WithEmptyPayload(actions.HandleResupply)
	s.handlers[domain.CommandPause] = handlers.WithEmptyPayload(actions.HandlePause)
	s.handlers[domain.CommandResume] = handlers.WithEmptyPayload(actions.HandleResume)
}

// Submit принимает команду от внешнего мира (WebSocket). Безопасен из любой горутины:
// команда ложится в канал и исполняется в начале следующего тика.
func (s *Session) Submit(client string, cmd api.ClientCommand) error {
	cmdType := domain.ParseCommand(cmd.Action)
	if _, ok := s.handlers[cmdType]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Action)
	}

	select {
	case s.CommandChan <- domain.InternalCommand{Type: cmdType, Client: client, Payload: cmd.Payload}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *Session) drainCommands() {
	for {
		select {
		case cmd := <-s.CommandChan:
			s.executeCommand(cmd)
		default:
			return
		}
	}
}

func (s *Session) executeCommand(cmd domain.InternalCommand) {
	handler, ok := s.handlers[cmd.Type]
	if !ok {
		logger.Log.WithField("command", cmd.Type.String()).Warn("No handler for command")
		return
	}

	ctx := handlers.Context{Battle: s, Client: cmd.Client}
	res, err := handler(ctx, cmd.Payload)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"session": s.ID,
			"client":  cmd.Client,
			"command": cmd.Type.String(),
		}).WithError(err).Warn("Command rejected")
		s.AddLog(fmt.Sprintf("Команда %s отклонена: %v", cmd.Type, err), "ERROR")
		s.trigger(api.SoundError)
		return
	}

	s.commands = append(s.commands, domain.ReplayCommand{
		Frame:   int64(len(s.frames)),
		Tick:    s.tick,
		Time:    s.clock.Now(),
		Command: cmd.Type,
		Payload: cmd.Payload,
	})

	if res.Msg != "" {
		s.AddLog(res.Msg, res.MsgType)
	}
	if res.Sound != "" {
		s.trigger(res.Sound)
	}
}

// --- ПРИКАЗЫ (handlers.Commander) ---

// Select выбирает союзного юнита в радиусе 30 от точки. С multi юнит
// переключается в выделении. Возвращает true, если клик попал в юнита.
func (s *Session) Select(p domain.Position, multi bool) bool {
	idx := systems.FindUnitAt(p, s.players, domain.CommandPickRadius)
	if idx < 0 {
		if !multi {
			s.selection = nil
		}
		return false
	}
	id := s.players[idx].ID

	if !multi {
		s.selection = []domain.EntityID{id}
		return true
	}
	for i, sel := range s.selection {
		if sel == id {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			return true
		}
	}
	s.selection = append(s.selection, id)
	return true
}

// MoveCommand отправляет выделение в точку строем: три колонны, шаг 40.
// Приказ движения отменяет приказ атаки.
func (s *Session) MoveCommand(p domain.Position) int {
	field := domain.Rect{MaxX: domain.BattlefieldWidth, MaxY: domain.BattlefieldHeight}
	n := 0
	for i, id := range s.selection {
		idx := s.playerIndex(id)
		if idx < 0 {
			continue
		}
		u := &s.players[idx]

		col := float64(i%domain.FormationColumns - 1)
		row := float64(i/domain.FormationColumns - 1)
		dest := field.Clamp(p.Shift(col*domain.FormationSpacing, row*domain.FormationSpacing))

		u.MoveTo(dest)
		u.AttackOrder = false
		u.IsAttacking = false
		u.TargetID = domain.NoEntity
		n++
	}
	return n
}

// AttackCommand назначает выделению врага в радиусе 30 от точки.
func (s *Session) AttackCommand(p domain.Position) (domain.Unit, bool) {
	if len(s.selection) == 0 {
		return domain.Unit{}, false
	}
	idx := systems.FindUnitAt(p, s.enemies, domain.CommandPickRadius)
	if idx < 0 {
		return domain.Unit{}, false
	}
	target := s.enemies[idx]

	for _, id := range s.selection {
		i := s.playerIndex(id)
		if i < 0 {
			continue
		}
		u := &s.players[i]
		u.TargetID = target.ID
		u.AttackOrder = true
		u.IsAttacking = true
	}
	return target, true
}

// ProduceUnit покупает юнита: денег не меньше цены и меньше 20 союзных юнитов.
// Юнит высаживается в тылу, у юго-западного края.
func (s *Session) ProduceUnit(t domain.UnitType) (domain.Unit, bool) {
	if countAlive(s.players) >= domain.MaxAlliedUnits {
		return domain.Unit{}, false
	}
	res, ok := systems.SpendMoney(s.resources, float64(battlefield.CostOf(t)))
	if !ok {
		return domain.Unit{}, false
	}

	pos := domain.Position{
		X: productionZone.MinX + s.rng.Float64()*(productionZone.MaxX-productionZone.MinX),
		Y: productionZone.MinY + s.rng.Float64()*(productionZone.MaxY-productionZone.MinY),
	}
	u := s.registry.CreateUnit(t, pos, domain.FactionAllied)

	s.resources = res
	s.players = append(s.players, u)

	logger.Log.WithFields(logrus.Fields{
		"session": s.ID,
		"unit":    u.ID.String(),
		"type":    t.String(),
		"money":   s.resources.Money,
	}).Debug("Unit produced")
	return u, true
}

// Resupply пополняет выделенных юнитов за топливо и боеприпасы пула.
// Каждый юнит оплачивается целиком или не пополняется вовсе.
func (s *Session) Resupply() (int, bool) {
	n := 0
	for _, id := range s.selection {
		idx := s.playerIndex(id)
		if idx < 0 {
			continue
		}
		res, ok := systems.SpendFuel(s.resources, resupplyFuelCost)
		if !ok {
			break
		}
		if res, ok = systems.SpendAmmunition(res, resupplyAmmoCost); !ok {
			break
		}
		s.resources = res
		battlefield.Resupply(&s.players[idx])
		n++
	}
	return n, n > 0
}

// SetPaused переключает паузу. false - состояние не изменилось.
func (s *Session) SetPaused(paused bool) bool {
	if s.state.IsPaused == paused || s.state.IsGameOver {
		return false
	}
	s.state.IsPaused = paused
	return true
}
