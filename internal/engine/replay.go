package engine

import (
	"fmt"

	"frontline-server/internal/domain"
	"frontline-server/internal/systems"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Replay заново проигрывает бой по журналу: та же сессия с тем же сидом
// получает те же дельты и те же команды в тех же кадрах.
func Replay(log domain.ReplayLog, opts ...Option) (*Session, error) {
	opts = append([]Option{WithDifficulty(systems.ParseDifficulty(log.Difficulty))}, opts...)
	s := NewSession(battlefield.Scenario(log.ScenarioID), log.Seed, opts...)

	next := 0
	feed := func(frame int64) error {
		for next < len(log.Commands) && log.Commands[next].Frame <= frame {
			cmd := log.Commands[next]
			err := s.Submit("replay", api.ClientCommand{Action: cmd.Command.String(), Payload: cmd.Payload})
			if err != nil {
				return fmt.Errorf("replay command %d (%s): %w", next, cmd.Command, err)
			}
			next++
		}
		return nil
	}

	for i, dt := range log.Frames {
		if err := feed(int64(i)); err != nil {
			return s, err
		}
		s.Tick(dt)
	}
	// Команды, пришедшие после последнего кадра
	if next < len(log.Commands) {
		if err := feed(int64(len(log.Frames))); err != nil {
			return s, err
		}
		s.Tick(0)
	}

	logger.Log.WithFields(logrus.Fields{
		"session":  s.ID,
		"frames":   len(log.Frames),
		"commands": len(log.Commands),
		"sim_ms":   s.Now(),
	}).Info("Replay finished")
	return s, nil
}
