package actions

import (
	"fmt"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
	"frontline-server/pkg/api"
)

// HandleMove отправляет выделенных юнитов в точку строем в три колонны.
func HandleMove(ctx handlers.Context, p api.PositionPayload) (handlers.Result, error) {
	n := ctx.Battle.MoveCommand(domain.Position{X: p.X, Y: p.Y})
	if n == 0 {
		return handlers.Result{Msg: "Нет выбранных юнитов.", MsgType: "ERROR", Sound: api.SoundError}, nil
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("%d юнит(ов) выдвигаются к (%.0f, %.0f).", n, p.X, p.Y),
		MsgType: "INFO",
		Sound:   api.SoundMoveCommand,
	}, nil
}
