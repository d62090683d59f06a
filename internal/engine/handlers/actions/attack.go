package actions

import (
	"fmt"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
)

// HandleAttack назначает выделенным юнитам цель рядом с точкой клика.
func HandleAttack(ctx handlers.Context, p api.PositionPayload) (handlers.Result, error) {
	// 1. Поиск цели и назначение приказа
	target, ok := ctx.Battle.AttackCommand(domain.Position{X: p.X, Y: p.Y})
	if !ok {
		return handlers.Result{Msg: "Цель не найдена.", MsgType: "ERROR", Sound: api.SoundError}, nil
	}

	return handlers.Result{
		Msg:     fmt.Sprintf("Огонь по цели: %s.", battlefield.DisplayName(target.Type)),
		MsgType: "COMBAT",
		Sound:   api.SoundAttackCommand,
	}, nil
}
