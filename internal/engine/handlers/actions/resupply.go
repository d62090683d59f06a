package actions

import (
	"fmt"

	"frontline-server/internal/engine/handlers"
	"frontline-server/pkg/api"
)

// HandleResupply пополняет выделенных юнитов из общего пула.
func HandleResupply(ctx handlers.Context) (handlers.Result, error) {
	n, ok := ctx.Battle.Resupply()
	if !ok {
		return handlers.Result{Msg: "Снабжение невозможно: нет выделения или пуст склад.", MsgType: "ERROR", Sound: api.SoundError}, nil
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Пополнено юнитов: %d.", n),
		MsgType: "INFO",
	}, nil
}
