package actions

import (
	"fmt"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
)

// HandleProduce заказывает юнита. Тип уже проверен валидатором payload.
func HandleProduce(ctx handlers.Context, p api.ProducePayload) (handlers.Result, error) {
	t := domain.ParseUnitType(p.UnitType)

	unit, ok := ctx.Battle.ProduceUnit(t)
	if !ok {
		return handlers.Result{
			Msg:     fmt.Sprintf("Нельзя произвести %s: не хватает денег (%d) или достигнут лимит.", battlefield.DisplayName(t), battlefield.CostOf(t)),
			MsgType: "ERROR",
			Sound:   api.SoundError,
		}, nil
	}

	return handlers.Result{
		Msg:     fmt.Sprintf("%s прибыл на фронт.", battlefield.DisplayName(unit.Type)),
		MsgType: "INFO",
		Sound:   api.SoundUnitProduced,
	}, nil
}
