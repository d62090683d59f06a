package actions

import (
	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
	"frontline-server/pkg/api"
)

// HandleSelect - клик по полю: выбор юнита, с Multi - переключение в выделении.
// Клик мимо без Multi снимает выделение молча.
func HandleSelect(ctx handlers.Context, p api.SelectPayload) (handlers.Result, error) {
	if !ctx.Battle.Select(domain.Position{X: p.X, Y: p.Y}, p.Multi) {
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{Sound: api.SoundUnitSelect}, nil
}
