package actions

import "frontline-server/internal/engine/handlers"

func HandlePause(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Battle.SetPaused(true) {
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{Msg: "Пауза.", MsgType: "INFO"}, nil
}

func HandleResume(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Battle.SetPaused(false) {
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{Msg: "Бой продолжается.", MsgType: "INFO"}, nil
}
