package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"frontline-server/pkg/api"
)

var (
	ErrPayloadRequired = errors.New("payload is required")
	ErrPayloadFormat   = errors.New("invalid payload format")
)

// TypedHandlerFunc получает уже разобранный и проверенный payload.
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - команда без данных (PAUSE, RESUME, RESUPPLY).
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload оборачивает типизированный хендлер: JSON -> T, затем T.Validate,
// если T реализует api.Validator.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		if len(raw) == 0 || string(raw) == "null" {
			return Result{}, ErrPayloadRequired
		}

		var payload T
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrPayloadFormat, err)
		}
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}
		return handler(ctx, payload)
	}
}

// WithEmptyPayload игнорирует payload целиком.
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}
