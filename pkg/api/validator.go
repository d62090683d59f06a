package api

import (
	"errors"

	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

var (
	ErrOutOfField      = errors.New("point is outside the battlefield")
	ErrUnknownUnitType = errors.New("unknown unit type")
	ErrNotProducible   = errors.New("unit type cannot be produced")
)

var field = domain.Rect{MaxX: domain.BattlefieldWidth, MaxY: domain.BattlefieldHeight}

func (p SelectPayload) Validate() error {
	if !field.Contains(domain.Position{X: p.X, Y: p.Y}) {
		return ErrOutOfField
	}
	return nil
}

func (p PositionPayload) Validate() error {
	if !field.Contains(domain.Position{X: p.X, Y: p.Y}) {
		return ErrOutOfField
	}
	return nil
}

// Validate пропускает только то, что союзники умеют строить.
func (p ProducePayload) Validate() error {
	t := domain.ParseUnitType(p.UnitType)
	if t == domain.UnitUnknown {
		return ErrUnknownUnitType
	}
	for _, allowed := range battlefield.Producible {
		if t == allowed {
			return nil
		}
	}
	return ErrNotProducible
}
