package domain

import "math"

// Position - точка на непрерывном поле боя.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo возвращает евклидово расстояние до другой точки
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// DistanceSquaredTo - квадрат расстояния для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// AngleTo - угол направления на точку (радианы).
func (p Position) AngleTo(other Position) float64 {
	return math.Atan2(other.Y-p.Y, other.X-p.X)
}

// Shift возвращает новую позицию со смещением
func (p Position) Shift(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Toward - точка на отрезке от p к target на расстоянии dist от p.
func (p Position) Toward(target Position, dist float64) Position {
	d := p.DistanceTo(target)
	if d == 0 {
		return p
	}
	k := dist / d
	return Position{X: p.X + (target.X-p.X)*k, Y: p.Y + (target.Y-p.Y)*k}
}

// Rect - прямоугольная область [MinX,MaxX]×[MinY,MaxY].
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Contains(p Position) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Clamp прижимает точку к границам прямоугольника.
func (r Rect) Clamp(p Position) Position {
	return Position{
		X: math.Max(r.MinX, math.Min(r.MaxX, p.X)),
		Y: math.Max(r.MinY, math.Min(r.MaxY, p.Y)),
	}
}
