package domain

// Clock - источник симуляционного времени в миллисекундах.
// Движки не читают системные часы, только Clock.
type Clock interface {
	Now() int64
}

// Random - источник равномерных случайных чисел в [0,1).
// *rand.Rand удовлетворяет интерфейсу.
type Random interface {
	Float64() float64
}

// SimClock - ручные часы, которые двигает сессия.
type SimClock struct {
	now int64
}

func NewSimClock(start int64) *SimClock {
	return &SimClock{now: start}
}

func (c *SimClock) Now() int64 {
	return c.now
}

// Advance сдвигает время вперед. Отрицательная дельта игнорируется.
func (c *SimClock) Advance(deltaMs int64) {
	if deltaMs > 0 {
		c.now += deltaMs
	}
}
