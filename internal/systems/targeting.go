package systems

import (
	"frontline-server/internal/domain"
)

// ValidationResult - результат проверки цели
type ValidationResult struct {
	Index   int // индекс цели в списке противника, -1 если нет
	Valid   bool
	InRange bool
	Message string // Сообщение об ошибке, если Valid == false
}

// ValidateTarget проверяет, может ли actor держать targetID целью.
// Цель вне дальности валидна, но InRange == false.
func ValidateTarget(actor *domain.Unit, targetID domain.EntityID, opponents []domain.Unit) ValidationResult {
	// 1. Поиск цели
	idx := indexOf(opponents, targetID)
	if idx < 0 {
		return ValidationResult{Index: -1, Message: "Цель не найдена."}
	}
	target := &opponents[idx]

	// 2. Своих не бьем
	if target.Faction == actor.Faction {
		return ValidationResult{Index: -1, Message: "Нельзя атаковать своих."}
	}

	// 3. Цель жива
	if !target.IsAlive() {
		return ValidationResult{Index: -1, Message: "Цель уничтожена."}
	}

	// 4. Проверка дистанции
	dist := actor.Position.DistanceTo(target.Position)
	return ValidationResult{Index: idx, Valid: true, InRange: dist <= actor.Stats.Range}
}

// FindUnitAt - ближайший живой юнит в радиусе от точки, -1 если нет.
func FindUnitAt(point domain.Position, units []domain.Unit, radius float64) int {
	idx, dist := FindNearest(point, units)
	if idx < 0 || dist > radius {
		return -1
	}
	return idx
}
