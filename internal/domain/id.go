package domain

import (
	"fmt"
	"strconv"
)

// EntityID - упакованный идентификатор (Kind + Faction + Index)
type EntityID uint64

// NoEntity - нулевой идентификатор, "ссылки нет".
const NoEntity EntityID = 0

// Конфигурация битов
const (
	bitsIndex   = 40
	bitsFaction = 8
	bitsKind    = 8

	// Сдвиги
	shiftFaction = bitsIndex
	shiftKind    = bitsIndex + bitsFaction

	// Маски (для извлечения значений)
	maskIndex   = (1 << bitsIndex) - 1 // 0x000000FFFFFFFFFF
	maskFaction = (1 << bitsFaction) - 1
	maskKind    = (1 << bitsKind) - 1
)

// EntityKind - к какому реестру относится объект.
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindUnit
	KindBuilding
	KindProjectile
	KindExplosion
	KindEvent
	KindObjective
)

var kindNames = map[EntityKind]string{
	KindUnit:       "unit",
	KindBuilding:   "building",
	KindProjectile: "projectile",
	KindExplosion:  "explosion",
	KindEvent:      "event",
	KindObjective:  "objective",
}

func (k EntityKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// --- КОНСТРУКТОР ---

// PackEntityID создает ID из компонентов
func PackEntityID(kind EntityKind, faction Faction, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(faction) & maskFaction) << shiftFaction
	id |= (uint64(kind) & maskKind) << shiftKind
	return EntityID(id)
}

// --- МЕТОДЫ ДОСТУПА ---

func (id EntityID) Kind() EntityKind {
	return EntityKind((id >> shiftKind) & maskKind)
}

func (id EntityID) Faction() Faction {
	return Faction((id >> shiftFaction) & maskFaction)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

func (id EntityID) IsZero() bool {
	return id == NoEntity
}

// --- СЕРИАЛИЗАЦИЯ (Для рендерера) ---

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id EntityID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	if len(data) == 0 || string(data) == "null" {
		*id = NoEntity
		return nil
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = EntityID(val)
	return nil
}

// String для логов: [unit:axis:12]
func (id EntityID) String() string {
	if id == NoEntity {
		return "[none]"
	}
	return fmt.Sprintf("[%s:%s:%d]", id.Kind(), id.Faction(), id.Index())
}

// IDAllocator выдает последовательные ID одного вида.
// Каждый компонент владеет своим аллокатором, глобальных счетчиков нет.
// Не потокобезопасен: живет внутри однопоточного тика.
type IDAllocator struct {
	kind EntityKind
	next uint64
}

func NewIDAllocator(kind EntityKind) *IDAllocator {
	return &IDAllocator{kind: kind}
}

// Next возвращает новый ID. Индексы начинаются с 1, ноль зарезервирован под NoEntity.
func (a *IDAllocator) Next(faction Faction) EntityID {
	a.next++
	return PackEntityID(a.kind, faction, a.next)
}

// Issued - сколько ID уже выдано.
func (a *IDAllocator) Issued() uint64 {
	return a.next
}
