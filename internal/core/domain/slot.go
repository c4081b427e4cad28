package domain

import (
	"github.com/Bakeevd/vdoh-strapi/internal/core/json_types"
)

const (
	// SlotDurationMinutes - фиксированная длительность слота
	SlotDurationMinutes = 30

	// DaySlotCount - количество слотов канонической сетки в одном дне (09:00 - 19:30)
	DaySlotCount = 22
)

// GridStart - начало канонической сетки слотов.
var GridStart = json_types.ClockTime{Hour: 9, Minute: 0}

// Slot - атомарная единица записи. Поле Booked вычисляется заново при каждой
// загрузке по живым бронированиям и никогда не сохраняется в CMS.
type Slot struct {
	Start     json_types.ClockTime `json:"start"`
	End       json_types.ClockTime `json:"end"`
	Available bool                 `json:"available"`
	Booked    bool                 `json:"booked"`
}

// CanonicalStartTimes возвращает упорядоченный список стартовых времен сетки:
// 22 получаса с 09:00 по 19:30 включительно.
func CanonicalStartTimes() []json_types.ClockTime {
	times := make([]json_types.ClockTime, 0, DaySlotCount)
	current := GridStart
	for i := 0; i < DaySlotCount; i++ {
		times = append(times, current)
		current = current.AddMinutes(SlotDurationMinutes)
	}
	return times
}

// CanonicalizeSlots приводит хранимый набор слотов дня к канонической сетке:
// ровно 22 слота, End выводится заново из длительности. Слоты вне сетки
// отбрасываются, отсутствующие в хранилище добавляются недоступными.
func CanonicalizeSlots(stored []Slot) []Slot {
	available := make(map[json_types.ClockTime]bool, len(stored))
	for _, slot := range stored {
		available[slot.Start] = slot.Available
	}

	slots := make([]Slot, 0, DaySlotCount)
	for _, start := range CanonicalStartTimes() {
		slots = append(slots, Slot{
			Start:     start,
			End:       start.AddMinutes(SlotDurationMinutes),
			Available: available[start],
		})
	}
	return slots
}

// NewDaySlots создает полный набор слотов канонической сетки для одного дня
// с единым флагом доступности.
func NewDaySlots(available bool) []Slot {
	slots := make([]Slot, 0, DaySlotCount)
	for _, start := range CanonicalStartTimes() {
		slots = append(slots, Slot{
			Start:     start,
			End:       start.AddMinutes(SlotDurationMinutes),
			Available: available,
		})
	}
	return slots
}
