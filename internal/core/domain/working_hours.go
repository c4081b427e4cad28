package domain

import (
	"time"

	"github.com/Bakeevd/vdoh-strapi/internal/core/json_types"
)

// DaysPerWeek - неделя расписания всегда состоит из 7 дней, понедельник первый.
const DaysPerWeek = 7

// WorkingHours - рабочее время специалиста на один день: полный набор слотов
// канонической сетки, упорядоченный по возрастанию времени начала.
type WorkingHours struct {
	SpecialistID int             `json:"specialistId"`
	Day          json_types.Date `json:"day"`
	Slots        []Slot          `json:"slots"`
}

// NewDefaultWeek синтезирует расписание недели по умолчанию: будние дни
// (индексы 0-4) полностью доступны, суббота и воскресенье - выходные.
// Синтезированная неделя живет только в памяти до явного сохранения.
func NewDefaultWeek(specialistID int, weekStart time.Time) []WorkingHours {
	week := make([]WorkingHours, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		isWorkingDay := i < 5
		week = append(week, WorkingHours{
			SpecialistID: specialistID,
			Day:          json_types.NewDate(weekStart.AddDate(0, 0, i)),
			Slots:        NewDaySlots(isWorkingDay),
		})
	}
	return week
}

// NewDefaultDay синтезирует один день недели по политике по умолчанию.
// dayIndex отсчитывается от понедельника.
func NewDefaultDay(specialistID int, weekStart time.Time, dayIndex int) WorkingHours {
	return WorkingHours{
		SpecialistID: specialistID,
		Day:          json_types.NewDate(weekStart.AddDate(0, 0, dayIndex)),
		Slots:        NewDaySlots(dayIndex < 5),
	}
}

// CloneWeek возвращает глубокую копию недели: снимки, отдаваемые наружу,
// не должны разделять слайсы слотов с состоянием сессии.
func CloneWeek(week []WorkingHours) []WorkingHours {
	cloned := make([]WorkingHours, len(week))
	for i, day := range week {
		cloned[i] = day
		cloned[i].Slots = make([]Slot, len(day.Slots))
		copy(cloned[i].Slots, day.Slots)
	}
	return cloned
}
