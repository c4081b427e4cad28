package utils

import (
	"time"
)

// StartOfWeek возвращает понедельник недели, в которую попадает t,
// время установлено на 00:00, таймзона остается прежней.
func StartOfWeek(t time.Time) time.Time {
	// В Go неделя начинается с воскресенья, сдвигаем к понедельнику
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

// StartCurrentDay обнуляет компонент времени у даты.
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsMonday проверяет, что дата является понедельником.
// Загрузка недели расписания допускается только с начала недели.
func IsMonday(t time.Time) bool {
	return t.Weekday() == time.Monday
}
