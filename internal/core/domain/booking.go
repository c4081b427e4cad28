package domain

import (
	"github.com/Bakeevd/vdoh-strapi/internal/core/json_types"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// BookingSlot - подтвержденная запись клиента, занимающая один слот
// по совпадению (дата, время начала). Отмененные бронирования слот не занимают.
type BookingSlot struct {
	ID           int                  `json:"id"`
	SpecialistID int                  `json:"specialistId"`
	ServiceID    int                  `json:"serviceId"`
	UserID       int                  `json:"userId"`
	Date         json_types.Date      `json:"date"`
	Time         json_types.ClockTime `json:"time"`
	Status       BookingStatus        `json:"status"`
}

// Occupies сообщает, блокирует ли бронирование слот для редактирования.
func (b BookingSlot) Occupies() bool {
	return b.Status != BookingStatusCancelled
}

type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

// BookingEvent - событие жизненного цикла бронирования из шины сообщений.
// По нему в открытых сессиях заново выводится флаг Booked без полной перезагрузки.
type BookingEvent struct {
	Type         BookingEventType     `json:"type"`
	SpecialistID int                  `json:"specialistId"`
	Date         json_types.Date      `json:"date"`
	Time         json_types.ClockTime `json:"time"`
}
