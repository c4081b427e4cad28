package strapi

import (
	"encoding/json"

	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
	"github.com/Bakeevd/vdoh-strapi/internal/core/json_types"
)

// Конверт списочного ответа Strapi: {"data":[{"id":N,"attributes":{...}}],"meta":{...}}
type listResponse struct {
	Data []entity        `json:"data"`
	Meta json.RawMessage `json:"meta"`
}

type entity struct {
	ID         int             `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

type relation struct {
	Data *relationData `json:"data"`
}

type relationData struct {
	ID int `json:"id"`
}

func (r relation) id() int {
	if r.Data == nil {
		return 0
	}
	return r.Data.ID
}

type bookingAttributes struct {
	Date       json_types.Date      `json:"date"`
	Time       json_types.ClockTime `json:"time"`
	Status     domain.BookingStatus `json:"status"`
	Specialist relation             `json:"specialist"`
	Service    relation             `json:"service"`
	User       relation             `json:"user"`
}

type specialistAttributes struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Role            string   `json:"role"`
	Specializations []string `json:"specializations"`
	IsAvailable     bool     `json:"isAvailable"`
	Rating          float64  `json:"rating"`
	User            relation `json:"user"`
}

// Тело PUT /specialist-schedules/{id}. Производный флаг занятости в payload
// не попадает: в хранилище уходят только start/end/available.
type scheduleSlotPayload struct {
	Start     json_types.ClockTime `json:"start"`
	End       json_types.ClockTime `json:"end"`
	Available bool                 `json:"available"`
}

type scheduleDayPayload struct {
	SpecialistID int                   `json:"specialistId"`
	Day          json_types.Date       `json:"day"`
	Slots        []scheduleSlotPayload `json:"slots"`
}

type putSchedulePayload struct {
	Data struct {
		Schedule []scheduleDayPayload `json:"schedule"`
	} `json:"data"`
}

func newPutSchedulePayload(week []domain.WorkingHours) putSchedulePayload {
	var payload putSchedulePayload
	payload.Data.Schedule = make([]scheduleDayPayload, 0, len(week))

	for _, day := range week {
		dayPayload := scheduleDayPayload{
			SpecialistID: day.SpecialistID,
			Day:          day.Day,
			Slots:        make([]scheduleSlotPayload, 0, len(day.Slots)),
		}
		for _, slot := range day.Slots {
			dayPayload.Slots = append(dayPayload.Slots, scheduleSlotPayload{
				Start:     slot.Start,
				End:       slot.End,
				Available: slot.Available,
			})
		}
		payload.Data.Schedule = append(payload.Data.Schedule, dayPayload)
	}

	return payload
}
