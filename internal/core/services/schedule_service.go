package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
	"github.com/Bakeevd/vdoh-strapi/internal/core/json_types"
	"github.com/Bakeevd/vdoh-strapi/internal/core/ports/out"
	"github.com/Bakeevd/vdoh-strapi/internal/utils"
)

// ScheduleService реализует недельную сетку доступности специалиста:
// загрузку и синтез недели, сверку с живыми бронированиями и сохранение
// правок одним запросом в CMS.
type ScheduleService struct {
	strapiPort out.StrapiPort
	cachePort  out.CachePort
	logger     out.LoggerPort

	mu       sync.RWMutex
	sessions map[uuid.UUID]*scheduleSession
}

func NewScheduleService(
	strapiPort out.StrapiPort,
	cachePort out.CachePort,
	logger out.LoggerPort,
) *ScheduleService {
	return &ScheduleService{
		strapiPort: strapiPort,
		cachePort:  cachePort,
		logger:     logger.WithModule("ScheduleService"),
		sessions:   make(map[uuid.UUID]*scheduleSession),
	}
}

func (s *ScheduleService) ResolveSpecialist(ctx context.Context, userID int) (*domain.Specialist, error) {
	if s.cachePort != nil {
		if specialist, exists := s.cachePort.GetSpecialist(ctx, userID); exists {
			s.logger.Debug("specialist.resolve.cache.hit", out.LogFields{
				"userId": userID,
			})
			return specialist, nil
		}
	}

	specialist, err := s.strapiPort.GetSpecialistByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("specialist.resolve.fetch_failed", out.LogFields{
			"userId": userID,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("specialist.resolve.fetch_failed: %w", err)
	}

	if s.cachePort != nil {
		s.cachePort.StoreSpecialist(ctx, userID, *specialist)
	}

	return specialist, nil
}

// LoadWeek загружает рабочее время за неделю [weekStart, weekStart+6].
// Пустой ответ хранилища - ожидаемое первое состояние, неделя синтезируется
// по политике по умолчанию. Транспортная ошибка поднимается наверх и не
// затрагивает уже загруженную в сессию неделю.
func (s *ScheduleService) LoadWeek(ctx context.Context, sessionID uuid.UUID, weekStart time.Time) ([]domain.WorkingHours, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	if !utils.IsMonday(weekStart) {
		return nil, domain.ErrWeekStartNotMonday
	}
	weekStart = utils.StartCurrentDay(weekStart)

	// Фиксируем эпоху загрузки: если за время запроса сессия перейдет
	// к другой неделе, этот результат будет отброшен
	sess.mu.Lock()
	sess.epoch++
	epoch := sess.epoch
	specialistID := sess.specialistID
	sess.mu.Unlock()

	s.logger.Info("schedule.load.started", out.LogFields{
		"sessionId":    sessionID,
		"specialistId": specialistID,
		"weekStart":    weekStart.Format("2006-01-02"),
	})

	startDate := json_types.NewDate(weekStart)
	endDate := startDate.AddDays(domain.DaysPerWeek - 1)

	stored, err := s.strapiPort.GetWorkingHours(ctx, specialistID, startDate, endDate)
	if err != nil {
		s.logger.Error("schedule.load.working_hours.fetch_failed", out.LogFields{
			"specialistId": specialistID,
			"error":        err.Error(),
		})
		return nil, fmt.Errorf("schedule.load.working_hours.fetch_failed: %w", err)
	}

	week := s.buildWeek(specialistID, weekStart, stored)

	bookings, err := s.strapiPort.GetBookingsForSpecialist(ctx, specialistID, startDate, endDate)
	if err != nil {
		s.logger.Error("schedule.load.bookings.fetch_failed", out.LogFields{
			"specialistId": specialistID,
			"error":        err.Error(),
		})
		return nil, fmt.Errorf("schedule.load.bookings.fetch_failed: %w", err)
	}

	applyBookingsToWeek(week, bookings)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.epoch != epoch {
		s.logger.Warn("schedule.load.stale_discarded", out.LogFields{
			"sessionId": sessionID,
			"weekStart": weekStart.Format("2006-01-02"),
		})
		return nil, domain.ErrStaleLoad
	}

	sess.weekStart = weekStart
	sess.week = week
	sess.loaded = true

	s.logger.Debug("schedule.load.success", out.LogFields{
		"sessionId":     sessionID,
		"days":          len(week),
		"bookingsCount": len(bookings),
	})

	return domain.CloneWeek(week), nil
}

// buildWeek собирает ровно 7 дней, понедельник-воскресенье. Отсутствующие
// в хранилище дни дополняются по политике по умолчанию.
func (s *ScheduleService) buildWeek(specialistID int, weekStart time.Time, stored []domain.WorkingHours) []domain.WorkingHours {
	if len(stored) == 0 {
		s.logger.Info("schedule.load.synthesized_default", out.LogFields{
			"specialistId": specialistID,
			"weekStart":    weekStart.Format("2006-01-02"),
		})
		return domain.NewDefaultWeek(specialistID, weekStart)
	}

	byDay := make(map[string]domain.WorkingHours, len(stored))
	for _, day := range stored {
		byDay[day.Day.String()] = day
	}

	week := make([]domain.WorkingHours, 0, domain.DaysPerWeek)
	for i := 0; i < domain.DaysPerWeek; i++ {
		date := json_types.NewDate(weekStart.AddDate(0, 0, i))
		if day, exists := byDay[date.String()]; exists {
			day.SpecialistID = specialistID
			// Хранимый день мог быть записан с неполной или сбитой сеткой
			day.Slots = domain.CanonicalizeSlots(day.Slots)
			week = append(week, day)
			continue
		}
		week = append(week, domain.NewDefaultDay(specialistID, weekStart, i))
	}

	return week
}

// applyBookingsToWeek выполняет сверку по ключу (дата, время начала):
// слот с живым бронированием помечается занятым. Флаг производный,
// хранимое значение available при этом не меняется.
func applyBookingsToWeek(week []domain.WorkingHours, bookings []domain.BookingSlot) {
	for _, booking := range bookings {
		if !booking.Occupies() {
			continue
		}

		for d := range week {
			if !week[d].Day.Equal(booking.Date) {
				continue
			}
			for i := range week[d].Slots {
				if week[d].Slots[i].Start.Equal(booking.Time) {
					week[d].Slots[i].Booked = true
					break
				}
			}
			break
		}
	}
}

// ToggleSlot переключает доступность ровно одного слота, адресуемого
// позиционно. Слот с бронированием отклоняется без обращения к хранилищу.
func (s *ScheduleService) ToggleSlot(sessionID uuid.UUID, dayIndex, slotIndex int) ([]domain.WorkingHours, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.loaded {
		return nil, domain.ErrWeekNotLoaded
	}
	if dayIndex < 0 || dayIndex >= len(sess.week) {
		return nil, domain.ErrSlotIndex
	}
	day := &sess.week[dayIndex]
	if slotIndex < 0 || slotIndex >= len(day.Slots) {
		return nil, domain.ErrSlotIndex
	}

	slot := &day.Slots[slotIndex]
	if slot.Booked {
		s.logger.Warn("schedule.toggle.slot_locked", out.LogFields{
			"sessionId": sessionID,
			"day":       day.Day.String(),
			"start":     slot.Start.String(),
		})
		return nil, domain.ErrSlotLocked
	}

	slot.Available = !slot.Available

	return domain.CloneWeek(sess.week), nil
}

// SetDayAvailability устанавливает доступность всех слотов одного дня.
// Забронированные слоты из массовой установки исключаются, чтобы не
// перевернуть хранимый флаг занятого слота.
func (s *ScheduleService) SetDayAvailability(sessionID uuid.UUID, dayIndex int, available bool) ([]domain.WorkingHours, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.loaded {
		return nil, domain.ErrWeekNotLoaded
	}
	if dayIndex < 0 || dayIndex >= len(sess.week) {
		return nil, domain.ErrSlotIndex
	}

	day := &sess.week[dayIndex]
	for i := range day.Slots {
		if day.Slots[i].Booked {
			continue
		}
		day.Slots[i].Available = available
	}

	s.logger.Debug("schedule.day.availability_set", out.LogFields{
		"sessionId": sessionID,
		"day":       day.Day.String(),
		"available": available,
	})

	return domain.CloneWeek(sess.week), nil
}

// SaveWeek сохраняет все 7 дней недели одним запросом. Неудачное сохранение
// оставляет правки в памяти сессии, чтобы их можно было отправить повторно.
func (s *ScheduleService) SaveWeek(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	if !sess.loaded {
		sess.mu.Unlock()
		return domain.ErrWeekNotLoaded
	}
	if sess.saving {
		sess.mu.Unlock()
		return domain.ErrSaveInProgress
	}
	sess.saving = true
	specialistID := sess.specialistID
	weekStart := sess.weekStart
	snapshot := domain.CloneWeek(sess.week)
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.saving = false
		sess.mu.Unlock()
	}()

	s.logger.Info("schedule.save.started", out.LogFields{
		"sessionId":    sessionID,
		"specialistId": specialistID,
		"weekStart":    weekStart.Format("2006-01-02"),
	})

	if err := s.strapiPort.PutWorkingHours(ctx, specialistID, snapshot); err != nil {
		s.logger.Error("schedule.save.failed", out.LogFields{
			"sessionId":    sessionID,
			"specialistId": specialistID,
			"error":        err.Error(),
		})
		return fmt.Errorf("schedule.save.failed: %w", err)
	}

	s.logger.Info("schedule.save.success", out.LogFields{
		"sessionId":    sessionID,
		"specialistId": specialistID,
	})

	return nil
}

// ApplyBookingEvent заново выводит флаг Booked в открытых сессиях по событию
// из шины, не трогая хранимую доступность слота.
func (s *ScheduleService) ApplyBookingEvent(event domain.BookingEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for sessionID, sess := range s.sessions {
		sess.mu.Lock()

		if !sess.loaded || sess.specialistID != event.SpecialistID {
			sess.mu.Unlock()
			continue
		}

		for d := range sess.week {
			if !sess.week[d].Day.Equal(event.Date) {
				continue
			}
			for i := range sess.week[d].Slots {
				if sess.week[d].Slots[i].Start.Equal(event.Time) {
					sess.week[d].Slots[i].Booked = event.Type == domain.BookingEventCreated

					s.logger.Debug("schedule.booking_event.applied", out.LogFields{
						"sessionId": sessionID,
						"type":      string(event.Type),
						"day":       event.Date.String(),
						"start":     event.Time.String(),
					})
					break
				}
			}
			break
		}

		sess.mu.Unlock()
	}
}
