package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
	"github.com/Bakeevd/vdoh-strapi/internal/core/ports/out"
)

// scheduleSession - приватная для сеанса редактирования копия недели.
// Эпоха растет с каждым запросом загрузки: медленный ранний ответ не может
// перезаписать более поздний (быстрая навигация по неделям).
type scheduleSession struct {
	mu           sync.Mutex
	specialistID int
	weekStart    time.Time
	week         []domain.WorkingHours
	epoch        uint64
	loaded       bool
	saving       bool
}

func (s *ScheduleService) CreateSession(specialistID int) uuid.UUID {
	sessionID := uuid.New()

	s.mu.Lock()
	s.sessions[sessionID] = &scheduleSession{specialistID: specialistID}
	s.mu.Unlock()

	s.logger.Info("schedule.session.created", out.LogFields{
		"sessionId":    sessionID,
		"specialistId": specialistID,
	})

	return sessionID
}

func (s *ScheduleService) CloseSession(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	s.logger.Debug("schedule.session.closed", out.LogFields{
		"sessionId": sessionID,
	})
}

func (s *ScheduleService) session(sessionID uuid.UUID) (*scheduleSession, error) {
	s.mu.RLock()
	sess, exists := s.sessions[sessionID]
	s.mu.RUnlock()

	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}
