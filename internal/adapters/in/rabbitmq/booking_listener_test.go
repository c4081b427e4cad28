package rabbitmq

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
	"github.com/Bakeevd/vdoh-strapi/internal/core/ports/out"
)

type nopLogger struct{}

func (l nopLogger) Debug(event string, fields out.LogFields)       {}
func (l nopLogger) Info(event string, fields out.LogFields)        {}
func (l nopLogger) Warn(event string, fields out.LogFields)        {}
func (l nopLogger) Error(event string, fields out.LogFields)       {}
func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort        { return l }

type stubUseCase struct {
	events []domain.BookingEvent
}

func (s *stubUseCase) ResolveSpecialist(ctx context.Context, userID int) (*domain.Specialist, error) {
	return nil, domain.ErrSpecialistNotFound
}
func (s *stubUseCase) CreateSession(specialistID int) uuid.UUID { return uuid.New() }
func (s *stubUseCase) CloseSession(sessionID uuid.UUID)         {}
func (s *stubUseCase) LoadWeek(ctx context.Context, sessionID uuid.UUID, weekStart time.Time) ([]domain.WorkingHours, error) {
	return nil, domain.ErrSessionNotFound
}
func (s *stubUseCase) ToggleSlot(sessionID uuid.UUID, dayIndex, slotIndex int) ([]domain.WorkingHours, error) {
	return nil, domain.ErrSessionNotFound
}
func (s *stubUseCase) SetDayAvailability(sessionID uuid.UUID, dayIndex int, available bool) ([]domain.WorkingHours, error) {
	return nil, domain.ErrSessionNotFound
}
func (s *stubUseCase) SaveWeek(ctx context.Context, sessionID uuid.UUID) error {
	return domain.ErrSessionNotFound
}
func (s *stubUseCase) ApplyBookingEvent(event domain.BookingEvent) {
	s.events = append(s.events, event)
}

type stubCache struct {
	invalidated    []int
	invalidatedAll int
}

func (s *stubCache) GetSpecialist(ctx context.Context, userID int) (*domain.Specialist, bool) {
	return nil, false
}
func (s *stubCache) StoreSpecialist(ctx context.Context, userID int, specialist domain.Specialist) {}
func (s *stubCache) InvalidateSpecialist(ctx context.Context, userID int) {
	s.invalidated = append(s.invalidated, userID)
}
func (s *stubCache) InvalidateAllSpecialists(ctx context.Context) {
	s.invalidatedAll++
}

func newTestListener(useCase *stubUseCase, cache *stubCache) *BookingListener {
	return &BookingListener{
		useCase:   useCase,
		cachePort: cache,
		logger:    nopLogger{},
	}
}

func TestProcessMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Booking Created Is Forwarded", func(t *testing.T) {
		useCase := &stubUseCase{}
		listener := newTestListener(useCase, &stubCache{})

		body := []byte(`{
			"event": "booking.created",
			"booking": {"specialistId": 42, "date": "2024-06-03", "time": "10:00"}
		}`)
		require.NoError(t, listener.processMessage(ctx, amqp.Delivery{Body: body}))

		require.Len(t, useCase.events, 1)
		assert.Equal(t, domain.BookingEventCreated, useCase.events[0].Type)
		assert.Equal(t, 42, useCase.events[0].SpecialistID)
		assert.Equal(t, "2024-06-03", useCase.events[0].Date.String())
		assert.Equal(t, "10:00", useCase.events[0].Time.String())
	})

	t.Run("Booking Cancelled Is Forwarded", func(t *testing.T) {
		useCase := &stubUseCase{}
		listener := newTestListener(useCase, &stubCache{})

		body := []byte(`{
			"event": "booking.cancelled",
			"booking": {"specialistId": 42, "date": "2024-06-03", "time": "10:00"}
		}`)
		require.NoError(t, listener.processMessage(ctx, amqp.Delivery{Body: body}))

		require.Len(t, useCase.events, 1)
		assert.Equal(t, domain.BookingEventCancelled, useCase.events[0].Type)
	})

	t.Run("Malformed Date Token Is An Error Not A Crash", func(t *testing.T) {
		useCase := &stubUseCase{}
		listener := newTestListener(useCase, &stubCache{})

		// Числовой токен вместо строки даты должен вернуть ошибку разбора
		body := []byte(`{
			"event": "booking.created",
			"booking": {"specialistId": 42, "date": 7, "time": "10:00"}
		}`)
		assert.Error(t, listener.processMessage(ctx, amqp.Delivery{Body: body}))
		assert.Empty(t, useCase.events)
	})

	t.Run("Specialist Updated Invalidates One Profile", func(t *testing.T) {
		cache := &stubCache{}
		listener := newTestListener(&stubUseCase{}, cache)

		body := []byte(`{"event": "specialist.updated", "specialist": {"userId": 15}}`)
		require.NoError(t, listener.processMessage(ctx, amqp.Delivery{Body: body}))

		assert.Equal(t, []int{15}, cache.invalidated)
		assert.Zero(t, cache.invalidatedAll)
	})

	t.Run("Specialist Updated Without User Flushes Cache", func(t *testing.T) {
		cache := &stubCache{}
		listener := newTestListener(&stubUseCase{}, cache)

		body := []byte(`{"event": "specialist.updated"}`)
		require.NoError(t, listener.processMessage(ctx, amqp.Delivery{Body: body}))

		assert.Empty(t, cache.invalidated)
		assert.Equal(t, 1, cache.invalidatedAll)
	})

	t.Run("Unknown Event Is Skipped", func(t *testing.T) {
		useCase := &stubUseCase{}
		listener := newTestListener(useCase, &stubCache{})

		body := []byte(`{"event": "service.created"}`)
		require.NoError(t, listener.processMessage(ctx, amqp.Delivery{Body: body}))
		assert.Empty(t, useCase.events)
	})
}

func TestConsume(t *testing.T) {
	t.Run("Stops When Delivery Channel Closes", func(t *testing.T) {
		listener := newTestListener(&stubUseCase{}, &stubCache{})

		msgs := make(chan amqp.Delivery)
		close(msgs)

		done := make(chan struct{})
		go func() {
			listener.consume(context.Background(), msgs)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("consume did not stop after the delivery channel closed")
		}
	})

	t.Run("Stops On Context Cancel", func(t *testing.T) {
		listener := newTestListener(&stubUseCase{}, &stubCache{})

		ctx, cancel := context.WithCancel(context.Background())
		msgs := make(chan amqp.Delivery)

		done := make(chan struct{})
		go func() {
			listener.consume(ctx, msgs)
			close(done)
		}()

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("consume did not stop after context cancellation")
		}
	})

	t.Run("Keeps Consuming After A Bad Message", func(t *testing.T) {
		useCase := &stubUseCase{}
		listener := newTestListener(useCase, &stubCache{})

		msgs := make(chan amqp.Delivery, 2)
		msgs <- amqp.Delivery{Body: []byte(`{"event": "booking.created", "booking": {"specialistId": 42, "date": 7, "time": "10:00"}}`)}
		msgs <- amqp.Delivery{Body: []byte(`{"event": "booking.created", "booking": {"specialistId": 42, "date": "2024-06-03", "time": "10:00"}}`)}
		close(msgs)

		done := make(chan struct{})
		go func() {
			listener.consume(context.Background(), msgs)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("consume did not drain the delivery channel")
		}

		// Первое сообщение отклонено, второе применено
		require.Len(t, useCase.events, 1)
		assert.Equal(t, "2024-06-03", useCase.events[0].Date.String())
	})
}
