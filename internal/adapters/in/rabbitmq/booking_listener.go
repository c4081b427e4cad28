package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Bakeevd/vdoh-strapi/internal/config"
	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
	"github.com/Bakeevd/vdoh-strapi/internal/core/json_types"
	"github.com/Bakeevd/vdoh-strapi/internal/core/ports/in"
	"github.com/Bakeevd/vdoh-strapi/internal/core/ports/out"
)

// BookingListener слушает события жизненного цикла бронирований из шины.
// По booking.created/booking.cancelled открытые сессии заново выводят флаг
// занятости слота; по specialist.updated инвалидируется кэш профилей.
type BookingListener struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	useCase   in.ScheduleUseCase
	cachePort out.CachePort
	cfg       *config.Config
	logger    out.LoggerPort
}

type eventMessage struct {
	Event      string             `json:"event"`
	Booking    *bookingPayload    `json:"booking,omitempty"`
	Specialist *specialistPayload `json:"specialist,omitempty"`
}

type bookingPayload struct {
	SpecialistID int                  `json:"specialistId"`
	Date         json_types.Date      `json:"date"`
	Time         json_types.ClockTime `json:"time"`
}

type specialistPayload struct {
	UserID int `json:"userId"`
}

const (
	eventBookingCreated    = "booking.created"
	eventBookingCancelled  = "booking.cancelled"
	eventSpecialistUpdated = "specialist.updated"
)

func NewBookingListener(
	useCase in.ScheduleUseCase,
	cachePort out.CachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) (*BookingListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &BookingListener{
		conn:      conn,
		channel:   channel,
		useCase:   useCase,
		cachePort: cachePort,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

func (l *BookingListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	if l.cfg.RabbitMQ.Exchange != "" {
		err = l.channel.QueueBind(
			queue.Name,
			"booking.*",
			l.cfg.RabbitMQ.Exchange,
			false,
			nil,
		)
		if err != nil {
			return err
		}
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go l.consume(ctx, msgs)

	return nil
}

func (l *BookingListener) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				l.logger.Warn("rabbitmq.consume.channel_closed", nil)
				return
			}
			if err := l.processMessage(ctx, msg); err != nil {
				l.logger.Error("rabbitmq.message.process_failed", out.LogFields{
					"error": err.Error(),
				})
				msg.Nack(false, true) // requeue message
				continue
			}
			msg.Ack(false)
		}
	}
}

func (l *BookingListener) processMessage(ctx context.Context, msg amqp.Delivery) error {
	var message eventMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		return err
	}

	switch message.Event {
	case eventBookingCreated, eventBookingCancelled:
		if message.Booking == nil {
			l.logger.Warn("rabbitmq.message.booking_missing", out.LogFields{
				"event": message.Event,
			})
			return nil
		}

		eventType := domain.BookingEventCreated
		if message.Event == eventBookingCancelled {
			eventType = domain.BookingEventCancelled
		}

		l.useCase.ApplyBookingEvent(domain.BookingEvent{
			Type:         eventType,
			SpecialistID: message.Booking.SpecialistID,
			Date:         message.Booking.Date,
			Time:         message.Booking.Time,
		})

		l.logger.Info("rabbitmq.booking_event.applied", out.LogFields{
			"event":        message.Event,
			"specialistId": message.Booking.SpecialistID,
			"date":         message.Booking.Date.String(),
			"time":         message.Booking.Time.String(),
		})

	case eventSpecialistUpdated:
		if l.cachePort == nil {
			return nil
		}

		// Событие без конкретного пользователя сбрасывает весь кэш профилей
		if message.Specialist == nil || message.Specialist.UserID == 0 {
			l.cachePort.InvalidateAllSpecialists(ctx)
			l.logger.Info("rabbitmq.specialist_cache.invalidated_all", nil)
			return nil
		}

		l.cachePort.InvalidateSpecialist(ctx, message.Specialist.UserID)

		l.logger.Info("rabbitmq.specialist_cache.invalidated", out.LogFields{
			"userId": message.Specialist.UserID,
		})

	default:
		l.logger.Debug("rabbitmq.message.skipped", out.LogFields{
			"event": message.Event,
		})
	}

	return nil
}

func (l *BookingListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}
