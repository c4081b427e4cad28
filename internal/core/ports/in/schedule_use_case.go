package in

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
)

// ScheduleUseCase - операции над недельной сеткой доступности специалиста.
// Все мутации выполняются над приватной для сессии копией недели;
// в хранилище изменения попадают только при явном сохранении.
type ScheduleUseCase interface {
	// Разрешение профиля специалиста по пользователю (с кэшем, если он включен)
	ResolveSpecialist(ctx context.Context, userID int) (*domain.Specialist, error)

	// Создание сессии редактирования расписания
	CreateSession(specialistID int) uuid.UUID
	CloseSession(sessionID uuid.UUID)

	// Загрузка недели; weekStart должен быть понедельником.
	// Пустое хранилище - валидное первое состояние, неделя синтезируется по умолчанию
	LoadWeek(ctx context.Context, sessionID uuid.UUID, weekStart time.Time) ([]domain.WorkingHours, error)

	// Переключение доступности одного слота; забронированные слоты отклоняются
	ToggleSlot(sessionID uuid.UUID, dayIndex, slotIndex int) ([]domain.WorkingHours, error)

	// Установка доступности всех слотов дня; забронированные слоты не затрагиваются
	SetDayAvailability(sessionID uuid.UUID, dayIndex int, available bool) ([]domain.WorkingHours, error)

	// Атомарное сохранение всех 7 дней недели; при ошибке правки сохраняются в памяти
	SaveWeek(ctx context.Context, sessionID uuid.UUID) error

	// Обновление производного флага Booked в открытых сессиях по событию брони
	ApplyBookingEvent(event domain.BookingEvent)
}
