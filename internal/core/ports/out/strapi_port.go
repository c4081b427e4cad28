package out

import (
	"context"

	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
	"github.com/Bakeevd/vdoh-strapi/internal/core/json_types"
)

// StrapiPort - контракт внешнего CMS-хранилища. Диапазоны дат включительные.
type StrapiPort interface {
	// Рабочее время специалиста за диапазон дат; может вернуть меньше 7 записей,
	// включая ноль - пустой результат не является ошибкой
	GetWorkingHours(ctx context.Context, specialistID int, startDate, endDate json_types.Date) ([]domain.WorkingHours, error)

	// Полная замена расписания за отображаемую неделю, ровно 7 записей одним запросом
	PutWorkingHours(ctx context.Context, specialistID int, week []domain.WorkingHours) error

	// Живые бронирования специалиста за диапазон дат для вывода флага Booked
	GetBookingsForSpecialist(ctx context.Context, specialistID int, startDate, endDate json_types.Date) ([]domain.BookingSlot, error)

	// Профиль специалиста по идентификатору пользователя
	GetSpecialistByUserID(ctx context.Context, userID int) (*domain.Specialist, error)
}
