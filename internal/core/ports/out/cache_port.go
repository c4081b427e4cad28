package out

import (
	"context"

	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
)

// CachePort - кэш профилей специалистов по идентификатору пользователя.
// Слоты, бронирования и производный флаг Booked не кэшируются никогда:
// занятость выводится заново при каждой загрузке из живых данных.
type CachePort interface {
	GetSpecialist(ctx context.Context, userID int) (*domain.Specialist, bool)
	StoreSpecialist(ctx context.Context, userID int, specialist domain.Specialist)
	InvalidateSpecialist(ctx context.Context, userID int)
	InvalidateAllSpecialists(ctx context.Context)
}
