package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Bakeevd/vdoh-strapi/internal/config"
	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
	"github.com/Bakeevd/vdoh-strapi/internal/core/ports/out"
)

// CacheAdapter хранит разрешенные профили специалистов по идентификатору
// пользователя. Расписания и бронирования сюда не попадают: производная
// занятость слотов выводится заново при каждой загрузке.
type CacheAdapter struct {
	mu          sync.RWMutex
	specialists *lru.Cache[int, *domain.Specialist]
	logger      out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	specialists, err := lru.New[int, *domain.Specialist](cfg.Cache.SpecialistsSize)
	if err != nil {
		logger.Error("cache.specialists.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.SpecialistsSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		specialists: specialists,
		logger:      logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetSpecialist(ctx context.Context, userID int) (*domain.Specialist, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	specialist, exists := c.specialists.Get(userID)
	if !exists {
		c.logger.Debug("cache.specialists.get.miss", out.LogFields{
			"userId": userID,
		})
		return nil, false
	}

	c.logger.Debug("cache.specialists.get.hit", out.LogFields{
		"userId":       userID,
		"specialistId": specialist.ID,
	})
	return specialist, true
}

func (c *CacheAdapter) StoreSpecialist(ctx context.Context, userID int, specialist domain.Specialist) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.specialists.store", out.LogFields{
		"userId":       userID,
		"specialistId": specialist.ID,
	})

	c.specialists.Add(userID, &specialist)
}

func (c *CacheAdapter) InvalidateSpecialist(ctx context.Context, userID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.specialists.Remove(userID)
}

func (c *CacheAdapter) InvalidateAllSpecialists(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.specialists.Purge()
}
