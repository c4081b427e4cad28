package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	httpin "github.com/Bakeevd/vdoh-strapi/internal/adapters/in/http"
	"github.com/Bakeevd/vdoh-strapi/internal/adapters/in/rabbitmq"
	"github.com/Bakeevd/vdoh-strapi/internal/adapters/out/cache"
	"github.com/Bakeevd/vdoh-strapi/internal/adapters/out/logger"
	"github.com/Bakeevd/vdoh-strapi/internal/adapters/out/strapi"
	"github.com/Bakeevd/vdoh-strapi/internal/config"
	"github.com/Bakeevd/vdoh-strapi/internal/core/ports/out"
	"github.com/Bakeevd/vdoh-strapi/internal/core/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone, cfg.IsLocal())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	strapiAdapter := strapi.NewStrapiAdapter(cfg, mainLogger.WithModule("StrapiAdapter"))
	strapiAdapter.OnUnauthorized(func() {
		log.Warn("app.strapi.unauthorized", out.LogFields{
			"message": "Store rejected credentials, check STRAPI_TOKEN",
		})
	})

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	// Инициализация сервиса расписания
	scheduleService := services.NewScheduleService(
		strapiAdapter,
		cacheAdapter,
		mainLogger,
	)

	// Настройка HTTP сервера
	router := gin.Default()
	controller := httpin.NewScheduleController(scheduleService, cfg)
	controller.RegisterRoutes(router)

	// Настройка слушателя событий бронирований, если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewBookingListener(
			scheduleService,
			cacheAdapter,
			cfg,
			mainLogger.WithModule("BookingListener"),
		)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
