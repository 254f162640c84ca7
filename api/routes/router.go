package routes

import (
	"net/http"
	"time"

	"studyhall/internal/auth"
	"studyhall/internal/notifications"
	"studyhall/internal/ranking"
	"studyhall/internal/reservations"
	"studyhall/internal/seats"
	"studyhall/internal/settings"
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/database"
	"studyhall/internal/shared/sysinfo"
	"studyhall/internal/statistics"
	"studyhall/internal/users"
	"studyhall/internal/violations"
	"studyhall/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher
	cache     cache.Service

	// kept for the background jobs started in main
	reservationService reservations.Service
}

// NewRouter creates a new router instance. Redis backs the cache when it is
// connected; otherwise an in-process cache is used.
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	var cacheService cache.Service
	if db.Redis != nil {
		cacheService = cache.NewService(db.Redis)
	} else {
		cacheService = cache.NewMemoryService(5 * time.Minute)
	}

	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		cache:     cacheService,
	}
}

// ReservationService is available after SetupRoutes
func (r *Router) ReservationService() reservations.Service {
	return r.reservationService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	sqlDB := r.db.GetSQL()

	// Repositories
	userRepo := users.NewRepository(sqlDB)
	settingRepo := settings.NewRepository(sqlDB)
	seatRepo := seats.NewRepository(sqlDB)
	reservationRepo := reservations.NewRepository(sqlDB)
	violationRepo := violations.NewRepository(sqlDB)
	statisticsRepo := statistics.NewRepository(sqlDB)

	// Services
	authService := auth.NewService(userRepo, r.config)

	userService := users.NewService(userRepo)
	userService.SetCacheService(r.cache)

	settingService := settings.NewService(settingRepo)

	seatService := seats.NewService(seatRepo, reservationRepo, r.config)
	seatService.SetCacheService(r.cache)

	violationService := violations.NewService(violationRepo, settingService, r.publisher, r.config)
	violationService.SetCacheService(r.cache)

	reservationService := reservations.NewService(
		reservationRepo,
		settingService,
		violationService,
		seatService,
		userRepo,
		r.publisher,
		r.config,
	)
	reservationService.SetCacheService(r.cache)
	r.reservationService = reservationService

	rankingService := ranking.NewService(userRepo)
	rankingService.SetCacheService(r.cache)

	statisticsService := statistics.NewService(statisticsRepo, r.config)
	statisticsService.SetCacheService(r.cache)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		auth.SetupAuthRoutes(api, r.config, auth.NewController(authService))
		users.SetupUserRoutes(api, r.config, users.NewController(userService))
		settings.SetupSettingRoutes(api, r.config, settings.NewController(settingService))
		seats.SetupSeatRoutes(api, r.config, seats.NewController(seatService))
		reservations.SetupReservationRoutes(api, r.config, reservations.NewController(reservationService))
		violations.SetupViolationRoutes(api, r.config, violations.NewController(violationService))
		ranking.SetupRankingRoutes(api, r.config, ranking.NewController(rankingService))
		statistics.SetupStatisticsRoutes(api, r.config, statistics.NewController(statisticsService, r.config))
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "studyhall-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "studyhall-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "operational",
			"api_version":  r.config.APIVersion,
			"timestamp":    time.Now(),
			"database":     r.config.Database.Driver,
			"redis":        r.db.Redis != nil,
			"event_broker": r.config.Messaging.Broker,
			"system":       sysinfo.Capture("/"),
		})
	})
}
