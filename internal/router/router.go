package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anonto42/nano-midea/notifier/internal/events"
	"github.com/anonto42/nano-midea/notifier/internal/fanout"
	"github.com/anonto42/nano-midea/notifier/internal/handlers"
	"github.com/anonto42/nano-midea/notifier/internal/models"
	"github.com/anonto42/nano-midea/notifier/internal/realtime"
	"github.com/anonto42/nano-midea/notifier/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Dependencies are the connections and settings the routes are built from
type Dependencies struct {
	Postgres   *gorm.DB
	Mongo      *mongo.Database
	Publisher  events.Publisher
	SendBuffer int
	Logger     zerolog.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, log zerolog.Logger) {
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Debug().Msg("Global middleware configured")
}

// Migrate creates the PostgreSQL tables and the MongoDB indexes
func Migrate(ctx context.Context, pgdb *gorm.DB, mdb *mongo.Database) error {
	if err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := repositories.NewMongoEventRepository(mdb).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("event indexes: %w", err)
	}
	if err := repositories.NewMongoActivityRepository(mdb).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("activity indexes: %w", err)
	}
	return nil
}

// SetupRoutes configures all application routes and injects dependencies. The
// returned processor is not started; the caller owns its lifecycle.
func SetupRoutes(e *echo.Echo, deps Dependencies) *fanout.Processor {
	log := deps.Logger

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)
	eventRepo := repositories.NewMongoEventRepository(deps.Mongo)
	activityRepo := repositories.NewMongoActivityRepository(deps.Mongo)

	hub := realtime.NewHub(deps.SendBuffer, log)
	processor := fanout.NewProcessor(fanout.Dependencies{
		Events:        eventRepo,
		Follows:       followRepo,
		Users:         userRepo,
		Notifications: notificationRepo,
		Delivery:      hub,
		Publisher:     deps.Publisher,
		Logger:        log,
	})

	e.GET("/health", handlers.HealthCheck(processor))
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "notifier"})
	})
	e.GET("/ws", hub.HandleWebsocket)

	userHandler := handlers.NewUserHandler(userRepo, activityRepo)
	userHandler.RegisterUserRoutes(e)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, processor, log)
	followHandler.RegisterFollowRoutes(e)

	activityHandler := handlers.NewActivityHandler(activityRepo, userRepo, processor, log)
	activityHandler.RegisterActivityRoutes(e)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(e)

	log.Info().Msg("All routes configured")
	return processor
}
