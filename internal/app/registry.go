package app

import (
	"os"

	"github.com/mdvohra/LMS-app/internal/auth"
	"github.com/mdvohra/LMS-app/internal/leave"
	"github.com/mdvohra/LMS-app/internal/middleware"
	"github.com/mdvohra/LMS-app/internal/notification"
	"github.com/mdvohra/LMS-app/internal/session"
	"github.com/mdvohra/LMS-app/internal/shared/connection"
	"github.com/mdvohra/LMS-app/internal/shared/database"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())

	// --- Infrastructure ---
	txm := database.NewTransactionManager(db)
	sessions := session.NewRedisStore(rdb)

	// --- Repositories ---
	authRepo := auth.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	outboxRepo := notification.NewOutboxRepository(db)

	// --- Event publisher (optional broker) ---
	var publisher leave.EventPublisher = leave.NoopEventPublisher{}
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		writer, err := connection.ConnectKafkaWithRetry(broker, 5)
		if err != nil {
			zap.L().Warn("kafka unavailable, domain events disabled", zap.Error(err))
		} else {
			publisher = leave.NewKafkaEventPublisher(writer)
		}
	}

	// --- Services ---
	authService := auth.NewService(authRepo, sessions)
	leaveService := leave.NewService(txm, leaveRepo, authRepo, outboxRepo, publisher)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandler(leaveService)

	// --- Routes ---
	auth.RegisterRoutes(router, authHandler, sessions)
	leave.RegisterRoutes(router, leaveHandler, sessions)

	return nil
}
