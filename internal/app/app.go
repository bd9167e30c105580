package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mdvohra/LMS-app/internal/auth"
	"github.com/mdvohra/LMS-app/internal/leave"
	"github.com/mdvohra/LMS-app/internal/notification"
	"github.com/mdvohra/LMS-app/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp wires infrastructure and modules onto the router.
func BuildApp(router *gin.Engine) error {
	// Fail fast on missing config, the way the service always has.
	for _, key := range []string{"DATABASE_URL", "SESSION_SECRET"} {
		if os.Getenv(key) == "" {
			return fmt.Errorf("config environment variable %s not set, please create/edit .env configuration file", key)
		}
	}

	db, err := connection.ConnectGORMWithRetry(os.Getenv("DATABASE_URL"), 5)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&auth.User{},
		&leave.LeaveApplication{},
		&leave.LeaveRecord{},
		&notification.EmailMessage{},
	); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	// Connectivity watchdog against the backing store; unconditional and
	// unbounded, mirroring the reconnect poll the service has always run.
	go connection.MonitorDatabase(context.Background(), db, 30*time.Second, zap.L())

	return registerModules(router, db, redisClient)
}
