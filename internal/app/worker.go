package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdvohra/LMS-app/internal/notification"
	"github.com/mdvohra/LMS-app/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker drives the notification outbox: it polls for pending emails and
// delivers them through the configured SMTP relay.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	if os.Getenv("DATABASE_URL") == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if os.Getenv("SMTP_HOST") == "" {
		return fmt.Errorf("SMTP_HOST is required")
	}

	db, err := connection.ConnectGORMWithRetry(os.Getenv("DATABASE_URL"), 5)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	outboxRepo := notification.NewOutboxRepository(db)
	mailer := notification.NewSMTPMailerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go notification.ProcessPendingEmails(ctx, outboxRepo, mailer, logger, 3*time.Second)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
