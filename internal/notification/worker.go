package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ProcessPendingEmails polls the outbox and hands each due message to the
// mailer. Failures are marked with backoff and retried on a later pass.
func ProcessPendingEmails(
	ctx context.Context,
	repo OutboxRepository,
	mailer Mailer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("notification.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("notification worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("notification worker stopped")
			return
		case <-ticker.C:
			if err := deliverPendingEmails(ctx, repo, mailer, log); err != nil {
				log.Error("deliver pending emails failed", zap.Error(err))
			}
		}
	}
}

func deliverPendingEmails(
	ctx context.Context,
	repo OutboxRepository,
	mailer Mailer,
	logger *zap.Logger,
) error {
	msgs, err := repo.ListPending(ctx, 50)
	if err != nil {
		return err
	}

	if len(msgs) == 0 {
		return nil
	}

	logger.Info("processing pending notifications", zap.Int("count", len(msgs)))

	for _, msg := range msgs {
		err := mailer.Send(ctx, Message{
			From:    msg.Sender,
			To:      msg.Recipient,
			Subject: msg.Subject,
			Body:    msg.Body,
		})
		if err != nil {
			logger.Error("send notification failed",
				zap.String("outbox_id", msg.ID.String()),
				zap.String("recipient", msg.Recipient),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, msg.ID.String(), err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, msg.ID.String()); err != nil {
			logger.Error("mark notification sent failed",
				zap.String("outbox_id", msg.ID.String()),
				zap.Error(err),
			)
			continue
		}

		logger.Info("notification sent",
			zap.String("outbox_id", msg.ID.String()),
			zap.String("recipient", msg.Recipient),
			zap.String("subject", msg.Subject),
		)
	}

	return nil
}
