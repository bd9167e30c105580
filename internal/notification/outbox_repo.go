package notification

import (
	"context"
	"time"

	"github.com/mdvohra/LMS-app/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// EmailMessage is a durable outbox row. Workflows enqueue inside their own
// transaction; the worker binary delivers and marks the outcome, so a relay
// failure can never fail an already-committed request.
type EmailMessage struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Sender       string    `gorm:"type:varchar(255);not null"`
	Recipient    string    `gorm:"type:varchar(255);not null"`
	Subject      string    `gorm:"type:varchar(255);not null"`
	Body         string    `gorm:"type:text;not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	RetryCount   int       `gorm:"type:int;not null;default:0"`
	ErrorMessage *string   `gorm:"type:varchar(500)"`
	NextRetryAt  *time.Time
	SentAt       *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (EmailMessage) TableName() string {
	return "email_outbox"
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg *EmailMessage) error
	ListPending(ctx context.Context, limit int) ([]EmailMessage, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, msg *EmailMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.Status == "" {
		msg.Status = OutboxStatusPending
	}
	return database.GetDB(ctx, r.db).Create(msg).Error
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]EmailMessage, error) {
	var msgs []EmailMessage
	err := database.GetDB(ctx, r.db).
		Where("status IN ?", []string{OutboxStatusPending, OutboxStatusFailed}).
		Where("next_retry_at IS NULL OR next_retry_at <= now()").
		Order("created_at ASC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	return database.GetDB(ctx, r.db).Exec(`
		UPDATE email_outbox
		SET status = ?, sent_at = now(), error_message = NULL, updated_at = now()
		WHERE id = ?
	`, OutboxStatusSent, id).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return database.GetDB(ctx, r.db).Exec(`
		UPDATE email_outbox
		SET status = ?,
			retry_count = retry_count + 1,
			error_message = LEFT(?, 500),
			next_retry_at = now() + (LEAST(retry_count + 1, 10) * INTERVAL '15 seconds'),
			updated_at = now()
		WHERE id = ?
	`, OutboxStatusFailed, reason, id).Error
}
