package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	pending []EmailMessage
	listErr error

	sent   []string
	failed map[string]string
}

func (f *fakeOutboxRepository) Enqueue(ctx context.Context, msg *EmailMessage) error { return nil }

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]EmailMessage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeMailer struct {
	sendFn func(ctx context.Context, msg Message) error
	sent   []Message
}

func (f *fakeMailer) Send(ctx context.Context, msg Message) error {
	if f.sendFn != nil {
		if err := f.sendFn(ctx, msg); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, msg)
	return nil
}

func outboxRow(recipient string) EmailMessage {
	return EmailMessage{
		ID:        uuid.New(),
		Sender:    "noreply@lms.example.com",
		Recipient: recipient,
		Subject:   "Leave Application Approved",
		Body:      "Your leave application has been approved.",
		Status:    OutboxStatusPending,
	}
}

func TestDeliverPendingEmails(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("delivered messages are marked sent", func(t *testing.T) {
		msg := outboxRow("jdoe@example.com")
		repo := &fakeOutboxRepository{pending: []EmailMessage{msg}}
		mailer := &fakeMailer{}

		err := deliverPendingEmails(ctx, repo, mailer, logger)

		assert.NoError(t, err)
		assert.Len(t, mailer.sent, 1)
		assert.Equal(t, "jdoe@example.com", mailer.sent[0].To)
		assert.Equal(t, []string{msg.ID.String()}, repo.sent)
		assert.Empty(t, repo.failed)
	})

	t.Run("relay failure marks the message failed and continues with the rest", func(t *testing.T) {
		bad := outboxRow("bounce@example.com")
		good := outboxRow("jdoe@example.com")
		repo := &fakeOutboxRepository{pending: []EmailMessage{bad, good}}
		mailer := &fakeMailer{
			sendFn: func(ctx context.Context, msg Message) error {
				if msg.To == "bounce@example.com" {
					return errors.New("550 mailbox unavailable")
				}
				return nil
			},
		}

		err := deliverPendingEmails(ctx, repo, mailer, logger)

		assert.NoError(t, err)
		assert.Equal(t, []string{good.ID.String()}, repo.sent)
		assert.Equal(t, "550 mailbox unavailable", repo.failed[bad.ID.String()])
	})

	t.Run("empty outbox is a no-op", func(t *testing.T) {
		repo := &fakeOutboxRepository{}
		mailer := &fakeMailer{}

		assert.NoError(t, deliverPendingEmails(ctx, repo, mailer, logger))
		assert.Empty(t, mailer.sent)
	})

	t.Run("list failure surfaces to the poll loop", func(t *testing.T) {
		repo := &fakeOutboxRepository{listErr: errors.New("connection refused")}

		err := deliverPendingEmails(ctx, repo, &fakeMailer{}, logger)

		assert.Error(t, err)
	})
}

func TestProcessPendingEmails_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &fakeOutboxRepository{}
	done := make(chan struct{})

	go func() {
		ProcessPendingEmails(ctx, repo, &fakeMailer{}, zap.NewNop(), 5*time.Millisecond)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
