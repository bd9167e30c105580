package leave

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mdvohra/LMS-app/internal/auth"
	"github.com/mdvohra/LMS-app/internal/events"
	leaveerrors "github.com/mdvohra/LMS-app/internal/leave/errors"
	"github.com/mdvohra/LMS-app/internal/notification"
	"github.com/mdvohra/LMS-app/internal/shared/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	TypeCasual    = "casual"
	TypeSick      = "sick"
	TypeEmergency = "emergency"

	maxRemarksLength = 500
)

// Fixed denylist screened against manager remarks before any mutation.
var forbiddenWords = []string{"idiot", "stupid", "lazy", "useless", "incompetent"}

func containsInappropriateContent(text string) bool {
	lowered := strings.ToLower(text)
	for _, word := range forbiddenWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, actorID string, req ApplyLeaveRequest) (LeaveApplicationResponse, error)
	ListByUser(ctx context.Context, userID string) ([]LeaveApplicationResponse, error)
	ListAll(ctx context.Context) ([]LeaveApplicationResponse, error)
	Approve(ctx context.Context, actorID, id, remarks string) (LeaveApplicationResponse, error)
	Reject(ctx context.Context, actorID, id, remarks string) (LeaveApplicationResponse, error)
}

type service struct {
	txm       database.TransactionManager
	repo      Repository
	users     auth.Repository
	outbox    notification.OutboxRepository
	publisher EventPublisher
	listGroup singleflight.Group
	logger    *zap.Logger
}

func NewService(
	txm database.TransactionManager,
	repo Repository,
	users auth.Repository,
	outbox notification.OutboxRepository,
	publisher EventPublisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if publisher == nil {
		publisher = NoopEventPublisher{}
	}
	return &service{
		txm:       txm,
		repo:      repo,
		users:     users,
		outbox:    outbox,
		publisher: publisher,
		logger:    l,
	}
}

func (s *service) Apply(ctx context.Context, actorID string, req ApplyLeaveRequest) (LeaveApplicationResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("actor_id", actorID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	userID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}

	startDate, endDate, violations := validateApplyRequest(req)
	if len(violations) > 0 {
		s.logger.Warn("apply leave validation failed",
			zap.String("actor_id", actorID),
			zap.Strings("violations", violations),
		)
		return LeaveApplicationResponse{}, leaveerrors.ErrValidationFailed.WithDetails(map[string]any{
			"violations":  violations,
			"form_values": req,
		})
	}

	applicant, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("apply leave applicant lookup failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	l := &LeaveApplication{
		ID:        uuid.New(),
		UserID:    userID,
		LeaveType: req.LeaveType,
		Reason:    req.Reason,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    StatusPending,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateApplication(txCtx, l); err != nil {
			return err
		}

		// Management notification is committed together with the application;
		// the worker delivers it after the fact.
		return s.outbox.Enqueue(txCtx, &notification.EmailMessage{
			Sender:    os.Getenv("EMAIL_FROM"),
			Recipient: os.Getenv("MANAGEMENT_TEAM_EMAIL"),
			Subject:   fmt.Sprintf("New Leave Application from %s", applicant.Username),
			Body: fmt.Sprintf(
				"Leave Type: %s\nStart Date: %s\nEnd Date: %s\nReason: %s",
				req.LeaveType, req.StartDate, req.EndDate, req.Reason,
			),
		})
	})
	if err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("leave application submitted",
		zap.String("application_id", l.ID.String()),
		zap.String("user_id", actorID),
		zap.String("leave_type", l.LeaveType),
	)

	if err := s.publisher.PublishLeaveApplied(ctx, events.LeaveAppliedEvent{
		ApplicationID: l.ID.String(),
		UserID:        actorID,
		LeaveType:     l.LeaveType,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Reason:        req.Reason,
	}); err != nil {
		s.logger.Warn("publish leave applied event failed", zap.Error(err))
	}

	return mapToResponse(*l), nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]LeaveApplicationResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	apps, err := s.repo.FindApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

// ListAll backs the manager dashboard. Identical concurrent listings are
// collapsed into one query.
func (s *service) ListAll(ctx context.Context) ([]LeaveApplicationResponse, error) {
	v, err, _ := s.listGroup.Do("all", func() (any, error) {
		apps, err := s.repo.FindAllApplications(ctx)
		if err != nil {
			return nil, err
		}
		return mapToListResponse(apps), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]LeaveApplicationResponse), nil
}

func (s *service) Approve(ctx context.Context, actorID, id, remarks string) (LeaveApplicationResponse, error) {
	return s.decide(ctx, actorID, id, StatusApproved, remarks)
}

func (s *service) Reject(ctx context.Context, actorID, id, remarks string) (LeaveApplicationResponse, error) {
	return s.decide(ctx, actorID, id, StatusRejected, remarks)
}

func (s *service) decide(ctx context.Context, actorID, id, targetStatus, remarks string) (LeaveApplicationResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("application_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidApplicationID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}

	remarks = strings.TrimSpace(remarks)
	if len(remarks) > maxRemarksLength {
		return LeaveApplicationResponse{}, leaveerrors.ErrRemarksTooLong
	}
	if containsInappropriateContent(remarks) {
		s.logger.Warn("decide leave remarks rejected by content policy",
			zap.String("application_id", id),
			zap.String("actor_id", actorID),
		)
		return LeaveApplicationResponse{}, leaveerrors.ErrInappropriateRemarks
	}

	var decided *LeaveApplication
	var daysApplied int

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		l, err := s.repo.FindApplicationByID(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrApplicationNotFound
			}
			return err
		}

		// Guarded transition: only pending applications can be decided. A
		// second decision on the same application fails here, which also rules
		// out double-decrementing the balance.
		if l.Status != StatusPending {
			s.logger.Warn("decide leave invalid transition",
				zap.String("application_id", id),
				zap.String("from_status", l.Status),
				zap.String("to_status", targetStatus),
			)
			return leaveerrors.ErrInvalidStatusTransition
		}

		now := time.Now().UTC()
		l.Status = targetStatus
		l.Remarks = &remarks
		l.DecidedBy = &actorUUID
		l.DecidedAt = &now

		if err := s.repo.UpdateApplication(txCtx, l); err != nil {
			return err
		}

		if targetStatus == StatusApproved {
			daysApplied = inclusiveDays(l.StartDate, l.EndDate)
			if err := s.applyBalance(txCtx, l.UserID, daysApplied); err != nil {
				return err
			}
		}

		owner, err := s.users.GetByID(txCtx, l.UserID)
		if err != nil {
			return err
		}

		if err := s.outbox.Enqueue(txCtx, decisionEmail(l, owner, targetStatus, remarks)); err != nil {
			return err
		}

		decided = l
		return nil
	})
	if err != nil {
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("leave application decided",
		zap.String("application_id", id),
		zap.String("status", targetStatus),
		zap.Int("days_applied", daysApplied),
	)

	if err := s.publisher.PublishLeaveDecided(ctx, events.LeaveDecidedEvent{
		ApplicationID: id,
		UserID:        decided.UserID.String(),
		Status:        targetStatus,
		Remarks:       remarks,
		DaysApplied:   daysApplied,
		DecidedBy:     actorID,
	}); err != nil {
		s.logger.Warn("publish leave decided event failed", zap.Error(err))
	}

	return mapToResponse(*decided), nil
}

// applyBalance decrements the owner's remaining days atomically; when the user
// has no record yet it creates one already in deficit (total = days applied,
// remaining = -days applied), matching the long-standing bookkeeping quirk.
func (s *service) applyBalance(ctx context.Context, userID uuid.UUID, days int) error {
	updated, err := s.repo.DecrementRemainingDays(ctx, userID.String(), days)
	if err != nil {
		return err
	}
	if updated {
		return nil
	}

	s.logger.Info("no leave record for user, creating one",
		zap.String("user_id", userID.String()),
		zap.Int("days_applied", days),
	)
	return s.repo.CreateRecord(ctx, &LeaveRecord{
		ID:                 uuid.New(),
		UserID:             userID,
		TotalLeaveDays:     days,
		RemainingLeaveDays: -days,
	})
}

func decisionEmail(l *LeaveApplication, owner *auth.User, status, remarks string) *notification.EmailMessage {
	verdict := "Approved"
	if status == StatusRejected {
		verdict = "Rejected"
	}

	return &notification.EmailMessage{
		Sender:    os.Getenv("EMAIL_FROM"),
		Recipient: owner.Email,
		Subject:   "Leave Application " + verdict,
		Body: fmt.Sprintf(
			"Your leave application for %s from %s to %s has been %s. Remarks: %s",
			l.LeaveType,
			l.StartDate.Format("2006-01-02"),
			l.EndDate.Format("2006-01-02"),
			strings.ToLower(verdict),
			remarks,
		),
	}
}

func validateApplyRequest(req ApplyLeaveRequest) (time.Time, time.Time, []string) {
	var violations []string

	switch req.LeaveType {
	case TypeCasual, TypeSick, TypeEmergency:
	default:
		violations = append(violations, "Invalid type of leave.")
	}

	if strings.TrimSpace(req.Reason) == "" {
		violations = append(violations, "Reason for leave is required.")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		violations = append(violations, "Invalid start date.")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		violations = append(violations, "Invalid end date.")
	}

	// Cross-field check only once both dates parsed.
	if len(violations) == 0 && !startDate.Before(endDate) {
		violations = append(violations, "Start date must be before end date.")
	}

	return startDate, endDate, violations
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// inclusiveDays counts both endpoints: 2024-01-01..2024-01-03 is 3 days.
func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func mapToResponse(l LeaveApplication) LeaveApplicationResponse {
	resp := LeaveApplicationResponse{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		LeaveType: l.LeaveType,
		Reason:    l.Reason,
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		Status:    l.Status,
		Remarks:   l.Remarks,
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(apps []LeaveApplication) []LeaveApplicationResponse {
	resp := make([]LeaveApplicationResponse, len(apps))
	for i, l := range apps {
		resp[i] = mapToResponse(l)
	}
	return resp
}
