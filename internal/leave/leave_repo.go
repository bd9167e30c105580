package leave

import (
	"context"

	"github.com/mdvohra/LMS-app/internal/shared/database"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	CreateApplication(ctx context.Context, l *LeaveApplication) error
	FindApplicationByID(ctx context.Context, id string) (*LeaveApplication, error)
	FindApplicationsByUser(ctx context.Context, userID string) ([]LeaveApplication, error)
	FindAllApplications(ctx context.Context) ([]LeaveApplication, error)
	UpdateApplication(ctx context.Context, l *LeaveApplication) error

	FindRecordByUser(ctx context.Context, userID string) (*LeaveRecord, error)
	CreateRecord(ctx context.Context, r *LeaveRecord) error
	DecrementRemainingDays(ctx context.Context, userID string, days int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateApplication(ctx context.Context, l *LeaveApplication) error {
	return database.GetDB(ctx, r.db).Create(l).Error
}

func (r *repository) FindApplicationByID(ctx context.Context, id string) (*LeaveApplication, error) {
	var l LeaveApplication
	err := database.GetDB(ctx, r.db).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindApplicationsByUser(ctx context.Context, userID string) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	err := database.GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *repository) FindAllApplications(ctx context.Context) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	err := database.GetDB(ctx, r.db).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *repository) UpdateApplication(ctx context.Context, l *LeaveApplication) error {
	return database.GetDB(ctx, r.db).Save(l).Error
}

func (r *repository) FindRecordByUser(ctx context.Context, userID string) (*LeaveRecord, error) {
	var rec LeaveRecord
	err := database.GetDB(ctx, r.db).First(&rec, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) CreateRecord(ctx context.Context, rec *LeaveRecord) error {
	return database.GetDB(ctx, r.db).Create(rec).Error
}

// DecrementRemainingDays applies the balance mutation as a single UPDATE so
// concurrent approvals for the same user cannot lose an update. Returns false
// when the user has no record yet.
func (r *repository) DecrementRemainingDays(ctx context.Context, userID string, days int) (bool, error) {
	res := database.GetDB(ctx, r.db).Exec(`
		UPDATE leave_records
		SET remaining_leave_days = remaining_leave_days - ?, updated_at = now()
		WHERE user_id = ?
	`, days, userID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
