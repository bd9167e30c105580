package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveApplication struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applications_user"`
	LeaveType string    `gorm:"type:varchar(20);not null"`
	Reason    string    `gorm:"type:text;not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`

	Status    string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_applications_status"`
	Remarks   *string    `gorm:"type:varchar(500)"`
	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveRecord is a user's running leave-day balance, distinct from any single
// application. At most one row per user. RemainingLeaveDays may go negative;
// the original system never floors it and callers rely on seeing the deficit.
type LeaveRecord struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TotalLeaveDays     int       `gorm:"type:int;not null"`
	RemainingLeaveDays int       `gorm:"type:int;not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
