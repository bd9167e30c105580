package leave

type ApplyLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=casual sick emergency"`
	Reason    string `json:"reason" binding:"required"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

type DecideLeaveRequest struct {
	Remarks string `json:"remarks" binding:"max=500"`
}

type LeaveApplicationResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	LeaveType string  `json:"leave_type"`
	Reason    string  `json:"reason"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Status    string  `json:"status"`
	Remarks   *string `json:"remarks,omitempty"`
	DecidedBy *string `json:"decided_by,omitempty"`
	DecidedAt *string `json:"decided_at,omitempty"`
}

type LeaveRecordResponse struct {
	UserID             string `json:"user_id"`
	TotalLeaveDays     int    `json:"total_leave_days"`
	RemainingLeaveDays int    `json:"remaining_leave_days"`
}
