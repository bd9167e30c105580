package events

const (
	LeaveAppliedTopic = "leave.applied"
	LeaveDecidedTopic = "leave.decided"
)

type LeaveAppliedEvent struct {
	ApplicationID string `json:"application_id"`
	UserID        string `json:"user_id"`
	LeaveType     string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Reason        string `json:"reason"`
}

type LeaveDecidedEvent struct {
	ApplicationID string `json:"application_id"`
	UserID        string `json:"user_id"`
	Status        string `json:"status"`
	Remarks       string `json:"remarks"`
	DaysApplied   int    `json:"days_applied"`
	DecidedBy     string `json:"decided_by"`
}
