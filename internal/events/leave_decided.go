package events

import "time"

const LeaveDecidedTopic = "bfp.leave.decision.v1"

// LeaveDecidedEvent records the terminal decision on a leave request.
type LeaveDecidedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	PersonnelID string    `json:"personnel_id"`
	LeaveType   string    `json:"leave_type"`
	Status      string    `json:"status"`
	PaidDays    string    `json:"paid_days,omitempty"`
	UnpaidDays  string    `json:"unpaid_days,omitempty"`
	DecidedBy   string    `json:"decided_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
