package leaverequest

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateLeaveRequest struct {
	PersonnelID string `json:"personnel_id" binding:"required,uuid"`
	LeaveType   string `json:"leave_type" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason"`
}

// DecisionOptions carries the admin's chosen payment disposition.
// WithPayDays is read only when ApproveFor is "both".
type DecisionOptions struct {
	ApproveFor  string          `json:"approve_for" binding:"required,oneof=with_pay without_pay both"`
	WithPayDays decimal.Decimal `json:"with_pay_days"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Breakdown is the payment decision as shown to the admin, identical
// for the live preview and the committed approval.
type Breakdown struct {
	ApproveFor    string `json:"approve_for"`
	PaidDays      string `json:"paid_days"`
	UnpaidDays    string `json:"unpaid_days"`
	TotalDeducted string `json:"total_deducted"`
	// BalanceBefore and BalanceAfter are omitted for leave types
	// that never consume credits.
	BalanceBefore string `json:"balance_before,omitempty"`
	BalanceAfter  string `json:"balance_after,omitempty"`
	CalendarDays  int    `json:"calendar_days"`
	WorkingDays   int    `json:"working_days"`
	HolidayDays   int    `json:"holiday_days"`
	AutoSplit     bool   `json:"auto_split"`
	Adjusted      bool   `json:"adjusted"`
	// BalanceUnavailable is set when the balance row could not be
	// read and the calculation assumed zero credits.
	BalanceUnavailable bool `json:"balance_unavailable,omitempty"`
}

type LeaveRequestResponse struct {
	ID              string     `json:"id"`
	PersonnelID     string     `json:"personnel_id"`
	LeaveType       string     `json:"leave_type"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	NumDays         int        `json:"num_days"`
	Reason          string     `json:"reason,omitempty"`
	Status          string     `json:"status"`
	ApproveFor      *string    `json:"approve_for,omitempty"`
	PaidDays        string     `json:"paid_days"`
	UnpaidDays      string     `json:"unpaid_days"`
	BalanceBefore   *string    `json:"balance_before,omitempty"`
	BalanceAfter    *string    `json:"balance_after,omitempty"`
	WorkingDays     int        `json:"working_days"`
	HolidayDays     int        `json:"holiday_days"`
	FormURL         *string    `json:"form_url,omitempty"`
	CreatedBy       string     `json:"created_by"`
	DecidedBy       *string    `json:"decided_by,omitempty"`
	DecidedAt       *string    `json:"decided_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	Breakdown       *Breakdown `json:"breakdown,omitempty"`
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:          l.ID.String(),
		PersonnelID: l.PersonnelID.String(),
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		NumDays:     l.NumDays,
		Reason:      l.Reason,
		Status:      l.Status,
		ApproveFor:  l.ApproveFor,
		PaidDays:    l.PaidDays.String(),
		UnpaidDays:  l.UnpaidDays.String(),
		WorkingDays: l.WorkingDays,
		HolidayDays: l.HolidayDays,
		FormURL:     l.FormURL,
		CreatedBy:   l.CreatedBy.String(),
	}
	if l.BalanceBefore != nil {
		v := l.BalanceBefore.String()
		resp.BalanceBefore = &v
	}
	if l.BalanceAfter != nil {
		v := l.BalanceAfter.String()
		resp.BalanceAfter = &v
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
