package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// LeaveRequest is one request for time off. A request is mutated
// exactly once out of PENDING; the decision fields below the status
// are written at that moment and never change again.
type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonnelID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_personnel_dates"`

	LeaveType string    `gorm:"type:varchar(40);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_personnel_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_personnel_dates"`
	// NumDays is the calendar-day length of the range, stored for
	// display and as the refund fallback when no balance snapshot
	// was recorded.
	NumDays int    `gorm:"not null;default:1"`
	Reason  string `gorm:"type:text"`

	Status     string  `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	ApproveFor *string `gorm:"type:varchar(20)"`

	PaidDays      decimal.Decimal  `gorm:"type:numeric(7,2);not null;default:0"`
	UnpaidDays    decimal.Decimal  `gorm:"type:numeric(7,2);not null;default:0"`
	BalanceBefore *decimal.Decimal `gorm:"type:numeric(7,2)"`
	BalanceAfter  *decimal.Decimal `gorm:"type:numeric(7,2)"`
	WorkingDays   int              `gorm:"not null;default:0"`
	HolidayDays   int              `gorm:"not null;default:0"`

	LeaveBalanceID *uuid.UUID `gorm:"type:uuid"`
	FormURL        *string    `gorm:"type:text"`

	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	DecidedBy       *uuid.UUID `gorm:"type:uuid"`
	DecidedAt       *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}
