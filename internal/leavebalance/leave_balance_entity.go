package leavebalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is one personnel's remaining leave credits for one
// year. Unique on (personnel_id, year).
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonnelID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_personnel_year"`
	Year        int       `gorm:"not null;uniqueIndex:uq_leave_balances_personnel_year"`

	VacationBalance  decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"`
	SickBalance      decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"`
	EmergencyBalance decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
