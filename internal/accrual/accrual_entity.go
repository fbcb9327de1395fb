package accrual

import (
	"time"

	"github.com/google/uuid"
)

// AccrualRun records one credited (personnel, year, month) cell. The
// unique index is what makes the monthly job idempotent: a rerun hits
// the conflict and skips the credit.
type AccrualRun struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonnelID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_accrual_runs_personnel_period"`
	Year        int       `gorm:"not null;uniqueIndex:uq_accrual_runs_personnel_period"`
	Month       int       `gorm:"not null;uniqueIndex:uq_accrual_runs_personnel_period"`
	CreatedAt   time.Time
}

func (AccrualRun) TableName() string {
	return "accrual_runs"
}
