package leaverequest

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_request_repo.go -destination=mock/leave_request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAll(ctx context.Context, status string) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAllByPersonnel(ctx context.Context, personnelID string) ([]LeaveRequest, error)
	// MarkDecided applies the decision fields of l with a conditional
	// update guarded on the status the caller observed. A false return
	// means another admin got there first and nothing was written.
	MarkDecided(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error)
	UpdateFormURL(ctx context.Context, id, url string) error
	PersonnelStatus(ctx context.Context, personnelID string) (string, error)
	HasOverlappingPeriod(ctx context.Context, personnelID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the gorm session to tx, the same way gorm's own
// Begin does; every statement issued through the returned repository
// joins the caller's transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, status string) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx).Order("start_date DESC")
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var requests []LeaveRequest
	err := db.Find(&requests).Error
	return requests, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAllByPersonnel(ctx context.Context, personnelID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("personnel_id = ?", personnelID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) MarkDecided(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
	// conditional write: the WHERE on the previously observed status
	// closes the race between two admins deciding the same request
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", l.ID).
		Where("status = ?", expectedStatus).
		Updates(map[string]any{
			"status":           l.Status,
			"approve_for":      l.ApproveFor,
			"paid_days":        l.PaidDays,
			"unpaid_days":      l.UnpaidDays,
			"balance_before":   l.BalanceBefore,
			"balance_after":    l.BalanceAfter,
			"working_days":     l.WorkingDays,
			"holiday_days":     l.HolidayDays,
			"leave_balance_id": l.LeaveBalanceID,
			"decided_by":       l.DecidedBy,
			"decided_at":       l.DecidedAt,
			"rejection_reason": l.RejectionReason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateFormURL(ctx context.Context, id, url string) error {
	return r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Update("form_url", url).Error
}

func (r *repository) PersonnelStatus(ctx context.Context, personnelID string) (string, error) {
	var status string
	err := r.db.WithContext(ctx).
		Table("personnel").
		Select("status").
		Where("id = ?", personnelID).
		Where("deleted_at IS NULL").
		Scan(&status).Error
	return status, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, personnelID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("personnel_id = ?", personnelID).
		Where("status <> ?", StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
