package accrual

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=accrual_repo.go -destination=mock/accrual_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// RecordRun claims the (personnel, year, month) cell. It reports
	// false without error when the cell was already claimed, which is
	// the idempotency signal for the caller.
	RecordRun(ctx context.Context, personnelID uuid.UUID, year, month int) (bool, error)
	CountRuns(ctx context.Context, year, month int) (int64, error)
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

func (r *repository) RecordRun(ctx context.Context, personnelID uuid.UUID, year, month int) (bool, error) {
	run := AccrualRun{
		ID:          uuid.New(),
		PersonnelID: personnelID,
		Year:        year,
		Month:       month,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "personnel_id"}, {Name: "year"}, {Name: "month"}},
			DoNothing: true,
		}).
		Create(&run)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CountRuns(ctx context.Context, year, month int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AccrualRun{}).
		Where("year = ?", year).
		Where("month = ?", month).
		Count(&count).Error
	return count, err
}
