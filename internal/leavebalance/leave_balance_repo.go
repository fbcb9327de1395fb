package leavebalance

import (
	"context"
	"database/sql"

	leavebalanceerrors "github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance/errors"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavecalc"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_balance_repo.go -destination=mock/leave_balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByPersonnelAndYear(ctx context.Context, personnelID string, year int) (*LeaveBalance, error)
	FindAllByYear(ctx context.Context, year int) ([]LeaveBalance, error)
	// Upsert creates the (personnel, year) row if absent and leaves an
	// existing row untouched.
	Upsert(ctx context.Context, b *LeaveBalance) error
	// Debit atomically subtracts amount from one balance field,
	// refusing to take the field below floor. Returns
	// ErrInsufficientBalance when the conditional update matched no
	// row, which means a concurrent writer got there first.
	Debit(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error
	// Credit atomically adds amount to one balance field.
	Credit(ctx context.Context, personnelID string, year int, field string, amount decimal.Decimal) error
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

func (r *repository) FindByPersonnelAndYear(ctx context.Context, personnelID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("personnel_id = ?", personnelID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindAllByYear(ctx context.Context, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Find(&balances).Error
	return balances, err
}

func (r *repository) Upsert(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "personnel_id"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(b).Error
}

func validField(field string) bool {
	switch field {
	case leavecalc.BucketVacation, leavecalc.BucketSick, leavecalc.BucketEmergency:
		return true
	}
	return false
}

func (r *repository) Debit(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error {
	if !validField(field) {
		return leavebalanceerrors.ErrInvalidBalanceField
	}

	// single conditional UPDATE: the read-modify-write race on a
	// shared balance row is closed in the database, not in Go
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("personnel_id = ?", personnelID).
		Where("year = ?", year).
		Where(field+" - ? >= ?", amount, floor).
		Update(field, gorm.Expr(field+" - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leavebalanceerrors.ErrInsufficientBalance
	}
	return nil
}

func (r *repository) Credit(ctx context.Context, personnelID string, year int, field string, amount decimal.Decimal) error {
	if !validField(field) {
		return leavebalanceerrors.ErrInvalidBalanceField
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("personnel_id = ?", personnelID).
		Where("year = ?", year).
		Update(field, gorm.Expr(field+" + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
