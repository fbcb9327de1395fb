package leavebalance

import (
	"context"
	"database/sql"
	"testing"

	leavebalanceerrors "github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	findByPersonnelAndYearFn func(ctx context.Context, personnelID string, year int) (*LeaveBalance, error)
	upsertFn                 func(ctx context.Context, b *LeaveBalance) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) FindByPersonnelAndYear(ctx context.Context, personnelID string, year int) (*LeaveBalance, error) {
	return f.findByPersonnelAndYearFn(ctx, personnelID, year)
}
func (f *fakeRepo) FindAllByYear(ctx context.Context, year int) ([]LeaveBalance, error) {
	return nil, nil
}
func (f *fakeRepo) Upsert(ctx context.Context, b *LeaveBalance) error { return f.upsertFn(ctx, b) }
func (f *fakeRepo) Debit(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error {
	return nil
}
func (f *fakeRepo) Credit(ctx context.Context, personnelID string, year int, field string, amount decimal.Decimal) error {
	return nil
}

func TestService_GetForPersonnel(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	pid := uuid.New()
	repo := &fakeRepo{
		findByPersonnelAndYearFn: func(ctx context.Context, personnelID string, year int) (*LeaveBalance, error) {
			assert.Equal(t, pid.String(), personnelID)
			assert.Equal(t, 2026, year)
			return &LeaveBalance{
				ID:               uuid.New(),
				PersonnelID:      pid,
				Year:             2026,
				VacationBalance:  decimal.RequireFromString("12.5"),
				SickBalance:      decimal.RequireFromString("10"),
				EmergencyBalance: decimal.Zero,
			}, nil
		},
	}

	svc := NewService(db, repo)
	resp, err := svc.GetForPersonnel(context.Background(), pid.String(), 2026)
	assert.NoError(t, err)
	assert.Equal(t, "12.5", resp.VacationBalance)
	assert.Equal(t, "10", resp.SickBalance)
	assert.Equal(t, "0", resp.EmergencyBalance)
}

func TestService_GetForPersonnel_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByPersonnelAndYearFn: func(ctx context.Context, personnelID string, year int) (*LeaveBalance, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(db, repo)
	_, err := svc.GetForPersonnel(context.Background(), uuid.New().String(), 2026)
	assert.ErrorIs(t, err, leavebalanceerrors.ErrBalanceNotFound)
}

func TestService_GetForPersonnel_InvalidID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{})
	_, err := svc.GetForPersonnel(context.Background(), "not-a-uuid", 2026)
	assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidPersonnelID)
}

func TestService_EnsureForYear(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	pid := uuid.New()
	var upserted *LeaveBalance
	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, b *LeaveBalance) error { upserted = b; return nil },
	}

	svc := NewService(db, repo)
	err := svc.EnsureForYear(context.Background(), pid.String(), 2026)
	assert.NoError(t, err)
	assert.NotNil(t, upserted)
	assert.Equal(t, pid, upserted.PersonnelID)
	assert.Equal(t, 2026, upserted.Year)
	assert.True(t, upserted.VacationBalance.IsZero())
	assert.True(t, upserted.SickBalance.IsZero())
}
