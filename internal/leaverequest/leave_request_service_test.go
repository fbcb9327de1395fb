package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/holiday"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance"
	leavebalanceerrors "github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance/errors"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavecalc"
	leaverequesterrors "github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leaverequest/errors"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/personnel"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn               func(tx *sql.Tx) Repository
	createFn               func(ctx context.Context, l *LeaveRequest) error
	findAllFn              func(ctx context.Context, status string) ([]LeaveRequest, error)
	findByIDFn             func(ctx context.Context, id string) (*LeaveRequest, error)
	findAllByPersonnelFn   func(ctx context.Context, personnelID string) ([]LeaveRequest, error)
	markDecidedFn          func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error)
	updateFormURLFn        func(ctx context.Context, id, url string) error
	personnelStatusFn      func(ctx context.Context, personnelID string) (string, error)
	hasOverlappingPeriodFn func(ctx context.Context, personnelID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) Create(ctx context.Context, l *LeaveRequest) error { return f.createFn(ctx, l) }
func (f *fakeRepo) FindAll(ctx context.Context, status string) ([]LeaveRequest, error) {
	return f.findAllFn(ctx, status)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindAllByPersonnel(ctx context.Context, personnelID string) ([]LeaveRequest, error) {
	return f.findAllByPersonnelFn(ctx, personnelID)
}
func (f *fakeRepo) MarkDecided(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
	return f.markDecidedFn(ctx, l, expectedStatus)
}
func (f *fakeRepo) UpdateFormURL(ctx context.Context, id, url string) error {
	if f.updateFormURLFn != nil {
		return f.updateFormURLFn(ctx, id, url)
	}
	return nil
}
func (f *fakeRepo) PersonnelStatus(ctx context.Context, personnelID string) (string, error) {
	return f.personnelStatusFn(ctx, personnelID)
}
func (f *fakeRepo) HasOverlappingPeriod(ctx context.Context, personnelID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	return f.hasOverlappingPeriodFn(ctx, personnelID, startDate, endDate, excludeID)
}

type fakeBalanceRepo struct {
	findByPersonnelAndYearFn func(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error)
	debitFn                  func(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error
	creditFn                 func(ctx context.Context, personnelID string, year int, field string, amount decimal.Decimal) error
}

func (f *fakeBalanceRepo) WithTx(tx *sql.Tx) leavebalance.Repository { return f }
func (f *fakeBalanceRepo) FindByPersonnelAndYear(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error) {
	if f.findByPersonnelAndYearFn != nil {
		return f.findByPersonnelAndYearFn(ctx, personnelID, year)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeBalanceRepo) FindAllByYear(ctx context.Context, year int) ([]leavebalance.LeaveBalance, error) {
	return nil, nil
}
func (f *fakeBalanceRepo) Upsert(ctx context.Context, b *leavebalance.LeaveBalance) error { return nil }
func (f *fakeBalanceRepo) Debit(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error {
	if f.debitFn != nil {
		return f.debitFn(ctx, personnelID, year, field, amount, floor)
	}
	return nil
}
func (f *fakeBalanceRepo) Credit(ctx context.Context, personnelID string, year int, field string, amount decimal.Decimal) error {
	if f.creditFn != nil {
		return f.creditFn(ctx, personnelID, year, field, amount)
	}
	return nil
}

func dec(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	assert.NoError(t, err)
	return d
}

func pendingVacationRequest() *LeaveRequest {
	// 2026-03-02 is a Monday, 2026-03-06 a Friday.
	return &LeaveRequest{
		ID:          uuid.New(),
		PersonnelID: uuid.New(),
		LeaveType:   "Vacation",
		StartDate:   time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC),
		NumDays:     5,
		Status:      StatusPending,
		PaidDays:    decimal.Zero,
		UnpaidDays:  decimal.Zero,
		CreatedBy:   uuid.New(),
	}
}

func balanceRow(personnelID uuid.UUID, vacation string) *leavebalance.LeaveBalance {
	return &leavebalance.LeaveBalance{
		ID:              uuid.New(),
		PersonnelID:     personnelID,
		Year:            2026,
		VacationBalance: decimal.RequireFromString(vacation),
	}
}

func TestService_Approve_WithPaySufficientBalance(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	var decided *LeaveRequest
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		assert.Equal(t, StatusPending, expectedStatus)
		decided = l
		return true, nil
	}

	var debited decimal.Decimal
	var debitedField string
	balances := &fakeBalanceRepo{}
	balances.findByPersonnelAndYearFn = func(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error) {
		assert.Equal(t, 2026, year)
		return balanceRow(req.PersonnelID, "10"), nil
	}
	balances.debitFn = func(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error {
		debited = amount
		debitedField = field
		assert.True(t, floor.Equal(dec(t, "1.25")))
		return nil
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(ctx, uuid.New().String(), req.ID.String(), DecisionOptions{ApproveFor: "with_pay"})
	assert.NoError(t, err)

	assert.NotNil(t, decided)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.Equal(t, "5", resp.PaidDays)
	assert.Equal(t, "0", resp.UnpaidDays)
	assert.True(t, debited.Equal(dec(t, "5")))
	assert.Equal(t, leavecalc.BucketVacation, debitedField)
	assert.NotNil(t, resp.BalanceAfter)
	assert.Equal(t, "5", *resp.BalanceAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_AutoSplitWhenBalanceShort(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		return true, nil
	}

	var debited decimal.Decimal
	balances := &fakeBalanceRepo{}
	balances.findByPersonnelAndYearFn = func(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error) {
		return balanceRow(req.PersonnelID, "3"), nil
	}
	balances.debitFn = func(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error {
		debited = amount
		return nil
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(ctx, uuid.New().String(), req.ID.String(), DecisionOptions{ApproveFor: "with_pay"})
	assert.NoError(t, err)

	// only 1.75 of 3.00 is usable above the 1.25 minimum; the rest of
	// the five days goes without pay
	assert.Equal(t, "1.75", resp.PaidDays)
	assert.Equal(t, "3.25", resp.UnpaidDays)
	assert.True(t, debited.Equal(dec(t, "1.75")))
	assert.NotNil(t, resp.Breakdown)
	assert.True(t, resp.Breakdown.AutoSplit)
	assert.Equal(t, "1.25", *resp.BalanceAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_WithoutPayNeverTouchesBalance(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		return true, nil
	}

	balances := &fakeBalanceRepo{}
	balances.findByPersonnelAndYearFn = func(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error) {
		return balanceRow(req.PersonnelID, "10"), nil
	}
	balances.debitFn = func(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error {
		t.Fatal("unpaid approval must not debit the balance")
		return nil
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(ctx, uuid.New().String(), req.ID.String(), DecisionOptions{ApproveFor: "without_pay"})
	assert.NoError(t, err)
	assert.Equal(t, "0", resp.PaidDays)
	assert.Equal(t, "5", resp.UnpaidDays)
	assert.Equal(t, "10", *resp.BalanceAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_SpecialTypeUsesCalendarDays(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	// Thursday through Monday spans a weekend: five calendar days, all
	// payable for an emergency leave, none of them charged to credits.
	req := pendingVacationRequest()
	req.LeaveType = "Emergency"
	req.StartDate = time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	req.EndDate = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	req.NumDays = 5

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		return true, nil
	}

	balances := &fakeBalanceRepo{}
	balances.findByPersonnelAndYearFn = func(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error) {
		t.Fatal("special leave types must not read the balance")
		return nil, nil
	}
	balances.debitFn = func(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error {
		t.Fatal("special leave types must not debit the balance")
		return nil
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(ctx, uuid.New().String(), req.ID.String(), DecisionOptions{ApproveFor: "with_pay"})
	assert.NoError(t, err)
	assert.Equal(t, "5", resp.PaidDays)
	assert.Equal(t, "0", resp.UnpaidDays)
	assert.Nil(t, resp.BalanceBefore)
	assert.Nil(t, resp.BalanceAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_AlreadyProcessed(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	req.Status = StatusApproved

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		t.Fatal("a non-pending request must not be updated")
		return false, nil
	}

	balances := &fakeBalanceRepo{}
	balances.debitFn = func(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error {
		t.Fatal("a repeated approval must not debit twice")
		return nil
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(ctx, uuid.New().String(), req.ID.String(), DecisionOptions{ApproveFor: "with_pay"})
	assert.ErrorIs(t, err, leaverequesterrors.ErrAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_LostRaceOnConditionalUpdate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		// another admin decided between our read and our write
		return false, nil
	}

	balances := &fakeBalanceRepo{}
	balances.findByPersonnelAndYearFn = func(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error) {
		return balanceRow(req.PersonnelID, "10"), nil
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(ctx, uuid.New().String(), req.ID.String(), DecisionOptions{ApproveFor: "with_pay"})
	assert.ErrorIs(t, err, leaverequesterrors.ErrAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_StaleBalance(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		return true, nil
	}

	balances := &fakeBalanceRepo{}
	balances.findByPersonnelAndYearFn = func(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error) {
		return balanceRow(req.PersonnelID, "10"), nil
	}
	balances.debitFn = func(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error {
		return leavebalanceerrors.ErrInsufficientBalance
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(ctx, uuid.New().String(), req.ID.String(), DecisionOptions{ApproveFor: "with_pay"})
	assert.ErrorIs(t, err, leaverequesterrors.ErrStaleBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Reject_RefundsRecordedDebit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	before := decimal.RequireFromString("10")
	after := decimal.RequireFromString("7")
	req := pendingVacationRequest()
	req.Status = StatusApproved
	req.BalanceBefore = &before
	req.BalanceAfter = &after

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		assert.Equal(t, StatusApproved, expectedStatus)
		assert.Equal(t, StatusRejected, l.Status)
		return true, nil
	}

	var credited decimal.Decimal
	balances := &fakeBalanceRepo{}
	balances.creditFn = func(ctx context.Context, personnelID string, year int, field string, amount decimal.Decimal) error {
		credited = amount
		assert.Equal(t, leavecalc.BucketVacation, field)
		return nil
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Reject(ctx, uuid.New().String(), req.ID.String(), "overlapping duty schedule")
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.True(t, credited.Equal(dec(t, "3")))
	assert.NotNil(t, resp.RejectionReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Reject_FallsBackToNumDays(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	req.Status = StatusApproved
	// legacy rows carry no balance snapshots

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		return true, nil
	}

	var credited decimal.Decimal
	balances := &fakeBalanceRepo{}
	balances.creditFn = func(ctx context.Context, personnelID string, year int, field string, amount decimal.Decimal) error {
		credited = amount
		return nil
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Reject(ctx, uuid.New().String(), req.ID.String(), "incomplete documents")
	assert.NoError(t, err)
	assert.True(t, credited.Equal(dec(t, "5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Reject_PendingRefundsNothing(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		assert.Equal(t, StatusPending, expectedStatus)
		return true, nil
	}

	balances := &fakeBalanceRepo{}
	balances.creditFn = func(ctx context.Context, personnelID string, year int, field string, amount decimal.Decimal) error {
		t.Fatal("rejecting a pending request must not credit anything")
		return nil
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Reject(ctx, uuid.New().String(), req.ID.String(), "not endorsed")
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Reject_RequiresReason(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeBalanceRepo{}, holiday.StaticSource{}, nil, nil)
	_, err := svc.Reject(context.Background(), uuid.New().String(), uuid.New().String(), "")
	assert.ErrorIs(t, err, leaverequesterrors.ErrRejectionReasonRequired)
}

func TestService_Reject_AlreadyRejected(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	req.Status = StatusRejected

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }

	svc := NewService(db, repo, &fakeBalanceRepo{}, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Reject(ctx, uuid.New().String(), req.ID.String(), "duplicate filing")
	assert.ErrorIs(t, err, leaverequesterrors.ErrAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Preview_DoesNotMutate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }
	repo.markDecidedFn = func(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
		t.Fatal("preview must not persist a decision")
		return false, nil
	}

	balances := &fakeBalanceRepo{}
	balances.findByPersonnelAndYearFn = func(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error) {
		return balanceRow(req.PersonnelID, "3"), nil
	}
	balances.debitFn = func(ctx context.Context, personnelID string, year int, field string, amount, floor decimal.Decimal) error {
		t.Fatal("preview must not debit")
		return nil
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	bd, err := svc.Preview(ctx, req.ID.String(), DecisionOptions{ApproveFor: "with_pay"})
	assert.NoError(t, err)
	assert.Equal(t, "1.75", bd.PaidDays)
	assert.Equal(t, "3.25", bd.UnpaidDays)
	assert.True(t, bd.AutoSplit)
	assert.Equal(t, StatusPending, req.Status)
}

func TestService_Preview_MissingBalanceRowMeansZeroCredits(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }

	balances := &fakeBalanceRepo{}
	balances.findByPersonnelAndYearFn = func(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	bd, err := svc.Preview(ctx, req.ID.String(), DecisionOptions{ApproveFor: "with_pay"})
	assert.NoError(t, err)
	assert.Equal(t, "0", bd.PaidDays)
	assert.Equal(t, "5", bd.UnpaidDays)
	assert.False(t, bd.BalanceUnavailable)
}

func TestService_Preview_BalanceReadFailureIsFlagged(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	req := pendingVacationRequest()
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) { return req, nil }

	balances := &fakeBalanceRepo{}
	balances.findByPersonnelAndYearFn = func(ctx context.Context, personnelID string, year int) (*leavebalance.LeaveBalance, error) {
		return nil, errors.New("connection reset")
	}

	svc := NewService(db, repo, balances, holiday.StaticSource{}, nil, nil)

	bd, err := svc.Preview(ctx, req.ID.String(), DecisionOptions{ApproveFor: "with_pay"})
	assert.NoError(t, err)
	assert.True(t, bd.BalanceUnavailable)
	assert.Equal(t, "0", bd.PaidDays)
}

func TestService_Create_RejectsInactivePersonnel(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo := &fakeRepo{}
	repo.personnelStatusFn = func(ctx context.Context, personnelID string) (string, error) {
		return personnel.StatusRetired, nil
	}

	svc := NewService(db, repo, &fakeBalanceRepo{}, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(ctx, uuid.New().String(), CreateLeaveRequest{
		PersonnelID: uuid.New().String(),
		LeaveType:   "Vacation",
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-06",
	})
	assert.ErrorIs(t, err, leaverequesterrors.ErrPersonnelNotActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_RejectsOverlap(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo := &fakeRepo{}
	repo.personnelStatusFn = func(ctx context.Context, personnelID string) (string, error) {
		return personnel.StatusActive, nil
	}
	repo.hasOverlappingPeriodFn = func(ctx context.Context, personnelID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
		return true, nil
	}

	svc := NewService(db, repo, &fakeBalanceRepo{}, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(ctx, uuid.New().String(), CreateLeaveRequest{
		PersonnelID: uuid.New().String(),
		LeaveType:   "Vacation",
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-06",
	})
	assert.ErrorIs(t, err, leaverequesterrors.ErrLeaveOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_CountsCalendarDays(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	var saved *LeaveRequest
	repo := &fakeRepo{}
	repo.personnelStatusFn = func(ctx context.Context, personnelID string) (string, error) {
		return personnel.StatusActive, nil
	}
	repo.hasOverlappingPeriodFn = func(ctx context.Context, personnelID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
		return false, nil
	}
	repo.createFn = func(ctx context.Context, l *LeaveRequest) error { saved = l; return nil }

	svc := NewService(db, repo, &fakeBalanceRepo{}, holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, uuid.New().String(), CreateLeaveRequest{
		PersonnelID: uuid.New().String(),
		LeaveType:   "Vacation",
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-08",
	})
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Equal(t, 7, resp.NumDays)
	assert.Equal(t, StatusPending, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_RejectsReversedRange(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeBalanceRepo{}, holiday.StaticSource{}, nil, nil)
	_, err := svc.Create(context.Background(), uuid.New().String(), CreateLeaveRequest{
		PersonnelID: uuid.New().String(),
		LeaveType:   "Vacation",
		StartDate:   "2026-03-08",
		EndDate:     "2026-03-02",
	})
	assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidDateRange)
}

func TestService_Approve_StaleBalanceRollsBackDecision(t *testing.T) {
	conn, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer conn.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	assert.NoError(t, err)

	req := pendingVacationRequest()
	bal := balanceRow(req.PersonnelID, "10")

	svc := NewService(conn, NewRepository(gormDB), leavebalance.NewRepository(gormDB), holiday.StaticSource{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "leave_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "personnel_id", "leave_type", "start_date", "end_date", "num_days", "status"}).
			AddRow(req.ID.String(), req.PersonnelID.String(), req.LeaveType, req.StartDate, req.EndDate, req.NumDays, req.Status))
	mock.ExpectQuery(`SELECT \* FROM "leave_balances"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "personnel_id", "year", "vacation_balance"}).
			AddRow(bal.ID.String(), bal.PersonnelID.String(), bal.Year, "10"))
	mock.ExpectExec(`UPDATE "leave_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// a concurrent writer drained the balance between the read and the
	// conditional debit
	mock.ExpectExec(`UPDATE "leave_balances" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = svc.Approve(context.Background(), uuid.New().String(), req.ID.String(), DecisionOptions{ApproveFor: "with_pay"})
	assert.ErrorIs(t, err, leaverequesterrors.ErrStaleBalance)

	// the status flip shares the transaction with the debit, so the
	// rollback reverts it and a later rejection has nothing to refund
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakdown_NoCreditsOmitsBalanceSnapshots(t *testing.T) {
	out, err := json.Marshal(Breakdown{
		ApproveFor:    "with_pay",
		PaidDays:      "5",
		UnpaidDays:    "0",
		TotalDeducted: "0",
		CalendarDays:  5,
	})
	assert.NoError(t, err)
	assert.NotContains(t, string(out), "balance_before")
	assert.NotContains(t, string(out), "balance_after")

	out, err = json.Marshal(Breakdown{BalanceBefore: "10", BalanceAfter: "5"})
	assert.NoError(t, err)
	assert.Contains(t, string(out), `"balance_before":"10"`)
	assert.Contains(t, string(out), `"balance_after":"5"`)
}
