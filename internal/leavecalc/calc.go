package leavecalc

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ApproveFor is the admin's payment disposition for a request.
type ApproveFor string

const (
	ApproveWithPay    ApproveFor = "with_pay"
	ApproveWithoutPay ApproveFor = "without_pay"
	ApproveBoth       ApproveFor = "both"
)

var (
	ErrNoDisposition    = errors.New("no payment disposition selected")
	ErrInvalidRange     = errors.New("end date before start date")
	ErrMissingLeaveType = errors.New("leave type is required")
)

// CalendarDays counts days from start to end inclusive. Both ends are
// normalized to calendar dates first; start == end yields 1.
func CalendarDays(start, end time.Time) int {
	s := NormalizeDate(start)
	e := NormalizeDate(end)
	return int(e.Sub(s).Hours()/24) + 1
}

// WorkingDays counts the Monday-Friday days in the inclusive range
// that are not in the holiday set. Weekend days are excluded whether
// or not they are also holidays, so a Saturday holiday is never
// subtracted twice.
func WorkingDays(start, end time.Time, holidays HolidaySet) int {
	s := NormalizeDate(start)
	e := NormalizeDate(end)

	count := 0
	for day := s; !day.After(e); day = day.AddDate(0, 0, 1) {
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		if holidays.Contains(day) {
			continue
		}
		count++
	}
	return count
}

// Input is everything Compute needs about one pending request.
type Input struct {
	LeaveType        string
	StartDate        time.Time
	EndDate          time.Time
	AvailableBalance decimal.Decimal
	ApproveFor       ApproveFor
	// WithPayDays is the admin's requested paid-day count; consulted
	// only when ApproveFor is "both".
	WithPayDays decimal.Decimal
	Holidays    HolidaySet
}

// Breakdown is the full payment decision. The same value serves the
// interactive preview and the committed approval; nothing here has
// side effects.
type Breakdown struct {
	ApproveFor    ApproveFor
	PaidDays      decimal.Decimal
	UnpaidDays    decimal.Decimal
	TotalDeducted decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	CalendarDays  int
	WorkingDays   int
	HolidayDays   int
	// AutoSplit is set when a with_pay request could not be fully
	// covered and was converted to a paid+unpaid mixture.
	AutoSplit bool
	// Adjusted is set when a "both" split asked for more paid days
	// than the usable balance allowed.
	Adjusted bool
	// RequiresCredits mirrors the classification so callers know
	// whether TotalDeducted must be applied to a balance row.
	RequiresCredits bool
}

// Compute turns a request, its balance, and a disposition into the
// paid/unpaid split and resulting balance.
//
// For ordinary leave only working days are payable and the balance is
// never driven below the preserved minimum; for special leave every
// calendar day is payable and no credits are consumed. A with_pay
// request that the usable balance cannot cover degrades to an
// automatic split rather than failing.
func Compute(in Input) (Breakdown, error) {
	if in.LeaveType == "" {
		return Breakdown{}, ErrMissingLeaveType
	}
	if NormalizeDate(in.EndDate).Before(NormalizeDate(in.StartDate)) {
		return Breakdown{}, ErrInvalidRange
	}

	cls := Classify(in.LeaveType)

	calDays := CalendarDays(in.StartDate, in.EndDate)
	workDays := WorkingDays(in.StartDate, in.EndDate, in.Holidays)

	daysToConsider := workDays
	if cls.Special {
		daysToConsider = calDays
	}
	days := decimal.NewFromInt(int64(daysToConsider))

	usable := days
	if cls.RequiresCredits {
		usable = in.AvailableBalance.Sub(cls.MinimumBalance)
		if usable.IsNegative() {
			usable = decimal.Zero
		}
	}

	b := Breakdown{
		ApproveFor:      in.ApproveFor,
		BalanceBefore:   in.AvailableBalance,
		CalendarDays:    calDays,
		WorkingDays:     workDays,
		HolidayDays:     calDays - workDays,
		RequiresCredits: cls.RequiresCredits,
	}

	switch in.ApproveFor {
	case ApproveWithPay:
		switch {
		case !cls.RequiresCredits:
			b.PaidDays = days
			b.UnpaidDays = decimal.Zero
			b.TotalDeducted = decimal.Zero
		case usable.GreaterThanOrEqual(days):
			b.PaidDays = days
			b.UnpaidDays = decimal.Zero
			b.TotalDeducted = days
		default:
			// balance cannot cover the request: disclose an
			// automatic paid+unpaid split instead of blocking
			b.PaidDays = decimal.Min(usable, days)
			b.UnpaidDays = days.Sub(b.PaidDays)
			b.TotalDeducted = b.PaidDays
			b.ApproveFor = ApproveBoth
			b.AutoSplit = true
		}

	case ApproveWithoutPay:
		b.PaidDays = decimal.Zero
		b.UnpaidDays = days
		b.TotalDeducted = decimal.Zero

	case ApproveBoth:
		paid := in.WithPayDays
		if paid.IsNegative() {
			paid = decimal.Zero
		}
		if paid.GreaterThan(days) {
			paid = days
		}
		if cls.RequiresCredits && paid.GreaterThan(usable) {
			paid = usable
			b.Adjusted = true
		}
		b.PaidDays = paid
		b.UnpaidDays = days.Sub(paid)
		if cls.RequiresCredits {
			b.TotalDeducted = paid
		} else {
			b.TotalDeducted = decimal.Zero
		}

	default:
		return Breakdown{}, ErrNoDisposition
	}

	b.BalanceAfter = in.AvailableBalance
	if cls.RequiresCredits && b.TotalDeducted.IsPositive() {
		b.BalanceAfter = in.AvailableBalance.Sub(b.TotalDeducted)
		if b.BalanceAfter.LessThan(cls.MinimumBalance) {
			b.BalanceAfter = cls.MinimumBalance
		}
	}

	return b, nil
}
