package leavecalc

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Balance buckets on a personnel's yearly leave balance row.
const (
	BucketVacation  = "vacation_balance"
	BucketSick      = "sick_balance"
	BucketEmergency = "emergency_balance"
)

// OrdinaryMinimumBalance is the portion of a credit balance an
// approval may never consume: 1.25 days, one month's accrual.
var OrdinaryMinimumBalance = decimal.NewFromFloat(1.25)

// Classification is the single source of truth for how a leave type is
// paid. Both the interactive preview and the committed approval consult
// it, so the two can never disagree.
type Classification struct {
	// Special leave pays every calendar day in range, weekends and
	// holidays included, and consumes no credits.
	Special bool
	// RequiresCredits marks leave that debits the yearly balance.
	RequiresCredits bool
	// MinimumBalance is the floor preserved on the balance by any
	// single approval.
	MinimumBalance decimal.Decimal
}

var specialTypes = map[string]struct{}{
	"maternity":       {},
	"paternity":       {},
	"emergency":       {},
	"emergency leave": {},
}

// Classify maps a leave type name to its payment rules. Matching is
// case-insensitive on the trimmed name; unknown types are ordinary.
func Classify(leaveType string) Classification {
	name := strings.ToLower(strings.TrimSpace(leaveType))
	if _, ok := specialTypes[name]; ok {
		return Classification{
			Special:         true,
			RequiresCredits: false,
			MinimumBalance:  decimal.Zero,
		}
	}
	return Classification{
		Special:         false,
		RequiresCredits: true,
		MinimumBalance:  OrdinaryMinimumBalance,
	}
}

// BalanceField maps a leave type to the balance bucket it debits and
// credits. Approval, rejection-return, and accrual all use this one
// mapping so a refund always lands where the debit came from.
// Free-form ordinary types draw from the vacation bucket.
func BalanceField(leaveType string) string {
	switch strings.ToLower(strings.TrimSpace(leaveType)) {
	case "sick", "sick leave":
		return BucketSick
	case "emergency", "emergency leave":
		return BucketEmergency
	default:
		return BucketVacation
	}
}
