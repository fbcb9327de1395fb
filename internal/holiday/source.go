package holiday

import (
	"context"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavecalc"
)

//go:generate mockgen -source=source.go -destination=mock/source_mock.go -package=mock

// Source supplies the holiday calendar the working-day math runs
// against. Implementations degrade rather than fail: a lookup always
// yields a usable set, at worst the static fallback.
type Source interface {
	ForYears(ctx context.Context, years ...int) leavecalc.HolidaySet
}

// StaticSource is a fixed holiday set, used in tests and as a
// zero-dependency default.
type StaticSource struct {
	Set leavecalc.HolidaySet
}

func (s StaticSource) ForYears(ctx context.Context, years ...int) leavecalc.HolidaySet {
	return s.Set
}
