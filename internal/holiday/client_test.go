package holiday_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/holiday"

	"github.com/stretchr/testify/assert"
)

func TestFallbackHolidays(t *testing.T) {
	set := holiday.FallbackHolidays(2026)

	byName := make(map[string]time.Time, len(set))
	for _, h := range set {
		byName[h.Name] = h.Date
	}

	assert.Equal(t, time.Date(2026, time.June, 12, 0, 0, 0, 0, time.UTC), byName["Independence Day"])
	assert.Equal(t, time.Date(2026, time.December, 30, 0, 0, 0, 0, time.UTC), byName["Rizal Day"])

	heroes := byName["National Heroes Day"]
	assert.Equal(t, time.Monday, heroes.Weekday())
	assert.Equal(t, time.August, heroes.Month())
	assert.GreaterOrEqual(t, heroes.Day(), 25, "last Monday falls in the final week")
}

func TestClientFallsBackWhenAPIUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := holiday.NewTestClient(srv.URL)
	set := c.ForYears(context.Background(), 2026)

	assert.True(t, set.Contains(time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC)),
		"fallback calendar still lists Christmas")
}

func TestClientParsesAPIResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PublicHolidays/2026/PH", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"date":"2026-06-12","localName":"Araw ng Kalayaan","name":"Independence Day"},
			{"date":"2026-12-25","localName":"","name":"Christmas Day"}
		]`))
	}))
	defer srv.Close()

	c := holiday.NewTestClient(srv.URL)
	set := c.ForYears(context.Background(), 2026)

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(time.Date(2026, time.June, 12, 0, 0, 0, 0, time.UTC)))
}

func TestClientMergesYears(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/PublicHolidays/2026/PH":
			_, _ = w.Write([]byte(`[{"date":"2026-12-30","localName":"Rizal Day","name":"Rizal Day"}]`))
		case "/PublicHolidays/2027/PH":
			_, _ = w.Write([]byte(`[{"date":"2027-01-01","localName":"New Year's Day","name":"New Year's Day"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := holiday.NewTestClient(srv.URL)
	set := c.ForYears(context.Background(), 2026, 2027)

	assert.True(t, set.Contains(time.Date(2026, time.December, 30, 0, 0, 0, 0, time.UTC)))
	assert.True(t, set.Contains(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)))
}
