package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavecalc"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL = "https://date.nager.at/api/v3"
	defaultCountry = "PH"
	cacheTTL       = 30 * 24 * time.Hour
)

type apiHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// Client fetches public holidays from the Nager.Date API, caching each
// fetched year in redis. An unreachable API or cache is never surfaced
// as a failure: the caller gets the static fallback calendar and a log
// line, at the cost of possibly less accurate working-day counts.
type Client struct {
	http    *http.Client
	rdb     *redis.Client
	baseURL string
	country string
	sf      singleflight.Group
	logger  *zap.Logger
}

func NewClient(rdb *redis.Client, logger ...*zap.Logger) *Client {
	l := zap.L().Named("holiday.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.client")
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		rdb:     rdb,
		baseURL: defaultBaseURL,
		country: defaultCountry,
		logger:  l,
	}
}

// ForYears returns the merged holiday set for the given years.
func (c *Client) ForYears(ctx context.Context, years ...int) leavecalc.HolidaySet {
	set := leavecalc.NewHolidaySet()
	for _, year := range years {
		set = set.Merge(c.forYear(ctx, year))
	}
	return set
}

func (c *Client) forYear(ctx context.Context, year int) leavecalc.HolidaySet {
	key := fmt.Sprintf("holidays:%s:%d", c.country, year)

	if c.rdb != nil {
		if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
			var entries []apiHoliday
			if err := json.Unmarshal([]byte(raw), &entries); err == nil {
				if set, err := toHolidaySet(entries); err == nil {
					return set
				}
			}
			c.logger.Warn("corrupt holiday cache entry, refetching", zap.String("key", key))
		}
	}

	// collapse concurrent fetches of the same year into one API call
	v, err, _ := c.sf.Do(key, func() (any, error) {
		return c.fetch(ctx, year)
	})
	if err != nil {
		c.logger.Warn("holiday api unavailable, using fallback calendar",
			zap.Int("year", year),
			zap.Error(err),
		)
		return leavecalc.NewHolidaySet(FallbackHolidays(year)...)
	}

	entries := v.([]apiHoliday)

	if c.rdb != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := c.rdb.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
				c.logger.Warn("holiday cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}

	set, err := toHolidaySet(entries)
	if err != nil {
		c.logger.Warn("holiday api returned bad dates, using fallback calendar",
			zap.Int("year", year),
			zap.Error(err),
		)
		return leavecalc.NewHolidaySet(FallbackHolidays(year)...)
	}
	return set
}

func (c *Client) fetch(ctx context.Context, year int) ([]apiHoliday, error) {
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.baseURL, year, c.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday api status %d", resp.StatusCode)
	}

	var entries []apiHoliday
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func toHolidaySet(entries []apiHoliday) (leavecalc.HolidaySet, error) {
	holidays := make([]leavecalc.Holiday, 0, len(entries))
	for _, e := range entries {
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			return leavecalc.HolidaySet{}, fmt.Errorf("parse holiday date %q: %w", e.Date, err)
		}
		name := e.LocalName
		if name == "" {
			name = e.Name
		}
		holidays = append(holidays, leavecalc.Holiday{Date: d, Name: name})
	}
	return leavecalc.NewHolidaySet(holidays...), nil
}
