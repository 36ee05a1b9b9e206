package ranking

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a group's leaderboards stay fresh.
const DefaultTTL = 10 * time.Minute

type (
	// GradeEntry is one row of the by-average-grade leaderboard.
	GradeEntry struct {
		Position     int     `json:"position"`
		ID           int     `json:"id"`
		FIO          string  `json:"fio"`
		AverageGrade float64 `json:"average_grade"`
		TotalGrades  int     `json:"total_grades"`
	}

	// AbsenceEntry is one row of the by-absence-count leaderboard.
	AbsenceEntry struct {
		Position int    `json:"position"`
		ID       int    `json:"id"`
		FIO      string `json:"fio"`
		Absences int    `json:"absences"`
	}

	// Ratings holds both leaderboards for one group. Server-provided order
	// is preserved verbatim (metric desc, identity asc on ties upstream).
	Ratings struct {
		ByGrade   []GradeEntry   `json:"by_grade"`
		ByAbsence []AbsenceEntry `json:"by_absence"`
		FetchedAt time.Time      `json:"-"`
	}

	// Fetcher is the remote leaderboard surface; services/gradebook
	// implements it.
	Fetcher interface {
		GradesRating(ctx context.Context, groupID int) ([]GradeEntry, error)
		AbsencesRating(ctx context.Context, groupID int) ([]AbsenceEntry, error)
	}

	// Cache memoizes per-group ratings with a fixed TTL. Expiry is a
	// check-on-read against the stored timestamp, and concurrent callers for
	// the same group share a single in-flight fetch pair. Failures are never
	// cached.
	Cache struct {
		fetcher Fetcher
		ttl     time.Duration
		nowFunc func() time.Time

		mu      sync.Mutex
		entries map[int]entry
		flight  singleflight.Group
	}

	entry struct {
		ratings Ratings
		created time.Time
	}
)

func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		nowFunc: time.Now,
		entries: make(map[int]entry),
	}
}

// Get returns the group's leaderboards, fetching at most once per group at
// any moment.
func (c *Cache) Get(ctx context.Context, groupID int) (Ratings, error) {
	if r, ok := c.cached(groupID); ok {
		return r, nil
	}
	v, err, _ := c.flight.Do(strconv.Itoa(groupID), func() (interface{}, error) {
		if r, ok := c.cached(groupID); ok {
			return r, nil
		}
		return c.fetch(ctx, groupID)
	})
	if err != nil {
		return Ratings{}, err
	}
	return v.(Ratings), nil
}

func (c *Cache) cached(groupID int) (Ratings, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[groupID]
	if !ok {
		return Ratings{}, false
	}
	if c.nowFunc().Sub(e.created) >= c.ttl {
		delete(c.entries, groupID) // lazily evict on read
		return Ratings{}, false
	}
	return e.ratings, true
}

func (c *Cache) fetch(ctx context.Context, groupID int) (interface{}, error) {
	var (
		byGrade   []GradeEntry
		byAbsence []AbsenceEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byGrade, err = c.fetcher.GradesRating(gctx, groupID)
		return
	})
	g.Go(func() (err error) {
		byAbsence, err = c.fetcher.AbsencesRating(gctx, groupID)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := Ratings{ByGrade: byGrade, ByAbsence: byAbsence, FetchedAt: c.nowFunc()}
	c.mu.Lock()
	c.entries[groupID] = entry{ratings: r, created: r.FetchedAt}
	c.mu.Unlock()
	return r, nil
}
