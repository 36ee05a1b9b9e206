package ranking

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
)

type fakeFetcher struct {
	gradeCalls   int32
	absenceCalls int32

	onGrades   func(groupID int) ([]GradeEntry, error)
	onAbsences func(groupID int) ([]AbsenceEntry, error)
}

func (f *fakeFetcher) GradesRating(_ context.Context, groupID int) ([]GradeEntry, error) {
	atomic.AddInt32(&f.gradeCalls, 1)
	if f.onGrades != nil {
		return f.onGrades(groupID)
	}
	return []GradeEntry{{Position: 1, ID: 11, FIO: "Иванов И.И.", AverageGrade: 4.9}}, nil
}

func (f *fakeFetcher) AbsencesRating(_ context.Context, groupID int) ([]AbsenceEntry, error) {
	atomic.AddInt32(&f.absenceCalls, 1)
	if f.onAbsences != nil {
		return f.onAbsences(groupID)
	}
	return []AbsenceEntry{{Position: 1, ID: 12, FIO: "Петров П.П.", Absences: 9}}, nil
}

func TestCache_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("server order is preserved verbatim", func(t *testing.T) {
		byGrade := []GradeEntry{
			{Position: 1, ID: 3, FIO: "B", AverageGrade: 4.9},
			{Position: 2, ID: 1, FIO: "A", AverageGrade: 4.9},
			{Position: 3, ID: 2, FIO: "C", AverageGrade: 4.1},
		}
		fetcher := &fakeFetcher{onGrades: func(int) ([]GradeEntry, error) { return byGrade, nil }}
		c := NewCache(fetcher, time.Minute)

		r, err := c.Get(ctx, 5)
		if err != nil {
			t.Fatalf("Get(): %v", err)
		}
		if !reflect.DeepEqual(r.ByGrade, byGrade) {
			t.Errorf("ByGrade = %+v, want server order", r.ByGrade)
		}
	})

	t.Run("concurrent callers share one fetch pair", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		c := NewCache(fetcher, time.Minute)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := c.Get(ctx, 5); err != nil {
					t.Errorf("Get(): %v", err)
				}
			}()
		}
		wg.Wait()

		if n := atomic.LoadInt32(&fetcher.gradeCalls); n != 1 {
			t.Errorf("GradesRating called %d times, want 1", n)
		}
		if n := atomic.LoadInt32(&fetcher.absenceCalls); n != 1 {
			t.Errorf("AbsencesRating called %d times, want 1", n)
		}
	})

	t.Run("fresh entry is served without network", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		c := NewCache(fetcher, time.Minute)

		first, _ := c.Get(ctx, 5)
		second, _ := c.Get(ctx, 5)
		if !reflect.DeepEqual(first, second) {
			t.Error("cached ratings differ from fetched ratings")
		}
		if n := atomic.LoadInt32(&fetcher.gradeCalls); n != 1 {
			t.Errorf("GradesRating called %d times, want 1", n)
		}
	})

	t.Run("groups are cached independently", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		c := NewCache(fetcher, time.Minute)

		_, _ = c.Get(ctx, 5)
		_, _ = c.Get(ctx, 6)
		if n := atomic.LoadInt32(&fetcher.gradeCalls); n != 2 {
			t.Errorf("GradesRating called %d times, want 2", n)
		}
	})

	t.Run("expired entry triggers one refresh", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		c := NewCache(fetcher, time.Minute)

		now := time.Now()
		c.nowFunc = func() time.Time { return now }

		_, _ = c.Get(ctx, 5)
		c.nowFunc = func() time.Time { return now.Add(time.Minute) } // exactly at the TTL edge
		_, _ = c.Get(ctx, 5)
		_, _ = c.Get(ctx, 5)

		if n := atomic.LoadInt32(&fetcher.gradeCalls); n != 2 {
			t.Errorf("GradesRating called %d times, want 2", n)
		}
	})

	t.Run("failures are never cached", func(t *testing.T) {
		var failed bool
		fetcher := &fakeFetcher{onAbsences: func(int) ([]AbsenceEntry, error) {
			if !failed {
				failed = true
				return nil, errors.New("boom")
			}
			return []AbsenceEntry{}, nil
		}}
		c := NewCache(fetcher, time.Minute)

		if _, err := c.Get(ctx, 5); err == nil {
			t.Fatal("Get() error = nil, want failure")
		}
		if _, err := c.Get(ctx, 5); err != nil {
			t.Fatalf("Get() retry: %v", err)
		}
		if n := atomic.LoadInt32(&fetcher.absenceCalls); n != 2 {
			t.Errorf("AbsencesRating called %d times, want 2", n)
		}
	})
}
