package student

import (
	"context"
	"sync"

	"github.com/vvladislovv/GreMiuv/core"
)

// Snapshot is the published aggregation state.
// A nil identity shows as {Loading: true} — "awaiting identity", not an error.
type Snapshot struct {
	Student  *Student
	Subjects []Subject
	Loading  bool
	Err      error
}

// Loader re-runs the aggregation whenever the identity value changes and
// discards stale completions: an in-flight fetch for an old identity can
// never overwrite the state of a newer one. Completions are matched against
// a generation counter under the mutex, not by aborting the transport.
type Loader struct {
	svc *Service

	mu       sync.Mutex
	gen      uint64
	identity *string
	snap     Snapshot
	changed  chan struct{} // closed and replaced on every snapshot update
}

func NewLoader(svc *Service) *Loader {
	return &Loader{
		svc:     svc,
		snap:    Snapshot{Loading: true},
		changed: make(chan struct{}),
	}
}

// SetIdentity switches the loader to a new identity value. Setting the same
// non-nil value again is a no-op; the fetch is keyed by value, not by call.
func (l *Loader) SetIdentity(fio *string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if fio == nil && l.identity == nil {
		return
	}
	if fio != nil && l.identity != nil && *fio == *l.identity {
		return
	}

	l.gen++
	l.identity = fio

	switch {
	case fio == nil:
		l.publish(Snapshot{Loading: true})
	case core.CleanString(*fio) == "":
		l.publish(Snapshot{Err: core.ErrIdentityMissing})
	default:
		l.publish(Snapshot{Loading: true})
		go l.load(l.gen, *fio)
	}
}

func (l *Loader) load(gen uint64, fio string) {
	data, err := l.svc.Load(context.Background(), fio)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return // a newer identity took over; drop this result
	}
	if err != nil {
		l.publish(Snapshot{Err: err})
		return
	}
	stu := data.Student
	l.publish(Snapshot{Student: &stu, Subjects: data.Subjects})
}

// publish must be called with l.mu held.
func (l *Loader) publish(snap Snapshot) {
	l.snap = snap
	close(l.changed)
	l.changed = make(chan struct{})
}

func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

func (l *Loader) Identity() *string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.identity
}

// Wait blocks until the loader settles (Loading == false) or the context
// expires, and returns the snapshot it observed last.
func (l *Loader) Wait(ctx context.Context) (Snapshot, error) {
	for {
		l.mu.Lock()
		snap, changed := l.snap, l.changed
		l.mu.Unlock()

		if !snap.Loading {
			return snap, nil
		}
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-changed:
		}
	}
}
