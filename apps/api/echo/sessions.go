package echoapi

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vvladislovv/GreMiuv/core/student"
)

// session is one mini-app launch: a resolved identity, its Loader, and the
// host metadata captured at resolution time.
type session struct {
	id          string
	fio         string
	displayName string
	avatarURL   string
	loader      *student.Loader
	lastUse     time.Time
}

// sessionRegistry keeps live sessions in memory. Idle sessions are evicted
// lazily on access, mirroring the ranking cache's check-on-read expiry.
type sessionRegistry struct {
	svc *student.Service
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionRegistry(svc *student.Service, ttl time.Duration) *sessionRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &sessionRegistry{svc: svc, ttl: ttl, sessions: make(map[string]*session)}
}

func (r *sessionRegistry) create(fio, displayName, avatarURL string) *session {
	loader := student.NewLoader(r.svc)
	identity := fio
	loader.SetIdentity(&identity)

	sess := &session{
		id:          uuid.New().String(),
		fio:         fio,
		displayName: displayName,
		avatarURL:   avatarURL,
		loader:      loader,
		lastUse:     time.Now(),
	}

	r.mu.Lock()
	r.prune()
	r.sessions[sess.id] = sess
	r.mu.Unlock()
	return sess
}

// getOrCreate finds a live session, or rebuilds one from token claims after
// a restart.
func (r *sessionRegistry) getOrCreate(id, fio string) *session {
	r.mu.Lock()
	r.prune()
	if sess, ok := r.sessions[id]; ok {
		sess.lastUse = time.Now()
		r.mu.Unlock()
		return sess
	}
	r.mu.Unlock()

	loader := student.NewLoader(r.svc)
	identity := fio
	loader.SetIdentity(&identity)
	sess := &session{id: id, fio: fio, loader: loader, lastUse: time.Now()}

	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()
	return sess
}

// prune must be called with r.mu held.
func (r *sessionRegistry) prune() {
	cutoff := time.Now().Add(-r.ttl)
	for id, sess := range r.sessions {
		if sess.lastUse.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
