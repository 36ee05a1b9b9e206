package identity

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/pkg/errors"

	"github.com/vvladislovv/GreMiuv/core"
)

// State of the resolution machine. Every failure leg is best-effort and
// degrades to Unresolved, so there is no terminal failure state.
type State int

const (
	StateUnresolved State = iota
	StateResolving
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	default:
		return "unresolved"
	}
}

var (
	// ErrNoIdentity is returned by a FallbackStore when no identity is stored
	// for the host user.
	ErrNoIdentity = errors.New("no stored identity")
)

type (
	// Env carries the two optional host-launch values. They are injected at
	// the composition root, never read ambiently.
	Env struct {
		StartParam string // optional identity hint, possibly percent-encoded
		InitData   string // opaque host-session blob
	}

	// HostIdentity is the remote lookup result for a host session.
	HostIdentity struct {
		FIO        string
		Registered bool
	}

	// Lookup resolves a host-session blob to an identity on the remote
	// service; services/gradebook implements it.
	Lookup interface {
		FIOByHostSession(ctx context.Context, initData string) (HostIdentity, error)
	}

	// FallbackStore remembers the last-known identity per host user;
	// storage/database implements it.
	FallbackStore interface {
		LastIdentity(ctx context.Context, hostUserID int64) (string, error)
		SaveIdentity(ctx context.Context, hostUserID int64, fio string) error
	}

	// Resolver determines the active student's identity through an ordered
	// fallback chain: host hint, host-session lookup, local fallback store.
	// Once resolved the identity is immutable.
	Resolver struct {
		env    Env
		lookup Lookup
		store  FallbackStore // optional
		logger core.Logger

		mu    sync.Mutex
		state State
		fio   string
		user  *HostUser
	}
)

func NewResolver(env Env, lookup Lookup, store FallbackStore, logger core.Logger) *Resolver {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Resolver{env: env, lookup: lookup, store: store, logger: logger}
}

// Resolve runs the fallback chain. First success wins; re-invoking a
// resolved resolver returns the existing identity untouched.
func (r *Resolver) Resolve(ctx context.Context) (string, State) {
	r.mu.Lock()
	if r.state == StateResolved {
		fio := r.fio
		r.mu.Unlock()
		return fio, StateResolved
	}
	r.state = StateResolving
	env := r.env
	r.mu.Unlock()

	blob := core.CleanString(env.InitData)
	var usr *HostUser
	if blob != "" {
		var err error
		if usr, err = ParseInitData(blob); err != nil {
			r.logger.Debug(fmt.Sprintf("identity: unparseable init data: %v", err))
		}
	}

	// 1. host hint: decode if possible, fall back to the raw value
	if hint := core.CleanString(env.StartParam); hint != "" {
		fio := hint
		if decoded, err := url.QueryUnescape(hint); err == nil {
			if cleaned := core.CleanString(decoded); cleaned != "" {
				fio = cleaned
			}
		}
		return r.resolved(fio, usr)
	}

	if blob == "" {
		return r.unresolved()
	}

	// 2. host-session lookup, best effort: network errors are logged and
	// swallowed, an empty result means "not yet known", not a failure
	if r.lookup != nil {
		host, err := r.lookup.FIOByHostSession(ctx, blob)
		if err != nil {
			r.logger.Warn(fmt.Sprintf("identity: host session lookup failed: %v", err), err)
		} else if fio := core.CleanString(host.FIO); fio != "" {
			if r.store != nil && usr != nil {
				if err := r.store.SaveIdentity(ctx, usr.ID, fio); err != nil {
					r.logger.Warn(fmt.Sprintf("identity: saving fallback identity: %v", err), err)
				}
			}
			return r.resolved(fio, usr)
		}
	}

	// 3. local fallback: last-known identity for this host user
	if r.store != nil && usr != nil {
		fio, err := r.store.LastIdentity(ctx, usr.ID)
		switch {
		case err == nil && core.CleanString(fio) != "":
			return r.resolved(core.CleanString(fio), usr)
		case err != nil && errors.Cause(err) != ErrNoIdentity:
			r.logger.Warn(fmt.Sprintf("identity: fallback store lookup failed: %v", err), err)
		}
	}

	return r.unresolved()
}

func (r *Resolver) resolved(fio string, usr *HostUser) (string, State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateResolved {
		return r.fio, StateResolved // never overwrite
	}
	r.state = StateResolved
	r.fio = fio
	if usr != nil {
		r.user = usr
	}
	return fio, StateResolved
}

func (r *Resolver) unresolved() (string, State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateResolving {
		r.state = StateUnresolved
	}
	return r.fio, r.state
}

func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resolver) Identity() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fio
}

// HostUser returns the parsed host metadata, if any was seen during
// resolution.
func (r *Resolver) HostUser() *HostUser {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.user
}
