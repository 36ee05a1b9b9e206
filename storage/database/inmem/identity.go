package inmem

import (
	"context"
	"sync"

	"github.com/vvladislovv/GreMiuv/core/identity"
)

// HostIdentityRepository is the in-memory FallbackStore used in tests and
// DB-less deployments.
type HostIdentityRepository struct {
	mu   sync.RWMutex
	fios map[int64]string
}

var _ identity.FallbackStore = (*HostIdentityRepository)(nil)

func NewHostIdentityRepository() *HostIdentityRepository {
	return &HostIdentityRepository{fios: make(map[int64]string)}
}

func (repo *HostIdentityRepository) LastIdentity(_ context.Context, hostUserID int64) (string, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	fio, ok := repo.fios[hostUserID]
	if !ok {
		return "", identity.ErrNoIdentity
	}
	return fio, nil
}

func (repo *HostIdentityRepository) SaveIdentity(_ context.Context, hostUserID int64, fio string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.fios[hostUserID] = fio
	return nil
}
