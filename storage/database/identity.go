package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/vvladislovv/GreMiuv/core/identity"
)

// HostIdentityRepository persists the last-known identity per host user.
type HostIdentityRepository struct {
	db *sqlx.DB
}

var _ identity.FallbackStore = (*HostIdentityRepository)(nil)

func NewHostIdentityRepository(db *sqlx.DB) *HostIdentityRepository {
	return &HostIdentityRepository{db: db}
}

func (repo *HostIdentityRepository) LastIdentity(ctx context.Context, hostUserID int64) (string, error) {
	var fio string
	err := repo.db.GetContext(ctx, &fio,
		`SELECT fio FROM host_identity WHERE telegram_id = $1`, hostUserID)
	if err == sql.ErrNoRows {
		return "", identity.ErrNoIdentity
	}
	if err != nil {
		return "", errors.Wrap(err, "querying host identity")
	}
	return fio, nil
}

func (repo *HostIdentityRepository) SaveIdentity(ctx context.Context, hostUserID int64, fio string) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO host_identity (telegram_id, fio, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (telegram_id) DO UPDATE SET fio = EXCLUDED.fio, updated_at = now()`,
		hostUserID, fio)
	return errors.Wrap(err, "saving host identity")
}
