package inmem

import (
	"context"
	"testing"

	"github.com/vvladislovv/GreMiuv/core/identity"
)

func TestHostIdentityRepository(t *testing.T) {
	repo := NewHostIdentityRepository()
	ctx := context.Background()

	if _, err := repo.LastIdentity(ctx, 42); err != identity.ErrNoIdentity {
		t.Errorf("LastIdentity() error = %v, want ErrNoIdentity", err)
	}

	if err := repo.SaveIdentity(ctx, 42, "Иванов И.И."); err != nil {
		t.Fatalf("SaveIdentity(): %v", err)
	}
	if fio, err := repo.LastIdentity(ctx, 42); err != nil || fio != "Иванов И.И." {
		t.Errorf("LastIdentity() = (%q, %v), want stored fio", fio, err)
	}

	// overwrite
	if err := repo.SaveIdentity(ctx, 42, "Петров П.П."); err != nil {
		t.Fatalf("SaveIdentity(): %v", err)
	}
	if fio, _ := repo.LastIdentity(ctx, 42); fio != "Петров П.П." {
		t.Errorf("LastIdentity() = %q, want overwritten fio", fio)
	}
}
