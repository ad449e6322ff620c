// Package flagmodel enforces the invariants of spec §3 and hides the fact
// that "create a variant" involves several coordinated writes. It is
// grounded on the teacher's catalogmanager package, generalized from its
// YAML/JSON kind-manifest manager shape down to its essential idea: a
// service wraps a store handle, each public operation opens one transaction,
// and store failures are translated into friendlier, typed errors.
package flagmodel

import (
	"context"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
	"github.com/mbuczko/flagrant/internal/flagerr"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// nameRE matches spec §3's feature/environment naming rule: a letter
// followed by one or more letters, digits or underscores.
var nameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]+$`)

const maxNameLen = 255

func validateName(name string) apperrors.Error {
	if name == "" || len(name) > maxNameLen || !nameRE.MatchString(name) {
		return flagerr.ErrNameInvalid.Msg("name must match ^[A-Za-z][A-Za-z0-9_]+$ and be at most 255 characters")
	}
	return nil
}

// Service is the Model layer: every public method is one atomic operation
// over the Store.
type Service struct {
	store flagstore.Store
}

// New wraps a store into a Model-layer Service.
func New(store flagstore.Store) *Service {
	return &Service{store: store}
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any exit path that returns an error, exactly like every §4.2
// operation in the teacher's postgresql package does for its multi-write
// paths.
func (s *Service) withTx(ctx context.Context, fn func(q flagstore.Querier) apperrors.Error) apperrors.Error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Ctx(ctx).Error().Err(rbErr).Msg("failed to roll back transaction")
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if dbErr := tx.Commit(); dbErr != nil {
		log.Ctx(ctx).Error().Err(dbErr).Msg("failed to commit transaction")
		return flagerr.ErrStoreUnavailable.Err(dbErr)
	}
	committed = true
	return nil
}
