package flagmodel

import (
	"context"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// EnvironmentCreate validates name uniqueness within the project and inserts
// the environment. (expansion)
func (s *Service) EnvironmentCreate(ctx context.Context, projectID int64, name, description string) (*flagstore.Environment, apperrors.Error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	var env *flagstore.Environment
	err := s.withTx(ctx, func(q flagstore.Querier) apperrors.Error {
		if _, pErr := s.store.GetProject(ctx, q, projectID); pErr != nil {
			return pErr
		}
		var txErr apperrors.Error
		env, txErr = s.store.CreateEnvironment(ctx, q, projectID, name, description)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

// EnvironmentGet fetches an environment by numeric id or by name within projectID.
func (s *Service) EnvironmentGet(ctx context.Context, projectID int64, idOrName string) (*flagstore.Environment, apperrors.Error) {
	return s.store.GetEnvironment(ctx, s.store.DB(), projectID, idOrName)
}

// EnvironmentList lists environments of projectID, optionally filtered by
// exact name or name prefix.
func (s *Service) EnvironmentList(ctx context.Context, projectID int64, prefix, name string) ([]*flagstore.Environment, apperrors.Error) {
	return s.store.ListEnvironments(ctx, s.store.DB(), projectID, prefix, name)
}

// environmentByID is a small helper several operations need: resolve an
// environment id to confirm it exists before mutating its feature/variant
// state.
func (s *Service) environmentByID(ctx context.Context, q flagstore.Querier, envID int64) (*flagstore.Environment, apperrors.Error) {
	return s.store.GetEnvironmentByID(ctx, q, envID)
}

// EnvironmentGetByID fetches an environment by its primary key alone, used
// by the Evaluation API which addresses environments directly.
func (s *Service) EnvironmentGetByID(ctx context.Context, envID int64) (*flagstore.Environment, apperrors.Error) {
	return s.store.GetEnvironmentByID(ctx, s.store.DB(), envID)
}
