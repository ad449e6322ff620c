package flagmodel

import (
	"context"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
	"github.com/mbuczko/flagrant/internal/flagerr"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// ProjectCreate validates name and inserts a project. (expansion: spec.md
// lists Project only in §3/§6; this gives the Admin API something to call.)
func (s *Service) ProjectCreate(ctx context.Context, name string) (*flagstore.Project, apperrors.Error) {
	if name == "" {
		return nil, flagerr.ErrNameInvalid.Msg("project name must not be empty")
	}
	var project *flagstore.Project
	err := s.withTx(ctx, func(q flagstore.Querier) apperrors.Error {
		var txErr apperrors.Error
		project, txErr = s.store.CreateProject(ctx, q, name)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ProjectGet fetches a project by id.
func (s *Service) ProjectGet(ctx context.Context, id int64) (*flagstore.Project, apperrors.Error) {
	return s.store.GetProject(ctx, s.store.DB(), id)
}
