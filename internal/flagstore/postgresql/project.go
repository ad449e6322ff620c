package postgresql

import (
	"context"
	"database/sql"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
	"github.com/mbuczko/flagrant/internal/flagerr"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// CreateProject inserts a new project row.
func (p *Pool) CreateProject(ctx context.Context, q flagstore.Querier, name string) (*flagstore.Project, apperrors.Error) {
	const query = `INSERT INTO projects (name) VALUES ($1) RETURNING id;`

	var id int64
	err := q.QueryRowContext(ctx, query, name).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return nil, flagerr.ErrNameTaken.Msg("project name already in use")
		}
		log.Ctx(ctx).Error().Err(err).Str("name", name).Msg("failed to insert project")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return &flagstore.Project{ID: id, Name: name}, nil
}

// GetProject retrieves a project by id.
func (p *Pool) GetProject(ctx context.Context, q flagstore.Querier, id int64) (*flagstore.Project, apperrors.Error) {
	const query = `SELECT id, name FROM projects WHERE id = $1;`

	proj := &flagstore.Project{}
	err := q.QueryRowContext(ctx, query, id).Scan(&proj.ID, &proj.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, flagerr.ErrNotFound.Msg("project not found")
		}
		log.Ctx(ctx).Error().Err(err).Int64("id", id).Msg("failed to retrieve project")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return proj, nil
}
