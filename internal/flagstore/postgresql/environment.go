package postgresql

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
	"github.com/mbuczko/flagrant/internal/flagerr"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// CreateEnvironment inserts a new environment row scoped to projectID.
func (p *Pool) CreateEnvironment(ctx context.Context, q flagstore.Querier, projectID int64, name, description string) (*flagstore.Environment, apperrors.Error) {
	const query = `
		INSERT INTO environments (project_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	var id int64
	err := q.QueryRowContext(ctx, query, projectID, name, description).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" {
				return nil, flagerr.ErrNameTaken.Msg("environment name already in use for this project")
			}
			if pgErr.Code == "23503" {
				return nil, flagerr.ErrNotFound.Msg("project not found")
			}
		}
		log.Ctx(ctx).Error().Err(err).Str("name", name).Msg("failed to insert environment")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return &flagstore.Environment{ID: id, ProjectID: projectID, Name: name, Description: description}, nil
}

// GetEnvironment retrieves an environment by numeric id or by name, scoped to projectID.
func (p *Pool) GetEnvironment(ctx context.Context, q flagstore.Querier, projectID int64, idOrName string) (*flagstore.Environment, apperrors.Error) {
	var row *sql.Row
	if id, convErr := strconv.ParseInt(idOrName, 10, 64); convErr == nil {
		row = q.QueryRowContext(ctx, `
			SELECT id, project_id, name, description FROM environments
			WHERE project_id = $1 AND id = $2;`, projectID, id)
	} else {
		row = q.QueryRowContext(ctx, `
			SELECT id, project_id, name, description FROM environments
			WHERE project_id = $1 AND name = $2;`, projectID, idOrName)
	}

	env := &flagstore.Environment{}
	err := row.Scan(&env.ID, &env.ProjectID, &env.Name, &env.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, flagerr.ErrNotFound.Msg("environment not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to retrieve environment")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return env, nil
}

// GetEnvironmentByID retrieves an environment by its primary key alone, used
// by the Evaluation API which addresses environments without a project scope.
func (p *Pool) GetEnvironmentByID(ctx context.Context, q flagstore.Querier, id int64) (*flagstore.Environment, apperrors.Error) {
	const query = `SELECT id, project_id, name, description FROM environments WHERE id = $1;`

	env := &flagstore.Environment{}
	err := q.QueryRowContext(ctx, query, id).Scan(&env.ID, &env.ProjectID, &env.Name, &env.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, flagerr.ErrNotFound.Msg("environment not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to retrieve environment")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return env, nil
}

// ListEnvironments lists environments of projectID, optionally filtered by
// exact name or name prefix.
func (p *Pool) ListEnvironments(ctx context.Context, q flagstore.Querier, projectID int64, prefix, name string) ([]*flagstore.Environment, apperrors.Error) {
	var (
		rows *sql.Rows
		err  error
	)
	switch {
	case name != "":
		rows, err = q.QueryContext(ctx, `
			SELECT id, project_id, name, description FROM environments
			WHERE project_id = $1 AND name = $2 ORDER BY name;`, projectID, name)
	case prefix != "":
		rows, err = q.QueryContext(ctx, `
			SELECT id, project_id, name, description FROM environments
			WHERE project_id = $1 AND name LIKE $2 ORDER BY name;`, projectID, prefix+"%")
	default:
		rows, err = q.QueryContext(ctx, `
			SELECT id, project_id, name, description FROM environments
			WHERE project_id = $1 ORDER BY name;`, projectID)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list environments")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	defer rows.Close()

	var envs []*flagstore.Environment
	for rows.Next() {
		env := &flagstore.Environment{}
		if err := rows.Scan(&env.ID, &env.ProjectID, &env.Name, &env.Description); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan environment row")
			return nil, flagerr.ErrStoreUnavailable.Err(err)
		}
		envs = append(envs, env)
	}
	if err := rows.Err(); err != nil {
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return envs, nil
}
