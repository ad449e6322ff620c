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

// CreateFeature inserts a new feature row scoped to projectID.
func (p *Pool) CreateFeature(ctx context.Context, q flagstore.Querier, projectID int64, name string, isEnabled bool, valueType flagstore.ValueType) (*flagstore.Feature, apperrors.Error) {
	const query = `
		INSERT INTO features (project_id, name, is_enabled, value_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	var id int64
	err := q.QueryRowContext(ctx, query, projectID, name, isEnabled, string(valueType)).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" {
				return nil, flagerr.ErrNameTaken.Msg("feature name already in use for this project")
			}
			if pgErr.Code == "23514" {
				return nil, flagerr.ErrNameInvalid.Msg("invalid feature name format")
			}
			if pgErr.Code == "23503" {
				return nil, flagerr.ErrNotFound.Msg("project not found")
			}
		}
		log.Ctx(ctx).Error().Err(err).Str("name", name).Msg("failed to insert feature")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return &flagstore.Feature{ID: id, ProjectID: projectID, Name: name, IsEnabled: isEnabled, ValueType: valueType}, nil
}

// UpdateFeature updates a feature's mutable fields.
func (p *Pool) UpdateFeature(ctx context.Context, q flagstore.Querier, id int64, name string, isEnabled bool, valueType flagstore.ValueType) (*flagstore.Feature, apperrors.Error) {
	const query = `
		UPDATE features SET name = $2, is_enabled = $3, value_type = $4
		WHERE id = $1
		RETURNING project_id;
	`
	var projectID int64
	err := q.QueryRowContext(ctx, query, id, name, isEnabled, string(valueType)).Scan(&projectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, flagerr.ErrNotFound.Msg("feature not found")
		}
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return nil, flagerr.ErrNameTaken.Msg("feature name already in use for this project")
		}
		log.Ctx(ctx).Error().Err(err).Int64("id", id).Msg("failed to update feature")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return &flagstore.Feature{ID: id, ProjectID: projectID, Name: name, IsEnabled: isEnabled, ValueType: valueType}, nil
}

// DeleteFeature removes a feature row. Callers are expected to have already
// deleted its variants in the same transaction.
func (p *Pool) DeleteFeature(ctx context.Context, q flagstore.Querier, id int64) apperrors.Error {
	result, err := q.ExecContext(ctx, `DELETE FROM features WHERE id = $1;`, id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("id", id).Msg("failed to delete feature")
		return flagerr.ErrStoreUnavailable.Err(err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return flagerr.ErrNotFound.Msg("feature not found")
	}
	return nil
}

// GetFeature retrieves a feature by numeric id or by name, scoped to projectID.
func (p *Pool) GetFeature(ctx context.Context, q flagstore.Querier, projectID int64, idOrName string) (*flagstore.Feature, apperrors.Error) {
	var row *sql.Row
	if id, convErr := strconv.ParseInt(idOrName, 10, 64); convErr == nil {
		row = q.QueryRowContext(ctx, `
			SELECT id, project_id, name, is_enabled, value_type FROM features
			WHERE project_id = $1 AND id = $2;`, projectID, id)
	} else {
		row = q.QueryRowContext(ctx, `
			SELECT id, project_id, name, is_enabled, value_type FROM features
			WHERE project_id = $1 AND name = $2;`, projectID, idOrName)
	}
	return scanFeature(ctx, row)
}

// GetFeatureByID retrieves a feature by its primary key alone.
func (p *Pool) GetFeatureByID(ctx context.Context, q flagstore.Querier, id int64) (*flagstore.Feature, apperrors.Error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, project_id, name, is_enabled, value_type FROM features WHERE id = $1;`, id)
	return scanFeature(ctx, row)
}

func scanFeature(ctx context.Context, row *sql.Row) (*flagstore.Feature, apperrors.Error) {
	f := &flagstore.Feature{}
	var valueType string
	err := row.Scan(&f.ID, &f.ProjectID, &f.Name, &f.IsEnabled, &valueType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, flagerr.ErrNotFound.Msg("feature not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to retrieve feature")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	f.ValueType = flagstore.ValueType(valueType)
	return f, nil
}

// ListFeatures lists features of projectID, optionally filtered by exact name
// or name prefix, mirroring fetch_by_name/fetch_by_prefix.
func (p *Pool) ListFeatures(ctx context.Context, q flagstore.Querier, projectID int64, prefix, name string) ([]*flagstore.Feature, apperrors.Error) {
	var (
		rows *sql.Rows
		err  error
	)
	switch {
	case name != "":
		rows, err = q.QueryContext(ctx, `
			SELECT id, project_id, name, is_enabled, value_type FROM features
			WHERE project_id = $1 AND name = $2 ORDER BY name;`, projectID, name)
	case prefix != "":
		rows, err = q.QueryContext(ctx, `
			SELECT id, project_id, name, is_enabled, value_type FROM features
			WHERE project_id = $1 AND name LIKE $2 ORDER BY name;`, projectID, prefix+"%")
	default:
		rows, err = q.QueryContext(ctx, `
			SELECT id, project_id, name, is_enabled, value_type FROM features
			WHERE project_id = $1 ORDER BY name;`, projectID)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list features")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	defer rows.Close()

	var features []*flagstore.Feature
	for rows.Next() {
		f := &flagstore.Feature{}
		var valueType string
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Name, &f.IsEnabled, &valueType); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan feature row")
			return nil, flagerr.ErrStoreUnavailable.Err(err)
		}
		f.ValueType = flagstore.ValueType(valueType)
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return features, nil
}
