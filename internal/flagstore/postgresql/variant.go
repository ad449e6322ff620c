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

// Variants are stored in two tables: `variants` holds the row shared across
// environments (environment_id is set only for a control variant, pinning it
// to the one environment it belongs to), and `variant_weights` holds the
// per-(variant, environment) weight and accumulator pair that the
// distributor reads and writes.

// UpsertControlVariant creates or replaces the control variant row for
// (featureID, envID) and writes its weight, preserving any existing
// accumulator so control-weight recomputation never resets distribution
// state.
func (p *Pool) UpsertControlVariant(ctx context.Context, q flagstore.Querier, featureID, envID int64, value string, weight int) (*flagstore.Variant, apperrors.Error) {
	var variantID int64
	err := q.QueryRowContext(ctx, `
		UPDATE variants SET value = $1
		WHERE feature_id = $2 AND environment_id = $3
		RETURNING id;`, value, featureID, envID).Scan(&variantID)

	if err == sql.ErrNoRows {
		err = q.QueryRowContext(ctx, `
			INSERT INTO variants (feature_id, value, environment_id)
			VALUES ($1, $2, $3)
			RETURNING id;`, featureID, value, envID).Scan(&variantID)
	}
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return nil, flagerr.ErrInternal.Msg("control variant already exists for this environment")
		}
		log.Ctx(ctx).Error().Err(err).Int64("feature_id", featureID).Int64("env_id", envID).Msg("failed to upsert control variant")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}

	if err := p.upsertWeight(ctx, q, variantID, envID, weight); err != nil {
		return nil, err
	}

	return p.GetVariant(ctx, q, envID, variantID)
}

// CreateStandardVariant inserts a new shared variant row plus its
// per-environment weight row.
func (p *Pool) CreateStandardVariant(ctx context.Context, q flagstore.Querier, featureID int64, value string, envID int64, weight int) (*flagstore.Variant, apperrors.Error) {
	var variantID int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO variants (feature_id, value, environment_id)
		VALUES ($1, $2, NULL)
		RETURNING id;`, featureID, value).Scan(&variantID)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23503" {
			return nil, flagerr.ErrNotFound.Msg("feature not found")
		}
		log.Ctx(ctx).Error().Err(err).Int64("feature_id", featureID).Msg("failed to insert standard variant")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}

	if err := p.upsertWeight(ctx, q, variantID, envID, weight); err != nil {
		return nil, err
	}

	return p.GetVariant(ctx, q, envID, variantID)
}

// UpdateStandardVariantValue updates the value shared across environments.
func (p *Pool) UpdateStandardVariantValue(ctx context.Context, q flagstore.Querier, variantID int64, value string) apperrors.Error {
	result, err := q.ExecContext(ctx, `
		UPDATE variants SET value = $1 WHERE id = $2 AND environment_id IS NULL;`, value, variantID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("variant_id", variantID).Msg("failed to update variant value")
		return flagerr.ErrStoreUnavailable.Err(err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return flagerr.ErrNotFound.Msg("standard variant not found")
	}
	return nil
}

// UpsertVariantWeight writes the per-environment weight row for a variant.
func (p *Pool) UpsertVariantWeight(ctx context.Context, q flagstore.Querier, variantID, envID int64, weight int) apperrors.Error {
	return p.upsertWeight(ctx, q, variantID, envID, weight)
}

func (p *Pool) upsertWeight(ctx context.Context, q flagstore.Querier, variantID, envID int64, weight int) apperrors.Error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO variant_weights (variant_id, environment_id, weight, accumulator)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (variant_id, environment_id) DO UPDATE SET weight = EXCLUDED.weight;`,
		variantID, envID, weight)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("variant_id", variantID).Int64("env_id", envID).Msg("failed to upsert variant weight")
		return flagerr.ErrStoreUnavailable.Err(err)
	}
	return nil
}

// SumNonControlWeights sums stored standard-variant weights for
// (featureID, envID), excluding excludeVariantID (0 excludes none).
func (p *Pool) SumNonControlWeights(ctx context.Context, q flagstore.Querier, featureID, envID, excludeVariantID int64) (int, apperrors.Error) {
	var sum int
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(COALESCE(vw.weight, 0)), 0)
		FROM variants v
		LEFT JOIN variant_weights vw ON vw.variant_id = v.id AND vw.environment_id = $2
		WHERE v.feature_id = $1 AND v.environment_id IS NULL AND v.id <> $3;`,
		featureID, envID, excludeVariantID).Scan(&sum)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("feature_id", featureID).Msg("failed to sum non-control weights")
		return 0, flagerr.ErrStoreUnavailable.Err(err)
	}
	return sum, nil
}

// GetVariant resolves a variant id against a specific environment.
func (p *Pool) GetVariant(ctx context.Context, q flagstore.Querier, envID, variantID int64) (*flagstore.Variant, apperrors.Error) {
	row := q.QueryRowContext(ctx, `
		SELECT v.id, v.feature_id, v.value, v.environment_id, COALESCE(vw.weight, 0), COALESCE(vw.accumulator, 0)
		FROM variants v
		LEFT JOIN variant_weights vw ON vw.variant_id = v.id AND vw.environment_id = $1
		WHERE v.id = $2;`, envID, variantID)
	return scanVariant(ctx, row, envID)
}

func scanVariant(ctx context.Context, row *sql.Row, envID int64) (*flagstore.Variant, apperrors.Error) {
	v := &flagstore.Variant{EvaluatedEnvID: envID}
	var envCol sql.NullInt64
	if err := row.Scan(&v.ID, &v.FeatureID, &v.Value, &envCol, &v.Weight, &v.Accumulator); err != nil {
		if err == sql.ErrNoRows {
			return nil, flagerr.ErrNotFound.Msg("variant not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to retrieve variant")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	if envCol.Valid {
		id := envCol.Int64
		v.EnvironmentID = &id
	}
	return v, nil
}

// ListVariants returns every variant of featureID resolved against envID,
// control variant first (original_source inserts it at index 0).
func (p *Pool) ListVariants(ctx context.Context, q flagstore.Querier, featureID, envID int64) ([]*flagstore.Variant, apperrors.Error) {
	rows, err := q.QueryContext(ctx, `
		SELECT v.id, v.feature_id, v.value, v.environment_id, COALESCE(vw.weight, 0), COALESCE(vw.accumulator, 0)
		FROM variants v
		LEFT JOIN variant_weights vw ON vw.variant_id = v.id AND vw.environment_id = $2
		WHERE v.feature_id = $1 AND (v.environment_id IS NULL OR v.environment_id = $2)
		ORDER BY (v.environment_id IS NULL) ASC, v.id ASC;`, featureID, envID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("feature_id", featureID).Msg("failed to list variants")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	defer rows.Close()

	var variants []*flagstore.Variant
	for rows.Next() {
		v := &flagstore.Variant{EvaluatedEnvID: envID}
		var envCol sql.NullInt64
		if err := rows.Scan(&v.ID, &v.FeatureID, &v.Value, &envCol, &v.Weight, &v.Accumulator); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan variant row")
			return nil, flagerr.ErrStoreUnavailable.Err(err)
		}
		if envCol.Valid {
			id := envCol.Int64
			v.EnvironmentID = &id
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return variants, nil
}

// CountStandardVariants returns how many standard variants exist for featureID.
func (p *Pool) CountStandardVariants(ctx context.Context, q flagstore.Querier, featureID int64) (int, apperrors.Error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM variants WHERE feature_id = $1 AND environment_id IS NULL;`, featureID).Scan(&n)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("feature_id", featureID).Msg("failed to count standard variants")
		return 0, flagerr.ErrStoreUnavailable.Err(err)
	}
	return n, nil
}

// DeleteVariant removes a variant and all of its per-environment weight rows.
// Control variants only ever have one such row; standard variants may have
// one per environment, all removed together since the variant itself is one
// shared entity.
func (p *Pool) DeleteVariant(ctx context.Context, q flagstore.Querier, envID, variantID int64, isControl bool) apperrors.Error {
	if _, err := q.ExecContext(ctx, `DELETE FROM variant_weights WHERE variant_id = $1;`, variantID); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("variant_id", variantID).Msg("failed to delete variant weights")
		return flagerr.ErrStoreUnavailable.Err(err)
	}
	result, err := q.ExecContext(ctx, `DELETE FROM variants WHERE id = $1;`, variantID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("variant_id", variantID).Msg("failed to delete variant")
		return flagerr.ErrStoreUnavailable.Err(err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return flagerr.ErrNotFound.Msg("variant not found")
	}
	return nil
}

// DeleteVariantsByFeature removes every variant and weight row of featureID.
func (p *Pool) DeleteVariantsByFeature(ctx context.Context, q flagstore.Querier, featureID int64) apperrors.Error {
	if _, err := q.ExecContext(ctx, `
		DELETE FROM variant_weights WHERE variant_id IN (SELECT id FROM variants WHERE feature_id = $1);`, featureID); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("feature_id", featureID).Msg("failed to delete variant weights for feature")
		return flagerr.ErrStoreUnavailable.Err(err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM variants WHERE feature_id = $1;`, featureID); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("feature_id", featureID).Msg("failed to delete variants for feature")
		return flagerr.ErrStoreUnavailable.Err(err)
	}
	return nil
}

// BumpAccumulators applies the distributor's per-variant deltas for envID.
func (p *Pool) BumpAccumulators(ctx context.Context, q flagstore.Querier, envID int64, deltas map[int64]int) apperrors.Error {
	for variantID, delta := range deltas {
		// A standard variant may not yet have a variant_weights row for envID
		// (its weight defaults to 0 until explicitly set), so this upserts a
		// 0-weight row rather than silently dropping the delta on a missed UPDATE.
		if _, err := q.ExecContext(ctx, `
			INSERT INTO variant_weights (variant_id, environment_id, weight, accumulator)
			VALUES ($2, $3, 0, $1)
			ON CONFLICT (variant_id, environment_id) DO UPDATE SET accumulator = variant_weights.accumulator + $1;`,
			delta, variantID, envID); err != nil {
			log.Ctx(ctx).Error().Err(err).Int64("variant_id", variantID).Msg("failed to bump accumulator")
			return flagerr.ErrStoreUnavailable.Err(err)
		}
	}
	return nil
}
