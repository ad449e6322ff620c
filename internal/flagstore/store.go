package flagstore

import (
	"context"
	"database/sql"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, letting every store method
// run either as an implicit single-statement transaction against the pool or
// as one step of a caller-managed transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TxManager opens scoped transactional acquisitions. Every multi-statement
// Model-layer operation obtains exactly one Tx and commits or rolls it back on
// every exit path.
type TxManager interface {
	// DB returns a Querier that runs each call as its own implicit
	// single-statement transaction against the pool, for reads that don't
	// need the multi-write atomicity Begin provides.
	DB() Querier
	Begin(ctx context.Context) (*sql.Tx, apperrors.Error)
}

// ProjectStore persists Projects.
type ProjectStore interface {
	CreateProject(ctx context.Context, q Querier, name string) (*Project, apperrors.Error)
	GetProject(ctx context.Context, q Querier, id int64) (*Project, apperrors.Error)
}

// EnvironmentStore persists Environments.
type EnvironmentStore interface {
	CreateEnvironment(ctx context.Context, q Querier, projectID int64, name, description string) (*Environment, apperrors.Error)
	GetEnvironment(ctx context.Context, q Querier, projectID int64, idOrName string) (*Environment, apperrors.Error)
	GetEnvironmentByID(ctx context.Context, q Querier, id int64) (*Environment, apperrors.Error)
	ListEnvironments(ctx context.Context, q Querier, projectID int64, prefix, name string) ([]*Environment, apperrors.Error)
}

// FeatureStore persists Features.
type FeatureStore interface {
	CreateFeature(ctx context.Context, q Querier, projectID int64, name string, isEnabled bool, valueType ValueType) (*Feature, apperrors.Error)
	UpdateFeature(ctx context.Context, q Querier, id int64, name string, isEnabled bool, valueType ValueType) (*Feature, apperrors.Error)
	DeleteFeature(ctx context.Context, q Querier, id int64) apperrors.Error
	GetFeature(ctx context.Context, q Querier, projectID int64, idOrName string) (*Feature, apperrors.Error)
	GetFeatureByID(ctx context.Context, q Querier, id int64) (*Feature, apperrors.Error)
	ListFeatures(ctx context.Context, q Querier, projectID int64, prefix, name string) ([]*Feature, apperrors.Error)
}

// VariantStore persists Variants and their per-environment weights.
type VariantStore interface {
	// UpsertControlVariant creates the environment's control variant row if
	// absent, or replaces its value if present, and writes the given weight.
	UpsertControlVariant(ctx context.Context, q Querier, featureID, envID int64, value string, weight int) (*Variant, apperrors.Error)

	// CreateStandardVariant inserts a new shared variant row plus its
	// per-environment weight row.
	CreateStandardVariant(ctx context.Context, q Querier, featureID int64, value string, envID int64, weight int) (*Variant, apperrors.Error)

	// UpdateStandardVariantValue updates the value shared across environments.
	UpdateStandardVariantValue(ctx context.Context, q Querier, variantID int64, value string) apperrors.Error

	// UpsertVariantWeight writes the per-environment weight row for a variant,
	// standard or control.
	UpsertVariantWeight(ctx context.Context, q Querier, variantID, envID int64, weight int) apperrors.Error

	// SumNonControlWeights returns the sum of stored standard-variant weights
	// for (featureID, envID), excluding the variant given by excludeVariantID
	// (pass 0 to exclude none).
	SumNonControlWeights(ctx context.Context, q Querier, featureID, envID, excludeVariantID int64) (int, apperrors.Error)

	// GetVariant resolves a variant's id against a specific environment,
	// returning its weight/accumulator as they apply there.
	GetVariant(ctx context.Context, q Querier, envID, variantID int64) (*Variant, apperrors.Error)

	// ListVariants returns every variant of featureID resolved against envID,
	// control variant first.
	ListVariants(ctx context.Context, q Querier, featureID, envID int64) ([]*Variant, apperrors.Error)

	// CountStandardVariants returns how many standard variants exist for featureID.
	CountStandardVariants(ctx context.Context, q Querier, featureID int64) (int, apperrors.Error)

	// DeleteVariant removes a variant row together with all of its
	// per-environment weight rows, in every environment.
	DeleteVariant(ctx context.Context, q Querier, envID, variantID int64, isControl bool) apperrors.Error

	// DeleteVariantsByFeature removes every variant (and weight row) of featureID,
	// across all environments, used by feature deletion.
	DeleteVariantsByFeature(ctx context.Context, q Querier, featureID int64) apperrors.Error

	// BumpAccumulators applies the distributor's per-variant deltas for envID
	// inside the caller's transaction.
	BumpAccumulators(ctx context.Context, q Querier, envID int64, deltas map[int64]int) apperrors.Error
}

// Store aggregates every store interface, the shape the Model layer depends on.
type Store interface {
	TxManager
	ProjectStore
	EnvironmentStore
	FeatureStore
	VariantStore
}
