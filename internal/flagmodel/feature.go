package flagmodel

import (
	"context"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// FeatureValue is the wire/value shape of a feature's control value: a value
// type carrying client intent plus the opaque text, per spec §6 "Wire value
// encoding".
type FeatureValue struct {
	ValueType flagstore.ValueType
	Value     string
}

// FeatureCreate implements spec §4.2.1: validates name, inserts the feature
// row, and if a value was supplied creates the control variant for env.
func (s *Service) FeatureCreate(ctx context.Context, envID int64, name string, value *FeatureValue, isEnabled bool) (*flagstore.Feature, []*flagstore.Variant, apperrors.Error) {
	if err := validateName(name); err != nil {
		return nil, nil, err
	}

	valueType := flagstore.ValueTypeText
	if value != nil && value.ValueType != "" {
		valueType = value.ValueType
	}

	var (
		feature  *flagstore.Feature
		variants []*flagstore.Variant
	)
	err := s.withTx(ctx, func(q flagstore.Querier) apperrors.Error {
		env, envErr := s.environmentByID(ctx, q, envID)
		if envErr != nil {
			return envErr
		}

		var txErr apperrors.Error
		feature, txErr = s.store.CreateFeature(ctx, q, env.ProjectID, name, isEnabled, valueType)
		if txErr != nil {
			return txErr
		}

		if value != nil {
			if _, txErr = s.upsertControl(ctx, q, feature.ID, envID, value.Value); txErr != nil {
				return txErr
			}
		}

		var listErr apperrors.Error
		variants, listErr = s.store.ListVariants(ctx, q, feature.ID, envID)
		return listErr
	})
	if err != nil {
		return nil, nil, err
	}
	return feature, variants, nil
}

// FeatureUpdate implements spec §4.2.2: updates the feature row and, if a new
// value was supplied, upserts the control variant for env (value-only
// change, weight recomputed).
func (s *Service) FeatureUpdate(ctx context.Context, envID, featureID int64, name string, value *FeatureValue, isEnabled bool) (*flagstore.Feature, apperrors.Error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var feature *flagstore.Feature
	err := s.withTx(ctx, func(q flagstore.Querier) apperrors.Error {
		existing, getErr := s.store.GetFeatureByID(ctx, q, featureID)
		if getErr != nil {
			return getErr
		}

		valueType := existing.ValueType
		if value != nil && value.ValueType != "" {
			valueType = value.ValueType
		}

		var txErr apperrors.Error
		feature, txErr = s.store.UpdateFeature(ctx, q, featureID, name, isEnabled, valueType)
		if txErr != nil {
			return txErr
		}

		if value != nil {
			if _, txErr = s.upsertControl(ctx, q, featureID, envID, value.Value); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return feature, nil
}

// FeatureDelete implements spec §4.2.3 together with the Lifecycles note in
// §3 ("deleting a Feature deletes all its Variants and all per-environment
// weights in one transaction"): every variant of the feature, in every
// environment, is removed before the feature row itself.
func (s *Service) FeatureDelete(ctx context.Context, featureID int64) apperrors.Error {
	err := s.withTx(ctx, func(q flagstore.Querier) apperrors.Error {
		if _, getErr := s.store.GetFeatureByID(ctx, q, featureID); getErr != nil {
			return getErr
		}
		if delErr := s.store.DeleteVariantsByFeature(ctx, q, featureID); delErr != nil {
			return delErr
		}
		return s.store.DeleteFeature(ctx, q, featureID)
	})
	if err != nil {
		return err
	}
	return nil
}

// FeatureGet fetches a feature by numeric id or by name within projectID.
func (s *Service) FeatureGet(ctx context.Context, projectID int64, idOrName string) (*flagstore.Feature, apperrors.Error) {
	return s.store.GetFeature(ctx, s.store.DB(), projectID, idOrName)
}

// FeatureGetByID fetches a feature by its primary key alone, used by handlers
// addressed through an environment rather than a project.
func (s *Service) FeatureGetByID(ctx context.Context, featureID int64) (*flagstore.Feature, apperrors.Error) {
	return s.store.GetFeatureByID(ctx, s.store.DB(), featureID)
}

// FeatureList lists features of projectID, optionally filtered by exact name
// or name prefix.
func (s *Service) FeatureList(ctx context.Context, projectID int64, prefix, name string) ([]*flagstore.Feature, apperrors.Error) {
	return s.store.ListFeatures(ctx, s.store.DB(), projectID, prefix, name)
}
