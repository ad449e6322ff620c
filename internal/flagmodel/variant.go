package flagmodel

import (
	"context"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
	"github.com/mbuczko/flagrant/internal/flagerr"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// upsertControl recomputes the control variant's weight from the current
// standard-variant weights (invariant 2: control weight = 100 minus the sum
// of non-control weights, clamped at 0) and writes value and weight in one
// call, per spec §4.2.4.
func (s *Service) upsertControl(ctx context.Context, q flagstore.Querier, featureID, envID int64, value string) (*flagstore.Variant, apperrors.Error) {
	sum, err := s.store.SumNonControlWeights(ctx, q, featureID, envID, 0)
	if err != nil {
		return nil, err
	}
	weight := 100 - sum
	if weight < 0 {
		weight = 0
	}
	return s.store.UpsertControlVariant(ctx, q, featureID, envID, value, weight)
}

// recomputeControlWeight re-derives and persists the control variant's
// weight after a standard variant's weight changed, leaving the control
// value untouched. It is a no-op if the feature has no control variant yet
// in this environment.
func (s *Service) recomputeControlWeight(ctx context.Context, q flagstore.Querier, featureID, envID int64) apperrors.Error {
	variants, err := s.store.ListVariants(ctx, q, featureID, envID)
	if err != nil {
		return err
	}
	var control *flagstore.Variant
	for _, v := range variants {
		if v.IsControl() {
			control = v
			break
		}
	}
	if control == nil {
		return nil
	}

	sum, err := s.store.SumNonControlWeights(ctx, q, featureID, envID, 0)
	if err != nil {
		return err
	}
	weight := 100 - sum
	if weight < 0 {
		weight = 0
	}
	return s.store.UpsertVariantWeight(ctx, q, control.ID, envID, weight)
}

// VariantUpsertControl implements spec §4.2.4: sets or replaces the control
// variant's value for env, recomputing its weight.
func (s *Service) VariantUpsertControl(ctx context.Context, envID, featureID int64, value string) (*flagstore.Variant, apperrors.Error) {
	var variant *flagstore.Variant
	err := s.withTx(ctx, func(q flagstore.Querier) apperrors.Error {
		if _, featErr := s.store.GetFeatureByID(ctx, q, featureID); featErr != nil {
			return featErr
		}
		var txErr apperrors.Error
		variant, txErr = s.upsertControl(ctx, q, featureID, envID, value)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

// StandardVariantCreate implements spec §4.2.5: a feature must already have a
// control variant in env (else ErrNoDefaultValue), the new weight must fit in
// [0,100] and keep the environment's non-control weights at or below 100
// (else ErrWeightOutOfRange / ErrWeightExceeded), and the control variant's
// weight is recomputed afterwards.
func (s *Service) StandardVariantCreate(ctx context.Context, envID, featureID int64, value string, weight int) (*flagstore.Variant, apperrors.Error) {
	if weight < 0 || weight > 100 {
		return nil, flagerr.ErrWeightOutOfRange.Msg("weight must be between 0 and 100")
	}

	var variant *flagstore.Variant
	err := s.withTx(ctx, func(q flagstore.Querier) apperrors.Error {
		variants, listErr := s.store.ListVariants(ctx, q, featureID, envID)
		if listErr != nil {
			return listErr
		}
		hasControl := false
		for _, v := range variants {
			if v.IsControl() {
				hasControl = true
				break
			}
		}
		if !hasControl {
			return flagerr.ErrNoDefaultValue
		}

		sum, sumErr := s.store.SumNonControlWeights(ctx, q, featureID, envID, 0)
		if sumErr != nil {
			return sumErr
		}
		if sum+weight > 100 {
			return flagerr.ErrWeightExceeded
		}

		var txErr apperrors.Error
		variant, txErr = s.store.CreateStandardVariant(ctx, q, featureID, value, envID, weight)
		if txErr != nil {
			return txErr
		}

		return s.recomputeControlWeight(ctx, q, featureID, envID)
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

// StandardVariantUpdate implements spec §4.2.6: the control variant cannot be
// updated through this operation, the new weight must fit in [0,100] and
// keep the environment's non-control weights at or below 100, and the
// control variant's weight is recomputed afterwards.
func (s *Service) StandardVariantUpdate(ctx context.Context, envID, variantID int64, value string, weight int) (*flagstore.Variant, apperrors.Error) {
	if weight < 0 || weight > 100 {
		return nil, flagerr.ErrWeightOutOfRange.Msg("weight must be between 0 and 100")
	}

	var variant *flagstore.Variant
	err := s.withTx(ctx, func(q flagstore.Querier) apperrors.Error {
		existing, getErr := s.store.GetVariant(ctx, q, envID, variantID)
		if getErr != nil {
			return getErr
		}
		if existing.IsControl() {
			return flagerr.ErrControlVariantImmutable
		}

		sum, sumErr := s.store.SumNonControlWeights(ctx, q, existing.FeatureID, envID, variantID)
		if sumErr != nil {
			return sumErr
		}
		if sum+weight > 100 {
			return flagerr.ErrWeightExceeded
		}

		if updErr := s.store.UpdateStandardVariantValue(ctx, q, variantID, value); updErr != nil {
			return updErr
		}
		if wErr := s.store.UpsertVariantWeight(ctx, q, variantID, envID, weight); wErr != nil {
			return wErr
		}
		if rErr := s.recomputeControlWeight(ctx, q, existing.FeatureID, envID); rErr != nil {
			return rErr
		}

		var txErr apperrors.Error
		variant, txErr = s.store.GetVariant(ctx, q, envID, variantID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

// VariantDelete implements spec §4.2.7: the control variant cannot be
// deleted while standard variants of the same feature still exist (else
// ErrControlHasDependents); deleting a standard variant removes it from every
// environment and recomputes each environment's control weight afterwards.
func (s *Service) VariantDelete(ctx context.Context, envID, variantID int64) apperrors.Error {
	err := s.withTx(ctx, func(q flagstore.Querier) apperrors.Error {
		existing, getErr := s.store.GetVariant(ctx, q, envID, variantID)
		if getErr != nil {
			return getErr
		}

		if existing.IsControl() {
			count, countErr := s.store.CountStandardVariants(ctx, q, existing.FeatureID)
			if countErr != nil {
				return countErr
			}
			if count > 0 {
				return flagerr.ErrControlHasDependents
			}
		}

		if delErr := s.store.DeleteVariant(ctx, q, envID, variantID, existing.IsControl()); delErr != nil {
			return delErr
		}

		if existing.IsControl() {
			return nil
		}
		// A standard variant's weight rows are removed in every environment,
		// so every environment's control weight is re-derived.
		feature, featErr := s.store.GetFeatureByID(ctx, q, existing.FeatureID)
		if featErr != nil {
			return featErr
		}
		envs, envErr := s.store.ListEnvironments(ctx, q, feature.ProjectID, "", "")
		if envErr != nil {
			return envErr
		}
		for _, env := range envs {
			if rErr := s.recomputeControlWeight(ctx, q, existing.FeatureID, env.ID); rErr != nil {
				return rErr
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// VariantGet resolves a variant against envID.
func (s *Service) VariantGet(ctx context.Context, envID, variantID int64) (*flagstore.Variant, apperrors.Error) {
	return s.store.GetVariant(ctx, s.store.DB(), envID, variantID)
}

// VariantList returns every variant of featureID resolved against envID,
// control variant first.
func (s *Service) VariantList(ctx context.Context, featureID, envID int64) ([]*flagstore.Variant, apperrors.Error) {
	return s.store.ListVariants(ctx, s.store.DB(), featureID, envID)
}

// BumpAccumulators implements spec §4.2.8: it persists the distributor's
// per-variant accumulator deltas for envID using the caller's transaction,
// so the Evaluation API can run flagdist.Select and this bump atomically.
func (s *Service) BumpAccumulators(ctx context.Context, q flagstore.Querier, envID int64, deltas map[int64]int) apperrors.Error {
	return s.store.BumpAccumulators(ctx, q, envID, deltas)
}

// Store exposes the underlying store. Evaluation itself goes through
// Evaluate, which runs ListVariants, flagdist.Select and BumpAccumulators in
// one transaction.
func (s *Service) Store() flagstore.Store {
	return s.store
}
