package flagmodel

import (
	"context"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
	"github.com/mbuczko/flagrant/internal/flagdist"
	"github.com/mbuczko/flagrant/internal/flagerr"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// Evaluate implements spec §4.4: when isEnabled is false the control value is
// returned without touching the distributor (§4.2.8 never runs); otherwise
// flagdist.Select runs inside a transaction that also persists the resulting
// accumulator deltas, so a dropped request aborts with no partial effect.
// variantKind is "control" or "standard", reported for metrics only.
func (s *Service) Evaluate(ctx context.Context, envID, featureID int64, isEnabled bool) (value, variantKind string, err apperrors.Error) {
	if !isEnabled {
		variants, listErr := s.store.ListVariants(ctx, s.store.DB(), featureID, envID)
		if listErr != nil {
			return "", "", listErr
		}
		for _, v := range variants {
			if v.IsControl() {
				return v.Value, "control", nil
			}
		}
		return "", "", flagerr.ErrNoValue
	}

	txErr := s.withTx(ctx, func(q flagstore.Querier) apperrors.Error {
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
			return flagerr.ErrNoValue
		}

		distVariants := make([]flagdist.Variant, len(variants))
		for i, v := range variants {
			distVariants[i] = flagdist.Variant{ID: v.ID, Weight: v.Weight, Accumulator: v.Accumulator}
		}
		chosen, deltas := flagdist.Select(distVariants)

		if bumpErr := s.store.BumpAccumulators(ctx, q, envID, deltas); bumpErr != nil {
			return bumpErr
		}

		for _, v := range variants {
			if v.ID == chosen.ID {
				value = v.Value
				if v.IsControl() {
					variantKind = "control"
				} else {
					variantKind = "standard"
				}
				return nil
			}
		}
		return flagerr.ErrInternal
	})
	if txErr != nil {
		return "", "", txErr
	}
	return value, variantKind, nil
}
