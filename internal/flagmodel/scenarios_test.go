package flagmodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbuczko/flagrant/internal/flagerr"
)

// evaluate runs one §4.4 evaluation for an always-enabled feature, the shape
// every scenario below exercises.
func evaluate(ctx context.Context, svc *Service, featureID, envID int64) (string, bool, error) {
	value, _, err := svc.Evaluate(ctx, envID, featureID, true)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// TestScenario1_EmptyFeatureEvaluation covers spec §8 Scenario 1: a feature
// with no control value evaluates to NoValue.
func TestScenario1_EmptyFeatureEvaluation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	project, err := svc.ProjectCreate(ctx, "p1")
	require.Nil(t, err)
	env, err := svc.EnvironmentCreate(ctx, project.ID, "e1", "")
	require.Nil(t, err)
	feature, _, err := svc.FeatureCreate(ctx, env.ID, "f1", nil, true)
	require.Nil(t, err)

	_, _, evalErr := evaluate(ctx, svc, feature.ID, env.ID)
	require.Error(t, evalErr)
	assert.ErrorIs(t, evalErr, flagerr.ErrNoValue)
}

// TestScenario2_SingleControlDistribution covers spec §8 Scenario 2: ten
// evaluations of a feature with only a control variant all return the
// control value, and its accumulator oscillates between 100 and 0.
func TestScenario2_SingleControlDistribution(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	project, err := svc.ProjectCreate(ctx, "p2")
	require.Nil(t, err)
	env, err := svc.EnvironmentCreate(ctx, project.ID, "e1", "")
	require.Nil(t, err)
	feature, _, err := svc.FeatureCreate(ctx, env.ID, "f2", &FeatureValue{Value: "A"}, true)
	require.Nil(t, err)

	for i := 0; i < 10; i++ {
		value, _, evalErr := evaluate(ctx, svc, feature.ID, env.ID)
		require.NoError(t, evalErr)
		assert.Equal(t, "A", value)

		v, getErr := svc.VariantList(ctx, feature.ID, env.ID)
		require.Nil(t, getErr)
		require.Len(t, v, 1)
		if i%2 == 0 {
			assert.Equal(t, 0, v[0].Accumulator)
		} else {
			assert.Equal(t, 100, v[0].Accumulator)
		}
	}
}

// TestScenario3_TwoVariantsThirtySeventy covers spec §8 Scenario 3: with
// control weight 30 and a standard variant of weight 70, ten evaluations hit
// the control 3 times and the standard 7 times, returning to the initial
// accumulator state after the full cycle.
func TestScenario3_TwoVariantsThirtySeventy(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	project, err := svc.ProjectCreate(ctx, "p3")
	require.Nil(t, err)
	env, err := svc.EnvironmentCreate(ctx, project.ID, "e1", "")
	require.Nil(t, err)
	feature, _, err := svc.FeatureCreate(ctx, env.ID, "f3", &FeatureValue{Value: "A"}, true)
	require.Nil(t, err)
	_, err = svc.StandardVariantCreate(ctx, env.ID, feature.ID, "B", 70)
	require.Nil(t, err)

	hits := map[string]int{}
	for i := 0; i < 10; i++ {
		value, _, evalErr := evaluate(ctx, svc, feature.ID, env.ID)
		require.NoError(t, evalErr)
		hits[value]++
	}
	assert.Equal(t, 3, hits["A"])
	assert.Equal(t, 7, hits["B"])

	variants, err := svc.VariantList(ctx, feature.ID, env.ID)
	require.Nil(t, err)
	for _, v := range variants {
		if v.Value == "A" {
			assert.Equal(t, 30, v.Accumulator)
		} else {
			assert.Equal(t, 70, v.Accumulator)
		}
	}
}

// TestScenario4_EnvironmentIsolation covers spec §8 Scenario 4: the same
// feature's control value differs per environment, and deleting one
// environment's control leaves the other's intact.
func TestScenario4_EnvironmentIsolation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	project, err := svc.ProjectCreate(ctx, "p4")
	require.Nil(t, err)
	e1, err := svc.EnvironmentCreate(ctx, project.ID, "e1", "")
	require.Nil(t, err)
	e2, err := svc.EnvironmentCreate(ctx, project.ID, "e2", "")
	require.Nil(t, err)

	feature, _, err := svc.FeatureCreate(ctx, e1.ID, "f4", &FeatureValue{Value: "A"}, true)
	require.Nil(t, err)
	_, err = svc.VariantUpsertControl(ctx, e2.ID, feature.ID, "Z")
	require.Nil(t, err)

	value1, _, evalErr := evaluate(ctx, svc, feature.ID, e1.ID)
	require.NoError(t, evalErr)
	assert.Equal(t, "A", value1)

	value2, _, evalErr := evaluate(ctx, svc, feature.ID, e2.ID)
	require.NoError(t, evalErr)
	assert.Equal(t, "Z", value2)

	e1Variants, err := svc.VariantList(ctx, feature.ID, e1.ID)
	require.Nil(t, err)
	require.Len(t, e1Variants, 1)
	delErr := svc.VariantDelete(ctx, e1.ID, e1Variants[0].ID)
	require.Nil(t, delErr)

	value2Again, _, evalErr := evaluate(ctx, svc, feature.ID, e2.ID)
	require.NoError(t, evalErr)
	assert.Equal(t, "Z", value2Again)
}

// TestScenario5_DeleteWithDependents covers spec §8 Scenario 5: deleting a
// control variant while a standard variant still exists fails with
// ControlHasDependents; deleting the standard first then the control
// succeeds and leaves zero variants.
func TestScenario5_DeleteWithDependents(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	project, err := svc.ProjectCreate(ctx, "p5")
	require.Nil(t, err)
	env, err := svc.EnvironmentCreate(ctx, project.ID, "e1", "")
	require.Nil(t, err)
	feature, _, err := svc.FeatureCreate(ctx, env.ID, "f5", &FeatureValue{Value: "A"}, true)
	require.Nil(t, err)
	standard, err := svc.StandardVariantCreate(ctx, env.ID, feature.ID, "B", 40)
	require.Nil(t, err)

	variants, err := svc.VariantList(ctx, feature.ID, env.ID)
	require.Nil(t, err)
	var control *int64
	for _, v := range variants {
		if v.IsControl() {
			id := v.ID
			control = &id
		}
	}
	require.NotNil(t, control)

	delErr := svc.VariantDelete(ctx, env.ID, *control)
	require.Error(t, delErr)
	assert.ErrorIs(t, delErr, flagerr.ErrControlHasDependents)

	delErr = svc.VariantDelete(ctx, env.ID, standard.ID)
	require.Nil(t, delErr)

	delErr = svc.VariantDelete(ctx, env.ID, *control)
	require.Nil(t, delErr)

	remaining, err := svc.VariantList(ctx, feature.ID, env.ID)
	require.Nil(t, err)
	assert.Len(t, remaining, 0)
}

// TestScenario6_UpdateWeightRecomputesControl covers spec §8 Scenario 6: a
// standard variant's weight update recomputes the control's weight, and a
// rejected over-budget update leaves the control weight unchanged.
func TestScenario6_UpdateWeightRecomputesControl(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	project, err := svc.ProjectCreate(ctx, "p6")
	require.Nil(t, err)
	env, err := svc.EnvironmentCreate(ctx, project.ID, "e1", "")
	require.Nil(t, err)
	feature, _, err := svc.FeatureCreate(ctx, env.ID, "f6", &FeatureValue{Value: "A"}, true)
	require.Nil(t, err)
	_, err = svc.StandardVariantCreate(ctx, env.ID, feature.ID, "B", 10)
	require.Nil(t, err)
	second, err := svc.StandardVariantCreate(ctx, env.ID, feature.ID, "C", 30)
	require.Nil(t, err)

	controlWeight := func() int {
		variants, vErr := svc.VariantList(ctx, feature.ID, env.ID)
		require.Nil(t, vErr)
		for _, v := range variants {
			if v.IsControl() {
				return v.Weight
			}
		}
		t.Fatal("no control variant found")
		return -1
	}
	assert.Equal(t, 60, controlWeight())

	_, err = svc.StandardVariantUpdate(ctx, env.ID, second.ID, "C", 50)
	require.Nil(t, err)
	assert.Equal(t, 40, controlWeight())

	_, err = svc.StandardVariantUpdate(ctx, env.ID, second.ID, "C", 95)
	require.Error(t, err)
	assert.ErrorIs(t, err, flagerr.ErrWeightExceeded)
	assert.Equal(t, 40, controlWeight())
}
