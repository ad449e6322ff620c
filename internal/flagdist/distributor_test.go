package flagdist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_SingleVariantAlwaysWins(t *testing.T) {
	variants := []Variant{{ID: 1, Weight: 100, Accumulator: 100}}

	for i := 0; i < 10; i++ {
		chosen, deltas := Select(variants)
		assert.Equal(t, int64(1), chosen.ID)
		assert.Equal(t, 0, deltas[1])
		variants[0].Accumulator += deltas[1]
		assert.Equal(t, 100, variants[0].Accumulator)
	}
}

func TestSelect_TwoVariantsThirtySeventy(t *testing.T) {
	// Control "A" (id 1, derived weight 30) and standard "B" (id 2, weight 70),
	// grounded on spec scenario 3. Ten evaluations from the declared initial
	// accumulators land on exactly the 3/7 split the weights imply.
	state := []Variant{
		{ID: 1, Weight: 30, Accumulator: 30},
		{ID: 2, Weight: 70, Accumulator: 70},
	}

	hits := map[int64]int{}
	for i := 0; i < 10; i++ {
		chosen, deltas := Select(state)
		hits[chosen.ID]++
		for j := range state {
			state[j].Accumulator += deltas[state[j].ID]
		}
	}

	assert.Equal(t, 3, hits[1], "control should be chosen 3 times out of 10")
	assert.Equal(t, 7, hits[2], "standard variant should be chosen 7 times out of 10")

	// The algorithm is periodic: after 10 evaluations accumulators return to
	// their starting point since weights sum to 100.
	assert.Equal(t, 30, state[0].Accumulator)
	assert.Equal(t, 70, state[1].Accumulator)
}

func TestSelect_TieBreaksOnSmallestID(t *testing.T) {
	variants := []Variant{
		{ID: 5, Weight: 50, Accumulator: 10},
		{ID: 2, Weight: 50, Accumulator: 10},
	}
	chosen, _ := Select(variants)
	assert.Equal(t, int64(2), chosen.ID)
}

func TestSimulate_BoundedDeviationLaw(t *testing.T) {
	// spec §8: |hits_i(N) - N*w_i/100| <= 1 for all i, all N >= 1, when
	// accumulators start at their own weight.
	weights := map[int64]int{1: 10, 2: 25, 3: 65}
	var variants []Variant
	for id, w := range weights {
		variants = append(variants, Variant{ID: id, Weight: w, Accumulator: w})
	}

	for _, n := range []int{1, 2, 5, 17, 50, 137, 500} {
		hits := Simulate(variants, n)
		for id, w := range weights {
			expected := float64(n) * float64(w) / 100
			deviation := float64(hits[id]) - expected
			if deviation < 0 {
				deviation = -deviation
			}
			require.LessOrEqualf(t, deviation, 1.0, "variant %d deviated by %f at N=%d", id, deviation, n)
		}
	}
}

func TestSelect_DisjointDeltasSumToZeroNetOverFullCycle(t *testing.T) {
	// Over exactly 100/gcd(weights) evaluations the accumulators return to
	// their starting values, since each step is a zero-sum redistribution
	// modulo the chosen variant's -100.
	variants := []Variant{
		{ID: 1, Weight: 40, Accumulator: 40},
		{ID: 2, Weight: 60, Accumulator: 60},
	}
	state := make([]Variant, len(variants))
	copy(state, variants)

	for i := 0; i < 5; i++ {
		_, deltas := Select(state)
		for j := range state {
			state[j].Accumulator += deltas[state[j].ID]
		}
	}
	assert.Equal(t, variants[0].Accumulator, state[0].Accumulator)
	assert.Equal(t, variants[1].Accumulator, state[1].Accumulator)
}
