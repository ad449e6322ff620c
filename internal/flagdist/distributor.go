// Package flagdist implements the accumulator-based distribution algorithm of
// flagrant's evaluation contract as a pure function: given a snapshot of a
// feature's variants it chooses one and reports the accumulator deltas to
// persist, with no knowledge of the store or the network. It is grounded on
// original_source's Distributor::distribute, generalized from one Sqlite-pool
// call into a function the Evaluation API can call inside its own transaction.
package flagdist

// Variant is the minimal view of a variant the distributor needs: its
// identity, declared weight and current accumulator for one environment.
type Variant struct {
	ID          int64
	Weight      int
	Accumulator int
}

// Select runs one step of the algorithm described in spec §4.3: argmax over
// accumulators (ties broken by the smallest id), decrement the chosen
// variant's accumulator by 100, then increment every variant's accumulator by
// its own weight. It returns the chosen variant and the net delta to apply to
// each variant's stored accumulator.
//
// variants must be non-empty; callers are responsible for the "no control
// variant" case (flagerr.ErrNoValue) before calling Select.
func Select(variants []Variant) (chosen Variant, deltas map[int64]int) {
	chosen = variants[0]
	for _, v := range variants[1:] {
		if v.Accumulator > chosen.Accumulator || (v.Accumulator == chosen.Accumulator && v.ID < chosen.ID) {
			chosen = v
		}
	}

	deltas = make(map[int64]int, len(variants))
	for _, v := range variants {
		delta := v.Weight
		if v.ID == chosen.ID {
			delta -= 100
		}
		deltas[v.ID] = delta
	}
	return chosen, deltas
}

// Simulate runs Select n times starting from variants' given accumulators and
// returns the hit count per variant id. It is a test-only helper for checking
// the bounded-deviation law of spec §8; production code never calls it.
func Simulate(variants []Variant, n int) map[int64]int {
	state := make([]Variant, len(variants))
	copy(state, variants)

	hits := make(map[int64]int, len(variants))
	for i := 0; i < n; i++ {
		chosen, deltas := Select(state)
		hits[chosen.ID]++
		for j := range state {
			state[j].Accumulator += deltas[state[j].ID]
		}
	}
	return hits
}
