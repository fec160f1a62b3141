package responses

import "math/rand"

// iqBandWeights shape the IQ distribution so average scores dominate
// while the extremes stay reachable. Each entry covers an inclusive
// score range.
var iqBandWeights = []struct {
	lo, hi int
	weight int
}{
	{0, 0, 1},
	{1, 39, 8},
	{40, 59, 15},
	{60, 120, 52},
	{121, 160, 15},
	{161, 199, 8},
	{200, 200, 1},
}

// WeightedIQ returns a random IQ score in [0, 200], weighted toward
// the average band.
func WeightedIQ() int {
	total := 0
	for _, b := range iqBandWeights {
		total += b.weight
	}
	pick := rand.Intn(total)
	for _, b := range iqBandWeights {
		if pick < b.weight {
			return b.lo + rand.Intn(b.hi-b.lo+1)
		}
		pick -= b.weight
	}
	return 100 // unreachable
}

// RandomPurity returns a uniform purity score in [0, 100].
func RandomPurity() int {
	return rand.Intn(101)
}
