package common

import "math/rand"

// RandomRange returns a uniform value in [min, max]. A reversed or empty
// range yields min.
func RandomRange(rng *rand.Rand, min, max float64) float64 {
	if rng == nil || max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}

// NewRand returns a generator seeded with seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
