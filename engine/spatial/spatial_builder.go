package spatial

import "math/rand"

// DistributorOption is a functional option for configuring a Distributor.
type DistributorOption func(*distributorImpl)

// WithRand replaces the distributor's internal generator. Use a fixed-seed
// generator for reproducible Place output.
//
// Parameters:
//   - rng: the generator to draw placement randomness from
//
// Returns:
//   - DistributorOption: functional option to set the generator
func WithRand(rng *rand.Rand) DistributorOption {
	return func(d *distributorImpl) {
		d.rng = rng
	}
}

// WithSeed seeds the distributor's internal generator with a fixed value.
// Shorthand for WithRand(rand.New(rand.NewSource(seed))).
//
// Parameters:
//   - seed: the generator seed
//
// Returns:
//   - DistributorOption: functional option to seed the generator
func WithSeed(seed int64) DistributorOption {
	return func(d *distributorImpl) {
		d.rng = rand.New(rand.NewSource(seed))
	}
}
