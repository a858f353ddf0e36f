package spatial

import "fmt"

// Config holds the tuning parameters for placing a post around its owner
// node. All fields must be positive and Radius must exceed MinDistance.
type Config struct {
	// Radius is the maximum pre-dilation distance from the owner.
	Radius float32
	// MinDistance is the minimum pre-dilation distance from the owner.
	MinDistance float32
	// VerticalSpread scales the offset's vertical (Y) component.
	VerticalSpread float32
	// HorizontalSpread scales the offset's horizontal (XZ) components.
	HorizontalSpread float32
	// NoiseScale is the base frequency of the trigonometric perturbation.
	NoiseScale float32
	// NoiseAmplitude scales the summed perturbation before it is added.
	NoiseAmplitude float32
	// DilationFactor scales the full offset away from the owner, approximating
	// repulsion from a Voronoi-cell boundary without computing the boundary.
	DilationFactor float32
}

// DefaultConfig returns the engine's placement defaults.
//
// Returns:
//   - Config: the default spatialization tuning
func DefaultConfig() Config {
	return Config{
		Radius:           15.0,
		MinDistance:      5.0,
		VerticalSpread:   1.0,
		HorizontalSpread: 1.0,
		NoiseScale:       0.35,
		NoiseAmplitude:   2.0,
		DilationFactor:   1.2,
	}
}

// Validate checks the configuration invariants.
//
// Returns:
//   - error: nil if valid, otherwise a description of the first violation
func (c Config) Validate() error {
	switch {
	case c.Radius <= 0:
		return fmt.Errorf("spatial: radius must be positive, got %v", c.Radius)
	case c.MinDistance <= 0:
		return fmt.Errorf("spatial: min distance must be positive, got %v", c.MinDistance)
	case c.Radius <= c.MinDistance:
		return fmt.Errorf("spatial: radius (%v) must exceed min distance (%v)", c.Radius, c.MinDistance)
	case c.VerticalSpread <= 0:
		return fmt.Errorf("spatial: vertical spread must be positive, got %v", c.VerticalSpread)
	case c.HorizontalSpread <= 0:
		return fmt.Errorf("spatial: horizontal spread must be positive, got %v", c.HorizontalSpread)
	case c.NoiseScale <= 0:
		return fmt.Errorf("spatial: noise scale must be positive, got %v", c.NoiseScale)
	case c.NoiseAmplitude <= 0:
		return fmt.Errorf("spatial: noise amplitude must be positive, got %v", c.NoiseAmplitude)
	case c.DilationFactor <= 0:
		return fmt.Errorf("spatial: dilation factor must be positive, got %v", c.DilationFactor)
	}
	return nil
}

// Distributor assigns organically perturbed world-space positions around
// owner nodes. Placement draws from a pseudo-random generator: Place uses the
// distributor's own generator and is therefore not reproducible call to call,
// while PlaceSeeded derives a fresh generator from the given seed so identical
// inputs always reproduce identical outputs.
type Distributor interface {
	// Place computes a position around the owner using the distributor's
	// internal generator. A non-finite owner position yields the origin and
	// logs a warning; it never fails.
	//
	// Parameters:
	//   - owner: world-space position of the owning node
	//   - cfg: placement tuning (must satisfy Config.Validate)
	//
	// Returns:
	//   - [3]float32: the assigned world-space position
	Place(owner [3]float32, cfg Config) [3]float32

	// PlaceSeeded computes a position around the owner using a generator
	// seeded from the given value, typically the post's ID. Identical seed,
	// owner, and config always reproduce the identical position.
	//
	// Parameters:
	//   - seed: deterministic generator seed (e.g. the post ID)
	//   - owner: world-space position of the owning node
	//   - cfg: placement tuning (must satisfy Config.Validate)
	//
	// Returns:
	//   - [3]float32: the assigned world-space position
	PlaceSeeded(seed uint64, owner [3]float32, cfg Config) [3]float32
}
