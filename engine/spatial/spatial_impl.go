package spatial

import (
	"log"
	"math"
	"math/rand"
	"sync"

	"github.com/Carmen-Shannon/orrery-go/common"
)

// Octave ladder for the trigonometric perturbation: frequencies {f, 2f, 4f}
// with amplitudes {1, 0.5, 0.25}.
var (
	octaveFreqMultipliers = [3]float32{1, 2, 4}
	octaveAmplitudes      = [3]float32{1, 0.5, 0.25}
)

// distributorImpl is the single implementation of Distributor.
type distributorImpl struct {
	mu  *sync.Mutex
	rng *rand.Rand
}

// Compile-time interface compliance check
var _ Distributor = &distributorImpl{}

// NewDistributor creates a spatial distributor. Without options the internal
// generator is seeded from the global source, so Place output varies run to
// run; inject a fixed generator with WithRand for reproducible output.
//
// Parameters:
//   - options: functional options to configure the distributor
//
// Returns:
//   - Distributor: the newly created distributor
func NewDistributor(options ...DistributorOption) Distributor {
	d := &distributorImpl{
		mu:  &sync.Mutex{},
		rng: rand.New(rand.NewSource(rand.Int63())),
	}

	for _, option := range options {
		option(d)
	}

	return d
}

func (d *distributorImpl) Place(owner [3]float32, cfg Config) [3]float32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return place(d.rng, owner, cfg)
}

func (d *distributorImpl) PlaceSeeded(seed uint64, owner [3]float32, cfg Config) [3]float32 {
	return place(rand.New(rand.NewSource(int64(seed))), owner, cfg)
}

// place runs the full placement pipeline: uniform spherical draw, spread
// scaling, dilation, and the three-octave perturbation.
func place(rng *rand.Rand, owner [3]float32, cfg Config) [3]float32 {
	if err := cfg.Validate(); err != nil {
		log.Printf("spatial: invalid config, placing at origin: %v", err)
		return [3]float32{}
	}
	if !common.Finite3(owner) {
		log.Printf("spatial: owner position is not finite, placing at origin")
		return [3]float32{}
	}

	// 1. Uniform draws: distance in [minDistance, radius), theta in [0, 2π),
	// phi in [-π/2, π/2).
	distance := cfg.MinDistance + rng.Float32()*(cfg.Radius-cfg.MinDistance)
	theta := rng.Float32() * 2 * math.Pi
	phi := (rng.Float32() - 0.5) * math.Pi

	cosTheta := float32(math.Cos(float64(theta)))
	sinTheta := float32(math.Sin(float64(theta)))
	cosPhi := float32(math.Cos(float64(phi)))
	sinPhi := float32(math.Sin(float64(phi)))

	// 2. Base offset with independent horizontal/vertical spread. Vertical is
	// the Y axis to match the engine's Y-up world.
	base := [3]float32{
		distance * cosTheta * cosPhi * cfg.HorizontalSpread,
		distance * sinPhi * cfg.VerticalSpread,
		distance * sinTheta * cosPhi * cfg.HorizontalSpread,
	}

	// 3. Dilation pushes the whole offset away from the owner.
	dilated := common.Scale3(base, cfg.DilationFactor)

	// 4. Three-octave trigonometric perturbation with six fresh phases. Each
	// output axis mixes the other two axes of the dilated offset.
	var noise [3]float32
	var freqSum float32
	for o := range octaveFreqMultipliers {
		freq := cfg.NoiseScale * octaveFreqMultipliers[o]
		amp := octaveAmplitudes[o]
		freqSum += freq

		phaseA := rng.Float32() * 2 * math.Pi
		phaseB := rng.Float32() * 2 * math.Pi

		noise[0] += amp * trigMix(dilated[1], dilated[2], freq, phaseA, phaseB)
		noise[1] += amp * trigMix(dilated[2], dilated[0], freq, phaseA, phaseB)
		noise[2] += amp * trigMix(dilated[0], dilated[1], freq, phaseA, phaseB)
	}
	norm := float32(math.Sqrt(float64(freqSum)))
	noise = common.Scale3(noise, cfg.NoiseAmplitude/norm)

	// 5. Final position.
	return common.Add3(owner, common.Add3(dilated, noise))
}

// trigMix evaluates one octave's contribution for one output axis:
// sin(a·freq + phaseA) · cos(b·freq + phaseB).
func trigMix(a, b, freq, phaseA, phaseB float32) float32 {
	return float32(math.Sin(float64(a*freq+phaseA)) * math.Cos(float64(b*freq+phaseB)))
}
