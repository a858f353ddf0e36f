package spatial

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nearZeroNoise keeps the perturbation negligible so offset-magnitude bounds
// can be checked against the pre-noise range.
func nearZeroNoise(cfg Config) Config {
	cfg.NoiseAmplitude = 1e-6
	return cfg
}

func TestPlaceOffsetMagnitudeWithinDilatedBounds(t *testing.T) {
	cfg := nearZeroNoise(Config{
		Radius:           15,
		MinDistance:      5,
		VerticalSpread:   1,
		HorizontalSpread: 1,
		NoiseScale:       0.35,
		DilationFactor:   1.2,
	})
	owner := [3]float32{0, 0, 0}

	d := NewDistributor()
	for seed := uint64(1); seed <= 1000; seed++ {
		p := d.PlaceSeeded(seed, owner, cfg)
		mag := common.Length3(p)
		assert.GreaterOrEqual(t, mag, float32(6)-1e-3, "seed %d", seed)
		assert.LessOrEqual(t, mag, float32(18)+1e-3, "seed %d", seed)
	}
}

func TestPlaceSpreadScalesAxesIndependently(t *testing.T) {
	cfg := nearZeroNoise(Config{
		Radius:           10,
		MinDistance:      5,
		VerticalSpread:   0.2,
		HorizontalSpread: 1,
		NoiseScale:       0.35,
		DilationFactor:   1,
	})

	d := NewDistributor()
	maxVertical := cfg.Radius * cfg.DilationFactor * cfg.VerticalSpread
	for seed := uint64(1); seed <= 500; seed++ {
		p := d.PlaceSeeded(seed, [3]float32{}, cfg)
		assert.LessOrEqual(t, abs(p[1]), maxVertical+1e-3, "seed %d: vertical component exceeds spread bound", seed)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestPlaceSeededIsReproducible(t *testing.T) {
	cfg := DefaultConfig()
	owner := [3]float32{10, -4, 7}
	d := NewDistributor()

	first := d.PlaceSeeded(42, owner, cfg)
	second := d.PlaceSeeded(42, owner, cfg)
	assert.Equal(t, first, second, "identical seed must reproduce the identical position")

	other := d.PlaceSeeded(43, owner, cfg)
	assert.NotEqual(t, first, other, "different seeds should diverge")
}

func TestPlaceUnseededVaries(t *testing.T) {
	cfg := DefaultConfig()
	d := NewDistributor(WithSeed(7))

	first := d.Place([3]float32{}, cfg)
	second := d.Place([3]float32{}, cfg)
	assert.NotEqual(t, first, second, "consecutive draws advance the generator")
}

func TestPlaceNonFiniteOwnerYieldsOrigin(t *testing.T) {
	cfg := DefaultConfig()
	d := NewDistributor()

	nan := float32(0)
	nan /= nan
	p := d.PlaceSeeded(1, [3]float32{nan, 0, 0}, cfg)
	assert.Equal(t, [3]float32{}, p)
}

func TestPlaceInvalidConfigYieldsOrigin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinDistance = cfg.Radius + 1
	d := NewDistributor()

	p := d.PlaceSeeded(1, [3]float32{5, 5, 5}, cfg)
	assert.Equal(t, [3]float32{}, p)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Radius = bad.MinDistance
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.DilationFactor = 0
	assert.Error(t, bad.Validate())
}

func TestColorForScenario(t *testing.T) {
	corpusMin := time.Unix(1000, 0)
	corpusMax := time.Unix(2000, 0)

	c := ColorFor(time.Unix(1500, 0), corpusMin, corpusMax, 0.3, 1.0)
	assert.InDelta(t, 0.585, c[0], 1e-3)
	assert.InDelta(t, 0.26, c[1], 1e-3)
	assert.InDelta(t, 0.065, c[2], 1e-3)
}

func TestColorForIntensityMonotonic(t *testing.T) {
	corpusMin := time.Unix(0, 0)
	corpusMax := time.Unix(10000, 0)

	prev := float32(-1)
	for s := int64(0); s <= 10000; s += 500 {
		c := ColorFor(time.Unix(s, 0), corpusMin, corpusMax, 0.3, 1.0)
		assert.GreaterOrEqual(t, c[0], prev, "intensity must not decrease with timestamp")
		prev = c[0]
	}
}

func TestColorForClampsOutOfRangeTimestamps(t *testing.T) {
	corpusMin := time.Unix(1000, 0)
	corpusMax := time.Unix(2000, 0)

	early := ColorFor(time.Unix(1, 0), corpusMin, corpusMax, 0.3, 1.0)
	late := ColorFor(time.Unix(9999, 0), corpusMin, corpusMax, 0.3, 1.0)
	assert.InDelta(t, 0.9*0.3, early[0], 1e-4)
	assert.InDelta(t, 0.9*1.0, late[0], 1e-4)
}

func TestColorForFallback(t *testing.T) {
	corpusMin := time.Unix(1000, 0)
	corpusMax := time.Unix(2000, 0)

	assert.Equal(t, FallbackColor, ColorFor(time.Time{}, corpusMin, corpusMax, 0.3, 1.0), "absent timestamp")
	assert.Equal(t, FallbackColor, ColorFor(time.Unix(1500, 0), corpusMin, corpusMin, 0.3, 1.0), "degenerate range")
}

func TestRespatializeFiltersByGroup(t *testing.T) {
	nodes := []common.CharacterNode{
		{Slug: "hero", Position: [3]float32{100, 0, 0}, GroupFlag: "primary"},
		{Slug: "extra", Position: [3]float32{-100, 0, 0}, GroupFlag: "secondary"},
	}
	posts := []common.Post{
		{ID: 1, OwnerSlug: "hero", Timestamp: time.Unix(1000, 0)},
		{ID: 2, OwnerSlug: "extra", Timestamp: time.Unix(2000, 0), AssignedPosition: [3]float32{1, 2, 3}},
		{ID: 3, OwnerSlug: "extra", Timestamp: time.Unix(1500, 0)},
	}

	r := NewRespatializer(WithWorkers(2))
	err := r.Respatialize(nodes, posts, DefaultConfig(), FilterGroup("primary"))
	require.NoError(t, err)

	assert.NotEqual(t, [3]float32{}, posts[0].AssignedPosition, "matching post must be placed")
	assert.Equal(t, [3]float32{1, 2, 3}, posts[1].AssignedPosition, "non-matching post keeps its position")
	assert.Equal(t, [3]float32{}, posts[2].AssignedPosition, "non-matching post without a position stays at the origin")

	assert.NotEqual(t, [3]float32{}, posts[0].Color, "every post is recolored")
	assert.NotEqual(t, [3]float32{}, posts[1].Color)
}

func TestRespatializeIsReproducible(t *testing.T) {
	nodes := []common.CharacterNode{
		{Slug: "hero", Position: [3]float32{10, 20, 30}, GroupFlag: "primary"},
	}
	mkPosts := func() []common.Post {
		posts := make([]common.Post, 100)
		for i := range posts {
			posts[i] = common.Post{ID: uint64(i + 1), OwnerSlug: "hero", Timestamp: time.Unix(int64(1000+i), 0)}
		}
		return posts
	}

	r := NewRespatializer(WithWorkers(4), WithChunkSize(16))
	a := mkPosts()
	b := mkPosts()
	require.NoError(t, r.Respatialize(nodes, a, DefaultConfig(), FilterAll()))
	require.NoError(t, r.Respatialize(nodes, b, DefaultConfig(), FilterAll()))

	for i := range a {
		assert.Equal(t, a[i].AssignedPosition, b[i].AssignedPosition, "post %d", i)
		assert.Equal(t, a[i].Color, b[i].Color, "post %d", i)
	}
}

func TestRespatializeMissingOwnerPlacedAtOrigin(t *testing.T) {
	nodes := []common.CharacterNode{
		{Slug: "hero", Position: [3]float32{100, 0, 0}},
	}
	posts := []common.Post{
		{ID: 1, OwnerSlug: "ghost", AssignedPosition: [3]float32{9, 9, 9}},
	}

	r := NewRespatializer(WithWorkers(1))
	require.NoError(t, r.Respatialize(nodes, posts, DefaultConfig(), FilterAll()))
	assert.Equal(t, [3]float32{}, posts[0].AssignedPosition)
}

func TestRespatializeInvalidConfigFails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Radius = 0

	r := NewRespatializer()
	err := r.Respatialize(nil, nil, cfg, FilterAll())
	assert.Error(t, err)
}
