package spatial

import (
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
)

// Default intensity range for recency coloring.
const (
	DefaultMinIntensity = 0.3
	DefaultMaxIntensity = 1.0
)

// Base hue multiplied by the recency intensity: a warm amber.
var colorBase = [3]float32{0.9, 0.4, 0.1}

// FallbackColor is returned when a post has no timestamp or the corpus time
// range is degenerate.
var FallbackColor = [3]float32{0.8, 0.4, 0.0}

// ColorFor maps a post timestamp onto an RGB color whose intensity grows with
// recency relative to the corpus time range. A zero timestamp or a degenerate
// range (max <= min) yields FallbackColor.
//
// Parameters:
//   - timestamp: the post's creation time (zero value means absent)
//   - corpusMin: earliest timestamp in the corpus
//   - corpusMax: latest timestamp in the corpus
//   - minIntensity: intensity at corpusMin (DefaultMinIntensity for the stock look)
//   - maxIntensity: intensity at corpusMax (DefaultMaxIntensity for the stock look)
//
// Returns:
//   - [3]float32: RGB color in [0, 1] per channel
func ColorFor(timestamp, corpusMin, corpusMax time.Time, minIntensity, maxIntensity float32) [3]float32 {
	rangeSeconds := corpusMax.Sub(corpusMin).Seconds()
	if timestamp.IsZero() || rangeSeconds <= 0 {
		return FallbackColor
	}

	tNorm := common.Clamp(float32(timestamp.Sub(corpusMin).Seconds()/rangeSeconds), 0, 1)
	intensity := minIntensity + tNorm*(maxIntensity-minIntensity)
	return common.Scale3(colorBase, intensity)
}
