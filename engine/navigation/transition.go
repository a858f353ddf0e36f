package navigation

import (
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
)

// transitionPlanner interpolates the camera pose between two poses over a
// fixed duration. While active it holds exclusive pose authority; both mode
// drivers are bypassed until it completes. Interpolation is strictly linear in
// position and target independently, which keeps mid-transition poses exactly
// predictable.
type transitionPlanner struct {
	active    bool
	startTime time.Time
	duration  time.Duration
	start     common.CameraPose
	end       common.CameraPose

	// lastProgress enforces monotonic progress even if the supplied clock
	// jitters backwards between ticks.
	lastProgress float32
}

// activate arms the planner with a new start/end pose pair. A non-positive
// duration completes on the first tick.
func (t *transitionPlanner) activate(start, end common.CameraPose, duration time.Duration, now time.Time) {
	t.active = true
	t.startTime = now
	t.duration = duration
	t.start = start
	t.end = end
	t.lastProgress = 0
}

// tick computes the pose for the given instant. Returns done == true exactly
// once progress reaches 1, deactivating the planner; the final pose equals the
// end pose.
func (t *transitionPlanner) tick(now time.Time) (common.CameraPose, bool) {
	if !t.active {
		return t.end, true
	}

	p := float32(1)
	if t.duration > 0 {
		p = common.Clamp(float32(now.Sub(t.startTime).Seconds()/t.duration.Seconds()), 0, 1)
	}
	if p < t.lastProgress {
		p = t.lastProgress
	}
	t.lastProgress = p

	if p >= 1 {
		t.active = false
		return t.end, true
	}

	return common.CameraPose{
		Position: common.Lerp3(t.start.Position, t.end.Position, p),
		Target:   common.Lerp3(t.start.Target, t.end.Target, p),
	}, false
}
