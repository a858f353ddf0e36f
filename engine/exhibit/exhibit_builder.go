package exhibit

import (
	"time"

	"github.com/Carmen-Shannon/orrery-go/engine/broadcast"
	"github.com/Carmen-Shannon/orrery-go/engine/camera"
	"github.com/Carmen-Shannon/orrery-go/engine/input"
	"github.com/Carmen-Shannon/orrery-go/engine/navigation"
	"github.com/Carmen-Shannon/orrery-go/engine/pointcloud"
	"github.com/Carmen-Shannon/orrery-go/engine/spatial"
)

// ExhibitBuilderOption is a functional option for configuring an Exhibit.
type ExhibitBuilderOption func(*exhibitImpl)

// WithInput sets the input aggregator.
//
// Parameters:
//   - agg: the aggregator to use
//
// Returns:
//   - ExhibitBuilderOption: functional option to set the aggregator
func WithInput(agg input.Aggregator) ExhibitBuilderOption {
	return func(e *exhibitImpl) {
		e.input = agg
	}
}

// WithNavigation sets the navigation controller.
//
// Parameters:
//   - ctrl: the controller to use
//
// Returns:
//   - ExhibitBuilderOption: functional option to set the controller
func WithNavigation(ctrl navigation.Controller) ExhibitBuilderOption {
	return func(e *exhibitImpl) {
		e.nav = ctrl
	}
}

// WithCamera sets the exhibit camera. The camera should already be attached
// to the exhibit's navigation controller.
//
// Parameters:
//   - cam: the camera to use
//
// Returns:
//   - ExhibitBuilderOption: functional option to set the camera
func WithCamera(cam camera.Camera) ExhibitBuilderOption {
	return func(e *exhibitImpl) {
		e.cam = cam
	}
}

// WithCloud sets the point cloud stager.
//
// Parameters:
//   - cloud: the cloud to use
//
// Returns:
//   - ExhibitBuilderOption: functional option to set the cloud
func WithCloud(cloud pointcloud.Cloud) ExhibitBuilderOption {
	return func(e *exhibitImpl) {
		e.cloud = cloud
	}
}

// WithBroadcaster attaches a pose broadcaster. Without one, broadcasting is
// disabled.
//
// Parameters:
//   - caster: the broadcaster to attach
//
// Returns:
//   - ExhibitBuilderOption: functional option to set the broadcaster
func WithBroadcaster(caster broadcast.Broadcaster) ExhibitBuilderOption {
	return func(e *exhibitImpl) {
		e.caster = caster
	}
}

// WithRespatializer sets the batch re-spatializer.
//
// Parameters:
//   - r: the re-spatializer to use
//
// Returns:
//   - ExhibitBuilderOption: functional option to set the re-spatializer
func WithRespatializer(r spatial.Respatializer) ExhibitBuilderOption {
	return func(e *exhibitImpl) {
		e.respatializer = r
	}
}

// WithSpatialConfig sets the initial placement tuning.
//
// Parameters:
//   - cfg: the placement tuning
//
// Returns:
//   - ExhibitBuilderOption: functional option to set the tuning
func WithSpatialConfig(cfg spatial.Config) ExhibitBuilderOption {
	return func(e *exhibitImpl) {
		e.spatialCfg = cfg
	}
}

// WithTickRate sets the tick rate in ticks per second before the loop starts.
//
// Parameters:
//   - tps: target ticks per second
//
// Returns:
//   - ExhibitBuilderOption: functional option to set the tick rate
func WithTickRate(tps float64) ExhibitBuilderOption {
	return func(e *exhibitImpl) {
		if tps > 0 {
			e.tickRate = time.Second / time.Duration(tps)
		}
	}
}

// WithProfiling enables tick performance output from the start.
//
// Returns:
//   - ExhibitBuilderOption: functional option to enable profiling
func WithProfiling() ExhibitBuilderOption {
	return func(e *exhibitImpl) {
		e.profilingEnabled = true
	}
}
