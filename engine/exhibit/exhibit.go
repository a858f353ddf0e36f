package exhibit

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
	"github.com/Carmen-Shannon/orrery-go/engine/broadcast"
	"github.com/Carmen-Shannon/orrery-go/engine/camera"
	"github.com/Carmen-Shannon/orrery-go/engine/input"
	"github.com/Carmen-Shannon/orrery-go/engine/navigation"
	"github.com/Carmen-Shannon/orrery-go/engine/pointcloud"
	"github.com/Carmen-Shannon/orrery-go/engine/spatial"
)

// exhibitImpl implements the Exhibit interface.
// Coordinates the tick loop and the asynchronous re-spatialization passes.
type exhibitImpl struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	input         input.Aggregator
	nav           navigation.Controller
	cam           camera.Camera
	cloud         pointcloud.Cloud
	caster        broadcast.Broadcaster
	respatializer spatial.Respatializer

	spatialCfg spatial.Config
	nodes      []common.CharacterNode
	posts      []common.Post

	// corpusGen increments on every ingest. A placement pass only swaps its
	// result in when the corpus it copied is still current, so a pass racing
	// a fresh ingest cannot clobber the newer corpus.
	corpusGen uint64

	// respatMu serializes re-spatialization passes so a node ingest arriving
	// mid-pass cannot interleave with it.
	respatMu sync.Mutex

	profiler         *tickProfiler
	profilingEnabled bool

	tickRate     time.Duration
	tickCallback func(deltaTime float32)
}

// Exhibit is the main entry point for the installation runtime. It owns the
// fixed-rate tick loop that samples input, advances navigation, refreshes the
// camera, and broadcasts the pose, plus the ingestion path that places the
// post corpus around the node layout.
type Exhibit interface {
	// Input returns the input aggregator host callbacks should feed.
	//
	// Returns:
	//   - input.Aggregator: the input aggregator
	Input() input.Aggregator

	// Navigation returns the navigation controller.
	//
	// Returns:
	//   - navigation.Controller: the navigation controller
	Navigation() navigation.Controller

	// Camera returns the exhibit camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Cloud returns the GPU point cloud stager.
	//
	// Returns:
	//   - pointcloud.Cloud: the point cloud
	Cloud() pointcloud.Cloud

	// EnableProfiler enables tick performance output to the log.
	EnableProfiler()

	// DisableProfiler disables tick performance output.
	DisableProfiler()

	// SetTickRate sets the tick rate in ticks per second.
	// If the exhibit is running, the change takes effect immediately.
	//
	// Parameters:
	//   - tps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(tps float64)

	// SetTickCallback registers a function called after the built-in pipeline
	// on every tick. Use it for host concerns such as GPU buffer uploads.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetNodes ingests a settled node layout. Node names fall back to the
	// slug when empty. Triggers an asynchronous full re-spatialization of the
	// current post corpus.
	//
	// Parameters:
	//   - nodes: the settled character nodes
	SetNodes(nodes []common.CharacterNode)

	// SetPosts ingests a post corpus and triggers an asynchronous full
	// re-spatialization against the current node layout.
	//
	// Parameters:
	//   - posts: the posts to place
	SetPosts(posts []common.Post)

	// SetSpatialConfig replaces the placement tuning used by subsequent
	// re-spatialization passes.
	//
	// Parameters:
	//   - cfg: the placement tuning
	SetSpatialConfig(cfg spatial.Config)

	// Respatialize synchronously recomputes placement for posts whose owner
	// matches the filter and restages the point cloud.
	//
	// Parameters:
	//   - filter: owner-node selector (spatial.FilterAll to recompute everything)
	//
	// Returns:
	//   - error: nil on success, or the config validation failure
	Respatialize(filter spatial.NodeFilter) error

	// Posts returns a copy of the current placed corpus.
	//
	// Returns:
	//   - []common.Post: the placed posts
	Posts() []common.Post

	// Nodes returns a copy of the ingested node layout.
	//
	// Returns:
	//   - []common.CharacterNode: the ingested nodes
	Nodes() []common.CharacterNode

	// Run starts the tick loop and blocks until Quit is called.
	Run()

	// Quit signals the tick loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewExhibit creates an Exhibit with default components: a fresh input
// aggregator, an orbit-mode navigation controller, a camera attached to it,
// a point cloud stager, a machine-sized re-spatializer, and default placement
// tuning. Broadcasting is disabled unless a broadcaster is attached via
// WithBroadcaster.
//
// Parameters:
//   - options: functional options for exhibit configuration
//
// Returns:
//   - Exhibit: the newly created exhibit
func NewExhibit(options ...ExhibitBuilderOption) Exhibit {
	e := &exhibitImpl{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		running:         false,
		wg:              sync.WaitGroup{},
		profiler:        newTickProfiler(),
		spatialCfg:      spatial.DefaultConfig(),
		tickRate:        time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.input == nil {
		e.input = input.NewAggregator()
	}
	if e.nav == nil {
		e.nav = navigation.NewController()
	}
	if e.cam == nil {
		e.cam = camera.NewCamera(camera.WithController(e.nav))
	}
	if e.cloud == nil {
		e.cloud = pointcloud.NewCloud()
	}
	if e.respatializer == nil {
		e.respatializer = spatial.NewRespatializer()
	}

	return e
}

func (e *exhibitImpl) Input() input.Aggregator {
	return e.input
}

func (e *exhibitImpl) Navigation() navigation.Controller {
	return e.nav
}

func (e *exhibitImpl) Camera() camera.Camera {
	return e.cam
}

func (e *exhibitImpl) Cloud() pointcloud.Cloud {
	return e.cloud
}

func (e *exhibitImpl) Run() {
	e.running = true
	e.wg.Add(2)
	go e.handleTick()
	go e.handleQuit()
	e.wg.Wait()
}

// Quit signals the tick loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *exhibitImpl) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *exhibitImpl) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
		if e.caster != nil {
			e.caster.Close()
		}
	})
}

// handleTick runs the fixed-rate tick loop in its own goroutine.
// Each tick samples input, advances navigation, refreshes the camera, and
// broadcasts the pose, then fires the host callback. Listens for dynamic rate
// changes via tickRateChannel and exits when the quit channel is closed.
// Recovers from panics to avoid crashing the process and signals quit on
// recovery.
func (e *exhibitImpl) handleTick() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tick goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.tickRate = newRate
		}
	}
}

// tick runs one pass of the pipeline. Ordering is fixed: input is sampled
// first so the controller sees this frame's state, the camera refreshes from
// the settled pose, and the broadcast carries what the camera now shows.
func (e *exhibitImpl) tick(dt float32) {
	in := e.input.Sample()
	e.nav.Update(in, dt)
	e.cam.Update()

	if e.caster != nil {
		e.caster.Publish(e.cam.Pose(), e.cam.RotationQuaternion())
	}

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *exhibitImpl) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables tick performance output to the log.
func (e *exhibitImpl) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables tick performance output.
func (e *exhibitImpl) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the tick rate in ticks per second.
// If the exhibit is running, the change takes effect immediately.
func (e *exhibitImpl) SetTickRate(tps float64) {
	if tps <= 0 {
		tps = 60
	}
	newRate := time.Second / time.Duration(tps)

	if e.running {
		// Non-blocking send; if the channel holds a pending update, replace it.
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.tickRate = newRate
	}
}

// SetTickCallback registers the function called after the built-in pipeline
// on every tick.
func (e *exhibitImpl) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *exhibitImpl) SetNodes(nodes []common.CharacterNode) {
	ingested := make([]common.CharacterNode, len(nodes))
	for i, n := range nodes {
		n.Name = common.Coalesce(n.Name, n.Slug)
		ingested[i] = n
	}

	e.mu.Lock()
	e.nodes = ingested
	e.corpusGen++
	e.mu.Unlock()

	if e.caster != nil {
		e.caster.SetNodes(ingested)
	}

	go e.respatializeAsync(spatial.FilterAll())
}

func (e *exhibitImpl) SetPosts(posts []common.Post) {
	e.mu.Lock()
	e.posts = posts
	e.corpusGen++
	e.mu.Unlock()

	go e.respatializeAsync(spatial.FilterAll())
}

func (e *exhibitImpl) SetSpatialConfig(cfg spatial.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spatialCfg = cfg
}

func (e *exhibitImpl) Respatialize(filter spatial.NodeFilter) error {
	return e.respatialize(filter)
}

func (e *exhibitImpl) Posts() []common.Post {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]common.Post, len(e.posts))
	copy(out, e.posts)
	return out
}

func (e *exhibitImpl) Nodes() []common.CharacterNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]common.CharacterNode, len(e.nodes))
	copy(out, e.nodes)
	return out
}

// respatializeAsync is the fire-and-forget ingestion path. Failures are
// logged; the previous placement stays staged.
func (e *exhibitImpl) respatializeAsync(filter spatial.NodeFilter) {
	if err := e.respatialize(filter); err != nil {
		log.Printf("exhibit: re-spatialization failed: %v", err)
	}
}

// respatialize runs one placement pass over a working copy of the corpus and
// swaps it in on success. The pass mutex keeps concurrent passes ordered; the
// generation check discards a pass whose corpus was replaced mid-flight, since
// the newer ingest has already queued its own pass.
func (e *exhibitImpl) respatialize(filter spatial.NodeFilter) error {
	e.respatMu.Lock()
	defer e.respatMu.Unlock()

	e.mu.Lock()
	nodes := e.nodes
	cfg := e.spatialCfg
	gen := e.corpusGen
	working := make([]common.Post, len(e.posts))
	copy(working, e.posts)
	e.mu.Unlock()

	if len(working) == 0 {
		return nil
	}

	if err := e.respatializer.Respatialize(nodes, working, cfg, filter); err != nil {
		return err
	}

	e.mu.Lock()
	if e.corpusGen != gen {
		e.mu.Unlock()
		return nil
	}
	e.posts = working
	e.mu.Unlock()

	e.cloud.SetPosts(working)
	return nil
}
