package spatial

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/orrery-go/common"
)

// NodeFilter selects which owner nodes participate in a re-spatialization
// pass. Posts whose owner does not match keep their existing assigned
// position (or the origin if they never had one).
type NodeFilter func(common.CharacterNode) bool

// FilterAll matches every node.
//
// Returns:
//   - NodeFilter: a filter that always matches
func FilterAll() NodeFilter {
	return func(common.CharacterNode) bool { return true }
}

// FilterGroup matches nodes carrying the given group flag.
//
// Parameters:
//   - groupFlag: the group flag to match (e.g. "primary")
//
// Returns:
//   - NodeFilter: a filter matching only that group
func FilterGroup(groupFlag string) NodeFilter {
	return func(n common.CharacterNode) bool { return n.GroupFlag == groupFlag }
}

// Respatializer assigns positions and recency colors to a post corpus in
// batch, fanning the per-post placement work out over a persistent worker
// pool. Placement is seeded per post from the post ID, so the same corpus and
// node layout always reproduce the same point cloud.
type Respatializer interface {
	// Respatialize recomputes AssignedPosition for every post whose owner
	// node matches the filter, and recolors the full corpus from its
	// timestamp range. Posts are mutated in place. Posts owned by a missing
	// or non-finite node are placed at the origin with a logged warning.
	//
	// Parameters:
	//   - nodes: the settled node layout, keyed by slug during the pass
	//   - posts: the post corpus to mutate
	//   - cfg: placement tuning (must satisfy Config.Validate)
	//   - filter: owner-node selector (FilterAll to recompute everything)
	//
	// Returns:
	//   - error: nil on success, or the config validation failure
	Respatialize(nodes []common.CharacterNode, posts []common.Post, cfg Config, filter NodeFilter) error
}

// respatializerImpl is the single implementation of Respatializer.
type respatializerImpl struct {
	distributor Distributor

	// pool manages a bounded set of reusable goroutines for per-chunk
	// placement work. Workers persist across passes.
	pool    worker.DynamicWorkerPool
	workers int

	// chunkSize is the number of posts handed to one pool task.
	chunkSize int
}

// Compile-time interface compliance check
var _ Respatializer = &respatializerImpl{}

// NewRespatializer creates a batch re-spatializer backed by a persistent
// worker pool sized to the machine by default.
//
// Parameters:
//   - options: functional options to configure the re-spatializer
//
// Returns:
//   - Respatializer: the newly created re-spatializer
func NewRespatializer(options ...RespatializerOption) Respatializer {
	r := &respatializerImpl{
		distributor: NewDistributor(),
		workers:     max(runtime.NumCPU()-1, 1),
		chunkSize:   256,
	}

	for _, option := range options {
		option(r)
	}

	// Initialized after options so WithWorkers can override the default.
	r.pool = worker.NewDynamicWorkerPool(r.workers, 256, 1*time.Second)

	return r
}

func (r *respatializerImpl) Respatialize(nodes []common.CharacterNode, posts []common.Post, cfg Config, filter NodeFilter) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if filter == nil {
		filter = FilterAll()
	}

	nodesBySlug := make(map[string]common.CharacterNode, len(nodes))
	for _, n := range nodes {
		nodesBySlug[n.Slug] = n
	}

	corpusMin, corpusMax := corpusRange(posts)

	// Fan the corpus out in chunks; a WaitGroup provides the pass barrier
	// since the pool outlives individual passes.
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(posts); start += r.chunkSize {
		end := min(start+r.chunkSize, len(posts))
		chunk := posts[start:end]

		wg.Add(1)
		id := taskID
		taskID++
		r.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				r.processChunk(chunk, nodesBySlug, cfg, filter, corpusMin, corpusMax)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return nil
}

// processChunk places and colors one slice of the corpus. Chunks never
// overlap, so no synchronization is needed on the posts themselves.
func (r *respatializerImpl) processChunk(chunk []common.Post, nodesBySlug map[string]common.CharacterNode, cfg Config, filter NodeFilter, corpusMin, corpusMax time.Time) {
	for i := range chunk {
		post := &chunk[i]
		post.Color = ColorFor(post.Timestamp, corpusMin, corpusMax, DefaultMinIntensity, DefaultMaxIntensity)

		node, ok := nodesBySlug[post.OwnerSlug]
		if !ok {
			log.Printf("spatial: post %d owner %q not in node set, placing at origin", post.ID, post.OwnerSlug)
			post.AssignedPosition = [3]float32{}
			continue
		}
		if !filter(node) {
			// Non-matching posts keep their existing position; the zero
			// value already defaults to the origin.
			continue
		}
		post.AssignedPosition = r.distributor.PlaceSeeded(post.ID, node.Position, cfg)
	}
}

// corpusRange returns the earliest and latest non-zero timestamps in the
// corpus. Both are zero when the corpus carries no timestamps.
func corpusRange(posts []common.Post) (time.Time, time.Time) {
	var minTs, maxTs time.Time
	for i := range posts {
		ts := posts[i].Timestamp
		if ts.IsZero() {
			continue
		}
		if minTs.IsZero() || ts.Before(minTs) {
			minTs = ts
		}
		if maxTs.IsZero() || ts.After(maxTs) {
			maxTs = ts
		}
	}
	return minTs, maxTs
}
