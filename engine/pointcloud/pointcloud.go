package pointcloud

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
)

type cloudImpl struct {
	mu *sync.Mutex

	posts     []common.Post
	instances []GPUPointInstance

	baseSize     float32
	recencyBoost float32
}

// Cloud stages placed posts into a GPU-uploadable instance buffer. Each post
// becomes one instance carrying its world position, color, render size, and a
// normalized recency scalar. Rebuilds happen on SetPosts; reads return the
// staged snapshot.
type Cloud interface {
	// SetPosts replaces the staged post set and rebuilds the instance buffer.
	//
	// Parameters:
	//   - posts: placed posts with assigned positions and colors
	SetPosts(posts []common.Post)

	// InstanceCount returns the number of staged instances.
	//
	// Returns:
	//   - int: the instance count
	InstanceCount() int

	// Instances returns a copy of the staged instance slice.
	//
	// Returns:
	//   - []GPUPointInstance: the staged instances
	Instances() []GPUPointInstance

	// Marshal serializes the staged instances into a byte buffer suitable for
	// GPU upload. Returns nil when no instances are staged.
	//
	// Returns:
	//   - []byte: the serialized instance buffer
	Marshal() []byte
}

var _ Cloud = &cloudImpl{}

// NewCloud creates a point cloud stager with default sizing: 2.0 base point
// size and a 1.5x size boost for the most recent posts.
//
// Parameters:
//   - options: functional options to configure the cloud
//
// Returns:
//   - Cloud: the newly created cloud
func NewCloud(options ...CloudOption) Cloud {
	c := &cloudImpl{
		mu:           &sync.Mutex{},
		baseSize:     2.0,
		recencyBoost: 1.5,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cloudImpl) SetPosts(posts []common.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts = posts
	c.rebuild()
}

func (c *cloudImpl) InstanceCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.instances)
}

func (c *cloudImpl) Instances() []GPUPointInstance {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]GPUPointInstance, len(c.instances))
	copy(out, c.instances)
	return out
}

func (c *cloudImpl) Marshal() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.instances) == 0 {
		return nil
	}
	return common.SliceToBytes(c.instances)
}

// rebuild restages all instances from the current post set.
// Caller must hold the mutex.
func (c *cloudImpl) rebuild() {
	c.instances = c.instances[:0]
	if len(c.posts) == 0 {
		return
	}

	minTs, maxTs := corpusRange(c.posts)
	span := float32(0)
	if maxTs.After(minTs) {
		span = float32(maxTs.Sub(minTs))
	}

	for _, post := range c.posts {
		recency := float32(0)
		if span > 0 && !post.Timestamp.IsZero() {
			recency = common.Clamp(float32(post.Timestamp.Sub(minTs))/span, 0, 1)
		}
		c.instances = append(c.instances, GPUPointInstance{
			Position: post.AssignedPosition,
			Size:     c.baseSize * (1 + recency*(c.recencyBoost-1)),
			Color:    post.Color,
			Recency:  recency,
		})
	}
}

// corpusRange finds the earliest and latest non-zero timestamps in the set.
func corpusRange(posts []common.Post) (minTs, maxTs time.Time) {
	for _, post := range posts {
		if post.Timestamp.IsZero() {
			continue
		}
		if minTs.IsZero() || post.Timestamp.Before(minTs) {
			minTs = post.Timestamp
		}
		if maxTs.IsZero() || post.Timestamp.After(maxTs) {
			maxTs = post.Timestamp
		}
	}
	return minTs, maxTs
}
