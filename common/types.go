// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "time"

// NormalizedInput is the fixed-shape, device-independent input sample produced
// once per tick by the input aggregator and consumed by the navigation
// controller. Continuous axes are nominally in [-1, 1]; any axis whose
// magnitude falls below the aggregator's deadzone is snapped to exactly 0
// before it reaches consumers.
type NormalizedInput struct {
	// MoveForward is the forward/backward thrust axis (+1 forward, -1 backward).
	MoveForward float32
	// MoveRight is the lateral strafe axis (+1 right, -1 left).
	MoveRight float32
	// MoveUp is the vertical movement axis (+1 up, -1 down).
	MoveUp float32
	// LookHorizontal is the horizontal look/orbit axis (+1 right, -1 left).
	LookHorizontal float32
	// LookVertical is the vertical look/orbit axis (+1 up, -1 down).
	LookVertical float32
	// Roll is the roll axis, only meaningful in flight mode (+1 clockwise).
	Roll float32
	// ToggleMode is the level state of the mode-toggle trigger. Edge detection
	// is the consumer's responsibility (previous-frame snapshot comparison).
	ToggleMode bool
	// NextPosition is the level state of the preset-cycle trigger. Edge
	// detection is the consumer's responsibility.
	NextPosition bool
	// HostActivity reports that a host-level pointer, key, or wheel event
	// occurred since the previous sample. Qualifies for idle-timer reset even
	// when every axis is inside the deadzone.
	HostActivity bool
}

// Zero reports whether the sample carries no continuous input and no trigger
// state. Used by the navigation controller to decide whether the sample
// qualifies as activity for idle detection.
//
// Returns:
//   - bool: true if all axes are 0 and both triggers are released
func (in NormalizedInput) Zero() bool {
	return in.MoveForward == 0 && in.MoveRight == 0 && in.MoveUp == 0 &&
		in.LookHorizontal == 0 && in.LookVertical == 0 && in.Roll == 0 &&
		!in.ToggleMode && !in.NextPosition
}

// CameraPose is the navigation controller's per-frame output: a world-space
// camera position and the point it looks at. The rendering layer derives its
// view matrix from the pair. Poses are guaranteed finite; a frame that would
// produce a non-finite component keeps the previous pose instead.
type CameraPose struct {
	// Position is the camera's world-space position.
	Position [3]float32
	// Target is the world-space look-at point. Authoritative in orbit mode and
	// during transitions; synthesized ahead of the camera in flight mode.
	Target [3]float32
}

// CharacterNode is a settled node from the external graph-layout engine.
// Read-only to this engine; posts are placed around the node that owns them.
type CharacterNode struct {
	// Slug is the node's unique identifier.
	Slug string
	// Name is the node's display name. Falls back to Slug at ingestion when empty.
	Name string
	// Position is the node's world-space position from the layout engine.
	Position [3]float32
	// GroupFlag marks the grouping this node belongs to (e.g. "primary").
	// Selective re-spatialization filters on it.
	GroupFlag string
}

// Post is a timestamped record owned by a CharacterNode. Loaded externally;
// this engine writes only AssignedPosition and Color.
type Post struct {
	// ID is the post's unique identifier. Also seeds the post's placement
	// generator so layouts are reproducible.
	ID uint64
	// OwnerSlug names the CharacterNode this post is placed around.
	OwnerSlug string
	// Timestamp is the post's creation time. The zero value means absent.
	Timestamp time.Time
	// AssignedPosition is the world-space position computed by the spatial
	// distributor. Defaults to the origin until placement runs.
	AssignedPosition [3]float32
	// Color is the recency-mapped RGB color in [0, 1] per channel.
	Color [3]float32
}
