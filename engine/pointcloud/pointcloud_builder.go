package pointcloud

// CloudOption is a functional option for configuring a Cloud.
type CloudOption func(*cloudImpl)

// WithBaseSize sets the render size given to the oldest posts.
//
// Parameters:
//   - size: base point size in world units
//
// Returns:
//   - CloudOption: functional option to set the base size
func WithBaseSize(size float32) CloudOption {
	return func(c *cloudImpl) {
		c.baseSize = size
	}
}

// WithRecencyBoost sets the size multiplier reached by the most recent posts.
// A boost of 1 renders all posts at the base size.
//
// Parameters:
//   - boost: size multiplier for recency 1.0
//
// Returns:
//   - CloudOption: functional option to set the recency boost
func WithRecencyBoost(boost float32) CloudOption {
	return func(c *cloudImpl) {
		c.recencyBoost = boost
	}
}
