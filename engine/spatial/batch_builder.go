package spatial

// RespatializerOption is a functional option for configuring a Respatializer.
type RespatializerOption func(*respatializerImpl)

// WithDistributor replaces the placement distributor.
//
// Parameters:
//   - d: the distributor to place posts with
//
// Returns:
//   - RespatializerOption: functional option to set the distributor
func WithDistributor(d Distributor) RespatializerOption {
	return func(r *respatializerImpl) {
		r.distributor = d
	}
}

// WithWorkers sets the worker pool size for batch placement.
//
// Parameters:
//   - workers: number of pool workers (minimum 1)
//
// Returns:
//   - RespatializerOption: functional option to set the worker count
func WithWorkers(workers int) RespatializerOption {
	return func(r *respatializerImpl) {
		r.workers = max(workers, 1)
	}
}

// WithChunkSize sets how many posts one pool task processes.
//
// Parameters:
//   - size: posts per task (minimum 1)
//
// Returns:
//   - RespatializerOption: functional option to set the chunk size
func WithChunkSize(size int) RespatializerOption {
	return func(r *respatializerImpl) {
		r.chunkSize = max(size, 1)
	}
}
