package pipeline

import "errors"

// Domain errors for pipeline operations.
var (
	// ErrNotFound indicates an unknown dataset name.
	ErrNotFound = errors.New("pipeline: dataset not found")

	// ErrNoActiveDataset indicates an operation that needs a loaded dataset.
	// Filter operations treat this case as a silent no-op instead.
	ErrNoActiveDataset = errors.New("pipeline: no active dataset")

	// ErrInvalidArgument indicates a parameter the pipeline cannot apply.
	ErrInvalidArgument = errors.New("pipeline: invalid argument")
)
