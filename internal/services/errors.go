package services

import "errors"

var (
	// ErrDatasetNotLoaded is returned when a service was built without a table.
	ErrDatasetNotLoaded = errors.New("sales dataset not loaded")

	// ErrUnknownDimension is returned for rollups over unsupported dimensions.
	ErrUnknownDimension = errors.New("unknown rollup dimension")
)
