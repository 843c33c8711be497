package sampler

import "errors"

// Sentinel kinds for sampling errors.
var (
	// ErrNoSamplableRecords is returned by a weighted draw whose candidates
	// all have zero occurrences.
	ErrNoSamplableRecords = errors.New("no samplable records")
	// ErrWeightOverflow is returned by a weighted draw whose total
	// occurrences do not fit in an int64.
	ErrWeightOverflow = errors.New("total occurrences overflow")
)
