package entities

import "errors"

// Error categories for a run. Every failure returned by a stage wraps exactly one of
// them, so callers can classify it with errors.Is.
var (
	// ErrConfiguration covers missing or invalid settings and signing key mismatches.
	ErrConfiguration = errors.New("configuration error")
	// ErrUpstreamFetch covers tag listing and archive download failures.
	ErrUpstreamFetch = errors.New("upstream fetch error")
	// ErrDescriptorUpdate covers descriptor fields that did not match exactly once.
	ErrDescriptorUpdate = errors.New("descriptor update error")
	// ErrPublish covers clone, commit and push failures.
	ErrPublish = errors.New("publish error")
	// ErrNotification covers mail delivery failures. It never fails a run.
	ErrNotification = errors.New("notification error")
)
