package domain

import "errors"

var (
	// ErrOrderNotFound means the order store has no record for the ID.
	ErrOrderNotFound = errors.New("order not found")

	// ErrServiceUnavailable means the order status service could not be
	// reached or answered with a server error. Callers may retry later.
	ErrServiceUnavailable = errors.New("order service unavailable")

	ErrNoDataFile      = errors.New("no data file found")
	ErrMalformedRecord = errors.New("malformed record")
	ErrSessionNotFound = errors.New("session not found")
	ErrSnapshotStale   = errors.New("knowledge snapshot is stale")
)
