package search

import "errors"

var (
	// ErrRequestFailed indicates the remote source could not be reached or
	// answered with a non-success status. Use errors.Is() to check.
	ErrRequestFailed = errors.New("search: remote request failed")

	// ErrPageMissing indicates the requested page does not exist at the
	// remote source. This is an ordinary miss, not an infrastructure
	// failure.
	ErrPageMissing = errors.New("search: page does not exist")

	// ErrConnectionFailed indicates the OpenSearch client could not be
	// created or the cluster is unreachable.
	ErrConnectionFailed = errors.New("search: opensearch connection failed")
)
