// Package search defines the remote data sources the mediator caches in
// front of.
//
// Source is the contract: full-text search for page titles and retrieval
// of a single page's text. Two implementations are provided:
//
//   - Wikipedia – queries the public MediaWiki Action API over HTTP. This
//     is the default source.
//
//   - OpenSearch – queries a self-hosted OpenSearch index of articles,
//     for deployments that mirror content locally instead of calling out
//     to Wikipedia.
//
// Both implementations are safe for concurrent use and respect context
// cancellation. Errors specific to the remote call are exposed as
// ErrRequestFailed and ErrPageMissing so that callers can distinguish
// infrastructure problems from ordinary misses with errors.Is.
package search
