package search

import "context"

// Source is the expensive remote lookup the cache sits in front of.
type Source interface {
	// Search returns up to limit page titles matching query.
	Search(ctx context.Context, query string, limit int) ([]string, error)

	// PageText returns the plain text of the page with the given title.
	// Returns ErrPageMissing if no such page exists.
	PageText(ctx context.Context, title string) (string, error)
}
