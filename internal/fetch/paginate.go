// Package fetch aggregates cursor-paginated queries and runs independent
// fetches in bounded batches.
package fetch

import (
	"context"
	"errors"
	"fmt"
)

// ErrCursorLoop is recorded when the server hands back a cursor it already
// returned, which would otherwise paginate forever.
var ErrCursorLoop = errors.New("pagination cursor repeated")

// ErrMissingCursor is recorded when a page claims more results but carries
// no cursor to fetch them with.
var ErrMissingCursor = errors.New("pagination reported more pages without a cursor")

// Page is one page of a cursor-paginated result.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasNext    bool
}

// PageFunc fetches the page following cursor. The first call receives "".
type PageFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Result is the outcome of one Paginate call.
//
// Err is the reason pagination stopped early. Items always holds every page
// accumulated before that point, so callers can keep a truncated result.
type Result[T any] struct {
	Items []T
	Pages int
	Err   error
}

// Truncated reports whether pagination stopped before the last page.
func (r Result[T]) Truncated() bool {
	return r.Err != nil
}

// Paginate follows cursors until the server reports no further page or a
// fetch fails. Failures never discard accumulated items; they are reported in
// Result.Err instead.
func Paginate[T any](ctx context.Context, fetch PageFunc[T]) Result[T] {
	var res Result[T]
	seen := make(map[string]bool)
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			res.Err = fmt.Errorf("page %d: %w", res.Pages+1, err)
			return res
		}
		res.Pages++
		res.Items = append(res.Items, page.Items...)

		if !page.HasNext {
			return res
		}
		switch {
		case page.NextCursor == "":
			res.Err = ErrMissingCursor
			return res
		case seen[page.NextCursor]:
			res.Err = fmt.Errorf("%w: %q", ErrCursorLoop, page.NextCursor)
			return res
		}
		seen[page.NextCursor] = true
		cursor = page.NextCursor
	}
}
