package fetch

import (
	"context"
	"errors"
	"testing"
)

// pagesFunc serves pages keyed by the cursor that requests them.
func pagesFunc(pages map[string]Page[int], fail map[string]error, calls *[]string) PageFunc[int] {
	return func(_ context.Context, cursor string) (Page[int], error) {
		*calls = append(*calls, cursor)
		if err, ok := fail[cursor]; ok {
			return Page[int]{}, err
		}
		return pages[cursor], nil
	}
}

func TestPaginate(t *testing.T) {
	errBoom := errors.New("boom")
	threePages := map[string]Page[int]{
		"":   {Items: []int{1, 2}, NextCursor: "c1", HasNext: true},
		"c1": {Items: []int{3}, NextCursor: "c2", HasNext: true},
		"c2": {Items: []int{4, 5}},
	}

	tests := []struct {
		name      string
		pages     map[string]Page[int]
		fail      map[string]error
		wantItems []int
		wantPages int
		wantCalls []string
		wantErr   error
	}{
		{
			name:      "follows cursors to the last page",
			pages:     threePages,
			wantItems: []int{1, 2, 3, 4, 5},
			wantPages: 3,
			wantCalls: []string{"", "c1", "c2"},
		},
		{
			name:      "single page",
			pages:     map[string]Page[int]{"": {Items: []int{9}}},
			wantItems: []int{9},
			wantPages: 1,
			wantCalls: []string{""},
		},
		{
			name:      "failure keeps accumulated items",
			pages:     threePages,
			fail:      map[string]error{"c1": errBoom},
			wantItems: []int{1, 2},
			wantPages: 1,
			wantCalls: []string{"", "c1"},
			wantErr:   errBoom,
		},
		{
			name:      "failure on first page",
			fail:      map[string]error{"": errBoom},
			wantPages: 0,
			wantCalls: []string{""},
			wantErr:   errBoom,
		},
		{
			name: "repeated cursor stops",
			pages: map[string]Page[int]{
				"":   {Items: []int{1}, NextCursor: "c1", HasNext: true},
				"c1": {Items: []int{2}, NextCursor: "c1", HasNext: true},
			},
			wantItems: []int{1, 2},
			wantPages: 2,
			wantCalls: []string{"", "c1"},
			wantErr:   ErrCursorLoop,
		},
		{
			name: "more pages without cursor stops",
			pages: map[string]Page[int]{
				"": {Items: []int{1}, HasNext: true},
			},
			wantItems: []int{1},
			wantPages: 1,
			wantCalls: []string{""},
			wantErr:   ErrMissingCursor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			res := Paginate(context.Background(), pagesFunc(tt.pages, tt.fail, &calls))

			if !equalInts(res.Items, tt.wantItems) {
				t.Errorf("Items = %v, want %v", res.Items, tt.wantItems)
			}
			if res.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", res.Pages, tt.wantPages)
			}
			if !equalStrings(calls, tt.wantCalls) {
				t.Errorf("cursors requested = %q, want %q", calls, tt.wantCalls)
			}
			if tt.wantErr == nil {
				if res.Err != nil || res.Truncated() {
					t.Errorf("Err = %v, want nil", res.Err)
				}
				return
			}
			if !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", res.Err, tt.wantErr)
			}
			if !res.Truncated() {
				t.Error("Truncated() = false, want true")
			}
		})
	}
}

func TestPaginate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls []string
	res := Paginate(ctx, pagesFunc(nil, nil, &calls))

	if len(calls) != 0 {
		t.Errorf("fetch called %d times, want 0", len(calls))
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", res.Err)
	}
}

func TestPaginate_CancelBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	res := Paginate(ctx, func(_ context.Context, cursor string) (Page[string], error) {
		calls++
		cancel()
		return Page[string]{Items: []string{"a"}, NextCursor: "next", HasNext: true}, nil
	})

	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
	if len(res.Items) != 1 || !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Paginate() = %+v", res)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
