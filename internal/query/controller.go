// Package query owns the paginated, tag-filtered list state: current page,
// server-reported page count, and the ordered set of active tag filters.
// The controller is pure bookkeeping; the caller performs the fetch it
// requests and feeds the result back.
package query

import "github.com/nikbrunner/skim/internal/api"

// Controller tracks one list view's query state. Any filter-set mutation
// resets the page to 1; the total page count is trusted only between a
// successful fetch and the next page or filter change.
type Controller struct {
	page       int
	totalPages int
	total      int
	pageSize   int
	tags       []string

	items   []api.Bookmark
	loading bool
	fetchErr error

	// gen tags each requested fetch so an out-of-order response for a
	// superseded request is discarded instead of clobbering newer state.
	gen int
}

// New creates a controller at page 1 with no active filters.
func New(pageSize int) *Controller {
	return &Controller{
		page:       1,
		totalPages: 1,
		pageSize:   pageSize,
	}
}

// Page returns the current 1-based page.
func (c *Controller) Page() int { return c.page }

// TotalPages returns the server-reported page count from the last
// successful fetch.
func (c *Controller) TotalPages() int { return c.totalPages }

// Total returns the server-reported item count.
func (c *Controller) Total() int { return c.total }

// Items returns the current page's items.
func (c *Controller) Items() []api.Bookmark { return c.items }

// Tags returns the active filter set in activation order.
func (c *Controller) Tags() []string { return c.tags }

// Loading reports whether a fetch is outstanding.
func (c *Controller) Loading() bool { return c.loading }

// Err returns the error state from the last completed fetch, nil after a
// success.
func (c *Controller) Err() error { return c.fetchErr }

// SetPage moves to page n. It is a no-op when n equals the current page or
// falls outside [1, totalPages]; an out-of-bound request is never sent.
// Returns true when the page changed (the caller refetches and resets
// scroll).
func (c *Controller) SetPage(n int) bool {
	if n == c.page || n < 1 || n > c.totalPages {
		return false
	}
	c.page = n
	return true
}

// ToggleTag adds tag to the filter set, or removes it when already active.
// The page always resets to 1.
func (c *Controller) ToggleTag(tag string) {
	for i, t := range c.tags {
		if t == tag {
			c.tags = append(c.tags[:i], c.tags[i+1:]...)
			c.page = 1
			return
		}
	}
	c.tags = append(c.tags, tag)
	c.page = 1
}

// RemoveTag removes tag from the filter set if present and resets to page 1.
func (c *Controller) RemoveTag(tag string) {
	for i, t := range c.tags {
		if t == tag {
			c.tags = append(c.tags[:i], c.tags[i+1:]...)
			break
		}
	}
	c.page = 1
}

// ClearFilters drops all active filters and resets to page 1. Idempotent.
func (c *Controller) ClearFilters() {
	c.tags = nil
	c.page = 1
}

// HasTag reports whether tag is in the active filter set.
func (c *Controller) HasTag(tag string) bool {
	for _, t := range c.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// BeginFetch marks a fetch as in flight and returns the parameters for it,
// tagged with a generation the caller must hand back to Apply.
func (c *Controller) BeginFetch() (gen int, params api.ListParams) {
	c.gen++
	c.loading = true
	tags := make([]string, len(c.tags))
	copy(tags, c.tags)
	return c.gen, api.ListParams{Page: c.page, PerPage: c.pageSize, Tags: tags}
}

// Apply feeds a completed fetch back into the controller. A result whose
// generation is not the most recent is stale and ignored (returns false).
// On success the item collection and page count are replaced; on failure
// the items are emptied and the page count reset to 1 so stale items are
// never paired with a broken bound.
func (c *Controller) Apply(gen int, list *api.BookmarkList, err error) bool {
	if gen != c.gen {
		return false
	}
	c.loading = false

	if err != nil {
		c.fetchErr = err
		c.items = nil
		c.total = 0
		c.totalPages = 1
		return true
	}

	c.fetchErr = nil
	c.items = list.Items
	c.total = list.Total
	c.totalPages = list.TotalPages
	if c.totalPages < 1 {
		c.totalPages = 1
	}
	return true
}

// NoteDeleted adjusts the page after a deletion. Deleting the sole item on
// a page beyond page 1 pages back so the user never lands on an empty page
// with predecessors; otherwise the current page is refetched. The caller
// refetches in both cases.
func (c *Controller) NoteDeleted() {
	if len(c.items) == 1 && c.page > 1 {
		c.page--
	}
}

// NoteCreated resets to page 1 so the newly created item (most-recent-first
// on the server) is visible on the next fetch, regardless of filters.
func (c *Controller) NoteCreated() {
	c.page = 1
}
