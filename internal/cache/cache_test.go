package cache_test

import (
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/skim/internal/api"
	"github.com/nikbrunner/skim/internal/cache"
)

func openCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	assert.NilError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGet_RoundTrip(t *testing.T) {
	c := openCache(t)

	updated := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	in := api.Bookmark{
		ID:         "b1",
		Title:      "Go concurrency patterns",
		URL:        "https://example.com/go",
		Content:    "long text",
		Summary:    "short text",
		SourceName: "example.com",
		Tags:       []string{"go", "concurrency"},
		CreatedAt:  time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:  &updated,
		ReadCount:  3,
		IsPublic:   true,
	}
	assert.NilError(t, c.Put(in))

	out, err := c.Get("b1")
	assert.NilError(t, err)
	assert.Assert(t, out != nil)
	assert.Equal(t, out.Title, in.Title)
	assert.DeepEqual(t, out.Tags, in.Tags)
	assert.Equal(t, out.ReadCount, 3)
	assert.Assert(t, out.IsPublic)
	assert.Assert(t, out.UpdatedAt != nil)
	assert.Assert(t, out.CreatedAt.Equal(in.CreatedAt))
}

func TestGet_UnknownIDReturnsNil(t *testing.T) {
	c := openCache(t)

	out, err := c.Get("nope")
	assert.NilError(t, err)
	assert.Assert(t, out == nil)
}

func TestPut_UpsertsNewerSnapshot(t *testing.T) {
	c := openCache(t)

	bm := api.Bookmark{ID: "b1", Title: "t", Summary: api.SummaryPending, CreatedAt: time.Now()}
	assert.NilError(t, c.Put(bm))

	bm.Summary = "Ready now."
	bm.ReadCount = 1
	assert.NilError(t, c.Put(bm))

	out, err := c.Get("b1")
	assert.NilError(t, err)
	assert.Equal(t, out.Summary, "Ready now.")
	assert.Equal(t, out.ReadCount, 1)
}

func TestPutAll_AndDelete(t *testing.T) {
	c := openCache(t)

	page := []api.Bookmark{
		{ID: "b1", Title: "one", CreatedAt: time.Now()},
		{ID: "b2", Title: "two", CreatedAt: time.Now()},
	}
	assert.NilError(t, c.PutAll(page))

	out, err := c.Get("b2")
	assert.NilError(t, err)
	assert.Assert(t, out != nil)

	assert.NilError(t, c.Delete("b2"))
	out, err = c.Get("b2")
	assert.NilError(t, err)
	assert.Assert(t, out == nil)
}
