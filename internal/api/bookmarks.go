package api

import (
	"errors"
	"net/url"
	"strconv"
)

// ErrMissingOrigin is returned when a create has neither a URL nor raw
// content; the request is never sent.
var ErrMissingOrigin = errors.New("bookmark needs a url or content")

// ListParams selects one page of the bookmark listing. Tags are AND-combined
// by the server and encoded as a repeated query key.
type ListParams struct {
	Page    int
	PerPage int
	Tags    []string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("per_page", strconv.Itoa(p.PerPage))
	for _, tag := range p.Tags {
		q.Add("tags", tag)
	}
	return q
}

// ListBookmarks fetches one page of the caller's bookmarks.
func (c *Client) ListBookmarks(params ListParams) (*BookmarkList, error) {
	var list BookmarkList
	if err := c.do(request{
		method: "GET",
		path:   "/bookmarks/",
		query:  params.values(),
	}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetBookmark fetches a single bookmark by id. The detail view polls this
// until the summary is ready.
func (c *Client) GetBookmark(id string) (*Bookmark, error) {
	var bm Bookmark
	if err := c.do(request{
		method: "GET",
		path:   "/bookmarks/" + id,
	}, &bm); err != nil {
		return nil, err
	}
	return &bm, nil
}

// CreateBookmark submits a new bookmark. Optional fields are included only
// when non-empty; a duplicate URL surfaces as ErrConflict.
func (c *Client) CreateBookmark(params CreateBookmarkParams) (*Bookmark, error) {
	if params.URL == "" && params.Content == "" {
		return nil, ErrMissingOrigin
	}

	body := map[string]any{}
	if params.URL != "" {
		body["url"] = params.URL
	}
	if params.Content != "" {
		body["content"] = params.Content
	}
	if params.Title != "" {
		body["title"] = params.Title
	}
	if len(params.Tags) > 0 {
		body["tags"] = params.Tags
	}
	if params.SourceName != "" {
		body["source_name"] = params.SourceName
	}
	if params.SummaryModel != "" {
		body["summary_model"] = params.SummaryModel
	}

	var bm Bookmark
	if err := c.do(request{
		method: "POST",
		path:   "/bookmarks/",
		body:   body,
	}, &bm); err != nil {
		return nil, err
	}
	return &bm, nil
}

// UpdateBookmark replaces the bookmark document with the normalized params.
func (c *Client) UpdateBookmark(id string, params UpdateBookmarkParams) (*Bookmark, error) {
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}
	body := map[string]any{
		"title":       params.Title,
		"url":         params.URL,
		"source_name": params.SourceName,
		"summary":     params.Summary,
		"tags":        tags,
	}

	var bm Bookmark
	if err := c.do(request{
		method: "PUT",
		path:   "/bookmarks/" + id,
		body:   body,
	}, &bm); err != nil {
		return nil, err
	}
	return &bm, nil
}

// DeleteBookmark soft-deletes a bookmark.
func (c *Client) DeleteBookmark(id string) error {
	return c.do(request{method: "DELETE", path: "/bookmarks/" + id}, nil)
}

// IncreaseReadCount bumps the server-side view counter. The detail
// controller guarantees at most one call per displayed bookmark.
func (c *Client) IncreaseReadCount(id string) error {
	return c.do(request{
		method: "POST",
		path:   "/bookmarks/" + id + "/increase-read-count",
		body:   map[string]any{},
	}, nil)
}

// ShareBookmark shares a bookmark to the given target. For the "users"
// target, public controls the visibility toggle; passing nil lets the
// server default to making the bookmark public.
func (c *Client) ShareBookmark(id, target string, public *bool) (*ShareResponse, error) {
	body := map[string]any{"target": target}
	if target == ShareTargetUsers && public != nil {
		body["public"] = *public
	}

	var resp ShareResponse
	if err := c.do(request{
		method: "POST",
		path:   "/bookmarks/" + id + "/share",
		body:   body,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSummaryModels lists the model names offered for summarization.
func (c *Client) GetSummaryModels() (*SummaryModels, error) {
	var models SummaryModels
	if err := c.do(request{
		method: "GET",
		path:   "/bookmarks/summary-models",
	}, &models); err != nil {
		return nil, err
	}
	return &models, nil
}

// ListPublicBookmarks fetches one page of the unauthenticated listing.
func (c *Client) ListPublicBookmarks(page, perPage int) (*BookmarkList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var list BookmarkList
	if err := c.do(request{
		method: "GET",
		path:   "/public/bookmarks/",
		query:  q,
		exempt: true,
	}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPublicBookmark fetches a publicly shared bookmark without credentials.
func (c *Client) GetPublicBookmark(id string) (*Bookmark, error) {
	var bm Bookmark
	if err := c.do(request{
		method: "GET",
		path:   "/public/bookmarks/" + id,
		exempt: true,
	}, &bm); err != nil {
		return nil, err
	}
	return &bm, nil
}
