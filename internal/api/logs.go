package api

import (
	"net/url"
	"strconv"
)

// LogListParams selects one page of the server's log listing.
type LogListParams struct {
	Page    int
	PerPage int
	Level   string
	Source  string
}

// ListLogs fetches one page of stored log events.
func (c *Client) ListLogs(params LogListParams) (*LogList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("per_page", strconv.Itoa(params.PerPage))
	if params.Level != "" {
		q.Set("level", params.Level)
	}
	if params.Source != "" {
		q.Set("source", params.Source)
	}

	var list LogList
	if err := c.do(request{method: "GET", path: "/logs/", query: q}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetLogStats fetches aggregate counts over the stored log events.
func (c *Client) GetLogStats() (*LogStats, error) {
	var stats LogStats
	if err := c.do(request{method: "GET", path: "/logs/stats"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SaveLog stores one client-side event. Callers that must never fail on
// telemetry go through the telemetry sink, which swallows the error.
func (c *Client) SaveLog(entry LogEntry) error {
	return c.do(request{method: "POST", path: "/logs/", body: entry}, nil)
}
