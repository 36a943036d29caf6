package api

import "time"

// SummaryPending is the placeholder the server writes into a bookmark's
// summary at creation, before the summarization worker has run. The exact
// string is part of the server contract.
const SummaryPending = "요약 생성 중..."

// Bookmark represents a saved reference plus its derived summary.
type Bookmark struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Content    string     `json:"content,omitempty"`
	Summary    string     `json:"summary,omitempty"`
	SourceName string     `json:"source_name,omitempty"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	ReadCount  int        `json:"read_count"`
	UserID     string     `json:"user_id,omitempty"`
	IsPublic   bool       `json:"is_public"`
}

// SummaryReady reports whether the summarization worker has produced a real
// summary. An empty summary and the placeholder both count as not ready.
func (b Bookmark) SummaryReady() bool {
	return b.Summary != "" && b.Summary != SummaryPending
}

// User is the resolved identity behind a session token.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// BookmarkList is one page of the bookmark listing.
type BookmarkList struct {
	Items      []Bookmark `json:"items"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
}

// CreateBookmarkParams holds the create form after normalization. Optional
// fields left empty are omitted from the request body; omission, not empty
// string, tells the server to apply its defaults.
type CreateBookmarkParams struct {
	URL          string
	Content      string
	Title        string
	Tags         []string
	SourceName   string
	SummaryModel string
}

// UpdateBookmarkParams holds the full normalized document sent on update.
type UpdateBookmarkParams struct {
	Title      string
	URL        string
	SourceName string
	Summary    string
	Tags       []string
}

// Share targets accepted by POST /bookmarks/{id}/share.
const (
	ShareTargetUsers  = "users"
	ShareTargetSlack  = "slack"
	ShareTargetNotion = "notion"
)

// ShareResponse is the body of a successful share call.
type ShareResponse struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
}

// SummaryModels lists the model names the server offers for summarization.
type SummaryModels struct {
	Models []string `json:"models"`
}

// LogEntry is a single event accepted by POST /logs/ and returned by GET /logs/.
type LogEntry struct {
	ID        string         `json:"id,omitempty"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"user_id,omitempty"`
	Metadata  map[string]any `json:"meta_data,omitempty"`
}

// LogList is one page of the server's log listing.
type LogList struct {
	Items      []LogEntry `json:"items"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
}

// LogStats aggregates stored log events by level and source.
type LogStats struct {
	Total    int            `json:"total"`
	ByLevel  map[string]int `json:"by_level"`
	BySource map[string]int `json:"by_source"`
}
