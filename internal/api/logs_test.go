package api_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/nikbrunner/skim/internal/api"
)

func TestClient_ListLogsEncodesFilters(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{
			"items": [
				{"level": "error", "message": "boom", "source": "client"},
				{"level": "info", "message": "ok", "source": "client"}
			],
			"total": 2,
			"total_pages": 1
		}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	list, err := client.ListLogs(api.LogListParams{
		Page:    2,
		PerPage: 50,
		Level:   "error",
		Source:  "client",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/logs/" {
		t.Errorf("expected /logs/, got %q", gotPath)
	}
	if gotQuery.Get("page") != "2" || gotQuery.Get("per_page") != "50" {
		t.Errorf("unexpected paging params: %v", gotQuery)
	}
	if gotQuery.Get("level") != "error" || gotQuery.Get("source") != "client" {
		t.Errorf("unexpected filter params: %v", gotQuery)
	}

	if list.Total != 2 || len(list.Items) != 2 {
		t.Fatalf("unexpected list: total=%d items=%d", list.Total, len(list.Items))
	}
	if list.Items[0].Message != "boom" {
		t.Errorf("unexpected first item: %+v", list.Items[0])
	}
}

func TestClient_ListLogsOmitsEmptyFilters(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"items": [], "total": 0, "total_pages": 1}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	if _, err := client.ListLogs(api.LogListParams{Page: 1, PerPage: 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := gotQuery["level"]; ok {
		t.Error("level should be omitted when unset")
	}
	if _, ok := gotQuery["source"]; ok {
		t.Error("source should be omitted when unset")
	}
}
