package telemetry_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nikbrunner/skim/internal/api"
	"github.com/nikbrunner/skim/internal/logger"
	"github.com/nikbrunner/skim/internal/telemetry"
)

type fakeUser string

func (f fakeUser) UserID() string { return string(f) }

func TestSink_DeliversEventForIdentifiedUser(t *testing.T) {
	received := make(chan api.LogEntry, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var entry api.LogEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			t.Errorf("decode: %v", err)
		}
		received <- entry
	}))
	defer srv.Close()

	sink := telemetry.New(api.NewClient(srv.URL), logger.Nop(), fakeUser("u1"), "1.0.0", true)
	sink.Info("bookmark opened", map[string]any{"view": "detail"})

	select {
	case entry := <-received:
		if entry.Level != "INFO" || entry.Source != "client" {
			t.Errorf("unexpected entry %+v", entry)
		}
		if entry.UserID != "u1" {
			t.Errorf("expected user attribution, got %q", entry.UserID)
		}
		if entry.Metadata["run_id"] != sink.RunID() {
			t.Error("expected run id in metadata")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestSink_AnonymousEventsStayLocal(t *testing.T) {
	calls := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls <- struct{}{}
	}))
	defer srv.Close()

	sink := telemetry.New(api.NewClient(srv.URL), logger.Nop(), fakeUser(""), "1.0.0", true)
	sink.Info("public view", nil)

	select {
	case <-calls:
		t.Fatal("anonymous event must not reach the server")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSink_DeliveryFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := telemetry.New(api.NewClient(srv.URL), logger.Nop(), fakeUser("u1"), "1.0.0", true)

	// Must not panic or block; there is nothing to observe beyond that.
	sink.Error("poll failed", nil)
	time.Sleep(50 * time.Millisecond)
}
