package notify_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyhub/backend/internal/model"
	"studyhub/backend/internal/notify"
)

func TestNewServiceReturnsNoopWhenEndpointEmpty(t *testing.T) {
	svc := notify.NewService("  ", time.Second)
	if err := svc.NotifyModeComplete(context.Background(), model.ModeFocus); err != nil {
		t.Fatalf("noop notifier should never fail, got %v", err)
	}
}

func TestNtfyServicePostsPayload(t *testing.T) {
	var gotTitle, gotTags, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotTags = r.Header.Get("Tags")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := notify.NewService(server.URL, time.Second)
	if err := svc.NotifyModeComplete(context.Background(), model.ModeFocus); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if gotTitle != "StudyHub - Focus Complete" {
		t.Fatalf("unexpected title: %q", gotTitle)
	}
	if gotTags == "" {
		t.Fatal("expected tags header")
	}
	if gotBody == "" {
		t.Fatal("expected message body")
	}
}

func TestNtfyServiceReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	svc := notify.NewService(server.URL, time.Second)
	if err := svc.NotifyTest(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
