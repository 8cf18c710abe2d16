package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Focus &amp; Flow</title>
    <item>
      <guid>vid-1</guid>
      <title>Lofi Beats for Deep Work</title>
      <link>https://example.com/watch?v=1</link>
    </item>
    <item>
      <guid>vid-2</guid>
      <title>Rainy Cafe &lt;b&gt;Ambience&lt;/b&gt;</title>
      <link>https://example.com/watch?v=2</link>
    </item>
    <item>
      <guid>vid-3</guid>
      <title>Classical Piano Mix</title>
      <link>https://example.com/watch?v=3</link>
    </item>
  </channel>
</rss>`

// The production client refuses loopback targets, so tests swap in a
// plain client to reach the local fixture server.
func newTestProvider(serverClient *http.Client) *FeedProvider {
	p := NewFeedProvider(5*time.Second, 60, nil)
	p.client = serverClient
	return p
}

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchReturnsAllEntriesForEmptyQuery(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, testFeed)
	p := newTestProvider(srv.Client())

	items, err := p.Search(context.Background(), srv.URL, "", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != "vid-1" || items[0].Title != "Lofi Beats for Deep Work" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[0].Channel != "Focus & Flow" {
		t.Fatalf("expected feed title as channel, got %q", items[0].Channel)
	}
}

func TestSearchFiltersByQuery(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, testFeed)
	p := newTestProvider(srv.Client())

	items, err := p.Search(context.Background(), srv.URL, "PIANO", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 1 || items[0].ID != "vid-3" {
		t.Fatalf("expected only the piano entry, got %+v", items)
	}
}

func TestSearchStripsMarkupFromTitles(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, testFeed)
	p := newTestProvider(srv.Client())

	items, err := p.Search(context.Background(), srv.URL, "cafe", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Title != "Rainy Cafe Ambience" {
		t.Fatalf("expected sanitized title, got %q", items[0].Title)
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, testFeed)
	p := newTestProvider(srv.Client())

	items, err := p.Search(context.Background(), srv.URL, "", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestSearchUpstreamErrorYieldsEmptyResult(t *testing.T) {
	srv := newFeedServer(t, http.StatusBadGateway, "upstream broke")
	p := newTestProvider(srv.Client())

	items, err := p.Search(context.Background(), srv.URL, "", 0)
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", items)
	}
}

func TestSearchRejectsBadURLs(t *testing.T) {
	p := newTestProvider(http.DefaultClient)

	for _, u := range []string{"", "ftp://example.com/feed", "http://"} {
		if _, err := p.Search(context.Background(), u, "", 0); err == nil {
			t.Fatalf("expected error for url %q", u)
		}
	}
}

func TestSearchThrottlesWhenBudgetExhausted(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, testFeed)
	p := newTestProvider(srv.Client())
	p.limiter = rate.NewLimiter(rate.Limit(0.001), 1)

	if _, err := p.Search(context.Background(), srv.URL, "", 0); err != nil {
		t.Fatalf("first search should pass: %v", err)
	}
	if _, err := p.Search(context.Background(), srv.URL, "", 0); err == nil {
		t.Fatal("second search should be throttled")
	}
}
