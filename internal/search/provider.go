// Package search is the boundary to external media sources. Sources
// are Atom/RSS feeds (YouTube channel and playlist feeds, podcast
// feeds) fetched over an SSRF-guarded client, parsed with gofeed, and
// normalized into MediaItem records before anything reaches the core.
// Any failure is reported as an empty result plus an error for
// inline display, never as a fatal condition.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"studyhub/backend/internal/metrics"
	"studyhub/backend/internal/model"
)

const (
	defaultLimit    = 25
	maxLimit        = 50
	maxResponseSize = 5 << 20
)

// Provider serves media searches against a caller-supplied feed URL.
type Provider interface {
	Search(ctx context.Context, feedURL, query string, limit int) ([]model.MediaItem, error)
}

// FeedProvider fetches and filters syndication feeds. Outbound
// fetches are rate limited globally; feed URLs come from users, so
// the HTTP client refuses private, loopback, and link-local targets.
type FeedProvider struct {
	client    *http.Client
	parser    *gofeed.Parser
	limiter   *rate.Limiter
	sanitizer *bluemonday.Policy
	recorder  metrics.Recorder
}

func NewFeedProvider(timeout time.Duration, fetchesPerMin int, recorder metrics.Recorder) *FeedProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if fetchesPerMin <= 0 {
		fetchesPerMin = 30
	}
	if recorder == nil {
		recorder = metrics.Noop{}
	}

	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return &FeedProvider{
		client:    safeurl.Client(cfg).Client,
		parser:    gofeed.NewParser(),
		limiter:   rate.NewLimiter(rate.Limit(float64(fetchesPerMin)/60.0), fetchesPerMin),
		sanitizer: bluemonday.StrictPolicy(),
		recorder:  recorder,
	}
}

// Search fetches the feed and returns entries whose title or channel
// matches the query (case-insensitive substring; empty query matches
// everything).
func (p *FeedProvider) Search(ctx context.Context, feedURL, query string, limit int) ([]model.MediaItem, error) {
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	if err := validateFeedURL(feedURL); err != nil {
		p.recorder.RecordSearchFetch("rejected")
		return []model.MediaItem{}, err
	}

	if !p.limiter.Allow() {
		p.recorder.RecordSearchFetch("throttled")
		return []model.MediaItem{}, fmt.Errorf("search is temporarily rate limited")
	}

	feed, err := p.fetch(ctx, feedURL)
	if err != nil {
		p.recorder.RecordSearchFetch("error")
		return []model.MediaItem{}, err
	}
	p.recorder.RecordSearchFetch("ok")

	needle := strings.ToLower(strings.TrimSpace(query))
	channel := p.sanitizer.Sanitize(feed.Title)

	items := make([]model.MediaItem, 0, limit)
	for _, entry := range feed.Items {
		item := p.normalize(entry, channel, feed)
		if !item.Valid() {
			continue
		}
		if needle != "" && !matches(item, needle) {
			continue
		}
		items = append(items, item)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (p *FeedProvider) fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	feed, err := p.parser.Parse(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

func (p *FeedProvider) normalize(entry *gofeed.Item, channel string, feed *gofeed.Feed) model.MediaItem {
	id := entry.GUID
	if id == "" {
		id = entry.Link
	}

	thumbnail := ""
	if entry.Image != nil {
		thumbnail = entry.Image.URL
	} else if feed.Image != nil {
		thumbnail = feed.Image.URL
	}

	return model.MediaItem{
		ID:           id,
		Title:        p.sanitizer.Sanitize(entry.Title),
		Channel:      channel,
		ThumbnailURL: thumbnail,
	}.Normalize()
}

func matches(item model.MediaItem, needle string) bool {
	return strings.Contains(strings.ToLower(item.Title), needle) ||
		strings.Contains(strings.ToLower(item.Channel), needle)
}

// validateFeedURL is the static pre-check; the dialer-level guard in
// the safeurl client catches what DNS resolution would reveal.
func validateFeedURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("feed url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid feed url: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("disallowed scheme: %s", scheme)
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("feed url has no host")
	}
	return nil
}
