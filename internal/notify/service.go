// Package notify delivers timer events to an external notification
// sink. The default implementation publishes to an ntfy topic and
// degrades to a no-op when no endpoint is configured; senders treat
// every failure as non-fatal.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studyhub/backend/internal/model"
)

const userAgent = "StudyHub/0.1.0"

// Service is the notification surface used by the study service.
type Service interface {
	NotifyModeComplete(ctx context.Context, mode string) error
	NotifyTest(ctx context.Context) error
}

// NewService builds an ntfy-backed notifier, or a noop one when the
// endpoint is empty.
func NewService(endpoint string, timeout time.Duration) Service {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return noopService{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyModeComplete(ctx context.Context, mode string) error {
	var data payload
	switch mode {
	case model.ModeFocus:
		data = payload{
			title:    "StudyHub - Focus Complete",
			message:  "Focus session finished. Time for a break.",
			tags:     []string{"studyhub", "focus", "complete"},
			priority: "high",
		}
	case model.ModeShortBreak, model.ModeLongBreak:
		data = payload{
			title:   "StudyHub - Break Over",
			message: "Break finished. Back to focus.",
			tags:    []string{"studyhub", "break", "complete"},
		}
	default:
		data = payload{
			title:   "StudyHub - Timer",
			message: fmt.Sprintf("Interval complete: %s", mode),
			tags:    []string{"studyhub", "timer"},
		}
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTest(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "StudyHub - Test",
		message: "Notifications are working.",
		tags:    []string{"studyhub", "test"},
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyModeComplete(context.Context, string) error { return nil }

func (noopService) NotifyTest(context.Context) error { return nil }
