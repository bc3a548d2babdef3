package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marquee/internal/config"
)

const userAgent = "Marquee/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyDraftCreated(ctx context.Context, title, itemID string) error
	NotifyArticlePublished(ctx context.Context, title, itemID string) error
	NotifyIndexRebuilt(ctx context.Context, records int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		publishEvent: cfg.Notifications.Publish,
		indexEvent:   cfg.Notifications.Index,
		errorEvent:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	publishEvent bool
	indexEvent   bool
	errorEvent   bool
}

func (n *ntfyService) NotifyDraftCreated(ctx context.Context, title, itemID string) error {
	if !n.publishEvent {
		return nil
	}
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Marquee - Draft Created",
		message: fmt.Sprintf("Draft created: %s (item %s)", title, itemID),
		tags:    []string{"marquee", "draft", "created"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyArticlePublished(ctx context.Context, title, itemID string) error {
	if !n.publishEvent {
		return nil
	}
	title = strings.TrimSpace(title)
	data := payload{
		title:    "Marquee - Published",
		message:  fmt.Sprintf("Article live: %s (item %s)", title, itemID),
		tags:     []string{"marquee", "publish", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyIndexRebuilt(ctx context.Context, records int, duration time.Duration) error {
	if !n.indexEvent {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	data := payload{
		title:   "Marquee - Index Rebuilt",
		message: fmt.Sprintf("Search index rebuilt: %d records in %s", records, duration),
		tags:    []string{"marquee", "index", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorEvent {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Marquee - Error",
		message:  builder.String(),
		tags:     []string{"marquee", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Marquee - Test",
		message:  "Notification system test",
		tags:     []string{"marquee", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
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
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyDraftCreated(context.Context, string, string) error     { return nil }
func (noopService) NotifyArticlePublished(context.Context, string, string) error { return nil }
func (noopService) NotifyIndexRebuilt(context.Context, int, time.Duration) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error             { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }
