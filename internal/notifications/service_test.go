package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marquee/internal/config"
	"marquee/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyArticlePublished(context.Background(), "Example", "item-1"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func captureServer(t *testing.T, sink *[]captured) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*sink = append(*sink, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func enabledConfig(topic string) config.Config {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = topic
	cfg.Notifications.Publish = true
	cfg.Notifications.Index = true
	cfg.Notifications.Errors = true
	return cfg
}

func TestNtfyServiceFormatsEvents(t *testing.T) {
	var sink []captured
	server := captureServer(t, &sink)
	cfg := enabledConfig(server.URL)
	svc := notifications.NewService(&cfg)
	ctx := context.Background()

	if err := svc.NotifyArticlePublished(ctx, "Opening Night", "item-7"); err != nil {
		t.Fatalf("NotifyArticlePublished() error = %v", err)
	}
	if err := svc.NotifyIndexRebuilt(ctx, 42, 3*time.Second); err != nil {
		t.Fatalf("NotifyIndexRebuilt() error = %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "index build"); err != nil {
		t.Fatalf("NotifyError() error = %v", err)
	}

	if len(sink) != 3 {
		t.Fatalf("got %d notifications, want 3", len(sink))
	}
	if sink[0].title != "Marquee - Published" || sink[0].priority != "high" {
		t.Errorf("publish notification = %+v", sink[0])
	}
	if sink[1].body != "Search index rebuilt: 42 records in 3s" {
		t.Errorf("index message = %q", sink[1].body)
	}
	if sink[2].body != "Error with index build: boom" {
		t.Errorf("error message = %q", sink[2].body)
	}
}

func TestNtfyServiceHonorsEventToggles(t *testing.T) {
	var sink []captured
	server := captureServer(t, &sink)
	cfg := enabledConfig(server.URL)
	cfg.Notifications.Index = false
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyIndexRebuilt(context.Background(), 10, time.Second); err != nil {
		t.Fatalf("NotifyIndexRebuilt() error = %v", err)
	}
	if len(sink) != 0 {
		t.Errorf("disabled event still sent: %+v", sink)
	}
}

func TestNtfyServiceReportsHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic not found", http.StatusNotFound)
	}))
	defer server.Close()
	cfg := enabledConfig(server.URL)
	svc := notifications.NewService(&cfg)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
