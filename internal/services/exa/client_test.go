package exa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchAndContents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "key-1" {
			t.Errorf("x-api-key = %q", got)
		}
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["query"] != "broadway openings" {
			t.Errorf("query = %v", payload["query"])
		}
		fmt.Fprint(w, `{"results":[
			{"url":"https://news.example.com/a","title":"A","text":"body text","publishedDate":"2026-08-01"},
			{"url":"https://news.example.com/b","title":"B","text":"more text"}
		]}`)
	}))
	defer server.Close()

	client, err := New("key-1", server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	results, err := client.SearchAndContents(context.Background(), "broadway openings", 5)
	if err != nil {
		t.Fatalf("SearchAndContents() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].PublishedDate != "2026-08-01" {
		t.Errorf("published date = %q", results[0].PublishedDate)
	}
}

func TestSearchTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", maxResultText+500)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results":[{"url":"u","title":"t","text":"%s"}]}`, long)
	}))
	defer server.Close()

	client, _ := New("k", server.URL)
	results, err := client.SearchAndContents(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("SearchAndContents() error = %v", err)
	}
	if len(results[0].Text) != maxResultText+3 {
		t.Errorf("text length = %d, want capped at %d + ellipsis", len(results[0].Text), maxResultText)
	}
	if !strings.HasSuffix(results[0].Text, "...") {
		t.Error("truncated text missing ellipsis")
	}
}

func TestGetContents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contents" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var payload contentsRequest
		json.NewDecoder(r.Body).Decode(&payload)
		if len(payload.URLs) != 1 || payload.URLs[0] != "https://press.example.com/story" {
			t.Errorf("urls = %v", payload.URLs)
		}
		fmt.Fprint(w, `{"results":[{"url":"https://press.example.com/story","title":"Story","author":"Jo","image":"https://img/x.jpg","text":"article"}]}`)
	}))
	defer server.Close()

	client, _ := New("k", server.URL)
	result, err := client.GetContents(context.Background(), "https://press.example.com/story")
	if err != nil {
		t.Fatalf("GetContents() error = %v", err)
	}
	if result.Title != "Story" || result.Author != "Jo" {
		t.Errorf("result = %+v", result)
	}
}

func TestGetContentsEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	client, _ := New("k", server.URL)
	if _, err := client.GetContents(context.Background(), "https://nowhere.example.com"); err == nil {
		t.Fatal("expected error for empty results")
	}
}
