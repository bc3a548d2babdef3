package editorial

import (
	"strings"
	"testing"
)

func TestOutletFromURL(t *testing.T) {
	cases := map[string]string{
		"https://www.playbill.com/article/review": "Playbill.Com",
		"https://broadwaynews.com/story":          "Broadwaynews.Com",
		"not a url":                               "",
	}
	for input, want := range cases {
		if got := outletFromURL(input); got != want {
			t.Errorf("outletFromURL(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizePublishDate(t *testing.T) {
	if got := normalizePublishDate("2026-03-01"); got != "2026-03-01T00:00:00Z" {
		t.Errorf("date-only = %q", got)
	}
	if got := normalizePublishDate("2026-03-01T12:30:00Z"); got != "2026-03-01T12:30:00Z" {
		t.Errorf("rfc3339 = %q", got)
	}
	if got := normalizePublishDate("March 1, 2026"); got != "March 1, 2026" {
		t.Errorf("unparseable should pass through, got %q", got)
	}
	if got := normalizePublishDate(""); got != "" {
		t.Errorf("empty = %q", got)
	}
}

func TestFallbackArticleHTML(t *testing.T) {
	raw := strings.Join([]string{
		"Menu",
		"https://example.com/nav",
		"This is a full sentence long enough to keep in the article body.",
		"- bullet point to drop",
		"Another substantial paragraph that should survive the formatting pass.",
	}, "\n")

	got := fallbackArticleHTML(raw)
	if strings.Count(got, "<p>") != 2 {
		t.Errorf("expected 2 paragraphs, got %q", got)
	}
	if strings.Contains(got, "Menu") || strings.Contains(got, "https://") {
		t.Errorf("kept noise: %q", got)
	}
}
