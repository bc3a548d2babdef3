package content

import (
	"math"
	"regexp"
	"strings"
)

const (
	slugMaxLength = 256

	// readingWordsPerMinute matches the site's advertised reading speed.
	readingWordsPerMinute = 230
)

var (
	slugPattern = regexp.MustCompile(`[^a-z0-9]+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
	wordPattern = regexp.MustCompile(`\w+`)
)

// Slugify converts a title to a CMS-compatible slug: lowercased, runs of
// non-alphanumerics collapsed to single hyphens, trimmed, capped at 256
// characters.
func Slugify(text string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(text), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > slugMaxLength {
		slug = slug[:slugMaxLength]
	}
	return slug
}

// StripTags replaces every HTML tag with a space, leaving the text content.
func StripTags(html string) string {
	if html == "" {
		return " "
	}
	return tagPattern.ReplaceAllString(html, " ")
}

// ReadingTimeMinutes estimates reading time for HTML content at 230 words per
// minute, never less than one minute.
func ReadingTimeMinutes(html string) int {
	words := wordPattern.FindAllString(StripTags(html), -1)
	if len(words) == 0 {
		return 1
	}
	minutes := int(math.Ceil(float64(len(words)) / readingWordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// WordCount counts word tokens in plain text.
func WordCount(text string) int {
	return len(wordPattern.FindAllString(text, -1))
}

// EstimateTokens approximates the LLM token cost of a prompt. Without a real
// tokenizer the usual four-characters-per-token heuristic is close enough for
// budget logging.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}

// TruncateRunes caps text at limit runes without splitting a multibyte
// character.
func TruncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
