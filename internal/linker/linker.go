package linker

import (
	"sort"
	"strings"

	"marquee/internal/searchindex"
	"marquee/internal/textnorm"
)

// Link is one detected artist or show reference.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
}

// ServiceLink is one recommended service page. Category is always the literal
// "service" regardless of the source record's category.
type ServiceLink struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Image    string `json:"image,omitempty"`
	Category string `json:"category"`
}

// Result is the full matcher output for one request.
type Result struct {
	Artists           []Link        `json:"artists"`
	Shows             []Link        `json:"shows"`
	Services          []ServiceLink `json:"services"`
	MatchedCategories []string      `json:"matched_categories"`
}

const serviceCategory = "service"

const maxServiceResults = 8

// Analyze matches the combined title and body against the supplied index
// records: artist/show mentions by normalized whole-word containment, service
// categories by keyword presence, and ranked service page recommendations for
// the categories that fired. It is a pure function of its inputs and never
// fails; absent fields are treated as empty strings.
func Analyze(title, body string, records []searchindex.Record) Result {
	text := title + "\n" + body
	normText := textnorm.Normalize(text)
	paddedText := " " + normText + " "

	artists := newEntitySet()
	shows := newEntitySet()
	var serviceCandidates []searchindex.Record
	for _, record := range records {
		switch strings.ToLower(record.Category) {
		case searchindex.CategoryArtists:
			artists.add(record)
		case searchindex.CategoryShows:
			shows.add(record)
		default:
			if record.IsServiceCandidate() {
				serviceCandidates = append(serviceCandidates, record)
			}
		}
	}

	matched := classify(normText)
	return Result{
		Artists:           artists.detect(paddedText),
		Shows:             shows.detect(paddedText),
		Services:          recommend(matched, serviceCandidates),
		MatchedCategories: matched,
	}
}

// entitySet groups records by normalized title, preserving the order titles
// were first seen. Titles are not guaranteed unique across records.
type entitySet struct {
	order []string
	items map[string][]searchindex.Record
}

func newEntitySet() *entitySet {
	return &entitySet{items: make(map[string][]searchindex.Record)}
}

func (e *entitySet) add(record searchindex.Record) {
	key := textnorm.Normalize(record.Title)
	if key == "" {
		return
	}
	if _, ok := e.items[key]; !ok {
		e.order = append(e.order, key)
	}
	e.items[key] = append(e.items[key], record)
}

// detect emits every record whose normalized title appears whole-word in the
// padded text, ordered by where each title first appears in the text and
// deduplicated by URL with first occurrence winning.
func (e *entitySet) detect(paddedText string) []Link {
	type hit struct {
		key string
		pos int
	}
	var hits []hit
	for _, key := range e.order {
		pos := strings.Index(paddedText, " "+key+" ")
		if pos < 0 {
			continue
		}
		hits = append(hits, hit{key: key, pos: pos})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].pos < hits[j].pos
	})

	links := []Link{}
	seen := make(map[string]bool)
	for _, h := range hits {
		for _, record := range e.items[h.key] {
			if record.URL == "" || seen[record.URL] {
				continue
			}
			seen[record.URL] = true
			links = append(links, Link{Title: record.Title, URL: record.URL, Image: record.Image})
		}
	}
	return links
}

// classify returns the labels whose keyword lists hit the normalized text, in
// table order. Keyword hits are plain substring containment.
func classify(normText string) []string {
	labels := []string{}
	for _, group := range keywordGroups {
		for _, keyword := range group.Keywords {
			probe := textnorm.Normalize(keyword)
			if probe != "" && strings.Contains(normText, probe) {
				labels = append(labels, group.Label)
				break
			}
		}
	}
	return labels
}

// recommend scores service candidates by keyword hits. Each active keyword
// contributes at most +3 for a title hit, +2 for a description hit, and +1
// for a URL hit; repeated occurrences within a field do not re-score.
func recommend(labels []string, candidates []searchindex.Record) []ServiceLink {
	if len(labels) == 0 {
		return []ServiceLink{}
	}
	keywords := keywordsForLabels(labels)

	type scored struct {
		record searchindex.Record
		score  int
	}
	var ranked []scored
	for _, candidate := range candidates {
		score := 0
		for _, keyword := range keywords {
			if textnorm.Contains(candidate.Title, keyword) {
				score += 3
			}
			if textnorm.Contains(candidate.Description, keyword) {
				score += 2
			}
			if textnorm.Contains(candidate.URL, keyword) {
				score += 1
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{record: candidate, score: score})
		}
	}

	// Stable sort keeps the original relative order for equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > maxServiceResults {
		ranked = ranked[:maxServiceResults]
	}
	services := []ServiceLink{}
	for _, entry := range ranked {
		services = append(services, ServiceLink{
			Title:    entry.record.Title,
			URL:      entry.record.URL,
			Image:    entry.record.Image,
			Category: serviceCategory,
		})
	}
	return services
}
