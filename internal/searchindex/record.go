package searchindex

import "strings"

// Categories a Record may carry. Home and blog entries double as service/page
// candidates for the recommender.
const (
	CategoryArtists = "artists"
	CategoryShows   = "shows"
	CategoryPress   = "press"
	CategoryBlog    = "blog"
	CategoryHome    = "home"
)

// CrawledPageID is the sentinel id for pages discovered through the sitemap
// crawl, which have no native CMS item id.
const CrawledPageID = "-1"

// Record is one entry in the search index.
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// IsServiceCandidate reports whether the record competes for service
// recommendations.
func (r Record) IsServiceCandidate() bool {
	switch strings.ToLower(r.Category) {
	case CategoryHome, CategoryBlog:
		return true
	default:
		return false
	}
}
