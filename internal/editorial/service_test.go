package editorial

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marquee/internal/config"
	"marquee/internal/searchindex"
	"marquee/internal/services/exa"
	"marquee/internal/services/openai"
	"marquee/internal/services/unsplash"
	"marquee/internal/services/webflow"
)

var testClock = func() time.Time {
	return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
}

type chatCall struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
}

func completion(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}, "finish_reason": "stop"},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func newAIClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return openai.NewClient(openai.Config{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		Model:        "model-a",
		EditModel:    "model-b",
		UtilityModel: "model-c",
	}, openai.WithSleeper(func(time.Duration) {}), openai.WithRetryMaxAttempts(1))
}

type cmsRecorder struct {
	mux       *http.ServeMux
	server    *httptest.Server
	created   []map[string]any
	deleted   []string
	publishes [][]string
}

func newCMSRecorder(t *testing.T, collections map[string][]map[string]any) *cmsRecorder {
	t.Helper()
	rec := &cmsRecorder{mux: http.NewServeMux()}
	rec.mux.HandleFunc("/collections/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/collections/")
		parts := strings.Split(rest, "/")

		switch {
		case r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "items":
			items := collections[parts[0]]
			if r.URL.Query().Get("offset") != "0" {
				items = nil
			}
			json.NewEncoder(w).Encode(map[string]any{
				"items":      items,
				"pagination": map[string]any{"limit": 100, "offset": 0, "total": len(collections[parts[0]])},
			})
		case r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "publish":
			var body struct {
				ItemIDs []string `json:"itemIds"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			rec.publishes = append(rec.publishes, body.ItemIDs)
			w.WriteHeader(http.StatusAccepted)
		case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "items":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			rec.created = append(rec.created, body)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": "item-new", "fieldData": body["fieldData"]})
		case r.Method == http.MethodDelete && len(parts) == 3:
			rec.deleted = append(rec.deleted, parts[2])
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	rec.server = httptest.NewServer(rec.mux)
	t.Cleanup(rec.server.Close)
	return rec
}

func collectionShow(id, name, slug, closing string) map[string]any {
	return map[string]any{
		"id":        id,
		"fieldData": map[string]any{"name": name, "slug": slug, "closing": closing},
	}
}

func newTestService(t *testing.T, cms *cmsRecorder, ai *openai.Client, stock *unsplash.Client, press *exa.Client) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Webflow.BlogCollectionID = "blog-col"
	cfg.Webflow.PressCollectionID = "press-col"
	cfg.Webflow.ShowsCollectionID = "shows-col"
	cfg.Webflow.AuthorsCollectionID = "authors-col"
	cfg.Webflow.CategoriesCollectionID = "categories-col"
	cfg.Index.SiteBaseURL = "https://www.example.com"

	cmsClient, err := webflow.New("token", "site", cms.server.URL)
	if err != nil {
		t.Fatalf("webflow client: %v", err)
	}
	return New(&cfg, cmsClient, ai, stock, press, nil, nil, WithClock(testClock))
}

func TestGenerateIncludesCurrentShowsContext(t *testing.T) {
	cms := newCMSRecorder(t, map[string][]map[string]any{
		"shows-col": {
			collectionShow("s1", "Night Music", "night-music", "2026-06-01T00:00:00.000Z"),
			collectionShow("s2", "Closed Show", "closed-show", "2026-01-01T00:00:00.000Z"),
		},
	})
	var systemPrompt string
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		var call chatCall
		json.NewDecoder(r.Body).Decode(&call)
		systemPrompt = call.Messages[0].Content
		w.Write([]byte(completion(`{"title":"A Title","subtitle":"A subtitle","body":"<p>Body</p>"}`)))
	})

	svc := newTestService(t, cms, ai, nil, nil)
	result, err := svc.Generate(context.Background(), "spring season preview", "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Title != "A Title" || result.Body != "<p>Body</p>" {
		t.Errorf("result = %+v", result)
	}
	if result.FeaturedImage != nil {
		t.Errorf("expected no featured image without stock client, got %+v", result.FeaturedImage)
	}
	if !strings.Contains(systemPrompt, "Night Music (closes 2026-06-01T00:00:00.000Z) - slug: night-music") {
		t.Errorf("system prompt missing running show:\n%s", systemPrompt)
	}
	if strings.Contains(systemPrompt, "Closed Show") {
		t.Errorf("system prompt includes closed show:\n%s", systemPrompt)
	}
	if !strings.Contains(systemPrompt, "https://www.example.com/shows/{slug}") {
		t.Errorf("system prompt missing linking rule:\n%s", systemPrompt)
	}
}

func TestCreateDraftMapsFields(t *testing.T) {
	cms := newCMSRecorder(t, nil)
	meta := strings.Repeat("m", 130)
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{"meta":"` + meta + `"}`)))
	})

	svc := newTestService(t, cms, ai, nil, nil)
	draft, err := svc.CreateDraft(context.Background(), DraftRequest{
		Title:          "Broadway Nights!",
		Subtitle:       "An evening out",
		Body:           "<p>" + strings.Repeat("word ", 300) + "</p>",
		AuthorID:       "author-1",
		CategoryID:     "category-1",
		PreviousItemID: "item-old",
		BannerTitle:    "See This Show",
		BannerLink:     "https://www.example.com/shows/night-music",
		BannerImage:    "https://cdn.example.com/banner.jpg",
		BannerCategory: "shows",
	})
	if err != nil {
		t.Fatalf("CreateDraft() error = %v", err)
	}
	if draft.ItemID != "item-new" || draft.Published {
		t.Errorf("draft = %+v", draft)
	}
	if len(cms.deleted) != 1 || cms.deleted[0] != "item-old" {
		t.Errorf("deleted = %v", cms.deleted)
	}
	if len(cms.created) != 1 {
		t.Fatalf("created %d items", len(cms.created))
	}

	payload := cms.created[0]
	if payload["isDraft"] != true {
		t.Errorf("isDraft = %v", payload["isDraft"])
	}
	fields := payload["fieldData"].(map[string]any)
	if fields["name"] != "Broadway Nights!" || fields["slug"] != "broadway-nights" {
		t.Errorf("name/slug = %v / %v", fields["name"], fields["slug"])
	}
	if fields["subtitle-small-description"] != "An evening out" {
		t.Errorf("subtitle = %v", fields["subtitle-small-description"])
	}
	if fields["publish-date"] != "2026-03-15T00:00:00.000Z" {
		t.Errorf("publish-date = %v", fields["publish-date"])
	}
	if fields["reading-time-in-minutes"] != float64(2) {
		t.Errorf("reading time = %v", fields["reading-time-in-minutes"])
	}
	if fields["author"] != "author-1" || fields["category"] != "category-1" {
		t.Errorf("refs = %v / %v", fields["author"], fields["category"])
	}
	if fields["banner-category"] != "Shows" {
		t.Errorf("banner-category = %v", fields["banner-category"])
	}
	if fields["meta-description"] != meta {
		t.Errorf("meta-description = %v", fields["meta-description"])
	}
	if len(cms.publishes) != 0 {
		t.Errorf("unexpected publish calls: %v", cms.publishes)
	}
}

func TestCreateDraftPublishes(t *testing.T) {
	cms := newCMSRecorder(t, nil)
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{"meta":"` + strings.Repeat("m", 130) + `"}`)))
	})

	svc := newTestService(t, cms, ai, nil, nil)
	draft, err := svc.CreateDraft(context.Background(), DraftRequest{
		Title:   "Live Now",
		Body:    "<p>Body text</p>",
		Publish: true,
	})
	if err != nil {
		t.Fatalf("CreateDraft() error = %v", err)
	}
	if !draft.Published || draft.PublishWarning != "" {
		t.Errorf("draft = %+v", draft)
	}
	if len(cms.publishes) != 1 || cms.publishes[0][0] != "item-new" {
		t.Errorf("publishes = %v", cms.publishes)
	}
	if cms.created[0]["isDraft"] != false {
		t.Errorf("isDraft = %v", cms.created[0]["isDraft"])
	}
}

func TestCreateDraftRequiresTitleAndBody(t *testing.T) {
	cms := newCMSRecorder(t, nil)
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{}`)))
	})
	svc := newTestService(t, cms, ai, nil, nil)
	if _, err := svc.CreateDraft(context.Background(), DraftRequest{Title: "only title"}); err == nil {
		t.Fatal("expected error for missing body")
	}
}

func TestPublishDraft(t *testing.T) {
	cms := newCMSRecorder(t, nil)
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{}`)))
	})
	svc := newTestService(t, cms, ai, nil, nil)

	if err := svc.PublishDraft(context.Background(), "item-42"); err != nil {
		t.Fatalf("PublishDraft() error = %v", err)
	}
	if len(cms.publishes) != 1 || cms.publishes[0][0] != "item-42" {
		t.Errorf("publishes = %v", cms.publishes)
	}
	if err := svc.PublishDraft(context.Background(), "  "); err == nil {
		t.Fatal("expected error for missing item id")
	}
}

func TestEditAppliesPlan(t *testing.T) {
	cms := newCMSRecorder(t, nil)
	plan := `{"title":"NO CHANGE","subtitle":"Sharper subtitle","body_changes":[{"find":"old words","replace":"new words"}]}`
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(plan)))
	})

	svc := newTestService(t, cms, ai, nil, nil)
	result, err := svc.Edit(context.Background(), "Keep Title", "Old subtitle", "<p>some old words here</p>", "tighten it up")
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if result.Title != "Keep Title" || result.Subtitle != "Sharper subtitle" {
		t.Errorf("result = %+v", result)
	}
	if result.Body != "<p>some new words here</p>" || result.ChangesApplied != 1 {
		t.Errorf("body = %q applied = %d", result.Body, result.ChangesApplied)
	}
}

func TestGenerateBannerResolvesURL(t *testing.T) {
	cms := newCMSRecorder(t, nil)
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{"url":"https://www.example.com/shows/night-music"}`)))
	})
	svc := newTestService(t, cms, ai, nil, nil)

	records := []searchindex.Record{
		{ID: "s1", Title: "Night Music", URL: "https://www.example.com/shows/night-music", Category: "shows", Description: "A waltz."},
		{ID: "b1", Title: "Other Post", URL: "https://www.example.com/blog/other", Category: "blog"},
	}
	banner, err := svc.GenerateBanner(context.Background(), "My Post", "<p>About the waltz</p>", records)
	if err != nil {
		t.Fatalf("GenerateBanner() error = %v", err)
	}
	if banner.Title != "Night Music" || banner.Category != "shows" || banner.Description != "A waltz." {
		t.Errorf("banner = %+v", banner)
	}
}

func TestGenerateBannerRejectsUnknownURL(t *testing.T) {
	cms := newCMSRecorder(t, nil)
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{"url":"https://elsewhere.example.com/page"}`)))
	})
	svc := newTestService(t, cms, ai, nil, nil)

	records := []searchindex.Record{{ID: "b1", Title: "Post", URL: "https://www.example.com/blog/post", Category: "blog"}}
	if _, err := svc.GenerateBanner(context.Background(), "Title", "<p>Body</p>", records); err == nil {
		t.Fatal("expected error for fabricated URL")
	}
}

func TestSearchImagesFiltersTypography(t *testing.T) {
	cms := newCMSRecorder(t, nil)
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{"q":"broadway stage lights"}`)))
	})
	stockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "broadway stage lights" {
			t.Errorf("query = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"id": "p1", "alt_description": "neon sign on a wall", "urls": map[string]string{"regular": "https://img/p1", "thumb": "https://img/p1t"}, "user": map[string]any{"name": "A", "links": map[string]string{"html": "https://u/a"}}},
				{"id": "p2", "alt_description": "stage in warm light", "urls": map[string]string{"regular": "https://img/p2", "thumb": "https://img/p2t"}, "user": map[string]any{"name": "B", "links": map[string]string{"html": "https://u/b"}}},
			},
		})
	}))
	t.Cleanup(stockServer.Close)
	stock, err := unsplash.New("unsplash-key", stockServer.URL)
	if err != nil {
		t.Fatalf("unsplash client: %v", err)
	}

	svc := newTestService(t, cms, ai, stock, nil)
	result, err := svc.SearchImages(context.Background(), "My Article", "<p>Body</p>")
	if err != nil {
		t.Fatalf("SearchImages() error = %v", err)
	}
	if result.Query != "broadway stage lights" {
		t.Errorf("query = %q", result.Query)
	}
	if len(result.Images) != 1 || result.Images[0].ID != "p2" {
		t.Errorf("images = %+v", result.Images)
	}
}

func TestImportPressCreatesItem(t *testing.T) {
	cms := newCMSRecorder(t, map[string][]map[string]any{
		"shows-col": {
			collectionShow("s1", "Night Music", "night-music", "2026-06-01T00:00:00.000Z"),
		},
		"categories-col": {
			{"id": "c1", "fieldData": map[string]any{"name": "Review", "slug": "review"}},
			{"id": "c2", "fieldData": map[string]any{"name": "Feature", "slug": "feature"}},
		},
	})
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		var call chatCall
		json.NewDecoder(r.Body).Decode(&call)
		if call.ResponseFormat == nil {
			w.Write([]byte(completion("<p>The cleaned article body.</p>")))
			return
		}
		w.Write([]byte(completion(`{"showId":"s1","categoryId":"c1"}`)))
	})
	exaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{
				"url":           "https://www.playbill.com/article/night-music-review",
				"title":         "Night Music Dazzles",
				"author":        "A Critic",
				"publishedDate": "2026-03-01T00:00:00Z",
				"image":         "https://cdn.playbill.com/hero.jpg",
				"text":          "Raw scraped article text about the show.",
			}},
		})
	}))
	t.Cleanup(exaServer.Close)
	press, err := exa.New("exa-key", exaServer.URL)
	if err != nil {
		t.Fatalf("exa client: %v", err)
	}

	svc := newTestService(t, cms, ai, nil, press)
	article, err := svc.ImportPress(context.Background(), "https://www.playbill.com/article/night-music-review", true)
	if err != nil {
		t.Fatalf("ImportPress() error = %v", err)
	}
	if article.Title != "Night Music Dazzles" || article.Slug != "night-music-dazzles" {
		t.Errorf("article = %+v", article)
	}
	if article.Outlet != "Playbill.Com" {
		t.Errorf("outlet = %q", article.Outlet)
	}
	if article.ShowID != "s1" || article.CategoryID != "c1" {
		t.Errorf("refs = %q / %q", article.ShowID, article.CategoryID)
	}
	if !article.Published {
		t.Error("expected article published")
	}

	if len(cms.created) != 1 {
		t.Fatalf("created %d items", len(cms.created))
	}
	fields := cms.created[0]["fieldData"].(map[string]any)
	if fields["body-text"] != "<p>The cleaned article body.</p>" {
		t.Errorf("body-text = %v", fields["body-text"])
	}
	if fields["read-more-url"] != "https://www.playbill.com/article/night-music-review" {
		t.Errorf("read-more-url = %v", fields["read-more-url"])
	}
	if fields["show"] != "s1" || fields["category"] != "c1" {
		t.Errorf("refs = %v / %v", fields["show"], fields["category"])
	}
}

func TestAuthorsAndCategories(t *testing.T) {
	cms := newCMSRecorder(t, map[string][]map[string]any{
		"authors-col": {
			{"id": "a1", "fieldData": map[string]any{"name": "Jamie Author"}},
			{"id": "a2", "fieldData": map[string]any{}},
		},
		"categories-col": {
			{"id": "c1", "fieldData": map[string]any{"name": "Review"}},
		},
	})
	ai := newAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{}`)))
	})
	svc := newTestService(t, cms, ai, nil, nil)

	authors, err := svc.Authors(context.Background())
	if err != nil {
		t.Fatalf("Authors() error = %v", err)
	}
	if len(authors) != 2 || authors[0].Name != "Jamie Author" || authors[1].Name != "Unknown Author" {
		t.Errorf("authors = %+v", authors)
	}

	categories, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Review" {
		t.Errorf("categories = %+v", categories)
	}
}

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"shows":   "Shows",
		"VIP":     "Vip",
		"  news ": "News",
		"":        "",
	}
	for input, want := range cases {
		if got := capitalize(input); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", input, got, want)
		}
	}
}
