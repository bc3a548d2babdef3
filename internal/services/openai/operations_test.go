package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGenerateArticle(t *testing.T) {
	article := Article{Title: "A Title", Subtitle: "A subtitle", Body: "<p>Body</p>"}
	encoded, _ := json.Marshal(article)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "model-a" {
			t.Errorf("model = %q, want the generation model", req.Model)
		}
		if !strings.Contains(req.Messages[0].Content, "CURRENT SHOWS") {
			t.Error("extra context not appended to system prompt")
		}
		fmt.Fprint(w, completionResponse(string(encoded)))
	})

	got, err := client.GenerateArticle(context.Background(), "Write about opening night", "CURRENT SHOWS:\n- Gala")
	if err != nil {
		t.Fatalf("GenerateArticle() error = %v", err)
	}
	if got.Title != "A Title" || got.Body != "<p>Body</p>" {
		t.Errorf("article = %+v", got)
	}
}

func TestGenerateArticleRejectsIncompleteResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionResponse(`{"title":"only a title"}`))
	})
	if _, err := client.GenerateArticle(context.Background(), "topic", ""); err == nil {
		t.Fatal("expected error for missing fields")
	}
}

func TestPlanEditUsesEditModel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "model-b" {
			t.Errorf("model = %q, want the edit model", req.Model)
		}
		fmt.Fprint(w, completionResponse(`{"title":"NO CHANGE","subtitle":"NO CHANGE","body_changes":[{"find":"old","replace":"new"}]}`))
	})

	plan, err := client.PlanEdit(context.Background(), "T", "S", "old body", "replace old with new")
	if err != nil {
		t.Fatalf("PlanEdit() error = %v", err)
	}
	if len(plan.BodyChanges) != 1 || plan.BodyChanges[0].Find != "old" {
		t.Errorf("plan = %+v", plan)
	}
}

func TestStockQueryFallsBackToTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionResponse("not json at all"))
	})
	if got := client.StockQuery(context.Background(), "Opening Night Gala", ""); got != "Opening Night Gala" {
		t.Errorf("StockQuery fallback = %q", got)
	}
}

func TestStockQueryParsesResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "model-c" {
			t.Errorf("model = %q, want the utility model", req.Model)
		}
		fmt.Fprint(w, completionResponse(`{"q":"theatre stage spotlight"}`))
	})
	if got := client.StockQuery(context.Background(), "Title", "body"); got != "theatre stage spotlight" {
		t.Errorf("StockQuery = %q", got)
	}
}

func TestMetaDescriptionValidatesLength(t *testing.T) {
	meta := strings.Repeat("x", 140)
	responses := []string{
		completionResponse(`{"meta":"too short"}`),
		completionResponse(`{"meta":"` + meta + `"}`),
	}
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, responses[calls])
		calls++
	})

	if _, err := client.MetaDescription(context.Background(), "T", "<p>b</p>"); err == nil {
		t.Fatal("expected error for short meta")
	}
	got, err := client.MetaDescription(context.Background(), "T", "<p>b</p>")
	if err != nil {
		t.Fatalf("MetaDescription() error = %v", err)
	}
	if got != meta {
		t.Errorf("meta = %q", got)
	}
}

func TestRecommendBannerURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(req.Messages[1].Content, `"url":"/shows/gala"`) {
			t.Error("index json not embedded in prompt")
		}
		fmt.Fprint(w, completionResponse("```json\n{\"url\":\"/shows/gala\"}\n```"))
	})

	url, err := client.RecommendBannerURL(context.Background(), "T", "B", []byte(`[{"url":"/shows/gala"}]`))
	if err != nil {
		t.Fatalf("RecommendBannerURL() error = %v", err)
	}
	if url != "/shows/gala" {
		t.Errorf("url = %q", url)
	}
}

func TestChooseShowAndCategoryValidatesIDs(t *testing.T) {
	shows := []RefOption{{ID: "show-1", Name: "Gala", Slug: "gala"}}
	categories := []RefOption{{ID: "cat-1", Name: "News", Slug: "news"}, {ID: "cat-2", Name: "Reviews", Slug: "reviews"}}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionResponse(`{"showId":"invented","categoryId":"cat-2"}`))
	})
	choice, err := client.ChooseShowAndCategory(context.Background(), "T", "Outlet", "<p>b</p>", shows, categories)
	if err != nil {
		t.Fatalf("ChooseShowAndCategory() error = %v", err)
	}
	if choice.ShowID != "" {
		t.Errorf("invented show id kept: %q", choice.ShowID)
	}
	if choice.CategoryID != "cat-2" {
		t.Errorf("category = %q", choice.CategoryID)
	}
}

func TestChooseShowAndCategoryFallsBackOnModelFailure(t *testing.T) {
	categories := []RefOption{{ID: "cat-1", Name: "News"}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()
	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"},
		WithSleeper(func(time.Duration) {}))

	choice, err := client.ChooseShowAndCategory(context.Background(), "T", "O", "b", nil, categories)
	if err != nil {
		t.Fatalf("ChooseShowAndCategory() error = %v", err)
	}
	if choice.CategoryID != "cat-1" || choice.ShowID != "" {
		t.Errorf("fallback choice = %+v", choice)
	}
}
