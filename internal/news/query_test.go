package news

import (
	"testing"
	"time"
)

func queryFixture() []Article {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Article{
		{
			ID:          "a",
			Title:       "Serverless Patterns",
			Slug:        "serverless-patterns",
			Summary:     "Edge computing keeps growing",
			Category:    "Cloud",
			Tags:        []string{"Cloud", "Edge"},
			PublishedAt: base.Add(-48 * time.Hour),
			CreatedAt:   base.Add(-48 * time.Hour),
		},
		{
			ID:          "b",
			Title:       "New LLM Released",
			Slug:        "new-llm-released",
			Summary:     "A larger model with better inference",
			Category:    "AI",
			Tags:        []string{"AI"},
			PublishedAt: base,
			CreatedAt:   base,
		},
		{
			ID:          "c",
			Title:       "Ransomware Wave Hits Banks",
			Slug:        "ransomware-wave-hits-banks",
			Summary:     "Attack campaigns target finance",
			Category:    "Security",
			Tags:        []string{"security", "Finance"},
			PublishedAt: base.Add(-24 * time.Hour),
			CreatedAt:   base.Add(-24 * time.Hour),
		},
	}
}

func TestSortByPublishedAt_NewestFirst(t *testing.T) {
	t.Parallel()

	items := queryFixture()
	SortByPublishedAt(items)
	if items[0].ID != "b" || items[1].ID != "c" || items[2].ID != "a" {
		t.Fatalf("unexpected order: %s %s %s", items[0].ID, items[1].ID, items[2].ID)
	}
}

func TestSortByPublishedAt_TieBreak(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := []Article{
		{ID: "z", PublishedAt: ts, CreatedAt: ts},
		{ID: "a", PublishedAt: ts, CreatedAt: ts},
		{ID: "m", PublishedAt: ts, CreatedAt: ts.Add(time.Hour)},
	}
	SortByPublishedAt(items)
	if items[0].ID != "m" {
		t.Fatalf("expected newer createdAt first, got %s", items[0].ID)
	}
	if items[1].ID != "a" || items[2].ID != "z" {
		t.Fatalf("expected id ascending on full tie, got %s %s", items[1].ID, items[2].ID)
	}
}

func TestFilterArticles_Category(t *testing.T) {
	t.Parallel()

	got := FilterArticles(queryFixture(), Filter{Category: "cloud"})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected category filter result: %+v", got)
	}
}

func TestFilterArticles_TagCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := FilterArticles(queryFixture(), Filter{Tag: "SECURITY"})
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("unexpected tag filter result: %+v", got)
	}
}

func TestFilterArticles_QueryOverTitleAndSummary(t *testing.T) {
	t.Parallel()

	byTitle := FilterArticles(queryFixture(), Filter{Query: "llm"})
	if len(byTitle) != 1 || byTitle[0].ID != "b" {
		t.Fatalf("unexpected title query result: %+v", byTitle)
	}

	bySummary := FilterArticles(queryFixture(), Filter{Query: "finance"})
	if len(bySummary) != 1 || bySummary[0].ID != "c" {
		t.Fatalf("unexpected summary query result: %+v", bySummary)
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := queryFixture()
	page := Paginate(items, 2, 2)
	if len(page) != 1 || page[0].ID != items[2].ID {
		t.Fatalf("unexpected second page: %+v", page)
	}
	if got := Paginate(items, 9, 2); len(got) != 0 {
		t.Fatalf("expected empty page past the end, got %+v", got)
	}
}

func TestCollectMeta(t *testing.T) {
	t.Parallel()

	meta := CollectMeta(queryFixture())
	if meta.Count != 3 {
		t.Fatalf("unexpected count: %d", meta.Count)
	}
	if len(meta.Categories) != 3 {
		t.Fatalf("unexpected categories: %v", meta.Categories)
	}
	if len(meta.Tags) != 5 {
		t.Fatalf("unexpected tags: %v", meta.Tags)
	}
}
