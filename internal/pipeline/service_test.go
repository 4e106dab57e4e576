package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/newsdesk/internal/globaltime"
	"horse.fit/newsdesk/internal/news"
	"horse.fit/newsdesk/internal/store"
)

func newTestService() (*Service, *store.Memory) {
	mem := store.NewMemory()
	svc := NewService(mem, zerolog.Nop(), Options{})
	return svc, mem
}

func TestCreateOrUpdate_NewArticle(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	globaltime.SetMockTime(now)
	defer globaltime.ResetTime()

	svc, mem := newTestService()
	ctx := context.Background()

	record, err := svc.CreateOrUpdate(ctx, Payload{
		Title:   "The Future of AI in 2025",
		Summary: "Artificial Intelligence is evolving rapidly.",
		Source:  "TechCrunch",
		Tags:    []string{"AI", "Trends"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if record.ID == "" {
		t.Fatal("expected a fresh id")
	}
	if record.Slug != "the-future-of-ai-in-2025" {
		t.Fatalf("unexpected slug: %q", record.Slug)
	}
	if !record.CreatedAt.Equal(now) || !record.UpdatedAt.Equal(now) {
		t.Fatalf("expected createdAt == updatedAt == now, got %v / %v", record.CreatedAt, record.UpdatedAt)
	}
	if !record.PublishedAt.Equal(now) {
		t.Fatalf("expected publishedAt to default to now, got %v", record.PublishedAt)
	}

	active, _ := mem.ActiveArticles(ctx)
	if len(active) != 1 || active[0].ID != record.ID {
		t.Fatalf("record missing from active collection: %+v", active)
	}
}

func TestCreateOrUpdate_MissingTitle(t *testing.T) {
	svc, mem := newTestService()

	_, err := svc.CreateOrUpdate(context.Background(), Payload{Summary: "no title"})
	if !news.IsValidation(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	active, _ := mem.ActiveArticles(context.Background())
	if len(active) != 0 {
		t.Fatal("validation failure must not write state")
	}
}

func TestCreateOrUpdate_SameTitleUpdatesInPlace(t *testing.T) {
	first := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	globaltime.SetMockTime(first)
	defer globaltime.ResetTime()

	svc, mem := newTestService()
	ctx := context.Background()

	created, err := svc.CreateOrUpdate(ctx, Payload{Title: "Quantum Chip Breaks Records", Summary: "original summary"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	second := first.Add(2 * time.Hour)
	globaltime.SetMockTime(second)

	updated, err := svc.CreateOrUpdate(ctx, Payload{Title: "quantum chip breaks records", Summary: "revised summary"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatalf("expected stable id, got %s vs %s", updated.ID, created.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("createdAt must never change on update")
	}
	if !updated.UpdatedAt.Equal(second) {
		t.Fatalf("expected updatedAt to advance, got %v", updated.UpdatedAt)
	}
	if updated.Summary != "revised summary" {
		t.Fatalf("unexpected summary: %q", updated.Summary)
	}

	active, _ := mem.ActiveArticles(ctx)
	if len(active) != 1 {
		t.Fatalf("expected collection size unchanged, got %d", len(active))
	}
}

func TestCreateOrUpdate_PublishedAtInheritedOnUpdate(t *testing.T) {
	first := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	globaltime.SetMockTime(first)
	defer globaltime.ResetTime()

	svc, _ := newTestService()
	ctx := context.Background()

	published := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	created, err := svc.CreateOrUpdate(ctx, Payload{Title: "Edge Computing Report", PublishedAt: &published})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !created.PublishedAt.Equal(published) {
		t.Fatalf("expected explicit publishedAt, got %v", created.PublishedAt)
	}

	globaltime.SetMockTime(first.Add(time.Hour))
	updated, err := svc.CreateOrUpdate(ctx, Payload{Title: "Edge Computing Report", Summary: "new"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.PublishedAt.Equal(published) {
		t.Fatalf("expected publishedAt to survive an update that omits it, got %v", updated.PublishedAt)
	}

	later := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	overridden, err := svc.CreateOrUpdate(ctx, Payload{Title: "Edge Computing Report", PublishedAt: &later})
	if err != nil {
		t.Fatalf("override failed: %v", err)
	}
	if !overridden.PublishedAt.Equal(later) {
		t.Fatalf("expected explicit publishedAt to win, got %v", overridden.PublishedAt)
	}
}

func TestCreateOrUpdate_TagSanitization(t *testing.T) {
	svc, _ := newTestService()

	record, err := svc.CreateOrUpdate(context.Background(), Payload{
		Title: "Tag Handling",
		Tags:  []string{"AI", "ai", "", "Cloud"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !reflect.DeepEqual(record.Tags, []string{"AI", "Cloud"}) {
		t.Fatalf("unexpected tags: %v", record.Tags)
	}
}

func TestCreateOrUpdate_CategorizesWhenAbsentOrGeneral(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	record, err := svc.CreateOrUpdate(ctx, Payload{
		Title:   "Kubernetes cluster hardening",
		Summary: "Serverless and container workloads on cloud infrastructure",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if record.Category != "Cloud" {
		t.Fatalf("expected auto-categorization to Cloud, got %q", record.Category)
	}

	explicit, err := svc.CreateOrUpdate(ctx, Payload{Title: "An explicitly filed story", Category: "Hardware"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if explicit.Category != "Hardware" {
		t.Fatalf("expected explicit category to stick, got %q", explicit.Category)
	}
}

func TestCreateOrUpdate_TitleSimilarityBoundaryNotRejected(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateOrUpdate(ctx, Payload{Title: "AI Breakthroughs in 2025"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// Title similarity scores exactly 0.8, which does not exceed the
	// rejection threshold.
	record, err := svc.CreateOrUpdate(ctx, Payload{Title: "AI"})
	if err != nil {
		t.Fatalf("expected boundary-confidence candidate to be accepted: %v", err)
	}
	if record.Slug != "ai" {
		t.Fatalf("unexpected slug: %q", record.Slug)
	}

	active, _ := mem.ActiveArticles(ctx)
	if len(active) != 2 {
		t.Fatalf("expected two records, got %d", len(active))
	}

	events, _ := mem.DuplicateEvents(ctx, 0)
	if len(events) != 1 {
		t.Fatalf("expected one logged verdict, got %d", len(events))
	}
	if events[0].Type != news.VerdictTitleSimilarity || events[0].Action != news.DuplicateActionUpdated {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestCreateOrUpdate_HighConfidenceDuplicateRejected(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	summary := "Large language models reshape enterprise software delivery pipelines across every major industry vertical"
	if _, err := svc.CreateOrUpdate(ctx, Payload{Title: "Original coverage headline", Summary: summary}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := svc.CreateOrUpdate(ctx, Payload{Title: "Completely unrelated wording", Summary: summary})
	if !news.IsDuplicateRejected(err) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	var rejected *news.DuplicateRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected DuplicateRejectedError, got %T", err)
	}
	if rejected.Verdict.Type != news.VerdictContentSimilarity {
		t.Fatalf("unexpected verdict type: %s", rejected.Verdict.Type)
	}
	if rejected.Verdict.Confidence <= 0.8 {
		t.Fatalf("expected confidence above rejection threshold, got %f", rejected.Verdict.Confidence)
	}

	active, _ := mem.ActiveArticles(ctx)
	if len(active) != 1 {
		t.Fatalf("rejected write must not change the active set, got %d records", len(active))
	}

	events, _ := mem.DuplicateEvents(ctx, 0)
	if len(events) != 1 || events[0].Action != news.DuplicateActionRejected {
		t.Fatalf("expected a rejected duplicate event, got %+v", events)
	}
}

func TestCreateOrUpdate_IdentityMatchAlwaysUpdates(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	summary := "Large language models reshape enterprise software delivery pipelines across every major industry vertical"
	if _, err := svc.CreateOrUpdate(ctx, Payload{Title: "Original coverage headline", Summary: summary}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// Same identity, near-identical content: must update despite the
	// 1.0-confidence verdict.
	record, err := svc.CreateOrUpdate(ctx, Payload{Title: "ORIGINAL COVERAGE HEADLINE", Summary: summary})
	if err != nil {
		t.Fatalf("identity match must always update: %v", err)
	}
	if record.Title != "ORIGINAL COVERAGE HEADLINE" {
		t.Fatalf("unexpected title: %q", record.Title)
	}

	events, _ := mem.DuplicateEvents(ctx, 0)
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Type != news.VerdictTitleMatch || events[0].Confidence != 1.0 || events[0].Action != news.DuplicateActionUpdated {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	active, _ := mem.ActiveArticles(ctx)
	if len(active) != 1 {
		t.Fatalf("expected in-place update, got %d records", len(active))
	}
}

func TestCreateOrUpdate_DetectionDisabledSkipsVerdicts(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	cfg, _ := mem.ArchiveConfig(ctx)
	cfg.DuplicateDetectionEnabled = false
	if err := mem.SaveArchiveConfig(ctx, cfg); err != nil {
		t.Fatalf("config save failed: %v", err)
	}

	summary := "Large language models reshape enterprise software delivery pipelines across every major industry vertical"
	if _, err := svc.CreateOrUpdate(ctx, Payload{Title: "Original coverage headline", Summary: summary}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := svc.CreateOrUpdate(ctx, Payload{Title: "Completely unrelated wording", Summary: summary}); err != nil {
		t.Fatalf("expected acceptance with detection disabled, got %v", err)
	}

	events, _ := mem.DuplicateEvents(ctx, 0)
	if len(events) != 0 {
		t.Fatalf("expected no duplicate events, got %d", len(events))
	}
}

func TestCreateOrUpdate_ExplicitSlugResolvesIdentity(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	created, err := svc.CreateOrUpdate(ctx, Payload{Title: "Launch Day", Slug: "launch-day-2026"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.CreateOrUpdate(ctx, Payload{Title: "Launch Day Recap Edition", Slug: "launch-day-2026"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatal("expected slug collision to resolve to an in-place update")
	}
	active, _ := mem.ActiveArticles(ctx)
	if len(active) != 1 {
		t.Fatalf("expected one record, got %d", len(active))
	}
}

func TestCreateOrUpdate_LanguageDetectorTagsRecords(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem, zerolog.Nop(), Options{
		LanguageDetector: func(string) string { return "en" },
	})

	record, err := svc.CreateOrUpdate(context.Background(), Payload{Title: "Some English headline"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if record.Language != "en" {
		t.Fatalf("expected detected language, got %q", record.Language)
	}

	explicit, err := svc.CreateOrUpdate(context.Background(), Payload{Title: "Otro titular", Language: "es"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if explicit.Language != "es" {
		t.Fatalf("expected payload language to win, got %q", explicit.Language)
	}
}
