// Package pipeline orchestrates article ingestion: input normalization,
// identity resolution, categorization, duplicate detection, the commit
// decision, and post-write archival.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"horse.fit/newsdesk/internal/categorize"
	"horse.fit/newsdesk/internal/dedup"
	"horse.fit/newsdesk/internal/globaltime"
	"horse.fit/newsdesk/internal/news"
	"horse.fit/newsdesk/internal/store"
)

// Payload is a sanitizable incoming article. Only Title is required;
// omitted optional fields reset to their empty defaults on update, with
// publishedAt the one exception (it falls back to the stored value).
type Payload struct {
	Title       string
	Slug        string
	Summary     string
	Content     string
	Source      string
	Category    string
	ImageURL    string
	Language    string
	Tags        []string
	PublishedAt *time.Time
	Featured    *bool
}

type Options struct {
	// LanguageDetector tags records whose payload carries no language.
	// Nil disables tagging.
	LanguageDetector func(text string) string
}

// Service owns the ingest mutex: every create-or-update runs its whole
// read-decide-write cycle under it, so concurrent posts cannot interleave
// partial state.
type Service struct {
	store  store.Store
	logger zerolog.Logger
	opts   Options
	mu     sync.Mutex
}

func NewService(st store.Store, logger zerolog.Logger, opts Options) *Service {
	return &Service{
		store:  st,
		logger: logger,
		opts:   opts,
	}
}

// CreateOrUpdate ingests one article. An incoming payload that resolves
// to an existing identity updates that record in place; a new identity
// that looks suspiciously similar to existing content is rejected with a
// DuplicateRejectedError.
func (s *Service) CreateOrUpdate(ctx context.Context, payload Payload) (news.Article, error) {
	title := news.SanitizeString(payload.Title)
	if title == "" {
		return news.Article{}, news.NewValidationError("title", "is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.store.ActiveArticles(ctx)
	if err != nil {
		return news.Article{}, &news.StoreError{Op: "read active articles", Err: err}
	}

	slug := news.BuildSlug(payload.Slug, title)
	existingIndex := resolveIdentity(active, title, slug)

	summary := news.SanitizeString(payload.Summary)
	content := news.SanitizeString(payload.Content)
	category := news.SanitizeString(payload.Category)
	if category == "" || category == categorize.FallbackCategory {
		category = categorize.Categorize(title, summary, content)
	}

	now := globaltime.UTC()
	record := news.Article{
		Title:    title,
		Slug:     slug,
		Summary:  summary,
		Content:  content,
		Source:   news.SanitizeString(payload.Source),
		Category: category,
		Tags:     news.SanitizeTags(payload.Tags),
		Featured: true,
	}
	if payload.Featured != nil {
		record.Featured = *payload.Featured
	}
	if imageURL := news.SanitizeString(payload.ImageURL); imageURL != "" {
		record.ImageURL = &imageURL
	}

	if existingIndex >= 0 {
		existing := active[existingIndex]
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.PublishedAt = existing.PublishedAt
	} else {
		record.ID = uuid.NewString()
		record.CreatedAt = now
	}
	if payload.PublishedAt != nil {
		record.PublishedAt = payload.PublishedAt.UTC()
	}
	if record.PublishedAt.IsZero() {
		record.PublishedAt = now
	}
	record.UpdatedAt = now

	record.Language = news.SanitizeString(payload.Language)
	if record.Language == "" && s.opts.LanguageDetector != nil {
		record.Language = s.opts.LanguageDetector(title + " " + summary)
	}

	cfg, err := s.store.ArchiveConfig(ctx)
	if err != nil {
		return news.Article{}, &news.StoreError{Op: "read archive config", Err: err}
	}

	var verdict *news.Verdict
	if cfg.DuplicateDetectionEnabled {
		verdict = dedup.Detect(dedup.Candidate{Title: title, Summary: summary}, active, existingIndex >= 0)
	}

	if verdict != nil && existingIndex < 0 && verdict.Confidence > dedup.RejectThreshold {
		s.logDuplicate(ctx, verdict, record, news.DuplicateActionRejected, now)
		s.logger.Warn().
			Str("title", title).
			Str("type", string(verdict.Type)).
			Float64("confidence", verdict.Confidence).
			Msg("duplicate article rejected")
		return news.Article{}, &news.DuplicateRejectedError{Verdict: *verdict}
	}

	if err := s.store.UpsertArticle(ctx, record); err != nil {
		return news.Article{}, &news.StoreError{Op: "upsert article", Err: err}
	}

	if verdict != nil {
		s.logDuplicate(ctx, verdict, record, news.DuplicateActionUpdated, now)
	}

	s.logger.Info().
		Str("slug", record.Slug).
		Str("category", record.Category).
		Bool("updated", existingIndex >= 0).
		Msg("article committed")

	// Best-effort housekeeping; an archival failure never unwinds the
	// committed write.
	if _, err := s.maybeArchive(ctx, false); err != nil {
		s.logger.Error().Err(err).Msg("post-write archive check failed")
	}

	return record, nil
}

// resolveIdentity finds an existing record by case-insensitive title
// equality, falling back to slug equality for legacy records whose
// stored titles were never normalized.
func resolveIdentity(active []news.Article, title, slug string) int {
	lowerTitle := strings.ToLower(title)
	for i := range active {
		if strings.ToLower(strings.TrimSpace(active[i].Title)) == lowerTitle {
			return i
		}
	}
	if slug != "" {
		for i := range active {
			if active[i].Slug == slug {
				return i
			}
		}
	}
	return -1
}

// logDuplicate appends a duplicate-log entry for verdicts above the log
// threshold. Failures are logged and swallowed: the log is diagnostics,
// not part of the write contract.
func (s *Service) logDuplicate(ctx context.Context, verdict *news.Verdict, record news.Article, action string, now time.Time) {
	if verdict == nil || verdict.Confidence <= dedup.LogThreshold {
		return
	}
	event := news.DuplicateEvent{
		ID:          uuid.NewString(),
		Timestamp:   now,
		Type:        verdict.Type,
		Confidence:  verdict.Confidence,
		Title:       record.Title,
		Summary:     record.Summary,
		Source:      record.Source,
		PublishedAt: record.PublishedAt,
		Action:      action,
		Reason:      verdict.Reason,
	}
	if err := s.store.AppendDuplicateEvent(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("title", record.Title).Msg("failed to append duplicate event")
	}
}
