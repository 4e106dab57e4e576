package pipeline

import (
	"context"

	"horse.fit/newsdesk/internal/globaltime"
	"horse.fit/newsdesk/internal/news"
)

// MaybeArchive runs the archive policy: when the active collection grows
// past its cap, the oldest records by publishedAt move to the archive.
// The cooldown only prevents re-running too soon; force skips it for the
// manual trigger. Returns the number of records moved.
func (s *Service) MaybeArchive(ctx context.Context, force bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maybeArchive(ctx, force)
}

// maybeArchive assumes the ingest mutex is held.
func (s *Service) maybeArchive(ctx context.Context, force bool) (int, error) {
	cfg, err := s.store.ArchiveConfig(ctx)
	if err != nil {
		return 0, &news.StoreError{Op: "read archive config", Err: err}
	}
	cfg = cfg.Normalize()
	if !cfg.ArchiveEnabled {
		return 0, nil
	}

	now := globaltime.UTC()
	if !force && cfg.LastArchiveRun != nil && now.Sub(*cfg.LastArchiveRun) < cfg.AutoArchiveInterval() {
		return 0, nil
	}

	active, err := s.store.ActiveArticles(ctx)
	if err != nil {
		return 0, &news.StoreError{Op: "read active articles", Err: err}
	}
	if len(active) <= cfg.MaxActiveArticles {
		return 0, nil
	}

	news.SortByPublishedAt(active)
	overflow := active[cfg.MaxActiveArticles:]
	ids := make([]string, len(overflow))
	for i, item := range overflow {
		ids[i] = item.ID
	}

	if err := s.store.ArchiveArticles(ctx, ids); err != nil {
		return 0, &news.StoreError{Op: "archive articles", Err: err}
	}

	cfg.LastArchiveRun = &now
	if err := s.store.SaveArchiveConfig(ctx, cfg); err != nil {
		return 0, &news.StoreError{Op: "save archive config", Err: err}
	}

	s.logger.Info().
		Int("moved", len(ids)).
		Int("active", cfg.MaxActiveArticles).
		Msg("archive run completed")

	return len(ids), nil
}
