package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"horse.fit/newsdesk/internal/feed"
	"horse.fit/newsdesk/internal/news"
	"horse.fit/newsdesk/internal/pipeline"
	payloadschema "horse.fit/newsdesk/schema"
)

// maxPayloadBytes bounds the ingest request body.
const maxPayloadBytes = 1 << 20

func (s *Server) handleListNews(c echo.Context) error {
	page, err := parsePositiveInt(c.QueryParam("page"), 1, 1, 1_000_000)
	if err != nil {
		return failValidation(c, map[string]string{"page": err.Error()})
	}
	pageSize, err := parsePositiveInt(c.QueryParam("pageSize"), defaultPageSize, 1, maxPageSize)
	if err != nil {
		return failValidation(c, map[string]string{"pageSize": err.Error()})
	}

	items, err := s.sortedActive(c)
	if err != nil {
		s.logger.Error().Err(err).Msg("load active articles failed")
		return internalError(c, "Failed to load articles")
	}

	filtered := news.FilterArticles(items, news.Filter{
		Category: c.QueryParam("category"),
		Tag:      c.QueryParam("tag"),
		Query:    c.QueryParam("q"),
	})

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return success(c, map[string]any{
		"items":      news.Paginate(filtered, page, pageSize),
		"page":       page,
		"pageSize":   pageSize,
		"total":      total,
		"totalPages": totalPages,
	})
}

func (s *Server) handleLatestNews(c echo.Context) error {
	limit, err := parsePositiveInt(c.QueryParam("limit"), 10, 1, maxPageSize)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	items, err := s.sortedActive(c)
	if err != nil {
		s.logger.Error().Err(err).Msg("load active articles failed")
		return internalError(c, "Failed to load articles")
	}
	if len(items) > limit {
		items = items[:limit]
	}

	return success(c, map[string]any{
		"items": items,
	})
}

func (s *Server) handleNewsMeta(c echo.Context) error {
	items, err := s.store.ActiveArticles(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load active articles failed")
		return internalError(c, "Failed to load article metadata")
	}
	return success(c, news.CollectMeta(items))
}

func (s *Server) handleNewsBySlug(c echo.Context) error {
	slug := c.Param("slug")
	item, err := s.store.ArticleBySlug(c.Request().Context(), slug)
	if errors.Is(err, news.ErrArticleNotFound) {
		return failNotFound(c, "Article not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("load article failed")
		return internalError(c, "Failed to load article")
	}
	return success(c, map[string]any{
		"item": item,
	})
}

func (s *Server) handleArchivedNews(c echo.Context) error {
	page, err := parsePositiveInt(c.QueryParam("page"), 1, 1, 1_000_000)
	if err != nil {
		return failValidation(c, map[string]string{"page": err.Error()})
	}
	pageSize, err := parsePositiveInt(c.QueryParam("pageSize"), defaultPageSize, 1, maxPageSize)
	if err != nil {
		return failValidation(c, map[string]string{"pageSize": err.Error()})
	}

	items, err := s.store.ArchivedArticles(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load archived articles failed")
		return internalError(c, "Failed to load archived articles")
	}
	news.SortByPublishedAt(items)

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return success(c, map[string]any{
		"items":      news.Paginate(items, page, pageSize),
		"page":       page,
		"pageSize":   pageSize,
		"total":      total,
		"totalPages": totalPages,
	})
}

func (s *Server) handleDuplicateLog(c echo.Context) error {
	limit, err := parsePositiveInt(c.QueryParam("limit"), 100, 1, news.MaxDuplicateEvents)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	events, err := s.store.DuplicateEvents(c.Request().Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("load duplicate log failed")
		return internalError(c, "Failed to load duplicate log")
	}

	return success(c, map[string]any{
		"items": events,
		"count": len(events),
	})
}

func (s *Server) handleGetArchiveConfig(c echo.Context) error {
	cfg, err := s.store.ArchiveConfig(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load archive config failed")
		return internalError(c, "Failed to load archive config")
	}
	return success(c, cfg)
}

// archiveConfigPatch carries a partial config update; absent fields keep
// their stored values. lastArchiveRun is never client-settable.
type archiveConfigPatch struct {
	ArchiveEnabled            *bool `json:"archiveEnabled"`
	DuplicateDetectionEnabled *bool `json:"duplicateDetectionEnabled"`
	MaxActiveArticles         *int  `json:"maxActiveArticles"`
	AutoArchiveHours          *int  `json:"autoArchiveHours"`
}

func (s *Server) handlePutArchiveConfig(c echo.Context) error {
	var patch archiveConfigPatch
	if err := c.Bind(&patch); err != nil {
		return failValidation(c, map[string]string{"payload": "must be a JSON object"})
	}

	fieldErrors := map[string]string{}
	if patch.MaxActiveArticles != nil && (*patch.MaxActiveArticles < 1 || *patch.MaxActiveArticles > 10_000) {
		fieldErrors["maxActiveArticles"] = "must be between 1 and 10000"
	}
	if patch.AutoArchiveHours != nil && (*patch.AutoArchiveHours < 1 || *patch.AutoArchiveHours > 8_760) {
		fieldErrors["autoArchiveHours"] = "must be between 1 and 8760"
	}
	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	ctx := c.Request().Context()
	cfg, err := s.store.ArchiveConfig(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load archive config failed")
		return internalError(c, "Failed to load archive config")
	}

	if patch.ArchiveEnabled != nil {
		cfg.ArchiveEnabled = *patch.ArchiveEnabled
	}
	if patch.DuplicateDetectionEnabled != nil {
		cfg.DuplicateDetectionEnabled = *patch.DuplicateDetectionEnabled
	}
	if patch.MaxActiveArticles != nil {
		cfg.MaxActiveArticles = *patch.MaxActiveArticles
	}
	if patch.AutoArchiveHours != nil {
		cfg.AutoArchiveHours = *patch.AutoArchiveHours
	}

	if err := s.store.SaveArchiveConfig(ctx, cfg); err != nil {
		s.logger.Error().Err(err).Msg("save archive config failed")
		return internalError(c, "Failed to save archive config")
	}

	s.logger.Info().
		Bool("archive_enabled", cfg.ArchiveEnabled).
		Bool("duplicate_detection_enabled", cfg.DuplicateDetectionEnabled).
		Int("max_active_articles", cfg.MaxActiveArticles).
		Int("auto_archive_hours", cfg.AutoArchiveHours).
		Msg("archive config updated")

	return success(c, cfg)
}

func (s *Server) handleArchiveRun(c echo.Context) error {
	moved, err := s.pipeline.MaybeArchive(c.Request().Context(), true)
	if err != nil {
		s.logger.Error().Err(err).Msg("manual archive run failed")
		return internalError(c, "Archive run failed")
	}
	return success(c, map[string]any{
		"archived": moved,
	})
}

func (s *Server) handleCreateNews(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPayloadBytes))
	if err != nil {
		return failValidation(c, map[string]string{"payload": "could not read request body"})
	}

	item, err := payloadschema.ValidateArticlePayload(json.RawMessage(body))
	if err != nil {
		return failValidation(c, map[string]string{"payload": err.Error()})
	}

	record, err := s.pipeline.CreateOrUpdate(c.Request().Context(), ingestPayload(item))
	if err != nil {
		var validationErr *news.ValidationError
		if errors.As(err, &validationErr) {
			return failValidation(c, map[string]string{validationErr.Field: validationErr.Message})
		}
		var rejected *news.DuplicateRejectedError
		if errors.As(err, &rejected) {
			return failConflict(c, "Duplicate article rejected", map[string]any{
				"verdict": rejected.Verdict,
			})
		}
		s.logger.Error().Err(err).Msg("article ingest failed")
		return internalError(c, "Failed to store article")
	}

	return successWithStatus(c, http.StatusCreated, map[string]any{
		"item": record,
	})
}

func (s *Server) handleRSSFeed(c echo.Context) error {
	items, err := s.sortedActive(c)
	if err != nil {
		s.logger.Error().Err(err).Msg("load active articles failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build feed")
	}

	xml := feed.RSS(items, feed.Options{
		SiteURL:     s.cfg.SiteBaseURL,
		Title:       s.cfg.FeedTitle,
		Description: s.cfg.FeedDescription,
	})
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(xml))
}

func (s *Server) handleSitemap(c echo.Context) error {
	items, err := s.sortedActive(c)
	if err != nil {
		s.logger.Error().Err(err).Msg("load active articles failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build sitemap")
	}

	xml := feed.Sitemap(items, s.cfg.SiteBaseURL)
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", []byte(xml))
}

func (s *Server) sortedActive(c echo.Context) ([]news.Article, error) {
	items, err := s.store.ActiveArticles(c.Request().Context())
	if err != nil {
		return nil, err
	}
	news.SortByPublishedAt(items)
	return items, nil
}

func ingestPayload(item *payloadschema.ArticlePayload) pipeline.Payload {
	payload := pipeline.Payload{
		Title:       item.Title,
		Tags:        item.Tags,
		PublishedAt: item.PublishedAtTime(),
		Featured:    item.Featured,
	}
	if item.Slug != nil {
		payload.Slug = *item.Slug
	}
	if item.Summary != nil {
		payload.Summary = *item.Summary
	}
	if item.Content != nil {
		payload.Content = *item.Content
	}
	if item.Source != nil {
		payload.Source = *item.Source
	}
	if item.Category != nil {
		payload.Category = *item.Category
	}
	if item.ImageURL != nil {
		payload.ImageURL = *item.ImageURL
	}
	if item.Language != nil {
		payload.Language = *item.Language
	}
	return payload
}
