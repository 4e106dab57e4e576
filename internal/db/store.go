package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"horse.fit/newsdesk/internal/news"
)

// Store is the gorm-backed implementation of the persistence contract.
type Store struct {
	pool *Pool
}

func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) ActiveArticles(ctx context.Context) ([]news.Article, error) {
	var rows []Article
	err := s.pool.gdb.WithContext(ctx).
		Order("published_at DESC, created_at DESC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("select active articles: %w", err)
	}

	articles := make([]news.Article, len(rows))
	for i, row := range rows {
		articles[i] = row.toDomain()
	}
	return articles, nil
}

func (s *Store) ArchivedArticles(ctx context.Context) ([]news.Article, error) {
	var rows []ArchivedArticle
	err := s.pool.gdb.WithContext(ctx).
		Order("published_at DESC, created_at DESC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("select archived articles: %w", err)
	}

	articles := make([]news.Article, len(rows))
	for i, row := range rows {
		articles[i] = Article(row).toDomain()
	}
	return articles, nil
}

func (s *Store) ArticleBySlug(ctx context.Context, slug string) (news.Article, error) {
	var row Article
	err := s.pool.gdb.WithContext(ctx).First(&row, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return news.Article{}, news.ErrArticleNotFound
	}
	if err != nil {
		return news.Article{}, fmt.Errorf("select article by slug: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) UpsertArticle(ctx context.Context, article news.Article) error {
	row := articleFromDomain(article)
	err := s.pool.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}
	return nil
}

func (s *Store) ArchiveArticles(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := s.pool.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []Article
		if err := tx.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return fmt.Errorf("select articles to archive: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		archived := make([]ArchivedArticle, len(rows))
		for i, row := range rows {
			archived[i] = ArchivedArticle(row)
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&archived).Error
		if err != nil {
			return fmt.Errorf("insert archived articles: %w", err)
		}

		if err := tx.Where("id IN ?", ids).Delete(&Article{}).Error; err != nil {
			return fmt.Errorf("delete archived articles from active set: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive articles: %w", err)
	}
	return nil
}

func (s *Store) ArchiveConfig(ctx context.Context) (news.ArchiveConfig, error) {
	var row ArchiveConfigRow
	err := s.pool.gdb.WithContext(ctx).First(&row, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := news.DefaultArchiveConfig()
		if err := s.SaveArchiveConfig(ctx, defaults); err != nil {
			return news.ArchiveConfig{}, err
		}
		return defaults, nil
	}
	if err != nil {
		return news.ArchiveConfig{}, fmt.Errorf("select archive config: %w", err)
	}

	return news.ArchiveConfig{
		ArchiveEnabled:            row.ArchiveEnabled,
		DuplicateDetectionEnabled: row.DuplicateDetectionEnabled,
		MaxActiveArticles:         row.MaxActiveArticles,
		AutoArchiveHours:          row.AutoArchiveHours,
		LastArchiveRun:            row.LastArchiveRun,
	}.Normalize(), nil
}

func (s *Store) SaveArchiveConfig(ctx context.Context, cfg news.ArchiveConfig) error {
	cfg = cfg.Normalize()
	row := ArchiveConfigRow{
		ID:                        1,
		ArchiveEnabled:            cfg.ArchiveEnabled,
		DuplicateDetectionEnabled: cfg.DuplicateDetectionEnabled,
		MaxActiveArticles:         cfg.MaxActiveArticles,
		AutoArchiveHours:          cfg.AutoArchiveHours,
		LastArchiveRun:            cfg.LastArchiveRun,
		UpdatedAt:                 time.Now().UTC(),
	}
	err := s.pool.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save archive config: %w", err)
	}
	return nil
}

func (s *Store) DuplicateEvents(ctx context.Context, limit int) ([]news.DuplicateEvent, error) {
	if limit <= 0 || limit > news.MaxDuplicateEvents {
		limit = news.MaxDuplicateEvents
	}

	var rows []DuplicateEvent
	err := s.pool.gdb.WithContext(ctx).
		Order(`"timestamp" DESC, id ASC`).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("select duplicate events: %w", err)
	}

	events := make([]news.DuplicateEvent, len(rows))
	for i, row := range rows {
		events[i] = news.DuplicateEvent{
			ID:          row.ID,
			Timestamp:   row.Timestamp,
			Type:        news.VerdictType(row.Type),
			Confidence:  row.Confidence,
			Title:       row.Title,
			Summary:     row.Summary,
			Source:      row.Source,
			PublishedAt: row.PublishedAt,
			Action:      row.Action,
			Reason:      row.Reason,
		}
	}
	return events, nil
}

func (s *Store) AppendDuplicateEvent(ctx context.Context, event news.DuplicateEvent) error {
	row := DuplicateEvent{
		ID:          event.ID,
		Timestamp:   event.Timestamp,
		Type:        string(event.Type),
		Confidence:  event.Confidence,
		Title:       event.Title,
		Summary:     event.Summary,
		Source:      event.Source,
		PublishedAt: event.PublishedAt,
		Action:      event.Action,
		Reason:      event.Reason,
	}

	err := s.pool.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert duplicate event: %w", err)
		}
		// Evict everything past the newest MaxDuplicateEvents entries.
		trim := tx.Exec(`
			DELETE FROM news.duplicate_events
			WHERE id NOT IN (
				SELECT id FROM news.duplicate_events
				ORDER BY "timestamp" DESC, id ASC
				LIMIT ?
			)`, news.MaxDuplicateEvents)
		if trim.Error != nil {
			return fmt.Errorf("trim duplicate events: %w", trim.Error)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append duplicate event: %w", err)
	}
	return nil
}

func (r Article) toDomain() news.Article {
	article := news.Article{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Summary:     r.Summary,
		Content:     r.Content,
		Source:      r.Source,
		Category:    r.Category,
		Tags:        []string(r.Tags),
		Language:    r.Language,
		PublishedAt: r.PublishedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Featured:    r.Featured,
	}
	if r.ImageURL != nil {
		imageURL := *r.ImageURL
		article.ImageURL = &imageURL
	}
	return article
}

func articleFromDomain(article news.Article) Article {
	row := Article{
		ID:          article.ID,
		Title:       article.Title,
		Slug:        article.Slug,
		Summary:     article.Summary,
		Content:     article.Content,
		Source:      article.Source,
		Category:    article.Category,
		Tags:        TagList(article.Tags),
		Language:    article.Language,
		PublishedAt: article.PublishedAt,
		CreatedAt:   article.CreatedAt,
		UpdatedAt:   article.UpdatedAt,
		Featured:    article.Featured,
	}
	if article.ImageURL != nil {
		imageURL := *article.ImageURL
		row.ImageURL = &imageURL
	}
	return row
}
