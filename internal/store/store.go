// Package store defines the durable collections behind the ingestion
// pipeline: active articles, archived articles, the duplicate log, and
// the archive configuration object.
package store

import (
	"context"

	"horse.fit/newsdesk/internal/news"
)

// Store is the persistence contract. Implementations must make every
// write atomic: a reader never observes a partially written collection.
type Store interface {
	// ActiveArticles returns the full active collection in storage order.
	ActiveArticles(ctx context.Context) ([]news.Article, error)

	// ArchivedArticles returns the archive collection.
	ArchivedArticles(ctx context.Context) ([]news.Article, error)

	// ArticleBySlug looks up one active record; news.ErrArticleNotFound
	// on a miss.
	ArticleBySlug(ctx context.Context, slug string) (news.Article, error)

	// UpsertArticle inserts or replaces by id.
	UpsertArticle(ctx context.Context, article news.Article) error

	// ArchiveArticles moves the given ids from the active collection to
	// the archive in one atomic step, preserving record fields.
	ArchiveArticles(ctx context.Context, ids []string) error

	// ArchiveConfig returns the persisted configuration, initializing it
	// from news.DefaultArchiveConfig on first access.
	ArchiveConfig(ctx context.Context) (news.ArchiveConfig, error)

	// SaveArchiveConfig replaces the persisted configuration.
	SaveArchiveConfig(ctx context.Context, cfg news.ArchiveConfig) error

	// DuplicateEvents returns up to limit entries, newest first.
	DuplicateEvents(ctx context.Context, limit int) ([]news.DuplicateEvent, error)

	// AppendDuplicateEvent prepends an entry and evicts beyond
	// news.MaxDuplicateEvents.
	AppendDuplicateEvent(ctx context.Context, event news.DuplicateEvent) error
}
