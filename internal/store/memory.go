package store

import (
	"context"
	"sync"

	"horse.fit/newsdesk/internal/news"
)

// Memory is an in-process Store used by tests and the seed tooling. All
// methods copy on read and on write so callers never share slices with
// the store.
type Memory struct {
	mu       sync.RWMutex
	active   []news.Article
	archived []news.Article
	events   []news.DuplicateEvent
	config   *news.ArchiveConfig
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ActiveArticles(_ context.Context) ([]news.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyArticles(m.active), nil
}

func (m *Memory) ArchivedArticles(_ context.Context) ([]news.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyArticles(m.archived), nil
}

func (m *Memory) ArticleBySlug(_ context.Context, slug string) (news.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.active {
		if item.Slug == slug {
			return cloneArticle(item), nil
		}
	}
	return news.Article{}, news.ErrArticleNotFound
}

func (m *Memory) UpsertArticle(_ context.Context, article news.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := cloneArticle(article)
	for i, item := range m.active {
		if item.ID == article.ID {
			m.active[i] = stored
			return nil
		}
	}
	m.active = append(m.active, stored)
	return nil
}

func (m *Memory) ArchiveArticles(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make([]news.Article, 0, len(m.active))
	for _, item := range m.active {
		if _, move := wanted[item.ID]; move {
			m.archived = append(m.archived, item)
			continue
		}
		kept = append(kept, item)
	}
	m.active = kept
	return nil
}

func (m *Memory) ArchiveConfig(_ context.Context) (news.ArchiveConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.config == nil {
		cfg := news.DefaultArchiveConfig()
		m.config = &cfg
	}
	return *m.config, nil
}

func (m *Memory) SaveArchiveConfig(_ context.Context, cfg news.ArchiveConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	normalized := cfg.Normalize()
	m.config = &normalized
	return nil
}

func (m *Memory) DuplicateEvents(_ context.Context, limit int) ([]news.DuplicateEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.events) {
		limit = len(m.events)
	}
	out := make([]news.DuplicateEvent, limit)
	copy(out, m.events[:limit])
	return out, nil
}

func (m *Memory) AppendDuplicateEvent(_ context.Context, event news.DuplicateEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append([]news.DuplicateEvent{event}, m.events...)
	if len(m.events) > news.MaxDuplicateEvents {
		m.events = m.events[:news.MaxDuplicateEvents]
	}
	return nil
}

func copyArticles(items []news.Article) []news.Article {
	out := make([]news.Article, len(items))
	for i, item := range items {
		out[i] = cloneArticle(item)
	}
	return out
}

func cloneArticle(item news.Article) news.Article {
	clone := item
	if item.Tags != nil {
		clone.Tags = append([]string(nil), item.Tags...)
	}
	if item.ImageURL != nil {
		url := *item.ImageURL
		clone.ImageURL = &url
	}
	return clone
}
