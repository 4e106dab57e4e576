package news

import (
	"sort"
	"strings"
)

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Category string
	Tag      string
	Query    string
}

// Meta summarizes the active collection for the presentation layer.
type Meta struct {
	Count      int      `json:"count"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// SortByPublishedAt orders newest first. Records sharing a publish time
// fall back to createdAt descending, then id ascending, so the order is
// deterministic regardless of storage order.
func SortByPublishedAt(items []Article) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].PublishedAt.Equal(items[j].PublishedAt) {
			return items[i].PublishedAt.After(items[j].PublishedAt)
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

// FilterArticles applies category (exact, case-insensitive), tag (exact,
// case-insensitive, any match) and free-text (substring over title or
// summary) filters.
func FilterArticles(items []Article, filter Filter) []Article {
	category := strings.ToLower(strings.TrimSpace(filter.Category))
	tag := strings.ToLower(strings.TrimSpace(filter.Tag))
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	filtered := make([]Article, 0, len(items))
	for _, item := range items {
		if category != "" && strings.ToLower(item.Category) != category {
			continue
		}
		if tag != "" && !hasTag(item.Tags, tag) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Title), query) &&
			!strings.Contains(strings.ToLower(item.Summary), query) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// Paginate slices one page out of items. Page numbers start at 1; a page
// past the end yields an empty, non-nil slice.
func Paginate(items []Article, page, pageSize int) []Article {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []Article{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// CollectMeta gathers the total count plus distinct categories and tags
// in first-seen order.
func CollectMeta(items []Article) Meta {
	meta := Meta{
		Count:      len(items),
		Categories: []string{},
		Tags:       []string{},
	}
	seenCategories := make(map[string]struct{})
	seenTags := make(map[string]struct{})
	for _, item := range items {
		if item.Category != "" {
			if _, ok := seenCategories[item.Category]; !ok {
				seenCategories[item.Category] = struct{}{}
				meta.Categories = append(meta.Categories, item.Category)
			}
		}
		for _, tag := range item.Tags {
			trimmed := strings.TrimSpace(tag)
			if trimmed == "" {
				continue
			}
			if _, ok := seenTags[trimmed]; ok {
				continue
			}
			seenTags[trimmed] = struct{}{}
			meta.Tags = append(meta.Tags, trimmed)
		}
	}
	return meta
}

func hasTag(tags []string, wanted string) bool {
	for _, tag := range tags {
		if strings.ToLower(tag) == wanted {
			return true
		}
	}
	return false
}
