package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TagList stores a string slice as a jsonb array.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(t))
	if err != nil {
		return nil, fmt.Errorf("marshal tag list: %w", err)
	}
	return string(raw), nil
}

func (t *TagList) Scan(src any) error {
	if src == nil {
		*t = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan tag list: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*t = nil
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return fmt.Errorf("unmarshal tag list: %w", err)
	}
	*t = tags
	return nil
}

// Article maps news.articles, the active collection.
type Article struct {
	ID          string    `gorm:"column:id;type:text;primaryKey"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Slug        string    `gorm:"column:slug;type:text;not null;uniqueIndex:idx_articles_slug"`
	Summary     string    `gorm:"column:summary;type:text;not null;default:''"`
	Content     string    `gorm:"column:content;type:text;not null;default:''"`
	Source      string    `gorm:"column:source;type:text;not null;default:''"`
	Category    string    `gorm:"column:category;type:text;not null;default:''"`
	Tags        TagList   `gorm:"column:tags;type:jsonb;not null;default:'[]'"`
	ImageURL    *string   `gorm:"column:image_url;type:text"`
	Language    string    `gorm:"column:language;type:text;not null;default:''"`
	PublishedAt time.Time `gorm:"column:published_at;type:timestamptz;not null;index:idx_articles_published_at,sort:desc"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz;not null"`
	Featured    bool      `gorm:"column:featured;type:boolean;not null;default:true"`
}

func (Article) TableName() string { return "news.articles" }

// ArchivedArticle maps news.archived_articles. Same shape as Article so a
// record moves between the collections without loss.
type ArchivedArticle struct {
	ID          string    `gorm:"column:id;type:text;primaryKey"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Slug        string    `gorm:"column:slug;type:text;not null;index:idx_archived_articles_slug"`
	Summary     string    `gorm:"column:summary;type:text;not null;default:''"`
	Content     string    `gorm:"column:content;type:text;not null;default:''"`
	Source      string    `gorm:"column:source;type:text;not null;default:''"`
	Category    string    `gorm:"column:category;type:text;not null;default:''"`
	Tags        TagList   `gorm:"column:tags;type:jsonb;not null;default:'[]'"`
	ImageURL    *string   `gorm:"column:image_url;type:text"`
	Language    string    `gorm:"column:language;type:text;not null;default:''"`
	PublishedAt time.Time `gorm:"column:published_at;type:timestamptz;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz;not null"`
	Featured    bool      `gorm:"column:featured;type:boolean;not null;default:true"`
}

func (ArchivedArticle) TableName() string { return "news.archived_articles" }

// DuplicateEvent maps news.duplicate_events, the bounded duplicate log.
type DuplicateEvent struct {
	ID          string    `gorm:"column:id;type:text;primaryKey"`
	Timestamp   time.Time `gorm:"column:timestamp;type:timestamptz;not null;index:idx_duplicate_events_timestamp,sort:desc"`
	Type        string    `gorm:"column:type;type:text;not null"`
	Confidence  float64   `gorm:"column:confidence;type:double precision;not null"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Summary     string    `gorm:"column:summary;type:text;not null;default:''"`
	Source      string    `gorm:"column:source;type:text;not null;default:''"`
	PublishedAt time.Time `gorm:"column:published_at;type:timestamptz;not null"`
	Action      string    `gorm:"column:action;type:text;not null"`
	Reason      string    `gorm:"column:reason;type:text;not null;default:''"`
}

func (DuplicateEvent) TableName() string { return "news.duplicate_events" }

// ArchiveConfigRow maps news.archive_config, a single row with id 1.
type ArchiveConfigRow struct {
	ID                        int        `gorm:"column:id;primaryKey"`
	ArchiveEnabled            bool       `gorm:"column:archive_enabled;type:boolean;not null;default:true"`
	DuplicateDetectionEnabled bool       `gorm:"column:duplicate_detection_enabled;type:boolean;not null;default:true"`
	MaxActiveArticles         int        `gorm:"column:max_active_articles;type:integer;not null;default:200"`
	AutoArchiveHours          int        `gorm:"column:auto_archive_hours;type:integer;not null;default:24"`
	LastArchiveRun            *time.Time `gorm:"column:last_archive_run;type:timestamptz"`
	UpdatedAt                 time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (ArchiveConfigRow) TableName() string { return "news.archive_config" }

func autoMigrateModels() []any {
	return []any{
		&Article{},
		&ArchivedArticle{},
		&DuplicateEvent{},
		&ArchiveConfigRow{},
	}
}
