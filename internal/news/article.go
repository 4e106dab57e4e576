package news

import (
	"time"
)

// Article is the unit of storage. The same shape lives in the active and
// the archived collection; a record is in exactly one of them at a time.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	ImageURL    *string   `json:"imageUrl"`
	Language    string    `json:"language,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Featured    bool      `json:"featured"`
}

// VerdictType discriminates duplicate-detection outcomes.
type VerdictType string

const (
	VerdictTitleMatch        VerdictType = "title_match"
	VerdictTitleSimilarity   VerdictType = "title_similarity"
	VerdictContentSimilarity VerdictType = "content_similarity"
	VerdictUnknown           VerdictType = "unknown"
)

// Verdict is the output of duplicate detection against the active set.
type Verdict struct {
	Type         VerdictType `json:"type"`
	Confidence   float64     `json:"confidence"`
	MatchedTitle string      `json:"matchedTitle,omitempty"`
	Reason       string      `json:"reason"`
}

// Duplicate-log entry actions.
const (
	DuplicateActionUpdated  = "updated"
	DuplicateActionRejected = "rejected"
)

// DuplicateEvent records one detected duplicate, newest first, bounded
// to MaxDuplicateEvents entries.
type DuplicateEvent struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Type        VerdictType `json:"type"`
	Confidence  float64     `json:"confidence"`
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	Source      string      `json:"source"`
	PublishedAt time.Time   `json:"publishedAt"`
	Action      string      `json:"action"`
	Reason      string      `json:"reason"`
}

// MaxDuplicateEvents bounds the duplicate log; oldest entries are evicted.
const MaxDuplicateEvents = 1000

// ArchiveConfig controls duplicate detection and the archive policy.
// It is persisted and lazily initialized from DefaultArchiveConfig.
type ArchiveConfig struct {
	ArchiveEnabled            bool       `json:"archiveEnabled"`
	DuplicateDetectionEnabled bool       `json:"duplicateDetectionEnabled"`
	MaxActiveArticles         int        `json:"maxActiveArticles"`
	AutoArchiveHours          int        `json:"autoArchiveHours"`
	LastArchiveRun            *time.Time `json:"lastArchiveRun"`
}

// DefaultArchiveConfig is the single place the defaults are declared.
func DefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		ArchiveEnabled:            true,
		DuplicateDetectionEnabled: true,
		MaxActiveArticles:         200,
		AutoArchiveHours:          24,
	}
}

// AutoArchiveInterval is the cooldown between automatic archive runs.
func (c ArchiveConfig) AutoArchiveInterval() time.Duration {
	hours := c.AutoArchiveHours
	if hours <= 0 {
		hours = DefaultArchiveConfig().AutoArchiveHours
	}
	return time.Duration(hours) * time.Hour
}

// Normalize fills zero-valued numeric fields from the defaults so a
// partially supplied config never disables the policy by accident.
func (c ArchiveConfig) Normalize() ArchiveConfig {
	defaults := DefaultArchiveConfig()
	if c.MaxActiveArticles <= 0 {
		c.MaxActiveArticles = defaults.MaxActiveArticles
	}
	if c.AutoArchiveHours <= 0 {
		c.AutoArchiveHours = defaults.AutoArchiveHours
	}
	return c
}
