// Package dedup classifies an incoming article candidate against the
// active collection. It is pure: the pipeline decides what a verdict
// means for the write.
package dedup

import (
	"fmt"
	"strings"

	"horse.fit/newsdesk/internal/news"
)

const (
	// LogThreshold gates which verdicts are recorded in the duplicate log.
	LogThreshold = 0.5
	// RejectThreshold gates when a verdict blocks a brand-new article.
	// Kept separate from LogThreshold on purpose.
	RejectThreshold = 0.8

	titleSimilarityConfidence = 0.8
	summaryMinLength          = 50
	tokenMinLength            = 3
	overlapThreshold          = 0.6
)

// Candidate is the incoming article as seen by the detector.
type Candidate struct {
	Title   string
	Summary string
}

// Detect evaluates the rules in order, first match wins. identityMatch
// reports whether the pipeline already resolved the candidate to an
// existing record by title or slug. A nil result means no verdict.
func Detect(candidate Candidate, active []news.Article, identityMatch bool) *news.Verdict {
	if identityMatch {
		return &news.Verdict{
			Type:       news.VerdictTitleMatch,
			Confidence: 1.0,
			Reason:     "title matches an existing article",
		}
	}

	title := strings.ToLower(strings.TrimSpace(candidate.Title))
	if title != "" {
		for _, existing := range active {
			existingTitle := strings.ToLower(strings.TrimSpace(existing.Title))
			if existingTitle == "" {
				continue
			}
			if strings.Contains(existingTitle, title) || strings.Contains(title, existingTitle) {
				return &news.Verdict{
					Type:         news.VerdictTitleSimilarity,
					Confidence:   titleSimilarityConfidence,
					MatchedTitle: existing.Title,
					Reason:       fmt.Sprintf("title overlaps with existing article %q", existing.Title),
				}
			}
		}
	}

	summary := strings.TrimSpace(candidate.Summary)
	if len(summary) > summaryMinLength {
		candidateTokens := summaryTokens(summary)
		for _, existing := range active {
			existingSummary := strings.TrimSpace(existing.Summary)
			if len(existingSummary) <= summaryMinLength {
				continue
			}
			overlap := tokenOverlap(candidateTokens, summaryTokens(existingSummary))
			if overlap > overlapThreshold {
				return &news.Verdict{
					Type:         news.VerdictContentSimilarity,
					Confidence:   overlap,
					MatchedTitle: existing.Title,
					Reason:       fmt.Sprintf("summary overlaps %.0f%% with existing article %q", overlap*100, existing.Title),
				}
			}
		}
	}

	return nil
}

// summaryTokens splits on whitespace and keeps lowercased tokens longer
// than tokenMinLength characters.
func summaryTokens(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		if len(field) > tokenMinLength {
			tokens[field] = struct{}{}
		}
	}
	return tokens
}

// tokenOverlap is |common| / max(|a|, |b|); zero when either side is
// empty.
func tokenOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for token := range a {
		if _, ok := b[token]; ok {
			common++
		}
	}
	denominator := len(a)
	if len(b) > denominator {
		denominator = len(b)
	}
	return float64(common) / float64(denominator)
}
