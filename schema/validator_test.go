package payloadschema

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestValidateArticlePayload_Valid(t *testing.T) {
	payload := json.RawMessage(`{
		"title":"The Future of AI in 2025",
		"summary":"Artificial Intelligence is evolving rapidly.",
		"source":"TechCrunch",
		"category":"AI",
		"tags":["AI","Trends"],
		"imageUrl":"https://example.com/ai.jpg",
		"publishedAt":"2026-02-13T14:00:00Z",
		"featured":true
	}`)

	item, err := ValidateArticlePayload(payload)
	if err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}

	if item.Title != "The Future of AI in 2025" {
		t.Fatalf("unexpected title: %q", item.Title)
	}
	if item.Source == nil || *item.Source != "TechCrunch" {
		t.Fatalf("unexpected source: %v", item.Source)
	}
	published := item.PublishedAtTime()
	if published == nil || !published.Equal(time.Date(2026, 2, 13, 14, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected publishedAt: %v", published)
	}
}

func TestValidateArticlePayload_TitleOnly(t *testing.T) {
	item, err := ValidateArticlePayload(json.RawMessage(`{"title":"Just a headline"}`))
	if err != nil {
		t.Fatalf("expected minimal payload to be valid, got error: %v", err)
	}
	if item.PublishedAtTime() != nil {
		t.Fatal("expected no publishedAt for minimal payload")
	}
}

func TestValidateArticlePayload_MissingTitle(t *testing.T) {
	_, err := ValidateArticlePayload(json.RawMessage(`{"summary":"no headline"}`))
	if err == nil {
		t.Fatal("expected validation to fail for missing title")
	}
}

func TestValidateArticlePayload_WhitespaceTitle(t *testing.T) {
	_, err := ValidateArticlePayload(json.RawMessage(`{"title":"   "}`))
	if err == nil {
		t.Fatal("expected validation to fail for whitespace-only title")
	}
	if !strings.Contains(err.Error(), "title must not be empty") {
		t.Fatalf("expected title semantic error, got: %v", err)
	}
}

func TestValidateArticlePayload_InvalidPublishedAt(t *testing.T) {
	_, err := ValidateArticlePayload(json.RawMessage(`{"title":"Bad date","publishedAt":"yesterday"}`))
	if err == nil {
		t.Fatal("expected validation to fail for invalid publishedAt")
	}
}

func TestValidateArticlePayload_UnknownField(t *testing.T) {
	_, err := ValidateArticlePayload(json.RawMessage(`{"title":"Extra","author":"someone"}`))
	if err == nil {
		t.Fatal("expected validation to fail for unknown field")
	}
}

func TestValidateArticlePayload_TrailingContent(t *testing.T) {
	_, err := ValidateArticlePayload(json.RawMessage(`{"title":"One"}{"title":"Two"}`))
	if err == nil {
		t.Fatal("expected validation to fail for trailing content")
	}
}

func TestValidateArticlePayload_TagsMustBeStrings(t *testing.T) {
	_, err := ValidateArticlePayload(json.RawMessage(`{"title":"Typed tags","tags":[1,2]}`))
	if err == nil {
		t.Fatal("expected validation to fail for non-string tags")
	}
}
