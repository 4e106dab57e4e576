package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/newsdesk/internal/cli"
	"horse.fit/newsdesk/internal/db"
	"horse.fit/newsdesk/internal/news"
	"horse.fit/newsdesk/internal/pipeline"
	payloadschema "horse.fit/newsdesk/schema"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 20*time.Second, "Command timeout")
	payload := fs.String("payload", `{"title":"manual ingest event","source":"manual_cli"}`, "Article payload JSON")
	payloadFile := fs.String("payload-file", "", "Path to payload JSON file (overrides --payload)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, err := loadEnvironment(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	payloadJSON, err := loadJSONInput(*payload, *payloadFile, "payload")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	item, err := payloadschema.ValidateArticlePayload(payloadJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	svc := newPipeline(db.NewStore(pool), logger)

	record, err := svc.CreateOrUpdate(ctx, ingestPayloadFromSchema(item))
	if err != nil {
		var rejected *news.DuplicateRejectedError
		if errors.As(err, &rejected) {
			fmt.Fprintf(os.Stderr, "Rejected as duplicate: %s (confidence %.2f)\n",
				rejected.Verdict.Type, rejected.Verdict.Confidence)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		return 1
	}

	fmt.Printf("id=%s slug=%s category=%s\n", record.ID, record.Slug, record.Category)
	return 0
}

func ingestPayloadFromSchema(item *payloadschema.ArticlePayload) pipeline.Payload {
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
