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
)

// sampleArticles is a small starter data set for local development.
var sampleArticles = []pipeline.Payload{
	{
		Title:    "The Future of AI in 2025",
		Summary:  "Artificial Intelligence is evolving rapidly. Here is what to expect in the coming year, from agents to AGI.",
		Content:  "Full content about AI...",
		Source:   "TechCrunch",
		ImageURL: "https://images.unsplash.com/photo-1677442136019-21780ecad995?auto=format&fit=crop&q=80&w=1000",
		Category: "AI",
	},
	{
		Title:    "New Quantum Chip Breaks Records",
		Summary:  "Scientists have developed a new quantum processor that surpasses all previous benchmarks.",
		Content:  "Full content about Quantum...",
		Source:   "Wired",
		ImageURL: "https://images.unsplash.com/photo-1635070041078-e363dbe005cb?auto=format&fit=crop&q=80&w=1000",
		Category: "Hardware",
	},
	{
		Title:    "Cybersecurity Trends for Enterprise",
		Summary:  "Protecting your infrastructure is more critical than ever. Learn about the latest threats and defenses.",
		Content:  "Full content about Security...",
		Source:   "The Verge",
		ImageURL: "https://images.unsplash.com/photo-1550751827-4bd374c3f58b?auto=format&fit=crop&q=80&w=1000",
		Category: "Security",
	},
	{
		Title:    "Cloud Computing: The Next Generation",
		Summary:  "Serverless and edge computing are redefining how we deploy applications.",
		Content:  "Full content about Cloud...",
		Source:   "Ars Technica",
		ImageURL: "https://images.unsplash.com/photo-1451187580459-43490279c0fa?auto=format&fit=crop&q=80&w=1000",
		Category: "Cloud",
	},
}

func runSeed(args []string) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")

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

	created := 0
	for _, payload := range sampleArticles {
		record, err := svc.CreateOrUpdate(ctx, payload)
		if err != nil {
			if news.IsDuplicateRejected(err) {
				fmt.Fprintf(os.Stderr, "Skipped duplicate: %s\n", payload.Title)
				continue
			}
			fmt.Fprintf(os.Stderr, "Seed failed for %q: %v\n", payload.Title, err)
			return 1
		}
		created++
		fmt.Printf("seeded slug=%s category=%s\n", record.Slug, record.Category)
	}

	fmt.Printf("done seeded=%d\n", created)
	return 0
}
