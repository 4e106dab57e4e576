// Package categorize assigns a single category label to an article using
// weighted whole-word keyword scoring. It is pure and deterministic so it
// can be re-run over stored records at any time.
package categorize

import (
	"regexp"
	"strings"
)

// FallbackCategory is returned when no category scores above the
// confidence threshold.
const FallbackCategory = "General"

// scoreThreshold keeps one-keyword weak matches from producing a
// confident-looking label.
const scoreThreshold = 1.5

type category struct {
	name     string
	weight   float64
	keywords []string
	patterns []*regexp.Regexp
}

// Declaration order is the tie-break: the first category among equal
// maximal scores wins.
var categories = []*category{
	{
		name:   "AI",
		weight: 1.2,
		keywords: []string{
			"ai", "artificial intelligence", "machine learning", "ml", "llm", "gpt", "chatgpt",
			"generative ai", "neural network", "deep learning", "openai", "anthropic", "bard",
			"gemini", "copilot", "transformer", "inference", "model", "algorithm", "robot",
			"robotics", "autonomous", "computer vision", "nlp",
		},
	},
	{
		name:   "Cloud",
		weight: 1.0,
		keywords: []string{
			"cloud", "aws", "azure", "google cloud", "gcp", "serverless", "kubernetes", "k8s",
			"docker", "container", "microservices", "devops", "infrastructure", "terraform",
			"ansible", "ci/cd", "pipeline", "saas", "paas", "iaas", "data center", "edge computing",
		},
	},
	{
		name:   "Security",
		weight: 1.1,
		keywords: []string{
			"security", "cybersecurity", "hack", "hacker", "malware", "ransomware", "phishing",
			"vulnerability", "exploit", "patch", "firewall", "encryption", "breach", "attack",
			"threat", "zero day", "cve", "infosec", "privacy", "gdpr", "compliance", "auth",
			"authentication", "password",
		},
	},
	{
		name:   "Mobile",
		weight: 1.0,
		keywords: []string{
			"mobile", "phone", "smartphone", "android", "ios", "iphone", "ipad", "apple",
			"samsung", "pixel", "app store", "play store", "tablet", "wearable", "watch",
			"5g", "qualcomm", "snapdragon", "mediatek", "arm",
		},
	},
	{
		name:   "Development",
		weight: 0.9,
		keywords: []string{
			"development", "programming", "coding", "software", "developer", "javascript",
			"python", "java", "rust", "go", "golang", "react", "vue", "angular", "node",
			"nodejs", "typescript", "api", "graphql", "rest", "database", "sql", "nosql",
			"git", "github", "gitlab", "ide", "vscode", "framework", "library",
		},
	},
	{
		name:   "Enterprise",
		weight: 0.8,
		keywords: []string{
			"enterprise", "business", "startup", "acquisition", "merger", "stock", "market",
			"ipo", "revenue", "quarterly", "earnings", "ceo", "cto", "cfo", "management",
			"strategy", "digital transformation", "fintech",
		},
	},
}

func init() {
	for _, c := range categories {
		c.patterns = make([]*regexp.Regexp, len(c.keywords))
		for i, keyword := range c.keywords {
			c.patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		}
	}
}

// Categorize scores the lowercased concatenation of title, summary and
// content against every category and returns the strictly best label, or
// FallbackCategory when the best score stays below the threshold.
func Categorize(title, summary, content string) string {
	text := strings.ToLower(title + " " + summary + " " + content)

	best := FallbackCategory
	bestScore := 0.0
	for _, c := range categories {
		count := 0
		for _, pattern := range c.patterns {
			count += len(pattern.FindAllStringIndex(text, -1))
		}
		score := float64(count) * c.weight
		if score > bestScore {
			bestScore = score
			best = c.name
		}
	}

	if bestScore < scoreThreshold {
		return FallbackCategory
	}
	return best
}

// Categories lists the known labels in declaration order, without the
// fallback.
func Categories() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.name
	}
	return names
}
