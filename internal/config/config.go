package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shiddong/blog/internal/outline"
	"github.com/shiddong/blog/internal/parser"
	"github.com/shiddong/blog/internal/wordcount"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Upload limits
	MaxUploadBytes int64

	// Reading time
	WordsPerMinute int

	// Inline table of contents defaults
	TOCIndentDepth int
	TOCFromHeading int
	TOCToHeading   int
	TOCPolicy      string

	// Rolling window for analysis latency stats
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("BLOG_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		WordsPerMinute: envInt("WORDS_PER_MINUTE", wordcount.DefaultWordsPerMinute),

		TOCIndentDepth: envInt("TOC_INDENT_DEPTH", outline.DefaultIndentDepth),
		TOCFromHeading: envInt("TOC_FROM_HEADING", outline.DefaultFromHeading),
		TOCToHeading:   envInt("TOC_TO_HEADING", outline.DefaultToHeading),
		TOCPolicy:      envOr("TOC_POLICY", string(outline.PolicyStepped)),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = wordcount.DefaultWordsPerMinute
	}
	if cfg.TOCIndentDepth <= 0 {
		cfg.TOCIndentDepth = outline.DefaultIndentDepth
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("BLOG_API_KEY is required")
	}
	if err := c.OutlineOptions().Validate(); err != nil {
		return fmt.Errorf("TOC defaults: %w", err)
	}
	return nil
}

// OutlineOptions returns the configured outline defaults. Requests may
// override any field.
func (c Config) OutlineOptions() outline.Options {
	return outline.Options{
		IndentDepth: c.TOCIndentDepth,
		FromHeading: c.TOCFromHeading,
		ToHeading:   c.TOCToHeading,
		Policy:      outline.Policy(c.TOCPolicy),
	}
}

// ParserConfig returns the parser options.
func (c Config) ParserConfig() parser.Config {
	return parser.Config{PDFFallbackPdftotext: c.PDFFallbackPdftotext}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
