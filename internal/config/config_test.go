package config

import (
	"testing"
	"time"

	"github.com/statloom/statloom/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Leagues) != 1 || cfg.Leagues[0] != "afl" {
		t.Fatalf("unexpected default leagues: %v", cfg.Leagues)
	}
	if cfg.DrainWorkers != 4 {
		t.Fatalf("unexpected default drain workers: %d", cfg.DrainWorkers)
	}
	if cfg.ResultCacheRecency != 4*24*time.Hour {
		t.Fatalf("unexpected default cache recency: %s", cfg.ResultCacheRecency)
	}
	if cfg.OutputDir != "out" {
		t.Fatalf("unexpected default output dir: %q", cfg.OutputDir)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected default log level: %v", cfg.LogLevel)
	}
}

func TestLoad_LeaguesLowercasedAndTrimmed(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("LEAGUES", " AFL , VFL ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Leagues) != 2 || cfg.Leagues[0] != "afl" || cfg.Leagues[1] != "vfl" {
		t.Fatalf("unexpected leagues: %v", cfg.Leagues)
	}
}

func TestLoad_StatsFeedsPreserveOrder(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STATS_FEEDS", "afltables=https://afltables.example.com, footywire=https://footywire.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.StatsFeeds) != 2 {
		t.Fatalf("expected two feeds, got=%d", len(cfg.StatsFeeds))
	}
	if cfg.StatsFeeds[0].Name != "afltables" || cfg.StatsFeeds[1].Name != "footywire" {
		t.Fatalf("feed order not preserved: %v", cfg.StatsFeeds)
	}
	if cfg.StatsFeeds[0].BaseURL != "https://afltables.example.com" {
		t.Fatalf("unexpected feed base url: %q", cfg.StatsFeeds[0].BaseURL)
	}
}

func TestLoad_StatsFeedsRejectDuplicatesAndMalformed(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STATS_FEEDS", "afltables=https://a.example.com,afltables=https://b.example.com")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for duplicate feed name")
	}

	t.Setenv("STATS_FEEDS", "afltables")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for feed item without base url")
	}
}

func TestLoad_OddsFeedRequiresBaseURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ODDS_FEED_ENABLED", "true")
	t.Setenv("ODDS_FEED_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when ODDS_FEED_ENABLED=true without ODDS_FEED_BASE_URL")
	}
}

func TestLoad_WikiVenueRequiresBaseURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WIKI_VENUE_ENABLED", "true")
	t.Setenv("WIKI_VENUE_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when WIKI_VENUE_ENABLED=true without WIKI_VENUE_BASE_URL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/123"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/123" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_DurationsAndRetries(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("STATS_FEED_TIMEOUT", "45s")
	t.Setenv("STATS_FEED_MAX_RETRIES", "5")
	t.Setenv("RESULT_CACHE_RECENCY", "72h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StatsFeedTimeout != 45*time.Second {
		t.Fatalf("unexpected StatsFeedTimeout: %s", cfg.StatsFeedTimeout)
	}
	if cfg.StatsFeedMaxRetries != 5 {
		t.Fatalf("unexpected StatsFeedMaxRetries: %d", cfg.StatsFeedMaxRetries)
	}
	if cfg.ResultCacheRecency != 72*time.Hour {
		t.Fatalf("unexpected ResultCacheRecency: %s", cfg.ResultCacheRecency)
	}
	if cfg.PprofEnabled {
		t.Fatalf("pprof should default off outside dev")
	}
}

func TestLoad_DrainWorkersValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("DRAIN_WORKERS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for DRAIN_WORKERS=0")
	}
}
