package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/statloom/statloom/internal/platform/logging"
)

// Feed names one configured stats source. The order feeds appear in
// STATS_FEEDS is the order the harvester trusts them in.
type Feed struct {
	Name    string
	BaseURL string
}

// Config stores runtime configuration for the harvester.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string

	Leagues         []string
	IdentityMapPath string
	OutputDir       string
	DrainWorkers    int

	ResultCachePath    string
	ResultCacheRecency time.Duration

	DBURL                   string
	DBDisablePreparedBinary bool

	StatsFeeds                 []Feed
	StatsFeedToken             string
	StatsFeedTimeout           time.Duration
	StatsFeedMaxRetries        int
	StatsFeedCircuitEnabled    bool
	StatsFeedCircuitFailures   int
	StatsFeedCircuitOpenFor    time.Duration
	StatsFeedCircuitHalfOpen   int

	OddsFeedEnabled          bool
	OddsFeedBaseURL          string
	OddsFeedAPIKey           string
	OddsFeedTimeout          time.Duration
	OddsFeedMaxRetries       int
	OddsFeedCircuitEnabled   bool
	OddsFeedCircuitFailures  int
	OddsFeedCircuitOpenFor   time.Duration
	OddsFeedCircuitHalfOpen  int

	WikiVenueEnabled  bool
	WikiVenueBaseURL  string
	WikiVenueTimeout  time.Duration
	WikiVenueCacheTTL time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	leagues := splitCSV(getEnv("LEAGUES", "afl"))
	if len(leagues) == 0 {
		return Config{}, fmt.Errorf("LEAGUES must name at least one league")
	}
	for i, league := range leagues {
		leagues[i] = strings.ToLower(league)
	}

	feeds, err := parseFeeds(getEnv("STATS_FEEDS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_FEEDS: %w", err)
	}

	drainWorkers, err := getEnvAsInt("DRAIN_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse DRAIN_WORKERS: %w", err)
	}
	if drainWorkers < 1 {
		return Config{}, fmt.Errorf("DRAIN_WORKERS must be >= 1")
	}

	cacheRecency, err := getEnvAsDuration("RESULT_CACHE_RECENCY", 4*24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_CACHE_RECENCY: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY: %w", err)
	}

	statsFeedTimeout, err := getEnvAsDuration("STATS_FEED_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_FEED_TIMEOUT: %w", err)
	}
	statsFeedMaxRetries, err := getEnvAsInt("STATS_FEED_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_FEED_MAX_RETRIES: %w", err)
	}
	statsFeedCircuitEnabled, err := strconv.ParseBool(getEnv("STATS_FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_FEED_CIRCUIT_ENABLED: %w", err)
	}
	statsFeedCircuitFailures, err := getEnvAsInt("STATS_FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	statsFeedCircuitOpenFor, err := getEnvAsDuration("STATS_FEED_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_FEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	statsFeedCircuitHalfOpen, err := getEnvAsInt("STATS_FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	oddsFeedEnabled, err := strconv.ParseBool(getEnv("ODDS_FEED_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_FEED_ENABLED: %w", err)
	}
	oddsFeedBaseURL := strings.TrimSpace(getEnv("ODDS_FEED_BASE_URL", ""))
	if oddsFeedEnabled && oddsFeedBaseURL == "" {
		return Config{}, fmt.Errorf("ODDS_FEED_BASE_URL is required when ODDS_FEED_ENABLED=true")
	}
	oddsFeedTimeout, err := getEnvAsDuration("ODDS_FEED_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_FEED_TIMEOUT: %w", err)
	}
	oddsFeedMaxRetries, err := getEnvAsInt("ODDS_FEED_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_FEED_MAX_RETRIES: %w", err)
	}
	oddsFeedCircuitEnabled, err := strconv.ParseBool(getEnv("ODDS_FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_FEED_CIRCUIT_ENABLED: %w", err)
	}
	oddsFeedCircuitFailures, err := getEnvAsInt("ODDS_FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	oddsFeedCircuitOpenFor, err := getEnvAsDuration("ODDS_FEED_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_FEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	oddsFeedCircuitHalfOpen, err := getEnvAsInt("ODDS_FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	wikiVenueEnabled, err := strconv.ParseBool(getEnv("WIKI_VENUE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WIKI_VENUE_ENABLED: %w", err)
	}
	wikiVenueBaseURL := strings.TrimSpace(getEnv("WIKI_VENUE_BASE_URL", ""))
	if wikiVenueEnabled && wikiVenueBaseURL == "" {
		return Config{}, fmt.Errorf("WIKI_VENUE_BASE_URL is required when WIKI_VENUE_ENABLED=true")
	}
	wikiVenueTimeout, err := getEnvAsDuration("WIKI_VENUE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse WIKI_VENUE_TIMEOUT: %w", err)
	}
	wikiVenueCacheTTL, err := getEnvAsDuration("WIKI_VENUE_CACHE_TTL", 6*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse WIKI_VENUE_CACHE_TTL: %w", err)
	}

	pprofDefault := "false"
	if appEnv == EnvDev {
		pprofDefault = "true"
	}
	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", pprofDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	serviceName := getEnv("SERVICE_NAME", "statloom-harvester")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),

		Leagues:         leagues,
		IdentityMapPath: strings.TrimSpace(getEnv("IDENTITY_MAP_PATH", "")),
		OutputDir:       getEnv("OUTPUT_DIR", "out"),
		DrainWorkers:    drainWorkers,

		ResultCachePath:    getEnv("RESULT_CACHE_PATH", "statloom-cache.db"),
		ResultCacheRecency: cacheRecency,

		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,

		StatsFeeds:               feeds,
		StatsFeedToken:           strings.TrimSpace(getEnv("STATS_FEED_TOKEN", "")),
		StatsFeedTimeout:         statsFeedTimeout,
		StatsFeedMaxRetries:      statsFeedMaxRetries,
		StatsFeedCircuitEnabled:  statsFeedCircuitEnabled,
		StatsFeedCircuitFailures: statsFeedCircuitFailures,
		StatsFeedCircuitOpenFor:  statsFeedCircuitOpenFor,
		StatsFeedCircuitHalfOpen: statsFeedCircuitHalfOpen,

		OddsFeedEnabled:         oddsFeedEnabled,
		OddsFeedBaseURL:         oddsFeedBaseURL,
		OddsFeedAPIKey:          strings.TrimSpace(getEnv("ODDS_FEED_API_KEY", "")),
		OddsFeedTimeout:         oddsFeedTimeout,
		OddsFeedMaxRetries:      oddsFeedMaxRetries,
		OddsFeedCircuitEnabled:  oddsFeedCircuitEnabled,
		OddsFeedCircuitFailures: oddsFeedCircuitFailures,
		OddsFeedCircuitOpenFor:  oddsFeedCircuitOpenFor,
		OddsFeedCircuitHalfOpen: oddsFeedCircuitHalfOpen,

		WikiVenueEnabled:  wikiVenueEnabled,
		WikiVenueBaseURL:  wikiVenueBaseURL,
		WikiVenueTimeout:  wikiVenueTimeout,
		WikiVenueCacheTTL: wikiVenueCacheTTL,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", "localhost:6060"),

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
}

// parseFeeds reads the ordered "name=base_url" list that names the stats
// sources. List order is trust order.
func parseFeeds(raw string) ([]Feed, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var feeds []Feed
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		segments := strings.SplitN(item, "=", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid feed item %q, expected name=base_url", item)
		}
		name := strings.ToLower(strings.TrimSpace(segments[0]))
		baseURL := strings.TrimSpace(segments[1])
		if name == "" || baseURL == "" {
			return nil, fmt.Errorf("invalid feed item %q, expected name=base_url", item)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate feed name %q", name)
		}
		seen[name] = struct{}{}
		feeds = append(feeds, Feed{Name: name, BaseURL: baseURL})
	}
	return feeds, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
