// Package app composes the harvester from configuration: identity maps,
// the merge-group result cache, enrichment clients, the warehouse sink and
// one orchestrator per league pass.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/statloom/statloom/external/oddsfeed"
	"github.com/statloom/statloom/external/statsfeed"
	"github.com/statloom/statloom/external/wikivenue"
	"github.com/statloom/statloom/internal/config"
	"github.com/statloom/statloom/internal/domain/game"
	"github.com/statloom/statloom/internal/export"
	"github.com/statloom/statloom/internal/harvest"
	"github.com/statloom/statloom/internal/identity"
	"github.com/statloom/statloom/internal/infrastructure/repository/postgres"
	"github.com/statloom/statloom/internal/merge"
	"github.com/statloom/statloom/internal/platform/cache"
	"github.com/statloom/statloom/internal/platform/logging"
	"github.com/statloom/statloom/internal/platform/resilience"
)

// warehouse is the slice of the postgres game repository the app drives:
// the harvest path writes through it, the replay path reads back.
type warehouse interface {
	UpsertGames(ctx context.Context, league string, records []postgres.GameRecord) error
	ReplaceColumns(ctx context.Context, league string, columns []postgres.ColumnRecord) error
	ListGames(ctx context.Context, league string) ([]postgres.GameRecord, error)
	ListColumns(ctx context.Context, league string) ([]postgres.ColumnRecord, error)
}

type App struct {
	cfg       config.Config
	logger    *logging.Logger
	resolver  *identity.Resolver
	results   *cache.ResultCache
	db        *sqlx.DB
	warehouse warehouse
	venues    merge.VenueLookup
	odds      merge.OddsFetcher
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	resolver := identity.NewResolver()
	if cfg.IdentityMapPath != "" {
		if err := resolver.LoadFile(cfg.IdentityMapPath); err != nil {
			return nil, fmt.Errorf("load identity map: %w", err)
		}
	}

	var results *cache.ResultCache
	if cfg.ResultCachePath != "" {
		opened, err := cache.OpenResultCache(cfg.ResultCachePath, cfg.ResultCacheRecency)
		if err != nil {
			return nil, fmt.Errorf("open result cache: %w", err)
		}
		results = opened
	}

	a := &App{
		cfg:      cfg,
		logger:   logger,
		resolver: resolver,
		results:  results,
	}

	if cfg.DBURL != "" {
		db, err := openDB(cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.db = db
		a.warehouse = postgres.NewGameRepository(db)
	}

	if cfg.WikiVenueEnabled {
		a.venues = wikivenue.NewClient(wikivenue.Config{
			BaseURL:  cfg.WikiVenueBaseURL,
			Timeout:  cfg.WikiVenueTimeout,
			CacheTTL: cfg.WikiVenueCacheTTL,
			Logger:   logger,
		})
	}

	if cfg.OddsFeedEnabled {
		a.odds = oddsfeed.NewClient(oddsfeed.Config{
			BaseURL:    cfg.OddsFeedBaseURL,
			APIKey:     cfg.OddsFeedAPIKey,
			Timeout:    cfg.OddsFeedTimeout,
			MaxRetries: cfg.OddsFeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.OddsFeedCircuitEnabled,
				FailureThreshold: cfg.OddsFeedCircuitFailures,
				OpenTimeout:      cfg.OddsFeedCircuitOpenFor,
				HalfOpenMaxReq:   cfg.OddsFeedCircuitHalfOpen,
			},
		})
	}

	return a, nil
}

func (a *App) Close() {
	if a.results != nil {
		if err := a.results.Close(); err != nil {
			a.logger.Warn("close result cache", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close warehouse db", "error", err)
		}
	}
}

// Run harvests every configured league. A league whose pass fails still
// gets a placeholder artifact so downstream consumers always find a file;
// degraded output is success, a missing artifact is not.
func (a *App) Run(ctx context.Context) error {
	if len(a.cfg.StatsFeeds) == 0 {
		return fmt.Errorf("no stats feeds configured")
	}
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var failed []string
	for _, league := range a.cfg.Leagues {
		if err := a.runLeague(ctx, league); err != nil {
			a.logger.ErrorContext(ctx, "league harvest degraded to placeholder",
				"league", league,
				"error", err,
			)
			failed = append(failed, league)
			if err := a.writeArtifacts(league, export.Placeholder(league)); err != nil {
				return fmt.Errorf("write placeholder artifacts for %s: %w", league, err)
			}
		}
	}

	if len(failed) > 0 {
		a.logger.Warn("some league passes degraded",
			"failed", strings.Join(failed, ", "),
			"total", len(a.cfg.Leagues),
		)
	}
	return nil
}

// Replay rebuilds the flat artifacts for every configured league from the
// warehouse instead of the live feeds. Useful after a flatten change when
// the merged payloads are still good.
func (a *App) Replay(ctx context.Context) error {
	if a.warehouse == nil {
		return fmt.Errorf("no warehouse configured")
	}
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, league := range a.cfg.Leagues {
		if err := a.replayLeague(ctx, league); err != nil {
			return fmt.Errorf("replay %s: %w", league, err)
		}
	}
	return nil
}

func (a *App) replayLeague(ctx context.Context, league string) error {
	records, err := a.warehouse.ListGames(ctx, league)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no warehoused games")
	}

	games := make([]game.Game, 0, len(records))
	for _, record := range records {
		var g game.Game
		if err := sonic.Unmarshal(record.Payload, &g); err != nil {
			a.logger.WarnContext(ctx, "skipping undecodable warehouse payload",
				"league", league,
				"group_key", record.GroupKey,
				"error", err,
			)
			continue
		}
		games = append(games, g)
	}
	if len(games) == 0 {
		return fmt.Errorf("no decodable warehoused games")
	}

	table := export.Flatten(league, games)
	a.reportColumnDrift(ctx, league, table)
	return a.writeArtifacts(league, table)
}

// reportColumnDrift compares the freshly flattened columns against the
// stored registry so a replay surfaces columns the last harvest never
// registered.
func (a *App) reportColumnDrift(ctx context.Context, league string, table export.Table) {
	stored, err := a.warehouse.ListColumns(ctx, league)
	if err != nil {
		a.logger.WarnContext(ctx, "column registry unavailable", "league", league, "error", err)
		return
	}
	known := make(map[string]struct{}, len(stored))
	for _, column := range stored {
		known[column.Name] = struct{}{}
	}
	for _, column := range table.Columns {
		if _, ok := known[column.Name]; !ok {
			a.logger.WarnContext(ctx, "column missing from stored registry",
				"league", league,
				"column", column.Name,
			)
		}
	}
}

func (a *App) runLeague(ctx context.Context, league string) error {
	merger := merge.NewMerger(merge.Config{
		League:   league,
		Resolver: a.resolver,
		Ledger:   merge.NewLedger(),
		Venues:   a.venues,
		Odds:     a.odds,
		Logger:   a.logger,
	})

	orchestrator, err := harvest.NewOrchestrator(harvest.Config{
		League:       league,
		Merger:       merger,
		Resolver:     a.resolver,
		Results:      a.results,
		Logger:       a.logger,
		DrainWorkers: a.cfg.DrainWorkers,
	})
	if err != nil {
		return err
	}

	games, err := orchestrator.Run(ctx, a.providers(league))
	if err != nil {
		return err
	}
	if len(games) == 0 {
		return fmt.Errorf("no games harvested")
	}

	table := export.Flatten(league, games)
	if err := a.writeArtifacts(league, table); err != nil {
		return err
	}

	if a.warehouse != nil {
		if err := a.persist(ctx, league, games, table); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) providers(league string) []harvest.Provider {
	providers := make([]harvest.Provider, 0, len(a.cfg.StatsFeeds))
	for _, feed := range a.cfg.StatsFeeds {
		providers = append(providers, statsfeed.NewClient(statsfeed.Config{
			Name:       feed.Name,
			BaseURL:    feed.BaseURL,
			League:     league,
			Token:      a.cfg.StatsFeedToken,
			Timeout:    a.cfg.StatsFeedTimeout,
			MaxRetries: a.cfg.StatsFeedMaxRetries,
			Logger:     a.logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          a.cfg.StatsFeedCircuitEnabled,
				FailureThreshold: a.cfg.StatsFeedCircuitFailures,
				OpenTimeout:      a.cfg.StatsFeedCircuitOpenFor,
				HalfOpenMaxReq:   a.cfg.StatsFeedCircuitHalfOpen,
			},
		}))
	}
	return providers
}

func (a *App) writeArtifacts(league string, table export.Table) error {
	csvPath := filepath.Join(a.cfg.OutputDir, league+".csv")
	if err := export.WriteCSV(table, csvPath); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	sidecarPath := filepath.Join(a.cfg.OutputDir, league+"_columns.json")
	if err := export.WriteSidecar(table, sidecarPath); err != nil {
		return fmt.Errorf("write column sidecar: %w", err)
	}
	a.logger.Info("artifacts written",
		"league", league,
		"csv", csvPath,
		"sidecar", sidecarPath,
		"rows", len(table.Rows),
	)
	return nil
}

func (a *App) persist(ctx context.Context, league string, games []game.Game, table export.Table) error {
	records := make([]postgres.GameRecord, 0, len(games))
	for _, g := range games {
		payload, err := sonic.Marshal(g)
		if err != nil {
			return fmt.Errorf("encode merged game: %w", err)
		}
		records = append(records, postgres.GameRecord{
			GroupKey: harvest.GroupKeyOf(g),
			GameDate: g.Date,
			Payload:  payload,
		})
	}
	if err := a.warehouse.UpsertGames(ctx, league, records); err != nil {
		return fmt.Errorf("persist merged games: %w", err)
	}

	columns := make([]postgres.ColumnRecord, 0, len(table.Columns))
	for _, column := range table.Columns {
		columns = append(columns, postgres.ColumnRecord{
			Name: column.Name,
			Tags: column.Tags.Names(),
		})
	}
	if err := a.warehouse.ReplaceColumns(ctx, league, columns); err != nil {
		return fmt.Errorf("persist column registry: %w", err)
	}
	return nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open warehouse db: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	return db, nil
}
