// Package harvest drives one reconciliation pass over a league: drain every
// registered provider, cluster their games into merge groups, and merge
// each group into one canonical game.
package harvest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/statloom/statloom/internal/domain/game"
	"github.com/statloom/statloom/internal/domain/meta"
	"github.com/statloom/statloom/internal/identity"
	"github.com/statloom/statloom/internal/merge"
	"github.com/statloom/statloom/internal/platform/cache"
	"github.com/statloom/statloom/internal/platform/logging"
)

// Config wires an Orchestrator. Results may be nil to disable the
// persistent merge-group cache (it is always nil under tests).
type Config struct {
	League       string
	Merger       *merge.Merger
	Resolver     *identity.Resolver
	Results      *cache.ResultCache
	Logger       *logging.Logger
	DrainWorkers int
}

type Orchestrator struct {
	league   string
	merger   *merge.Merger
	resolver *identity.Resolver
	results  *cache.ResultCache
	logger   *logging.Logger
	workers  int
}

func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.League == "" {
		return nil, fmt.Errorf("league is required")
	}
	if cfg.Merger == nil {
		return nil, fmt.Errorf("merger is required")
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = identity.NewResolver()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.DrainWorkers
	if workers < 1 {
		workers = 4
	}
	return &Orchestrator{
		league:   cfg.League,
		merger:   cfg.Merger,
		resolver: resolver,
		results:  cfg.Results,
		logger:   logger,
		workers:  workers,
	}, nil
}

type mergeGroup struct {
	key  string
	recs []game.Game
}

// Run performs one full pass. Providers are drained concurrently but their
// output is regrouped in registration order, so the merge remains
// deterministic for fixed inputs and a fixed provider order. A failing
// group is dropped with a warning; a failing provider contributes nothing.
// Output order is first-seen group order, not date order.
func (o *Orchestrator) Run(ctx context.Context, providers []Provider) ([]game.Game, error) {
	ctx, span := startSpan(ctx, "harvest.Orchestrator.Run")
	defer span.End()

	if len(providers) == 0 {
		return nil, fmt.Errorf("at least one provider is required")
	}

	drained, err := o.drain(ctx, providers)
	if err != nil {
		return nil, err
	}

	// All providers are fully drained before any group closes: a later
	// provider may still contribute to the earliest date.
	index := make(map[string]int)
	groups := make([]mergeGroup, 0, len(drained[0]))
	for i := range drained {
		for _, g := range drained[i] {
			key, err := o.groupKey(g)
			if err != nil {
				o.logger.ErrorContext(ctx, "game excluded from grouping",
					"league", o.league,
					"provider", providers[i].Name(),
					"error", err,
				)
				continue
			}
			at, ok := index[key]
			if !ok {
				index[key] = len(groups)
				groups = append(groups, mergeGroup{key: key})
				at = len(groups) - 1
			}
			groups[at].recs = append(groups[at].recs, g)
		}
	}

	out := make([]game.Game, 0, len(groups))
	for _, grp := range groups {
		merged, err := o.mergeGroup(ctx, grp)
		if err != nil {
			o.logger.WarnContext(ctx, "merge group dropped",
				"league", o.league,
				"group", grp.key,
				"sources", len(grp.recs),
				"error", err,
			)
			continue
		}
		if merged != nil {
			out = append(out, *merged)
		}
	}

	o.logger.InfoContext(ctx, "league pass complete",
		"league", o.league,
		"providers", len(providers),
		"groups", len(groups),
		"games", len(out),
	)
	return out, nil
}

func (o *Orchestrator) drain(ctx context.Context, providers []Provider) ([][]game.Game, error) {
	drained := make([][]game.Game, len(providers))

	pool, err := ants.NewPool(o.workers)
	if err != nil {
		return nil, fmt.Errorf("create drain pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, p := range providers {
		i, p := i, p
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			games, err := p.Games(ctx)
			if err != nil {
				o.logger.ErrorContext(ctx, "provider drain failed",
					"league", o.league,
					"provider", p.Name(),
					"error", err,
				)
				return
			}
			drained[i] = games
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit provider drain: %w", err)
		}
	}
	wg.Wait()

	return drained, nil
}

// GroupKeyOf is the merge-group key of a game whose team identifiers are
// already canonical, as they are on Run output. Callers persisting merged
// games key them with this.
func GroupKeyOf(g game.Game) string {
	parts := make([]string, 0, len(g.Teams)+1)
	parts = append(parts, g.Date.Format("2006-01-02"))
	for _, t := range g.Teams {
		parts = append(parts, t.ID)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// groupKey clusters renditions of the same real-world event: sorted event
// date plus canonical team identifiers, stable under provider and team
// ordering.
func (o *Orchestrator) groupKey(g game.Game) (string, error) {
	parts := make([]string, 0, len(g.Teams)+1)
	parts = append(parts, g.Date.Format("2006-01-02"))
	for _, t := range g.Teams {
		id, err := o.resolver.Resolve(meta.KindTeam, o.league, t.ID)
		if err != nil {
			return "", err
		}
		parts = append(parts, id)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|"), nil
}

type groupCacheArgs struct {
	League string      `json:"league"`
	Key    string      `json:"key"`
	Recs   []game.Game `json:"recs"`
}

func (o *Orchestrator) mergeGroup(ctx context.Context, grp mergeGroup) (*game.Game, error) {
	if o.results == nil || o.results.Bypass(grp.recs[0].Date) {
		return o.merger.Game(ctx, grp.recs)
	}

	key, err := o.results.Key("merge_group", merge.GameVersion(), groupCacheArgs{
		League: o.league,
		Key:    grp.key,
		Recs:   grp.recs,
	})
	if err != nil {
		o.logger.WarnContext(ctx, "merge group cache key failed", "group", grp.key, "error", err)
		return o.merger.Game(ctx, grp.recs)
	}

	var cached game.Game
	hit, err := o.results.Get(ctx, key, &cached)
	if err != nil {
		o.logger.WarnContext(ctx, "merge group cache read failed", "group", grp.key, "error", err)
	} else if hit {
		return &cached, nil
	}

	merged, err := o.merger.Game(ctx, grp.recs)
	if err != nil {
		return nil, err
	}
	if merged != nil {
		if err := o.results.Put(ctx, key, merged); err != nil {
			o.logger.WarnContext(ctx, "merge group cache write failed", "group", grp.key, "error", err)
		}
	}
	return merged, nil
}
