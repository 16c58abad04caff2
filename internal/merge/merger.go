// Package merge combines independently scraped representations of the same
// real-world entity into one canonical record. Every merger is a pure
// function of its inputs except for the forward-fill ledger it is built
// with; one Merger (and one ledger) serves one league run.
package merge

import (
	"context"
	"time"

	"github.com/statloom/statloom/internal/domain/team"
	"github.com/statloom/statloom/internal/domain/venue"
	"github.com/statloom/statloom/internal/identity"
	"github.com/statloom/statloom/internal/platform/logging"
)

// VenueLookup supplies an encyclopedia-derived venue record folded in as an
// extra candidate by the venue merger. A nil record with a nil error means
// the venue is simply unknown there.
type VenueLookup interface {
	Lookup(ctx context.Context, name string) (*venue.Venue, error)
}

// OddsFetcher backfills bookmaker quotes for a merged game whose sources
// carried none, keyed by event date and canonical team identifier.
type OddsFetcher interface {
	FetchOdds(ctx context.Context, date time.Time, teamID string) ([]team.OddsQuote, error)
}

// Config wires a Merger's collaborators. League, Resolver and Ledger are
// required; Venues and Odds are optional enrichment sources.
type Config struct {
	League   string
	Resolver *identity.Resolver
	Ledger   *Ledger
	Venues   VenueLookup
	Odds     OddsFetcher
	Logger   *logging.Logger
}

// Merger merges same-kind records field by field. Methods expect their
// input slice to be ordered by provider priority; ties in every fold go to
// the earlier source.
type Merger struct {
	league   string
	resolver *identity.Resolver
	ledger   *Ledger
	venues   VenueLookup
	odds     OddsFetcher
	logger   *logging.Logger
}

func NewMerger(cfg Config) *Merger {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ledger := cfg.Ledger
	if ledger == nil {
		ledger = NewLedger()
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = identity.NewResolver()
	}
	return &Merger{
		league:   cfg.League,
		resolver: resolver,
		ledger:   ledger,
		venues:   cfg.Venues,
		odds:     cfg.Odds,
		logger:   logger,
	}
}
