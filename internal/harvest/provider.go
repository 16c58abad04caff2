package harvest

import (
	"context"

	"github.com/statloom/statloom/internal/domain/game"
)

// Provider is one source-specific scraper boundary. Implementations fetch
// and materialize every game they know for the league; the reconciliation
// core never performs network I/O itself. Registration order defines
// provider priority: earlier providers win field-level ties in every merge.
type Provider interface {
	Name() string
	Games(ctx context.Context) ([]game.Game, error)
}
