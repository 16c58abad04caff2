package game

import (
	"fmt"
	"time"

	"github.com/statloom/statloom/internal/domain/media"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/person"
	"github.com/statloom/statloom/internal/domain/team"
	"github.com/statloom/statloom/internal/domain/venue"
)

// Dividend is one provider-specific payout product settled against a game.
// Dividends from different sources are distinct products and are unioned,
// never merged.
type Dividend struct {
	Product string
	Amount  opt.Val[float64]
}

// Game is one scheduled or played match. Scraped records carry source-local
// team and venue identifiers and a Source naming the provider; merged
// records carry canonical identifiers and no Source.
type Game struct {
	League      string
	Source      string
	Date        time.Time
	Week        opt.Val[int64]
	GameNumber  opt.Val[int64]
	SeasonStage opt.Val[string]
	Attendance  opt.Val[float64]
	Postponed   opt.Val[bool]
	Playoff     opt.Val[bool]
	Teams       []team.Team
	Venue       *venue.Venue
	Umpires     []person.Person
	Dividends   []Dividend
	Social      []media.Social
	News        []media.News
}

func (g Game) Validate() error {
	if g.League == "" {
		return fmt.Errorf("game league is required")
	}
	if g.Date.IsZero() {
		return fmt.Errorf("game date is required")
	}
	if len(g.Teams) == 0 {
		return fmt.Errorf("game needs at least one team")
	}
	for _, t := range g.Teams {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("game team: %w", err)
		}
	}
	return nil
}
