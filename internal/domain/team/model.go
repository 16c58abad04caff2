package team

import (
	"fmt"
	"time"

	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/person"
	"github.com/statloom/statloom/internal/domain/player"
)

// OddsQuote is one bookmaker's price on a team. Quotes are never merged or
// deduplicated across sources; every bookie's quote is its own product.
type OddsQuote struct {
	Bookmaker string
	Price     opt.Val[float64]
	Line      opt.Val[float64]
	FetchedAt time.Time
}

// Team is one side of a game. ID is source-local on scraped records and
// canonical on merged ones.
type Team struct {
	ID      string
	Name    string
	Points  opt.Val[float64]
	Goals   opt.Val[float64]
	Behinds opt.Val[float64]
	Players []player.Player
	Odds    []OddsQuote
	Coaches []person.Person
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	return nil
}
