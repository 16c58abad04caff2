package venue

import (
	"fmt"

	"github.com/statloom/statloom/internal/domain/address"
	"github.com/statloom/statloom/internal/domain/opt"
)

// Venue is a ground a game is played at. ID is source-local on scraped
// records and canonical on merged ones.
type Venue struct {
	ID       string
	Name     opt.Val[string]
	IsGrass  opt.Val[bool]
	IsIndoor opt.Val[bool]
	Address  *address.Address
}

func (v Venue) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("venue id is required")
	}
	return nil
}
