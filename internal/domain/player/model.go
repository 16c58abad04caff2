package player

import (
	"fmt"
	"time"

	"github.com/statloom/statloom/internal/domain/opt"
)

// Player is one athlete's line for one game. The stat fields are only
// knowable after the final siren; the registry tags them look-ahead so the
// trainer never sees them as inputs.
type Player struct {
	ID            string
	Name          string
	Position      opt.Val[string]
	BirthDate     opt.Val[time.Time]
	Kicks         opt.Val[float64]
	Marks         opt.Val[float64]
	Handballs     opt.Val[float64]
	Disposals     opt.Val[float64]
	Goals         opt.Val[float64]
	Behinds       opt.Val[float64]
	Tackles       opt.Val[float64]
	BrownlowVotes opt.Val[float64]
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}
