package media

import (
	"fmt"
	"time"

	"github.com/statloom/statloom/internal/domain/opt"
)

// Social is one social-media post attached to a game. Posts are identified
// by handle plus timestamp; engagement counts may trickle in later.
type Social struct {
	Handle   string
	Text     opt.Val[string]
	PostedAt opt.Val[time.Time]
	Likes    opt.Val[float64]
	Reposts  opt.Val[float64]
}

func (s Social) Validate() error {
	if s.Handle == "" {
		return fmt.Errorf("social handle is required")
	}
	return nil
}

// News is one article attached to a game, identified by URL.
type News struct {
	URL         string
	Title       opt.Val[string]
	Summary     opt.Val[string]
	PublishedAt opt.Val[time.Time]
}

func (n News) Validate() error {
	if n.URL == "" {
		return fmt.Errorf("news url is required")
	}
	return nil
}
