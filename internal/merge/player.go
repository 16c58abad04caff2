package merge

import (
	"github.com/statloom/statloom/internal/domain/meta"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/player"
)

// Player merges one athlete's lines from every source that carried them.
// Stat folds prefer non-zero figures: a source that lists a player without
// stats reports zeros, not genuine duck eggs.
func (m *Merger) Player(canonicalID string, recs []player.Player) (*player.Player, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	out := player.Player{ID: canonicalID}

	name := opt.None[string]()
	for _, r := range recs {
		name = PickFirst(name, opt.String(r.Name))
		out.Position = PickFirst(out.Position, r.Position)
		out.BirthDate = PickTime(out.BirthDate, r.BirthDate)
		out.Kicks = PickFloat(out.Kicks, r.Kicks)
		out.Marks = PickFloat(out.Marks, r.Marks)
		out.Handballs = PickFloat(out.Handballs, r.Handballs)
		out.Disposals = PickFloat(out.Disposals, r.Disposals)
		out.Goals = PickFloat(out.Goals, r.Goals)
		out.Behinds = PickFloat(out.Behinds, r.Behinds)
		out.Tackles = PickFloat(out.Tackles, r.Tackles)
		out.BrownlowVotes = PickFloat(out.BrownlowVotes, r.BrownlowVotes)
	}
	got, ok := name.Get()
	if !ok {
		return nil, mandatoryFieldErr(meta.KindPlayer, "name")
	}
	out.Name = got

	m.ledger.Apply(meta.KindPlayer, canonicalID, map[string]Slot{
		"position": Field(&out.Position),
	})

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
