package merge

import (
	"context"

	"github.com/statloom/statloom/internal/domain/meta"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/person"
	"github.com/statloom/statloom/internal/domain/player"
	"github.com/statloom/statloom/internal/domain/team"
)

// Team merges one side of a game. Every contributing record must resolve to
// the same canonical team identifier (the orchestrator clusters them that
// way). Players and coaches are clustered by their own canonical identities
// and merged per cluster; odds quotes are concatenated as-is, one line per
// bookmaker per source.
func (m *Merger) Team(ctx context.Context, recs []team.Team) (*team.Team, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	canonicalID, err := m.resolver.Resolve(meta.KindTeam, m.league, recs[0].ID)
	if err != nil {
		return nil, err
	}

	out := team.Team{ID: canonicalID}

	name := opt.None[string]()
	var players []player.Player
	var coaches []person.Person
	for _, r := range recs {
		name = PickFirst(name, opt.String(r.Name))
		out.Points = PickFloat(out.Points, r.Points)
		out.Goals = PickFloat(out.Goals, r.Goals)
		out.Behinds = PickFloat(out.Behinds, r.Behinds)
		players = append(players, r.Players...)
		coaches = append(coaches, r.Coaches...)
		out.Odds = append(out.Odds, r.Odds...)
	}
	out.Name = name.Or(canonicalID)

	playerClusters, err := clusterBy(players, func(p player.Player) (string, error) {
		return m.resolver.Resolve(meta.KindPlayer, m.league, p.ID)
	})
	if err != nil {
		return nil, err
	}
	for _, c := range playerClusters {
		merged, err := m.Player(c.id, c.recs)
		if err != nil {
			return nil, err
		}
		if merged != nil {
			out.Players = append(out.Players, *merged)
		}
	}

	coachClusters, err := clusterBy(coaches, func(p person.Person) (string, error) {
		return p.Name, nil
	})
	if err != nil {
		return nil, err
	}
	for _, c := range coachClusters {
		merged, err := m.Person(person.RoleCoach, c.id, c.recs)
		if err != nil {
			return nil, err
		}
		if merged != nil {
			out.Coaches = append(out.Coaches, *merged)
		}
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
