package merge

import (
	"context"
	"time"

	"github.com/statloom/statloom/internal/domain/game"
	"github.com/statloom/statloom/internal/domain/media"
	"github.com/statloom/statloom/internal/domain/meta"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/person"
	"github.com/statloom/statloom/internal/domain/team"
	"github.com/statloom/statloom/internal/domain/venue"
)

// Game merges a full merge group: every provider's rendition of the same
// real-world match. Teams, venue, umpires, posts and articles are clustered
// by canonical identity and merged recursively; dividends are unioned since
// each quote is a provider-specific payout product. When no source carried
// odds and an odds fetcher is configured, quotes are backfilled per team by
// event date.
func (m *Merger) Game(ctx context.Context, recs []game.Game) (*game.Game, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	out := game.Game{League: recs[0].League}

	date := opt.None[time.Time]()
	var teams []team.Team
	var venues []*venue.Venue
	var umpires []person.Person
	var posts []media.Social
	var articles []media.News
	for _, r := range recs {
		date = PickTime(date, opt.Time(r.Date))
		out.Week = PickInt(out.Week, r.Week)
		out.GameNumber = PickInt(out.GameNumber, r.GameNumber)
		out.SeasonStage = PickFirst(out.SeasonStage, r.SeasonStage)
		out.Attendance = PickFloat(out.Attendance, r.Attendance)
		out.Postponed = PickFirst(out.Postponed, r.Postponed)
		out.Playoff = PickFirst(out.Playoff, r.Playoff)
		teams = append(teams, r.Teams...)
		venues = append(venues, r.Venue)
		umpires = append(umpires, r.Umpires...)
		posts = append(posts, r.Social...)
		articles = append(articles, r.News...)
		out.Dividends = append(out.Dividends, r.Dividends...)
	}
	got, ok := date.Get()
	if !ok {
		return nil, mandatoryFieldErr(meta.KindGame, "date")
	}
	out.Date = got

	teamClusters, err := clusterBy(teams, func(t team.Team) (string, error) {
		return m.resolver.Resolve(meta.KindTeam, m.league, t.ID)
	})
	if err != nil {
		return nil, err
	}
	for _, c := range teamClusters {
		merged, err := m.Team(ctx, c.recs)
		if err != nil {
			return nil, err
		}
		if merged != nil {
			out.Teams = append(out.Teams, *merged)
		}
	}

	out.Venue, err = m.mergeGameVenue(ctx, venues)
	if err != nil {
		return nil, err
	}

	umpireClusters, err := clusterBy(umpires, func(p person.Person) (string, error) {
		return p.Name, nil
	})
	if err != nil {
		return nil, err
	}
	for _, c := range umpireClusters {
		merged, err := m.Person(person.RoleUmpire, c.id, c.recs)
		if err != nil {
			return nil, err
		}
		if merged != nil {
			out.Umpires = append(out.Umpires, *merged)
		}
	}

	postClusters, err := clusterBy(posts, func(s media.Social) (string, error) {
		return s.Handle + "@" + s.PostedAt.Or(time.Time{}).Format(time.RFC3339), nil
	})
	if err != nil {
		return nil, err
	}
	for _, c := range postClusters {
		merged, err := m.Social(c.recs)
		if err != nil {
			return nil, err
		}
		if merged != nil {
			out.Social = append(out.Social, *merged)
		}
	}

	articleClusters, err := clusterBy(articles, func(n media.News) (string, error) {
		return n.URL, nil
	})
	if err != nil {
		return nil, err
	}
	for _, c := range articleClusters {
		merged, err := m.News(c.recs)
		if err != nil {
			return nil, err
		}
		if merged != nil {
			out.News = append(out.News, *merged)
		}
	}

	m.backfillOdds(ctx, &out)

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// mergeGameVenue resolves every source venue to its canonical identifier
// and merges the cluster matching the first-seen one. A source pointing at
// a different canonical venue for the same game is a data conflict worth a
// warning, not a reason to drop the group.
func (m *Merger) mergeGameVenue(ctx context.Context, venues []*venue.Venue) (*venue.Venue, error) {
	present := make([]*venue.Venue, 0, len(venues))
	for _, v := range venues {
		if v != nil {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return nil, nil
	}

	canonicalID, err := m.resolver.Resolve(meta.KindVenue, m.league, present[0].ID)
	if err != nil {
		return nil, err
	}

	matched := make([]*venue.Venue, 0, len(present))
	for _, v := range present {
		id, err := m.resolver.Resolve(meta.KindVenue, m.league, v.ID)
		if err != nil {
			return nil, err
		}
		if id != canonicalID {
			m.logger.WarnContext(ctx, "conflicting venue for game",
				"kept", canonicalID,
				"dropped", id,
			)
			continue
		}
		matched = append(matched, v)
	}
	return m.Venue(ctx, canonicalID, matched)
}

func (m *Merger) backfillOdds(ctx context.Context, g *game.Game) {
	if m.odds == nil {
		return
	}
	for i := range g.Teams {
		if len(g.Teams[i].Odds) > 0 {
			continue
		}
		quotes, err := m.odds.FetchOdds(ctx, g.Date, g.Teams[i].ID)
		if err != nil {
			m.logger.WarnContext(ctx, "odds backfill failed",
				"team", g.Teams[i].ID,
				"date", g.Date.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		g.Teams[i].Odds = append(g.Teams[i].Odds, quotes...)
	}
}
