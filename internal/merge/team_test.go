package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/statloom/statloom/internal/domain/meta"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/player"
	"github.com/statloom/statloom/internal/domain/team"
	"github.com/statloom/statloom/internal/identity"
)

func TestTeamMergeResolvesIdentityAndFoldsStats(t *testing.T) {
	resolver := identity.NewResolver()
	resolver.Register(meta.KindTeam, "afl", map[string]string{
		"CARL":    "Carlton",
		"Blues":   "Carlton",
		"Carlton": "Carlton",
	})
	m := NewMerger(Config{League: "afl", Resolver: resolver})

	got, err := m.Team(context.Background(), []team.Team{
		{ID: "CARL", Name: "Carlton", Points: opt.Float(0)},
		{ID: "Blues", Points: opt.Float(92), Goals: opt.Float(14)},
	})
	require.NoError(t, err)
	require.Equal(t, "Carlton", got.ID)
	require.Equal(t, "Carlton", got.Name)
	require.Equal(t, 92.0, got.Points.Or(-1))
	require.Equal(t, 14.0, got.Goals.Or(-1))
}

func TestTeamOddsAreConcatenatedNotDeduplicated(t *testing.T) {
	m := newTestMerger()
	a := team.Team{ID: "Carlton", Odds: []team.OddsQuote{
		{Bookmaker: "bookiex", Price: opt.Float(1.9)},
	}}
	b := team.Team{ID: "Carlton", Odds: []team.OddsQuote{
		{Bookmaker: "bookiex", Price: opt.Float(1.92)},
		{Bookmaker: "bookiey", Price: opt.Float(1.88)},
	}}

	got, err := m.Team(context.Background(), []team.Team{a, b})
	require.NoError(t, err)
	require.Len(t, got.Odds, 3)
}

func TestTeamPlayersMergedByIdentity(t *testing.T) {
	resolver := identity.NewResolver()
	resolver.Register(meta.KindPlayer, "afl", map[string]string{
		"cripps-p":  "Patrick Cripps",
		"P.Cripps":  "Patrick Cripps",
		"walsh-s":   "Sam Walsh",
	})
	m := NewMerger(Config{League: "afl", Resolver: resolver})

	got, err := m.Team(context.Background(), []team.Team{
		{ID: "Carlton", Players: []player.Player{
			{ID: "cripps-p", Name: "Patrick Cripps", Kicks: opt.Float(18)},
			{ID: "walsh-s", Name: "Sam Walsh", Kicks: opt.Float(22)},
		}},
		{ID: "Carlton", Players: []player.Player{
			{ID: "P.Cripps", Name: "Patrick Cripps", Tackles: opt.Float(7)},
		}},
	})
	require.NoError(t, err)
	require.Len(t, got.Players, 2)
	require.Equal(t, "Patrick Cripps", got.Players[0].ID)
	require.Equal(t, 18.0, got.Players[0].Kicks.Or(-1))
	require.Equal(t, 7.0, got.Players[0].Tackles.Or(-1))
}

func TestTeamSingleRecordIdempotent(t *testing.T) {
	m := newTestMerger()
	rec := team.Team{ID: "Carlton", Name: "Carlton", Points: opt.Float(101)}

	got, err := m.Team(context.Background(), []team.Team{rec})
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
	require.Equal(t, rec.Name, got.Name)
	require.Equal(t, rec.Points, got.Points)
}
