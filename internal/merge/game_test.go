package merge

import (
	"context"
	"errors"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/statloom/statloom/internal/domain/game"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/team"
	"github.com/statloom/statloom/internal/domain/venue"
)

func TestGameMergeTwoProviders(t *testing.T) {
	m := newTestMerger()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Provider A (priority 0) has the venue but no attendance.
	a := game.Game{
		League: "afl",
		Source: "provider-a",
		Date:   date,
		Teams: []team.Team{
			{ID: "TeamX"},
			{ID: "TeamY"},
		},
		Venue: &venue.Venue{ID: "Field1"},
	}
	// Provider B (priority 1) has attendance but no venue.
	b := game.Game{
		League:     "afl",
		Source:     "provider-b",
		Date:       date,
		Attendance: opt.Float(5000),
		Teams: []team.Team{
			{ID: "TeamY"},
			{ID: "TeamX"},
		},
	}

	got, err := m.Game(context.Background(), []game.Game{a, b})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 5000.0, got.Attendance.Or(-1))
	require.NotNil(t, got.Venue)
	require.Equal(t, "Field1", got.Venue.ID)
	require.Len(t, got.Teams, 2)
	// Team order follows provider A, the higher-priority source.
	require.Equal(t, "TeamX", got.Teams[0].ID)
	require.Equal(t, "TeamY", got.Teams[1].ID)
}

func TestGameSingleRecordIdempotent(t *testing.T) {
	m := newTestMerger()
	rec := game.Game{
		League:     "afl",
		Date:       time.Date(2024, 5, 4, 19, 50, 0, 0, time.UTC),
		Week:       opt.Of(int64(8)),
		Attendance: opt.Float(83021),
		Teams:      []team.Team{{ID: "Carlton", Points: opt.Float(88)}},
	}

	got, err := m.Game(context.Background(), []game.Game{rec})
	require.NoError(t, err)
	require.Equal(t, rec.Date, got.Date)
	require.Equal(t, rec.Week, got.Week)
	require.Equal(t, rec.Attendance, got.Attendance)
	require.Equal(t, rec.Teams[0].Points, got.Teams[0].Points)
}

func TestGamePrefersSpecificKickoffTime(t *testing.T) {
	m := newTestMerger()
	dateOnly := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	kickoff := time.Date(2024, 3, 1, 19, 50, 0, 0, time.UTC)

	got, err := m.Game(context.Background(), []game.Game{
		{League: "afl", Date: dateOnly, Teams: []team.Team{{ID: "TeamX"}}},
		{League: "afl", Date: kickoff, Teams: []team.Team{{ID: "TeamX"}}},
	})
	require.NoError(t, err)
	require.True(t, got.Date.Equal(kickoff))
}

func TestGameDividendsAreUnioned(t *testing.T) {
	m := newTestMerger()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := m.Game(context.Background(), []game.Game{
		{League: "afl", Date: date, Teams: []team.Team{{ID: "TeamX"}},
			Dividends: []game.Dividend{{Product: "quaddie", Amount: opt.Float(104.2)}}},
		{League: "afl", Date: date, Teams: []team.Team{{ID: "TeamX"}},
			Dividends: []game.Dividend{{Product: "quaddie", Amount: opt.Float(101.0)}}},
	})
	require.NoError(t, err)
	require.Len(t, got.Dividends, 2)
}

func TestGameEmptyGroupIsNil(t *testing.T) {
	m := newTestMerger()
	got, err := m.Game(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

type stubOdds struct {
	quotes []team.OddsQuote
	err    error
	calls  int
}

func (s *stubOdds) FetchOdds(_ context.Context, _ time.Time, _ string) ([]team.OddsQuote, error) {
	s.calls++
	return s.quotes, s.err
}

func TestGameBackfillsMissingOdds(t *testing.T) {
	odds := &stubOdds{quotes: []team.OddsQuote{{Bookmaker: "bookiex", Price: opt.Float(2.1)}}}
	m := NewMerger(Config{League: "afl", Odds: odds})
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := m.Game(context.Background(), []game.Game{
		{League: "afl", Date: date, Teams: []team.Team{
			{ID: "TeamX"},
			{ID: "TeamY", Odds: []team.OddsQuote{{Bookmaker: "bookiey", Price: opt.Float(1.8)}}},
		}},
	})
	require.NoError(t, err)
	// Only the quote-less team gets backfilled.
	require.Equal(t, 1, odds.calls)
	require.Len(t, got.Teams[0].Odds, 1)
	require.Len(t, got.Teams[1].Odds, 1)
	require.Equal(t, "bookiey", got.Teams[1].Odds[0].Bookmaker)
}

func TestGameOddsFetchFailureIsRecoverable(t *testing.T) {
	odds := &stubOdds{err: crerr.New("feed down")}
	m := NewMerger(Config{League: "afl", Odds: odds})

	got, err := m.Game(context.Background(), []game.Game{
		{League: "afl", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Teams: []team.Team{{ID: "TeamX"}}},
	})
	require.NoError(t, err)
	require.Empty(t, got.Teams[0].Odds)
}

type stubVenueLookup struct {
	rec *venue.Venue
	err error
}

func (s stubVenueLookup) Lookup(_ context.Context, _ string) (*venue.Venue, error) {
	return s.rec, s.err
}

func TestVenueLookupJoinsAsLowestPriorityCandidate(t *testing.T) {
	lookup := stubVenueLookup{rec: &venue.Venue{
		ID:      "wiki",
		IsGrass: opt.Of(true),
	}}
	m := NewMerger(Config{League: "afl", Venues: lookup})

	got, err := m.Venue(context.Background(), "MCG", []*venue.Venue{
		{ID: "mcg", Name: opt.Of("M.C.G.")},
	})
	require.NoError(t, err)
	require.Equal(t, "MCG", got.ID)
	require.Equal(t, "M.C.G.", got.Name.Or(""))
	require.Equal(t, true, got.IsGrass.Or(false))
}

func TestVenueLookupFailureIsRecoverable(t *testing.T) {
	lookup := stubVenueLookup{err: errors.New("timeout")}
	m := NewMerger(Config{League: "afl", Venues: lookup})

	got, err := m.Venue(context.Background(), "MCG", []*venue.Venue{{ID: "mcg"}})
	require.NoError(t, err)
	require.Equal(t, "MCG", got.ID)
}
