package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/venue"
)

func TestVenueForwardFillAcrossMerges(t *testing.T) {
	m := newTestMerger()

	first, err := m.Venue(context.Background(), "mcg", []*venue.Venue{
		{ID: "MCG", Name: opt.Of("Melbourne Cricket Ground"), IsGrass: opt.Of(true)},
	})
	require.NoError(t, err)
	require.True(t, first.IsGrass.Or(false))

	// A later game whose sources say nothing about the surface inherits
	// the last known value for the same ground.
	second, err := m.Venue(context.Background(), "mcg", []*venue.Venue{
		{ID: "MCG", Name: opt.Of("Melbourne Cricket Ground")},
	})
	require.NoError(t, err)
	require.True(t, second.IsGrass.Or(false))
	require.True(t, second.IsIndoor.Null())
}

func TestVenueForwardFillIsPerGround(t *testing.T) {
	m := newTestMerger()

	_, err := m.Venue(context.Background(), "docklands", []*venue.Venue{
		{ID: "DS", IsIndoor: opt.Of(true)},
	})
	require.NoError(t, err)

	other, err := m.Venue(context.Background(), "kardinia", []*venue.Venue{
		{ID: "KP"},
	})
	require.NoError(t, err)
	require.True(t, other.IsIndoor.Null())
}

func TestVenueFreshValueRefreshesLedger(t *testing.T) {
	m := newTestMerger()

	_, err := m.Venue(context.Background(), "mcg", []*venue.Venue{
		{ID: "MCG", IsGrass: opt.Of(true)},
	})
	require.NoError(t, err)

	// The ground was resurfaced; the newer observation wins from now on.
	_, err = m.Venue(context.Background(), "mcg", []*venue.Venue{
		{ID: "MCG", IsGrass: opt.Of(false)},
	})
	require.NoError(t, err)

	third, err := m.Venue(context.Background(), "mcg", []*venue.Venue{
		{ID: "MCG"},
	})
	require.NoError(t, err)
	grass, ok := third.IsGrass.Get()
	require.True(t, ok)
	require.False(t, grass)
}
