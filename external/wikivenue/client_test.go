package wikivenue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><body>
<table class="infobox">
<tr><th>Location</th><td>Melbourne, Victoria</td></tr>
<tr><th>Coordinates</th><td>-37.820; 144.983</td></tr>
<tr><th>Surface</th><td>Grass</td></tr>
<tr><th>Roof</th><td>Retractable roof</td></tr>
<tr><th>Elevation</th><td>12 m</td></tr>
<tr><th>Capacity</th><td>53,359</td></tr>
</table>
</body></html>`

func TestParseArticle_ExtractsInfobox(t *testing.T) {
	t.Parallel()

	found, err := parseArticle("Docklands Stadium", []byte(articleHTML))
	require.NoError(t, err)
	require.NotNil(t, found)

	require.Equal(t, "docklands_stadium", found.ID)
	require.Equal(t, "Docklands Stadium", found.Name.MustGet())
	require.True(t, found.IsGrass.MustGet())
	require.True(t, found.IsIndoor.MustGet())

	require.NotNil(t, found.Address)
	require.Equal(t, "Melbourne", found.Address.City)
	require.Equal(t, "Victoria", found.Address.State)
	require.Equal(t, -37.820, found.Address.Latitude.MustGet())
	require.Equal(t, 144.983, found.Address.Longitude.MustGet())
	require.Equal(t, float64(12), found.Address.Altitude.MustGet())
}

func TestParseArticle_NoInfoboxMeansUnknown(t *testing.T) {
	t.Parallel()

	found, err := parseArticle("Somewhere Oval", []byte(`<html><body><p>stub article</p></body></html>`))
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestParseArticle_OpenAirGround(t *testing.T) {
	t.Parallel()

	html := `<table class="infobox">
	<tr><th>Roof</th><td>Open air</td></tr>
	<tr><th>Surface</th><td>Hybrid turf</td></tr>
	</table>`

	found, err := parseArticle("Kardinia Park", []byte(html))
	require.NoError(t, err)
	require.NotNil(t, found)
	require.False(t, found.IsIndoor.MustGet())
	require.True(t, found.IsGrass.MustGet())
	require.Nil(t, found.Address)
}

func TestParseCoordinates(t *testing.T) {
	t.Parallel()

	lat, lon, ok := parseCoordinates("-38.158, 144.354")
	require.True(t, ok)
	require.Equal(t, -38.158, lat)
	require.Equal(t, 144.354, lon)

	_, _, ok = parseCoordinates(`37°49′11″S 144°58′59″E`)
	require.False(t, ok)
}
