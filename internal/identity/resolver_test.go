package identity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/statloom/statloom/internal/domain/meta"
)

func TestResolvePassthroughWithoutMap(t *testing.T) {
	r := NewResolver()
	got, err := r.Resolve(meta.KindTeam, "afl", "Carlton")
	require.NoError(t, err)
	require.Equal(t, "Carlton", got)
}

func TestResolveMappedAndMissing(t *testing.T) {
	r := NewResolver()
	r.Register(meta.KindTeam, "AFL", map[string]string{
		"CARL":         "Carlton",
		"Carlton Blues": "Carlton",
	})

	got, err := r.Resolve(meta.KindTeam, "afl", "CARL")
	require.NoError(t, err)
	require.Equal(t, "Carlton", got)

	_, err = r.Resolve(meta.KindTeam, "afl", "Karlton")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnmapped))
}

func TestResolveMapsAreLeagueScoped(t *testing.T) {
	r := NewResolver()
	r.Register(meta.KindVenue, "afl", map[string]string{"mcg": "Melbourne Cricket Ground"})

	// Another league has no venue map, so identifiers pass through.
	got, err := r.Resolve(meta.KindVenue, "nfl", "mcg")
	require.NoError(t, err)
	require.Equal(t, "mcg", got)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	doc := `{"team": {"afl": {"STK": "St Kilda"}}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	r := NewResolver()
	require.NoError(t, r.LoadFile(path))

	got, err := r.Resolve(meta.KindTeam, "afl", "STK")
	require.NoError(t, err)
	require.Equal(t, "St Kilda", got)
}
