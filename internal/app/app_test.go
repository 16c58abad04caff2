package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/statloom/statloom/internal/config"
	"github.com/statloom/statloom/internal/domain/game"
	"github.com/statloom/statloom/internal/domain/team"
	"github.com/statloom/statloom/internal/export"
	"github.com/statloom/statloom/internal/infrastructure/repository/postgres"
	"github.com/statloom/statloom/internal/platform/logging"
)

type stubWarehouse struct {
	games   []postgres.GameRecord
	columns []postgres.ColumnRecord
}

func (s *stubWarehouse) UpsertGames(context.Context, string, []postgres.GameRecord) error {
	return nil
}

func (s *stubWarehouse) ReplaceColumns(context.Context, string, []postgres.ColumnRecord) error {
	return nil
}

func (s *stubWarehouse) ListGames(context.Context, string) ([]postgres.GameRecord, error) {
	return s.games, nil
}

func (s *stubWarehouse) ListColumns(context.Context, string) ([]postgres.ColumnRecord, error) {
	return s.columns, nil
}

func TestRun_RequiresFeeds(t *testing.T) {
	t.Parallel()

	a := &App{
		cfg:    config.Config{Leagues: []string{"afl"}, OutputDir: t.TempDir()},
		logger: logging.NewNop(),
	}
	require.Error(t, a.Run(context.Background()))
}

func TestWriteArtifacts_PlaceholderProducesBothFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := &App{
		cfg:    config.Config{OutputDir: dir},
		logger: logging.NewNop(),
	}

	require.NoError(t, a.writeArtifacts("afl", export.Placeholder("afl")))

	csvRaw, err := os.ReadFile(filepath.Join(dir, "afl.csv"))
	require.NoError(t, err)
	require.NotEmpty(t, csvRaw)

	sidecarRaw, err := os.ReadFile(filepath.Join(dir, "afl_columns.json"))
	require.NoError(t, err)
	require.Contains(t, string(sidecarRaw), `"league": "afl"`)
}

func TestReplay_RequiresWarehouse(t *testing.T) {
	t.Parallel()

	a := &App{
		cfg:    config.Config{Leagues: []string{"afl"}, OutputDir: t.TempDir()},
		logger: logging.NewNop(),
	}
	require.Error(t, a.Replay(context.Background()))
}

func TestReplay_RebuildsArtifactsFromWarehouse(t *testing.T) {
	t.Parallel()

	g := game.Game{
		League: "afl",
		Date:   time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		Teams:  []team.Team{{ID: "geelong"}, {ID: "carlton"}},
	}
	payload, err := sonic.Marshal(g)
	require.NoError(t, err)

	dir := t.TempDir()
	a := &App{
		cfg:    config.Config{Leagues: []string{"afl"}, OutputDir: dir},
		logger: logging.NewNop(),
		warehouse: &stubWarehouse{
			games: []postgres.GameRecord{
				{GroupKey: "2025-06-14|carlton|geelong", GameDate: g.Date, Payload: payload},
				{GroupKey: "2025-06-21|broken", GameDate: g.Date, Payload: []byte("{")},
			},
			columns: []postgres.ColumnRecord{{Name: "date", Tags: []string{"categorical"}}},
		},
	}

	require.NoError(t, a.Replay(context.Background()))

	csvRaw, err := os.ReadFile(filepath.Join(dir, "afl.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(csvRaw), "\n"), "\n")
	require.Len(t, lines, 2, "header plus the one decodable game")
	require.Contains(t, lines[1], "geelong")

	sidecarRaw, err := os.ReadFile(filepath.Join(dir, "afl_columns.json"))
	require.NoError(t, err)
	require.Contains(t, string(sidecarRaw), `"league": "afl"`)
}
