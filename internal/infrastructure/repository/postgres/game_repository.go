// Package postgres persists merged games and their column registry to the
// warehouse. The payload column carries the full merged record as JSON; the
// relational columns exist so downstream jobs can window by league and date
// without unpacking payloads.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	qb "github.com/statloom/statloom/internal/platform/querybuilder"
)

// GameRecord is one merged game ready for the warehouse.
type GameRecord struct {
	GroupKey string
	GameDate time.Time
	Payload  []byte
}

// ColumnRecord is one flattened column and its registry tags.
type ColumnRecord struct {
	Name string
	Tags []string
}

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

// UpsertGames writes merged games keyed by league and group key. Re-running
// a harvest overwrites the previous payload for the same group.
func (r *GameRepository) UpsertGames(ctx context.Context, league string, records []GameRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert games tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, record := range records {
		model := canonicalGameTableModel{
			League:    league,
			GroupKey:  record.GroupKey,
			GameDate:  record.GameDate.UTC(),
			Payload:   record.Payload,
			UpdatedAt: now,
		}
		query, args, err := qb.InsertModel("canonical_games", model,
			"ON CONFLICT (league, group_key) DO UPDATE SET game_date = EXCLUDED.game_date, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at")
		if err != nil {
			return fmt.Errorf("build upsert game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert game %s: %w", record.GroupKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert games tx: %w", err)
	}
	return nil
}

// ReplaceColumns swaps the league's column registry for the set produced by
// the latest flatten pass.
func (r *GameRepository) ReplaceColumns(ctx context.Context, league string, columns []ColumnRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace columns tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM canonical_game_columns WHERE league = $1", league); err != nil {
		return fmt.Errorf("clear column registry: %w", err)
	}

	for _, column := range columns {
		model := columnTableModel{
			League: league,
			Name:   column.Name,
			Tags:   column.Tags,
		}
		query, args, err := qb.InsertModel("canonical_game_columns", model, "")
		if err != nil {
			return fmt.Errorf("build insert column query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert column %s: %w", column.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace columns tx: %w", err)
	}
	return nil
}

// ListGames returns the league's merged games ordered by event date.
func (r *GameRepository) ListGames(ctx context.Context, league string) ([]GameRecord, error) {
	query, args, err := qb.Select("league", "group_key", "game_date", "payload", "updated_at").
		From("canonical_games").
		Where(qb.Eq("league", league)).
		OrderBy("game_date", "group_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []canonicalGameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by league: %w", err)
	}

	out := make([]GameRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, GameRecord{
			GroupKey: row.GroupKey,
			GameDate: row.GameDate,
			Payload:  row.Payload,
		})
	}
	return out, nil
}

// ListColumns returns the league's registered flatten columns.
func (r *GameRepository) ListColumns(ctx context.Context, league string) ([]ColumnRecord, error) {
	query, args, err := qb.Select("league", "column_name", "tags").
		From("canonical_game_columns").
		Where(qb.Eq("league", league)).
		OrderBy("column_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select columns query: %w", err)
	}

	var rows []columnTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select columns by league: %w", err)
	}

	out := make([]ColumnRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ColumnRecord{
			Name: row.Name,
			Tags: row.Tags,
		})
	}
	return out, nil
}
