package postgres

import (
	"time"

	"github.com/lib/pq"
)

type canonicalGameTableModel struct {
	League    string    `db:"league"`
	GroupKey  string    `db:"group_key"`
	GameDate  time.Time `db:"game_date"`
	Payload   []byte    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

type columnTableModel struct {
	League string         `db:"league"`
	Name   string         `db:"column_name"`
	Tags   pq.StringArray `db:"tags"`
}
