package db

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Tournament struct {
	ID        string
	Sequence  int64
	Name      string
	DateLabel string
	CreatedAt time.Time
}

type Result struct {
	ID           string
	TournamentID string
	Position     int64
	Division     string
	TeamName     string
	Rank         int64
	Region       string
}

// TournamentRow is a tournament with its result count.
type TournamentRow struct {
	Tournament
	ResultCount int64
}
