package db

import (
	"context"
)

const nextSequence = `SELECT COALESCE(MAX(sequence), 0) + 1 FROM tournaments`

func (q *Queries) NextSequence(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, nextSequence)
	var seq int64
	err := row.Scan(&seq)
	return seq, err
}

const insertTournament = `INSERT INTO tournaments (id, sequence, name, date_label) VALUES (?, ?, ?, ?)`

type InsertTournamentParams struct {
	ID        string
	Sequence  int64
	Name      string
	DateLabel string
}

func (q *Queries) InsertTournament(ctx context.Context, arg InsertTournamentParams) error {
	_, err := q.db.ExecContext(ctx, insertTournament, arg.ID, arg.Sequence, arg.Name, arg.DateLabel)
	return err
}

const insertResult = `INSERT INTO results (id, tournament_id, position, division, team_name, rank, region)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertResult(ctx context.Context, arg Result) error {
	_, err := q.db.ExecContext(ctx, insertResult,
		arg.ID,
		arg.TournamentID,
		arg.Position,
		arg.Division,
		arg.TeamName,
		arg.Rank,
		arg.Region,
	)
	return err
}

const listTournaments = `SELECT t.id, t.sequence, t.name, t.date_label, t.created_at, COUNT(r.id)
FROM tournaments t
LEFT JOIN results r ON r.tournament_id = t.id
GROUP BY t.id
ORDER BY t.sequence`

func (q *Queries) ListTournaments(ctx context.Context) ([]TournamentRow, error) {
	rows, err := q.db.QueryContext(ctx, listTournaments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TournamentRow
	for rows.Next() {
		var i TournamentRow
		if err := rows.Scan(&i.ID, &i.Sequence, &i.Name, &i.DateLabel, &i.CreatedAt, &i.ResultCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTournamentByName = `SELECT id, sequence, name, date_label, created_at
FROM tournaments WHERE name = ? ORDER BY sequence LIMIT 1`

func (q *Queries) GetTournamentByName(ctx context.Context, name string) (Tournament, error) {
	row := q.db.QueryRowContext(ctx, getTournamentByName, name)
	var i Tournament
	err := row.Scan(&i.ID, &i.Sequence, &i.Name, &i.DateLabel, &i.CreatedAt)
	return i, err
}

const listResults = `SELECT r.id, r.tournament_id, r.position, r.division, r.team_name, r.rank, r.region
FROM results r
JOIN tournaments t ON t.id = r.tournament_id
ORDER BY t.sequence, r.position`

func (q *Queries) ListResults(ctx context.Context) ([]Result, error) {
	rows, err := q.db.QueryContext(ctx, listResults)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Result
	for rows.Next() {
		var i Result
		if err := rows.Scan(&i.ID, &i.TournamentID, &i.Position, &i.Division, &i.TeamName, &i.Rank, &i.Region); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countTournaments = `SELECT COUNT(*) FROM tournaments`

func (q *Queries) CountTournaments(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTournaments)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteTournaments = `DELETE FROM tournaments`

func (q *Queries) DeleteTournaments(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteTournaments)
	return err
}

const deleteResults = `DELETE FROM results`

func (q *Queries) DeleteResults(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteResults)
	return err
}
