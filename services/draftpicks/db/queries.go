package db

import (
	"context"
	"database/sql"
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

type DraftPick struct {
	Year       int64
	PickNumber int64
	NflTeam    string
	PlayerName string
	College    string
}

const getPicksForYear = `
SELECT year, pick_number, nfl_team, player_name, college
FROM draft_picks
WHERE year = ?
ORDER BY pick_number ASC
`

func (q *Queries) GetPicksForYear(ctx context.Context, year int64) ([]DraftPick, error) {
	rows, err := q.db.QueryContext(ctx, getPicksForYear, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DraftPick
	for rows.Next() {
		var p DraftPick
		err := rows.Scan(&p.Year, &p.PickNumber, &p.NflTeam, &p.PlayerName, &p.College)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const createPick = `
INSERT INTO draft_picks (year, pick_number, nfl_team, player_name, college)
VALUES (?, ?, ?, ?, ?)
`

type CreatePickParams struct {
	Year       int64
	PickNumber int64
	NflTeam    string
	PlayerName string
	College    string
}

func (q *Queries) CreatePick(ctx context.Context, arg CreatePickParams) error {
	_, err := q.db.ExecContext(
		ctx, createPick,
		arg.Year, arg.PickNumber, arg.NflTeam, arg.PlayerName, arg.College,
	)
	return err
}

const deletePicksForYear = `
DELETE FROM draft_picks WHERE year = ?
`

func (q *Queries) DeletePicksForYear(ctx context.Context, year int64) error {
	_, err := q.db.ExecContext(ctx, deletePicksForYear, year)
	return err
}
