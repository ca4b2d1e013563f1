package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Record struct {
	SessionID  string    `json:"session_id" db:"session_id"`
	ModuleID   int       `json:"module_id" db:"module_id"`
	Serial     string    `json:"serial" db:"serial"`
	Strikes    int       `json:"strikes" db:"strikes"`
	Presses    int       `json:"presses" db:"presses"`
	StartedAt  time.Time `json:"started_at" db:"started_at"`
	EndedAt    time.Time `json:"ended_at" db:"ended_at"`
	PlaytimeMs float64   `json:"playtime_ms" db:"playtime_ms"`
}

type RecordFilter struct {
	Serial     *string
	MaxStrikes *int
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Serial != nil {
		clauses = append(clauses, "serial = @serial")
		args["serial"] = strings.ToUpper(*f.Serial)
	}
	if f.MaxStrikes != nil {
		clauses = append(clauses, "strikes <= @max_strikes")
		args["max_strikes"] = *f.MaxStrikes
	}
	return strings.Join(clauses, " AND "), args
}

func (q *Queries) CreateRecord(ctx context.Context, record Record) error {
	_, err := q.db.Exec(
		ctx,
		`INSERT INTO record (
			session_id, module_id, serial, strikes, presses, started_at, ended_at
		)
		VALUES (
			@session_id, @module_id, @serial, @strikes, @presses, @started_at, @ended_at
		);`,
		pgx.NamedArgs{
			"session_id": record.SessionID,
			"module_id":  record.ModuleID,
			"serial":     record.Serial,
			"strikes":    record.Strikes,
			"presses":    record.Presses,
			"started_at": record.StartedAt,
			"ended_at":   record.EndedAt,
		},
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return fmt.Errorf("%w: session %s", ErrRecordExists, record.SessionID)
	}
	return err
}

func (q *Queries) GetRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := `
	SELECT
		session_id,
		module_id,
		serial,
		strikes,
		presses,
		started_at,
		ended_at,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM record
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY playtime_ms, strikes;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}
