package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// SQLite is a recorder for local runs. The record table comes from the
// sqlite migrations.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) CreateRecord(ctx context.Context, record Record) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO record (
			session_id, module_id, serial, strikes, presses, started_at, ended_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?);`,
		record.SessionID,
		record.ModuleID,
		record.Serial,
		record.Strikes,
		record.Presses,
		record.StartedAt.UnixMilli(),
		record.EndedAt.UnixMilli(),
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: session %s", ErrRecordExists, record.SessionID)
	}
	return err
}

func (f RecordFilter) sqliteWhereClause() (string, []any) {
	clauses := make([]string, 0)
	args := make([]any, 0)
	if f.Serial != nil {
		clauses = append(clauses, "serial = ?")
		args = append(args, strings.ToUpper(*f.Serial))
	}
	if f.MaxStrikes != nil {
		clauses = append(clauses, "strikes <= ?")
		args = append(args, *f.MaxStrikes)
	}
	return strings.Join(clauses, " AND "), args
}

func (s *SQLite) GetRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := `
	SELECT
		session_id,
		module_id,
		serial,
		strikes,
		presses,
		started_at,
		ended_at
	FROM record
	`

	whereClause, args := filter.sqliteWhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY ended_at - started_at, strikes;"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			r                  Record
			startedAt, endedAt int64
		)
		if err := rows.Scan(
			&r.SessionID, &r.ModuleID, &r.Serial, &r.Strikes, &r.Presses,
			&startedAt, &endedAt,
		); err != nil {
			return nil, err
		}
		r.StartedAt = time.UnixMilli(startedAt).UTC()
		r.EndedAt = time.UnixMilli(endedAt).UTC()
		r.PlaytimeMs = float64(endedAt - startedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}
