package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRecordExists = errors.New("record already exists")

// Recorder stores the outcome of solved sessions.
type Recorder interface {
	CreateRecord(ctx context.Context, record Record) error
	GetRecords(ctx context.Context, filter RecordFilter) ([]Record, error)
}

var (
	_ Recorder = (*Queries)(nil)
	_ Recorder = (*SQLite)(nil)
)

// Queries is the Postgres recorder.
type Queries struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

// Discard drops every record. Used when no database is configured.
var Discard Recorder = discard{}

type discard struct{}

func (discard) CreateRecord(context.Context, Record) error {
	return nil
}

func (discard) GetRecords(context.Context, RecordFilter) ([]Record, error) {
	return []Record{}, nil
}
