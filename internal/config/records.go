package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordsKind names the store solved sessions are written to.
type RecordsKind int

const (
	RecordsNone RecordsKind = iota
	RecordsPostgres
	RecordsSQLite
)

func (k RecordsKind) String() string {
	switch k {
	case RecordsPostgres:
		return "postgres"
	case RecordsSQLite:
		return "sqlite"
	default:
		return "none"
	}
}

// Records says where outcome records go. URL is set for Postgres, Path for
// SQLite.
type Records struct {
	Kind RecordsKind
	URL  string
	Path string
}

// NewRecords picks the record store from the environment. DATABASE_URL wins,
// then POSTGRES_HOST with the other POSTGRES_* variables, then SQLITE_PATH.
// With none of them set records are dropped.
func NewRecords() (*Records, error) {
	if dbURL := lookupString("DATABASE_URL", ""); dbURL != "" {
		return &Records{Kind: RecordsPostgres, URL: dbURL}, nil
	}

	if host := lookupString("POSTGRES_HOST", ""); host != "" {
		dbURL, err := postgresURL(host)
		if err != nil {
			return nil, err
		}
		return &Records{Kind: RecordsPostgres, URL: dbURL}, nil
	}

	if path := lookupString("SQLITE_PATH", ""); path != "" {
		return &Records{Kind: RecordsSQLite, Path: path}, nil
	}

	return &Records{Kind: RecordsNone}, nil
}

func postgresPassword() (string, error) {
	if password, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
		return password, nil
	}
	passwordFile := lookupString("POSTGRES_PASSWORD_FILE", "")
	if passwordFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read POSTGRES_PASSWORD_FILE: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func postgresURL(host string) (string, error) {
	user := lookupString("POSTGRES_USER", "")
	if user == "" {
		return "", fmt.Errorf("POSTGRES_HOST is set but POSTGRES_USER is not")
	}

	password, err := postgresPassword()
	if err != nil {
		return "", err
	}

	port, err := lookupInt("POSTGRES_PORT", 5432)
	if err != nil {
		return "", fmt.Errorf("invalid POSTGRES_PORT: %w", err)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + lookupString("POSTGRES_DB", user),
		RawQuery: url.Values{"sslmode": {lookupString("POSTGRES_SSLMODE", "disable")}}.Encode(),
	}
	return u.String(), nil
}

// PgxpoolConfig parses URL for the Postgres pool.
func (r Records) PgxpoolConfig() (*pgxpool.Config, error) {
	if r.Kind != RecordsPostgres {
		return nil, fmt.Errorf("records are kept in %s, not postgres", r.Kind)
	}
	return pgxpool.ParseConfig(r.URL)
}
