package postgres

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgsearch/PGSearchBenchmark/index"
)

const applicationName = "pgsearchbench"

// Strategy selects which physical index backs the records table.
type Strategy int

const (
	// BTree indexes name and address with plain B-trees using
	// text_pattern_ops, serving exact matches and anchored LIKE prefixes.
	BTree Strategy = iota
	// Trigram indexes name and address with pg_trgm GIN indexes, serving
	// unanchored ILIKE substrings.
	Trigram
	// TSVector indexes a to_tsvector expression over name and address with
	// a GIN index, serving lexeme matches.
	TSVector
)

var strategyNames = map[Strategy]string{
	BTree:    "btree",
	Trigram:  "trigram",
	TSVector: "tsvector",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy converts a CLI value to a Strategy
func ParseStrategy(s string) (Strategy, error) {
	for st, name := range strategyNames {
		if name == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q (want btree, trigram or tsvector)", s)
}

// Index implements index.Index over a single PostgreSQL server for one
// strategy. All strategies share the same table shape, only the index DDL
// and predicate shapes differ.
type Index struct {
	pool   *pgxpool.Pool
	schema *index.Schema
	strat  Strategy
}

// NewIndex connects to the server behind dsn and returns an Index for the
// given strategy. The initial ping is retried with exponential backoff so a
// server still starting up does not fail the run immediately.
func NewIndex(ctx context.Context, dsn string, strat Strategy, schema *index.Schema) (*Index, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(func() error { return pool.Ping(ctx) }, bo); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if schema == nil {
		schema = index.NewSchema()
	}
	return &Index{
		pool:   pool,
		schema: schema,
		strat:  strat,
	}, nil
}

func (i *Index) GetName() string {
	return i.strat.String()
}

// Close releases the connection pool.
func (i *Index) Close() {
	i.pool.Close()
}

func (i *Index) table() string {
	return pgx.Identifier{i.schema.Table}.Sanitize()
}

// Create builds the records table and the strategy's indexes. It is
// idempotent so a load can be re-run against an existing table.
func (i *Index) Create(ctx context.Context) error {
	tab := i.table()
	ddl := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id bigserial PRIMARY KEY, name text NOT NULL, address text NOT NULL)`, tab),
	}

	switch i.strat {
	case BTree:
		ddl = append(ddl,
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_name_btree ON %s (name text_pattern_ops)`, i.schema.Table, tab),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_address_btree ON %s (address text_pattern_ops)`, i.schema.Table, tab),
		)
	case Trigram:
		ddl = append(ddl,
			`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_name_trgm ON %s USING GIN (name gin_trgm_ops)`, i.schema.Table, tab),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_address_trgm ON %s USING GIN (address gin_trgm_ops)`, i.schema.Table, tab),
		)
	case TSVector:
		ddl = append(ddl,
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_document_tsv ON %s USING GIN (to_tsvector('%s', name || ' ' || address))`,
				i.schema.Table, tab, i.schema.TextConfig),
		)
	default:
		return fmt.Errorf("cannot create index for %s", i.strat)
	}

	for _, stmt := range ddl {
		if _, err := i.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

// Drop removes the records table and everything hanging off it. Dropping a
// table that does not exist is not an error.
func (i *Index) Drop(ctx context.Context) error {
	if _, err := i.pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, i.table())); err != nil {
		return fmt.Errorf("drop %s: %w", i.schema.Table, err)
	}
	return nil
}

// Index bulk-loads a batch of records over the COPY protocol.
func (i *Index) Index(ctx context.Context, records []index.Record) error {
	rows := make([][]interface{}, len(records))
	for n, r := range records {
		rows[n] = []interface{}{r.Name, r.Address}
	}
	_, err := i.pool.CopyFrom(ctx, pgx.Identifier{i.schema.Table}, []string{"name", "address"}, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy %d records: %w", len(records), err)
	}
	return nil
}
