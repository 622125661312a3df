package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgsearch/PGSearchBenchmark/index"
	"github.com/pgsearch/PGSearchBenchmark/query"
)

// predicate returns the WHERE clause and its arguments for q. The clause
// shape depends only on the query kind; whether the planner can serve it
// from an index depends on the strategy the table was created with, which
// is exactly the difference being measured.
func (i *Index) predicate(q query.Query) (string, []interface{}) {
	switch q.Kind {
	case query.Exact:
		return `name = $1`, []interface{}{q.Term}
	case query.Prefix:
		return `name LIKE $1 || '%'`, []interface{}{q.Term}
	case query.Substring:
		return `name ILIKE '%' || $1 || '%' OR address ILIKE '%' || $1 || '%'`, []interface{}{q.Term}
	case query.FullText:
		cfg := i.schema.TextConfig
		return fmt.Sprintf(`to_tsvector('%s', name || ' ' || address) @@ plainto_tsquery('%s', $1)`, cfg, cfg), []interface{}{q.Term}
	}
	// unreachable for kinds produced by query.ParseKind
	return `false`, nil
}

// buildSearch returns the full SELECT for q. The window count gives the
// total number of matches without a second round trip.
func (i *Index) buildSearch(q query.Query) (string, []interface{}) {
	where, args := i.predicate(q)
	sql := fmt.Sprintf(`SELECT count(*) OVER () AS total, name, address FROM %s WHERE %s LIMIT %d OFFSET %d`,
		i.table(), where, q.Paging.Num, q.Paging.Offset)
	return sql, args
}

func (i *Index) Search(ctx context.Context, q query.Query) ([]index.Record, int, error) {
	sql, args := i.buildSearch(q)
	rows, err := i.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search %q: %w", q.Term, err)
	}
	defer rows.Close()

	var out []index.Record
	total := 0
	for rows.Next() {
		var r index.Record
		if err := rows.Scan(&total, &r.Name, &r.Address); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// Explain runs the same statement Search would, under EXPLAIN (ANALYZE,
// BUFFERS), and returns the plan text.
func (i *Index) Explain(ctx context.Context, q query.Query) (string, error) {
	sql, args := i.buildSearch(q)
	rows, err := i.pool.Query(ctx, `EXPLAIN (ANALYZE, BUFFERS) `+sql, args...)
	if err != nil {
		return "", fmt.Errorf("explain %q: %w", q.Term, err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), rows.Err()
}
