package index

import (
	"context"

	"github.com/pgsearch/PGSearchBenchmark/query"
)

// Index is a single search strategy over the records table. Each
// implementation owns the table and index DDL for its strategy, so the same
// data set can be benchmarked under different physical layouts.
type Index interface {
	GetName() string
	Create(ctx context.Context) error
	Drop(ctx context.Context) error
	Index(ctx context.Context, records []Record) error
	Search(ctx context.Context, q query.Query) (records []Record, total int, err error)
	Explain(ctx context.Context, q query.Query) (plan string, err error)
}
