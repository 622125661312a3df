package query

import "fmt"

// Kind selects the shape of the predicate a strategy generates for a query.
type Kind int

const (
	// Exact matches the whole name.
	Exact Kind = iota
	// Prefix matches an anchored prefix of the name. This is the shape a
	// plain B-tree with text_pattern_ops can serve.
	Prefix
	// Substring matches anywhere in the name or address. This is the shape
	// a trigram GIN index can serve.
	Substring
	// FullText matches lexemes of the combined name and address. This is
	// the shape a GIN index over a tsvector expression can serve.
	FullText
)

var kindNames = map[Kind]string{
	Exact:     "exact",
	Prefix:    "prefix",
	Substring: "substring",
	FullText:  "fulltext",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a CLI value to a Kind
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown query kind %q (want exact, prefix, substring or fulltext)", s)
}

const (
	DefaultOffset = 0
	DefaultNum    = 10
)

// Query is a single search query and all its parameters
type Query struct {
	Table  string
	Term   string
	Kind   Kind
	Paging Paging
}

// Paging represents the offset paging of a search result
type Paging struct {
	Offset int
	Num    int
}

// NewQuery creates a new query for a given table with the given search term.
// Currently the table parameter is ignored, strategies query the table their
// schema names.
func NewQuery(table, term string) *Query {
	return &Query{
		Table:  table,
		Term:   term,
		Paging: Paging{DefaultOffset, DefaultNum},
	}
}

// Limit sets the paging offset and limit for the query
func (q *Query) Limit(offset, num int) *Query {
	q.Paging.Offset = offset
	q.Paging.Num = num
	return q
}

// SetKind sets the query's predicate kind
func (q *Query) SetKind(k Kind) *Query {
	q.Kind = k
	return q
}
