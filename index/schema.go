package index

const (
	// DefaultTable is the table every strategy targets unless told otherwise.
	DefaultTable = "people"

	// DefaultTextConfig is the text search configuration used for lexeme
	// normalization in the tsvector strategy.
	DefaultTextConfig = "english"
)

// Schema describes the table a strategy builds and queries.
type Schema struct {
	Table      string
	TextConfig string
}

func NewSchema() *Schema {
	return &Schema{
		Table:      DefaultTable,
		TextConfig: DefaultTextConfig,
	}
}

// WithTable overrides the table name
func (s *Schema) WithTable(name string) *Schema {
	s.Table = name
	return s
}

// WithTextConfig overrides the text search configuration
func (s *Schema) WithTextConfig(cfg string) *Schema {
	s.TextConfig = cfg
	return s
}
