package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQueryDefaults(t *testing.T) {
	q := NewQuery("people", "john smith")
	assert.Equal(t, "people", q.Table)
	assert.Equal(t, "john smith", q.Term)
	assert.Equal(t, Exact, q.Kind)
	assert.Equal(t, DefaultOffset, q.Paging.Offset)
	assert.Equal(t, DefaultNum, q.Paging.Num)
}

func TestQueryBuilder(t *testing.T) {
	q := NewQuery("people", "jo").Limit(10, 5).SetKind(Prefix)
	assert.Equal(t, 10, q.Paging.Offset)
	assert.Equal(t, 5, q.Paging.Num)
	assert.Equal(t, Prefix, q.Kind)
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"exact", "prefix", "substring", "fulltext"} {
		k, err := ParseKind(name)
		assert.NoError(t, err)
		assert.Equal(t, name, k.String())
	}
	_, err := ParseKind("regex")
	assert.Error(t, err)
}
