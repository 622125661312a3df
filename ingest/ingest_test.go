package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgsearch/PGSearchBenchmark/index"
	"github.com/pgsearch/PGSearchBenchmark/query"
)

// fakeIndex collects everything indexed into it.
type fakeIndex struct {
	mu      sync.Mutex
	records []index.Record
	batches int
}

func (f *fakeIndex) GetName() string              { return "fake" }
func (f *fakeIndex) Create(context.Context) error { return nil }
func (f *fakeIndex) Drop(context.Context) error   { return nil }

func (f *fakeIndex) Explain(context.Context, query.Query) (string, error) {
	return "", nil
}

func (f *fakeIndex) Index(_ context.Context, records []index.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, records...)
	f.batches++
	return nil
}

func (f *fakeIndex) Search(context.Context, query.Query) ([]index.Record, int, error) {
	return nil, 0, nil
}

const sampleCSV = `name,address
John Smith,"12 High Street, London, N1 9GU"
"Smith, Jane",22 Acacia Avenue
Bob Jones,1 Main St
`

func TestCSVReader(t *testing.T) {
	r := NewCSVReader()
	ch := make(chan index.Record, 10)
	err := r.Read(strings.NewReader(sampleCSV), ch)
	assert.NoError(t, err)

	var got []index.Record
	for rec := range ch {
		got = append(got, rec)
	}
	assert.NoError(t, r.Err())
	assert.Len(t, got, 3)
	assert.Equal(t, index.Record{Name: "John Smith", Address: "12 High Street, London, N1 9GU"}, got[0])
	assert.Equal(t, "Smith, Jane", got[1].Name)
}

func TestCSVReaderBadHeader(t *testing.T) {
	ch := make(chan index.Record, 1)
	err := NewCSVReader().Read(strings.NewReader("foo,bar\na,b\n"), ch)
	assert.Error(t, err)
}

func TestCSVReaderEmpty(t *testing.T) {
	ch := make(chan index.Record, 1)
	err := NewCSVReader().Read(strings.NewReader(""), ch)
	assert.Error(t, err)
}

func TestCSVReaderMalformedRow(t *testing.T) {
	r := NewCSVReader()
	ch := make(chan index.Record, 10)
	err := r.Read(strings.NewReader("name,address\nJohn Smith,1 Main St\na,b,c\nnever,reached\n"), ch)
	assert.NoError(t, err)

	var got []index.Record
	for rec := range ch {
		got = append(got, rec)
	}
	// the stream ends at the bad row and the failure is reported
	assert.Len(t, got, 1)
	assert.Error(t, r.Err())
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	assert.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	idx := &fakeIndex{}
	// chunk of 2 forces a full batch plus a remainder batch
	err := ReadFile(context.Background(), path, NewCSVReader(), idx, 2, 2)
	assert.NoError(t, err)
	assert.Len(t, idx.records, 3)
	assert.Equal(t, 2, idx.batches)
}

func TestReadFileMissing(t *testing.T) {
	idx := &fakeIndex{}
	err := ReadFile(context.Background(), "does-not-exist.csv", NewCSVReader(), idx, 10, 1)
	assert.Error(t, err)
}

func TestReadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.csv")
	assert.NoError(t, os.WriteFile(path, []byte("name,address\nJohn Smith,1 Main St\n\"unterminated,quote\n"), 0o644))

	idx := &fakeIndex{}
	err := ReadFile(context.Background(), path, NewCSVReader(), idx, 10, 1)
	assert.Error(t, err)
	// rows before the corruption were still loaded, the error tells the
	// caller to discard them
	assert.Len(t, idx.records, 1)
}

func TestProgressLine(t *testing.T) {
	assert.Equal(t, "", progressLine(100, 50, 2048, 0))
	line := progressLine(100, 50, 2048, 2.0)
	assert.Contains(t, line, "100 records done")
	assert.Contains(t, line, "rate: 25 r/s")
	assert.Contains(t, line, "1K/s")
}
