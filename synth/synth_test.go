package synth

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgsearch/PGSearchBenchmark/index"
)

func TestRecordGenerator(t *testing.T) {
	p, err := NewProvider(DefaultLocale, 42)
	assert.NoError(t, err)
	g := NewRecordGenerator(p)
	for i := 0; i < 100; i++ {
		r := g.Generate()
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Address)
	}
}

func TestProviderDeterministic(t *testing.T) {
	p1, err := NewProvider("en-GB", 1234)
	assert.NoError(t, err)
	p2, err := NewProvider("en-GB", 1234)
	assert.NoError(t, err)
	for i := 0; i < 10; i++ {
		assert.Equal(t, p1.FullName(), p2.FullName())
		assert.Equal(t, p1.FullAddress(), p2.FullAddress())
	}
}

func TestProviderLocales(t *testing.T) {
	for _, locale := range []string{"en-GB", "en-US", "en", "en-AU"} {
		_, err := NewProvider(locale, 1)
		assert.NoError(t, err, "locale %s", locale)
	}
	for _, locale := range []string{"de-DE", "fr", "zz-ZZ", "not a locale!!", ""} {
		_, err := NewProvider(locale, 1)
		assert.True(t, errors.Is(err, ErrUnsupportedLocale), "locale %q: %v", locale, err)
	}
}

func TestUKPostcodeShape(t *testing.T) {
	p, err := NewProvider("en-GB", 7)
	assert.NoError(t, err)
	for i := 0; i < 20; i++ {
		addr := p.FullAddress()
		parts := strings.Split(addr, ", ")
		assert.Len(t, parts, 3)
		// outward and inward code separated by a space
		assert.Contains(t, parts[2], " ")
		assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
	}
}

// stubProvider makes CSV escaping deterministic and nasty on purpose.
type stubProvider struct {
	n int
}

func (s *stubProvider) FullName() string {
	s.n++
	return fmt.Sprintf("Smith, John %q #%d", "Jr.", s.n)
}

func (s *stubProvider) FullAddress() string {
	return "1 High Street\nLondon, N1 9GU"
}

func TestWriteCSVLineCounts(t *testing.T) {
	for _, n := range []int{0, 1, 5, 100} {
		p, err := NewProvider("en-GB", uint64(n)+1)
		assert.NoError(t, err)
		g := NewRecordGenerator(p)

		var buf bytes.Buffer
		assert.NoError(t, g.WriteCSV(&buf, n))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		assert.Len(t, lines, n+1, "n=%d", n)
		assert.Equal(t, "name,address", lines[0])
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	g := NewRecordGenerator(&stubProvider{})
	var buf bytes.Buffer
	assert.NoError(t, g.WriteCSV(&buf, 5))

	cr := csv.NewReader(&buf)
	rows, err := cr.ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 6)
	assert.Equal(t, Header, rows[0])
	for _, row := range rows[1:] {
		assert.Len(t, row, 2)
		assert.NotEmpty(t, row[0])
		assert.NotEmpty(t, row[1])
		assert.Contains(t, row[0], `Smith, John "Jr."`)
		assert.Contains(t, row[1], "\n")
	}
}

func TestWriteCSVNegativeCount(t *testing.T) {
	g := NewRecordGenerator(&stubProvider{})
	assert.Error(t, g.WriteCSV(&bytes.Buffer{}, -1))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteCSVWriterError(t *testing.T) {
	g := NewRecordGenerator(&stubProvider{})
	assert.Error(t, g.WriteCSV(failingWriter{}, 3))
}

func TestWriteFile(t *testing.T) {
	g := NewRecordGenerator(&stubProvider{})
	path := filepath.Join(t.TempDir(), "people.csv")
	assert.NoError(t, g.WriteFile(path, 3))

	fp, err := os.Open(path)
	assert.NoError(t, err)
	defer fp.Close()
	rows, err := csv.NewReader(fp).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestWriteFileUnwritable(t *testing.T) {
	g := NewRecordGenerator(&stubProvider{})
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "people.csv")
	assert.Error(t, g.WriteFile(path, 3))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func BenchmarkGenerator(b *testing.B) {
	p, err := NewProvider(DefaultLocale, 1)
	if err != nil {
		b.Fatal(err)
	}
	g := NewRecordGenerator(p)
	var r index.Record
	for i := 0; i < b.N; i++ {
		r = g.Generate()
	}
	_ = r
}
