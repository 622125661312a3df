package synth

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pgsearch/PGSearchBenchmark/index"
)

// Header is the fixed first row of every generated CSV file.
var Header = []string{"name", "address"}

// RecordGenerator generates synthetic (name, address) records for loading
// into the benchmark table.
type RecordGenerator struct {
	provider Provider
}

func NewRecordGenerator(p Provider) *RecordGenerator {
	return &RecordGenerator{provider: p}
}

// Generate samples one record. Rows are i.i.d., nothing suppresses repeats.
func (g *RecordGenerator) Generate() index.Record {
	return index.Record{
		Name:    g.provider.FullName(),
		Address: g.provider.FullAddress(),
	}
}

// WriteCSV writes the header row followed by n generated records to w.
// Fields containing commas, quotes or newlines are quoted per RFC 4180, so
// the output round-trips through any standard CSV reader.
func (g *RecordGenerator) WriteCSV(w io.Writer, n int) error {
	if n < 0 {
		return fmt.Errorf("record count must not be negative, got %d", n)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := 0; i < n; i++ {
		r := g.Generate()
		if err := cw.Write([]string{r.Name, r.Address}); err != nil {
			return fmt.Errorf("write csv record %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteFile creates (or truncates) path and writes n records to it. A failed
// run removes whatever it managed to write, so no partial file is left for a
// later bulk load to pick up.
func (g *RecordGenerator) WriteFile(path string, n int) error {
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if err := g.WriteCSV(fp, n); err != nil {
		fp.Close()
		os.Remove(path)
		return err
	}
	if err := fp.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
