package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/pgsearch/PGSearchBenchmark/index"
)

// CSVReader reads files produced by the synth generator: a name,address
// header row followed by one record per row. A malformed row ends the
// stream; the failure is reported through Err.
type CSVReader struct {
	mu  sync.Mutex
	err error
}

func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

func (r *CSVReader) Read(src io.Reader, ch chan<- index.Record) error {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = 2

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	if header[0] != "name" || header[1] != "address" {
		return fmt.Errorf("unexpected csv header %v, want [name address]", header)
	}

	go func() {
		defer close(ch)
		for {
			row, err := cr.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				r.setErr(fmt.Errorf("read csv row: %w", err))
				return
			}
			ch <- index.Record{Name: row[0], Address: row[1]}
		}
	}()
	return nil
}

func (r *CSVReader) setErr(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

// Err reports a parse failure that ended the stream early. Only valid once
// the record channel has been closed.
func (r *CSVReader) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
