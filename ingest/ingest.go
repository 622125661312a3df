package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"code.cloudfoundry.org/bytefmt"

	"github.com/pgsearch/PGSearchBenchmark/index"
)

// RecordReader implements parsing a data source and yielding records.
// Read returns immediately on sources it can start parsing; failures that
// end the stream early are reported by Err once the channel closes.
type RecordReader interface {
	Read(io.Reader, chan<- index.Record) error
	Err() error
}

// ReadFile loads all records in fileName into idx, in batches of chunk
// records spread over conns concurrent loaders. Progress is reported every
// chunk records with the record rate and data rate.
func ReadFile(ctx context.Context, fileName string, r RecordReader, idx index.Index, chunk, conns int) error {
	fp, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("open %s: %w", fileName, err)
	}
	defer fp.Close()

	ch := make(chan index.Record, chunk)
	// run the reader and let it spawn a goroutine
	if err := r.Read(fp, ch); err != nil {
		return err
	}

	batches := make(chan []index.Record, conns)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var loadErr error

	// start the independent loader workers
	for i := 0; i < conns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range batches {
				if err := idx.Index(ctx, batch); err != nil {
					log.Printf("Error loading batch: %s", err)
					mu.Lock()
					if loadErr == nil {
						loadErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}

	st := time.Now()
	n := 0
	total := 0
	dt := uint64(0)
	batch := make([]index.Record, 0, chunk)
	for rec := range ch {
		batch = append(batch, rec)
		dt += uint64(len(rec.Name) + len(rec.Address))
		n++
		total++
		if len(batch) == chunk {
			batches <- batch
			batch = make([]index.Record, 0, chunk)

			// print a progress report every chunk records
			if line := progressLine(total, n, dt, time.Since(st).Seconds()); line != "" {
				fmt.Println(line)
			}
			st = time.Now()
			n = 0
			dt = 0
		}
	}
	if len(batch) > 0 {
		batches <- batch
	}
	close(batches)
	wg.Wait()

	if err := r.Err(); err != nil {
		return err
	}
	if loadErr != nil {
		return loadErr
	}
	fmt.Println("Done!", total, "records loaded")
	return nil
}

// progressLine formats one loading progress report. It returns the empty
// string when the elapsed time is below the clock resolution, since the
// rates would be meaningless.
func progressLine(total, n int, dt uint64, took float64) string {
	if took <= 0 {
		return ""
	}
	rate := float64(n) / took
	drate := uint64(float64(dt) / took)
	return fmt.Sprintf("%d records done, rate: %.0f r/s, data rate: %s/s", total, rate, bytefmt.ByteSize(drate))
}
