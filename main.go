package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/pgsearch/PGSearchBenchmark/index"
	"github.com/pgsearch/PGSearchBenchmark/index/postgres"
	"github.com/pgsearch/PGSearchBenchmark/ingest"
	"github.com/pgsearch/PGSearchBenchmark/query"
	"github.com/pgsearch/PGSearchBenchmark/synth"
)

func selectIndex(ctx context.Context, engine, dsn, table string) (*postgres.Index, error) {
	strat, err := postgres.ParseStrategy(engine)
	if err != nil {
		return nil, err
	}
	return postgres.NewIndex(ctx, dsn, strat, index.NewSchema().WithTable(table))
}

// defaultKind is the query shape each strategy exists to serve
func defaultKind(s postgres.Strategy) query.Kind {
	switch s {
	case postgres.BTree:
		return query.Prefix
	case postgres.Trigram:
		return query.Substring
	default:
		return query.FullText
	}
}

func main() {

	dsn := pflag.String("dsn", "postgres://localhost:5432/pgsearch", "PostgreSQL connection string")
	engine := pflag.String("engine", "tsvector", "index strategy to run: btree, trigram or tsvector")
	table := pflag.String("table", index.DefaultTable, "table name to create and query")

	generate := pflag.Bool("generate", false, "if set, we generate synthetic records to -out and exit")
	num := pflag.Int("n", 1000000, "number of records to generate")
	locale := pflag.String("locale", synth.DefaultLocale, "locale for generated names and addresses")
	seed := pflag.Uint64("seed", 0, "seed for the record generator, 0 seeds from the clock")
	out := pflag.String("out", "people.csv", "destination file for -generate")

	fileName := pflag.String("file", "", "CSV file to load into the table (drops and recreates it)")
	chunk := pflag.Int("chunk", 10000, "bulk load batch size")

	search := pflag.String("search", "", "run a single query and print the matches")
	explain := pflag.String("explain", "", "print EXPLAIN ANALYZE for a single query (with -benchmark, benchmark plan capture over these comma separated queries)")
	kindFlag := pflag.String("kind", "", "query kind: exact, prefix, substring or fulltext (default depends on -engine)")

	benchmark := pflag.Bool("benchmark", false, "if set, we run a benchmark")
	conc := pflag.Int("c", 4, "benchmark concurrency (also bulk load connections)")
	duration := pflag.Duration("duration", 30*time.Second, "benchmark duration")
	qs := pflag.String("queries", "john smith", "comma separated list of queries to benchmark")
	outfile := pflag.String("outfile", "-", "results CSV file, - for stdout")
	jsonOut := pflag.String("json-out", "", "write the full benchmark result document to this file")
	reportingPeriod := pflag.Duration("reporting-period", time.Second, "period between progress lines while benchmarking")

	pflag.Parse()

	// generation needs no database at all
	if *generate {
		provider, err := synth.NewProvider(*locale, *seed)
		if err != nil {
			log.Fatalf("Could not configure the generator: %s", err)
		}
		gen := synth.NewRecordGenerator(provider)
		if err := gen.WriteFile(*out, *num); err != nil {
			log.Fatalf("Could not write %s: %s", *out, err)
		}
		log.Printf("Wrote %d records to %s", *num, *out)
		return
	}

	ctx := context.Background()
	idx, err := selectIndex(ctx, *engine, *dsn, *table)
	if err != nil {
		log.Fatalf("Could not set up %s index: %s", *engine, err)
	}
	defer idx.Close()

	strat, _ := postgres.ParseStrategy(*engine)
	kind := defaultKind(strat)
	if *kindFlag != "" {
		if kind, err = query.ParseKind(*kindFlag); err != nil {
			log.Fatal(err)
		}
	}

	switch {
	case *benchmark:
		queries := strings.Split(*qs, ",")
		title := kind.String()
		bench := SearchBenchmark(ctx, queries, kind, idx)
		if *explain != "" {
			// benchmark plan capture for the -explain terms instead of
			// result fetching
			queries = strings.Split(*explain, ",")
			title = kind.String() + "-explain"
			bench = ExplainBenchmark(ctx, queries, kind, idx)
		}
		startTime := time.Now()
		if err := Benchmark(*conc, *duration, *engine, title, *outfile, *reportingPeriod, bench); err != nil {
			log.Fatalf("Benchmark failed: %s", err)
		}
		if *jsonOut != "" {
			took := time.Since(startTime)
			result := NewTestResult(fmt.Sprintf("%s %s queries", *engine, title), uint(*conc))
			result.FillDurationInfo(startTime, time.Now())
			result.DBSpecificConfigs["table"] = *table
			result.OverallRates = GetOverallRatesMap(took)
			result.OverallQuantiles = GetOverallQuantiles()
			result.TimeSeries = GetTimeSeriesMap()
			if err := saveJSONResult(result, *jsonOut); err != nil {
				log.Fatalf("Could not save result document: %s", err)
			}
		}

	case *fileName != "":
		if err := idx.Drop(ctx); err != nil {
			log.Fatalf("Could not drop table: %s", err)
		}
		if err := idx.Create(ctx); err != nil {
			log.Fatalf("Could not create %s index: %s", *engine, err)
		}
		if err := ingest.ReadFile(ctx, *fileName, ingest.NewCSVReader(), idx, *chunk, *conc); err != nil {
			log.Fatalf("Could not load %s: %s", *fileName, err)
		}

	case *search != "":
		q := query.NewQuery(*table, *search).Limit(0, query.DefaultNum).SetKind(kind)
		records, total, err := idx.Search(ctx, *q)
		if err != nil {
			log.Fatalf("Search failed: %s", err)
		}
		fmt.Printf("%d total matches for %q (%s/%s):\n", total, *search, *engine, kind)
		for _, r := range records {
			fmt.Printf("  %-30s %s\n", r.Name, r.Address)
		}

	case *explain != "":
		q := query.NewQuery(*table, *explain).Limit(0, query.DefaultNum).SetKind(kind)
		plan, err := idx.Explain(ctx, *q)
		if err != nil {
			log.Fatalf("Explain failed: %s", err)
		}
		fmt.Print(plan)

	default:
		pflag.Usage()
		os.Exit(2)
	}
}
