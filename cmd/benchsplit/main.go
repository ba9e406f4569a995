package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/wdm0006/csvsplit/pkg/split"
)

// generate writes a headed CSV of rows spread over months distinct months.
func generate(path string, rows, months, cols int, rnd *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	fmt.Fprint(w, "date")
	for c := 0; c < cols; c++ {
		fmt.Fprintf(w, ",v%d", c)
	}
	fmt.Fprint(w, "\n")
	for i := 0; i < rows; i++ {
		m := rnd.Intn(months)
		fmt.Fprintf(w, "%04d-%02d-%02d", 2000+m/12, m%12+1, rnd.Intn(28)+1)
		for c := 0; c < cols; c++ {
			if c%2 == 0 {
				fmt.Fprintf(w, ",%d", rnd.Intn(1000))
			} else {
				fmt.Fprintf(w, `,"s %d, x"`, rnd.Intn(100))
			}
		}
		fmt.Fprint(w, "\n")
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func main() {
	var (
		rows    = flag.Int("rows", 1_000_000, "total rows to generate")
		months  = flag.Int("months", 24, "number of distinct year-month partitions")
		cols    = flag.Int("cols", 6, "number of value columns")
		jsonOut = flag.Bool("json", false, "emit JSON summary")
		keep    = flag.Bool("keep", false, "keep the generated files")
		seed    = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	dir, err := os.MkdirTemp("", "benchsplit")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !*keep {
		defer func() { _ = os.RemoveAll(dir) }()
	}
	in := filepath.Join(dir, "input.csv")
	if err := generate(in, *rows, *months, *cols, rand.New(rand.NewSource(*seed))); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	res, err := split.SplitFile(context.Background(), in, split.Options{
		Prefix:      filepath.Join(dir, "part_"),
		Column:      split.ByName("date"),
		DateBuckets: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	rowsPerSec := float64(res.Summary.Rows) / elapsed.Seconds()
	summary := map[string]any{
		"rows":                  res.Summary.Rows,
		"partitions":            res.Summary.Partitions,
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          rowsPerSec,
		"mem_alloc_bytes":       msAfter.Alloc,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"dir":                   dir,
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d\n", res.Summary.Rows)
	fmt.Printf("Partitions: %d\n", res.Summary.Partitions)
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
	fmt.Printf("Current Alloc: %d MB\n", msAfter.Alloc/1024/1024)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
