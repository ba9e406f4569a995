package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/wdm0006/csvsplit/pkg/io/csvio"
	iox "github.com/wdm0006/csvsplit/pkg/io/ioutils"
	"github.com/wdm0006/csvsplit/pkg/split"
)

var (
	version = "0.1.0-dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// boolValue is a bool flag that takes a separate argument ("--date-split false").
type boolValue struct{ v bool }

func (b *boolValue) String() string { return strconv.FormatBool(b.v) }

func (b *boolValue) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("want true or false, got %q", s)
	}
	b.v = v
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("csvsplit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: csvsplit [options] <input-file> <prefix> <column>")
		fs.PrintDefaults()
	}
	showVersion := fs.Bool("version", false, "Print version and exit")
	configPath := fs.String("config", "", "Path to a config file (.json, .toml, .yaml)")
	dialectName := fs.String("dialect", "", "Dialect name ("+strings.Join(csvio.DialectNames(), ", ")+"); skips detection")
	dateSplit := &boolValue{v: true}
	fs.Var(dateSplit, "date-split", "Bucket ISO dates (YYYY-MM-DD...) into YYYY-MM partitions: true|false")
	header := fs.String("header", "auto", "Header policy: auto|true|false")
	encodingName := fs.String("encoding", "utf-8", "Input encoding: utf-8|latin1|iso-8859-15|windows-1252")
	gz := fs.Bool("gzip", false, "Gzip the partition files ({prefix}{key}.csv.gz)")
	sampleLines := fs.Int("sample-lines", split.DefaultSampleLines, "Leading lines used for dialect and header detection")
	summary := fs.Bool("summary", false, "Print a JSON summary of the partitions on stdout")
	logLevel := fs.String("log-level", "info", "Log level: debug|info|warn|error")

	pos, err := parseInterleaved(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, "csvsplit", version)
		return 0
	}

	var cfg Config
	if *configPath != "" {
		cfg, err = loadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	pick := func(name, flagVal, cfgVal string) string {
		if set[name] || cfgVal == "" {
			return flagVal
		}
		return cfgVal
	}
	cfg.Dialect = pick("dialect", *dialectName, cfg.Dialect)
	cfg.Header = pick("header", *header, cfg.Header)
	cfg.Encoding = pick("encoding", *encodingName, cfg.Encoding)
	cfg.LogLevel = pick("log-level", *logLevel, cfg.LogLevel)
	if set["date-split"] || cfg.DateSplit == nil {
		cfg.DateSplit = &dateSplit.v
	}
	if set["gzip"] {
		cfg.Gzip = *gz
	}
	if set["sample-lines"] || cfg.SampleLines == 0 {
		cfg.SampleLines = *sampleLines
	}
	if set["summary"] {
		cfg.Summary = *summary
	}

	switch len(pos) {
	case 0:
	case 3:
		cfg.Input, cfg.Prefix, cfg.Column = pos[0], pos[1], pos[2]
	default:
		fs.Usage()
		fmt.Fprintf(stderr, "expected 3 arguments, got %d\n", len(pos))
		return 2
	}

	opt, logger, err := buildOptions(cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	start := time.Now()
	res, err := split.SplitFile(ctx, cfg.Input, opt)
	if err != nil {
		fmt.Fprintf(stderr, "csvsplit: %v\n", err)
		return 1
	}
	logger.Info("split complete",
		"rows", res.Summary.Rows,
		"partitions", res.Summary.Partitions,
		"elapsed", time.Since(start).String())

	if cfg.Summary {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Summary); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	return 0
}

// buildOptions validates the merged configuration.
func buildOptions(cfg Config, stderr io.Writer) (split.Options, *slog.Logger, error) {
	var opt split.Options
	if cfg.Input == "" {
		return opt, nil, errors.New("no input file given; try --help")
	}
	if cfg.Column == "" {
		return opt, nil, errors.New("no column given; try --help")
	}
	if cfg.Input != "-" {
		st, err := os.Stat(cfg.Input)
		if err != nil {
			return opt, nil, fmt.Errorf("input %q: %w", cfg.Input, err)
		}
		if st.IsDir() {
			return opt, nil, fmt.Errorf("input %q is a directory", cfg.Input)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return opt, nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cfg.Dialect != "" {
		d, err := csvio.LookupDialect(cfg.Dialect)
		if err != nil {
			return opt, nil, err
		}
		opt.Dialect = &d
	}
	hm, err := split.ParseHeaderMode(cfg.Header)
	if err != nil {
		return opt, nil, err
	}
	enc, err := iox.LookupEncoding(cfg.Encoding)
	if err != nil {
		return opt, nil, err
	}

	opt.Prefix = cfg.Prefix
	opt.Column = split.ByName(cfg.Column)
	opt.Header = hm
	opt.DateBuckets = cfg.DateSplit == nil || *cfg.DateSplit
	opt.SampleLines = cfg.SampleLines
	opt.Encoding = enc
	opt.Gzip = cfg.Gzip
	opt.Logger = logger
	return opt, logger, nil
}

// parseInterleaved lets flags follow the positional arguments.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return pos, nil
		}
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(pos, rest...), nil
		}
		pos = append(pos, rest[0])
		args = rest[1:]
	}
}
