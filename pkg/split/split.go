// Package split routes the rows of a delimited file into one output file per
// partition key.
//
// A run resolves the dialect, the header and the partition column once, then
// streams the input line by line: each raw line is parsed only to derive its
// key and is written out byte for byte. Any error stops the run; partitions
// opened so far are flushed and closed before the error is returned.
package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/wdm0006/csvsplit/pkg/io/csvio"
	iox "github.com/wdm0006/csvsplit/pkg/io/ioutils"
	"github.com/wdm0006/csvsplit/pkg/profile"
)

// HeaderMode controls header handling.
type HeaderMode int

const (
	HeaderAuto HeaderMode = iota
	HeaderPresent
	HeaderAbsent
)

// ParseHeaderMode accepts auto, true/yes and false/no.
func ParseHeaderMode(s string) (HeaderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return HeaderAuto, nil
	case "true", "yes", "1":
		return HeaderPresent, nil
	case "false", "no", "0":
		return HeaderAbsent, nil
	}
	return HeaderAuto, fmt.Errorf("invalid header mode %q (want auto, true or false)", s)
}

const DefaultSampleLines = 20

type Options struct {
	Prefix string
	Column Selector
	// Dialect skips delimiter and quote detection when set.
	Dialect     *csvio.Dialect
	Header      HeaderMode
	DateBuckets bool
	// SampleLines is the number of leading lines used for sniffing.
	SampleLines int
	// Encoding is the input charset; outputs are written in the same one.
	Encoding encoding.Encoding
	Gzip     bool
	Logger   *slog.Logger

	input os.FileInfo
}

// Result describes a completed (or aborted) run.
type Result struct {
	Dialect csvio.Dialect
	Header  string
	Column  int
	Summary profile.Summary
}

// SplitFile opens path ("-" for stdin, gzip detected) and splits it. No
// partition may be written over path itself.
func SplitFile(ctx context.Context, path string, opt Options) (Result, error) {
	in, err := iox.OpenMaybeCompressed(path, opt.Encoding)
	if err != nil {
		return Result{}, &Error{Kind: ErrIO, Stage: "open", Err: err}
	}
	defer func() { _ = in.Close() }()
	if path != "-" && path != "" {
		if st, err := os.Stat(path); err == nil {
			opt.input = st
		}
	}
	return Split(ctx, in, opt)
}

// Split reads r to the end, writing each row to the partition of its key.
func Split(ctx context.Context, r io.Reader, opt Options) (res Result, err error) {
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	n := opt.SampleLines
	if n <= 0 {
		n = DefaultSampleLines
	}

	lr := csvio.NewLineReader(r)
	sample, err := lr.Sample(n)
	if err != nil {
		return res, &Error{Kind: ErrIO, Stage: "read", Err: err}
	}

	if opt.Dialect != nil {
		res.Dialect = *opt.Dialect
	} else {
		d, err := csvio.Sniff(sample, csvio.DefaultDelimiters)
		if err != nil {
			return res, &Error{Kind: ErrDetection, Stage: "detect", Err: err}
		}
		res.Dialect = d
	}

	hasHeader := false
	switch opt.Header {
	case HeaderPresent:
		hasHeader = len(sample) > 0
	case HeaderAuto:
		hasHeader = csvio.HasHeader(sample, res.Dialect)
	}
	log.Info("dialect resolved", "dialect", res.Dialect.String(), "detected", opt.Dialect == nil, "header", hasHeader)

	var headerFields []string
	if hasHeader {
		raw, err := lr.Next()
		if err != nil {
			return res, &Error{Kind: ErrIO, Stage: "read", Err: err}
		}
		headerFields, err = csvio.ParseLine(csvio.StripBOM(raw), res.Dialect)
		if err != nil {
			return res, &Error{Kind: ErrParse, Stage: "parse", Line: 1, Err: err}
		}
		res.Header = raw
	}

	res.Column, err = opt.Column.Resolve(headerFields)
	if err != nil {
		return res, err
	}
	log.Info("column resolved", "column", opt.Column.String(), "index", res.Column)

	suffix := ".csv"
	if opt.Gzip {
		suffix = ".csv.gz"
	}
	parts := NewPartitions(PartitionOptions{
		Prefix: opt.Prefix,
		Header: res.Header,
		Suffix: suffix,
		Writer: csvio.WriterOptions{Encoding: opt.Encoding},
		Logger: log,
		Input:  opt.input,
	})
	stats := profile.NewCollector(parts.FileName)
	defer func() {
		res.Summary = stats.Summary()
		if cerr := parts.CloseAll(); cerr != nil && err == nil {
			err = &Error{Kind: ErrIO, Stage: "close", Err: cerr}
		}
	}()

	deriver := KeyDeriver{Index: res.Column, DateBuckets: opt.DateBuckets}
	err = run(ctx, lr, res.Dialect, deriver, parts, stats.Observe)
	return res, err
}

// run drives the per-row loop: read, parse, derive the key, write.
func run(ctx context.Context, lr *csvio.LineReader, d csvio.Dialect, k KeyDeriver, sink Sink, observe func(string)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := lr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &Error{Kind: ErrIO, Stage: "read", Line: lr.Line() + 1, Err: err}
		}
		line := raw
		if lr.Line() == 1 {
			// headerless input: a BOM is not part of the first key
			line = csvio.StripBOM(raw)
		}
		fields, err := csvio.ParseLine(line, d)
		if err != nil {
			return &Error{Kind: ErrParse, Stage: "parse", Line: lr.Line(), Err: err}
		}
		key, err := k.Derive(fields)
		if err != nil {
			return &Error{Kind: ErrParse, Stage: "key", Line: lr.Line(), Err: err}
		}
		if err := sink.Write(key, raw); err != nil {
			var se *Error
			if errors.As(err, &se) && se.Line == 0 {
				se.Line = lr.Line()
			}
			return err
		}
		observe(key)
	}
}
