package split

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/wdm0006/csvsplit/pkg/io/csvio"
)

// Sink consumes routed rows. CloseAll must release every resource the sink
// acquired and is safe to call more than once.
type Sink interface {
	Write(key, raw string) error
	CloseAll() error
}

var (
	errClosed        = errors.New("partitions already closed")
	errOverwriteSelf = errors.New("partition file is the input file")
)

// PartitionOptions configures output file creation.
type PartitionOptions struct {
	Prefix string
	// Header is written verbatim at the top of every new file.
	Header string
	// Suffix defaults to ".csv"; ".csv.gz" compresses the outputs.
	Suffix string
	Writer csvio.WriterOptions
	Logger *slog.Logger
	// Input, when set, is the file being split; it is never opened for output.
	Input os.FileInfo
}

// Partitions owns one open StreamWriter per partition key. Files are created
// on the first row for a key and stay open until CloseAll.
type Partitions struct {
	opt    PartitionOptions
	open   map[string]*csvio.StreamWriter
	closed bool
}

func NewPartitions(opt PartitionOptions) *Partitions {
	if opt.Suffix == "" {
		opt.Suffix = ".csv"
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}
	return &Partitions{opt: opt, open: make(map[string]*csvio.StreamWriter)}
}

// FileName is the output path for key.
func (p *Partitions) FileName(key string) string {
	return p.opt.Prefix + EscapeKey(key) + p.opt.Suffix
}

// Write appends raw to the partition for key, creating it if needed.
func (p *Partitions) Write(key, raw string) error {
	if p.closed {
		return &Error{Kind: ErrIO, Stage: "write", Err: errClosed}
	}
	w, ok := p.open[key]
	if !ok {
		name := p.FileName(key)
		if p.opt.Input != nil {
			if st, err := os.Stat(name); err == nil && os.SameFile(st, p.opt.Input) {
				return &Error{Kind: ErrConfiguration, Stage: "create", Err: errOverwriteSelf, Value: name}
			}
		}
		var err error
		w, err = csvio.NewStreamWriter(name, p.opt.Header, p.opt.Writer)
		if err != nil {
			return &Error{Kind: ErrIO, Stage: "create", Err: err}
		}
		p.open[key] = w
		p.opt.Logger.Debug("partition opened", "key", key, "file", name)
	}
	if err := w.WriteLine(raw); err != nil {
		return &Error{Kind: ErrIO, Stage: "write", Err: fmt.Errorf("%s: %w", p.FileName(key), err)}
	}
	return nil
}

// Len reports the number of partitions opened so far.
func (p *Partitions) Len() int { return len(p.open) }

// CloseAll flushes and closes every partition. Only the first call does any
// work.
func (p *Partitions) CloseAll() error {
	if p.closed {
		return nil
	}
	p.closed = true
	var errs []error
	for key, w := range p.open {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.FileName(key), err))
		}
	}
	return errors.Join(errs...)
}

// EscapeKey makes a key safe for use in a file name. Only '%', path
// separators and control characters are rewritten, as %XX, so distinct keys
// always map to distinct names.
func EscapeKey(key string) string {
	if !strings.ContainsFunc(key, needsEscape) {
		return key
	}
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if needsEscape(rune(c)) {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func needsEscape(r rune) bool {
	return r == '%' || r == '/' || r == '\\' || r < 0x20 || r == 0x7f
}
