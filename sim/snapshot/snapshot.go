// Package snapshot streams per-tick library snapshots as JSON lines, one
// header line followed by one line per tick, optionally zstd-compressed.
package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/inference-sim/seat-sim/sim"
)

// Version is the stream format version written in every header.
const Version = 1

var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/inference-sim/seat-sim/runs"))

// Header describes the run that produced a stream.
type Header struct {
	Version          int     `json:"version"`
	RunKey           string  `json:"run_key"`
	Seed             int64   `json:"seed"`
	Rows             int     `json:"rows"`
	Cols             int     `json:"cols"`
	Occupants        int     `json:"occupants"`
	TickMinutes      float64 `json:"tick_minutes"`
	DayStart         string  `json:"day_start"`
	DayEnd           string  `json:"day_end"`
	ReservationLimit float64 `json:"reservation_limit_minutes"`
	HoldClock        string  `json:"hold_clock"`
	Advisor          string  `json:"advisor"`
}

// NewHeader describes cfg. RunKey is a name-based UUID of the fields that
// determine the simulation outcome, so identical runs share a key.
func NewHeader(cfg sim.Config) Header {
	h := Header{
		Version:          Version,
		Seed:             cfg.Seed,
		Rows:             cfg.Rows,
		Cols:             cfg.Cols,
		Occupants:        cfg.Occupants,
		TickMinutes:      cfg.TickDuration.Minutes(),
		DayStart:         cfg.DayStart.String(),
		DayEnd:           cfg.DayEnd.String(),
		ReservationLimit: cfg.ReservationLimit.Minutes(),
		HoldClock:        string(cfg.HoldClock),
		Advisor:          cfg.Advisor.Name,
	}
	name := fmt.Sprintf("%d|%dx%d|%d|%g|%g|%g|%g|%s|%s|%s|%s|%s",
		cfg.Seed, cfg.Rows, cfg.Cols, cfg.Occupants,
		cfg.HumanitiesShare, cfg.ScienceShare, cfg.LampProbability, cfg.SocketProbability,
		cfg.TickDuration, cfg.ReservationLimit, h.DayStart, h.DayEnd, h.HoldClock)
	h.RunKey = uuid.NewSHA1(runNamespace, []byte(name+"|"+h.Advisor)).String()
	return h
}

// IsCompressedPath reports whether path names a zstd stream.
func IsCompressedPath(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("snapshot writer closed")

// Writer appends snapshots to a stream. It implements sim.SnapshotSink and
// is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	file   *os.File // nil when writing to a caller-owned io.Writer
	enc    *zstd.Encoder
	w      *bufio.Writer
	count  int
	closed bool
}

// Create opens path for writing, compressing when it ends in ".zst", and
// writes the header line.
func Create(path string, h Header) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot file: %w", err)
	}
	w, err := NewWriter(f, h, IsCompressedPath(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.file = f
	return w, nil
}

// NewWriter writes a stream to dst. Close flushes but does not close dst.
func NewWriter(dst io.Writer, h Header, compress bool) (*Writer, error) {
	w := &Writer{}
	out := dst
	if compress {
		enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		w.enc = enc
		out = enc
	}
	w.w = bufio.NewWriterSize(out, 64*1024)
	if err := w.writeLine(h); err != nil {
		return nil, fmt.Errorf("writing snapshot header: %w", err)
	}
	return w, nil
}

// WriteSnapshot appends one tick.
func (w *Writer) WriteSnapshot(s sim.TickSnapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if err := w.writeLine(s); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of snapshots written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

func (w *Writer) writeLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes buffered lines, finishes the zstd frame and closes the file
// if Create opened it.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	var errs []error
	if err := w.w.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flushing snapshots: %w", err))
	}
	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing zstd stream: %w", err))
		}
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing snapshot file: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Stream is a fully decoded snapshot file.
type Stream struct {
	Header    Header
	Snapshots []sim.TickSnapshot
}

// Open reads a stream written by Create.
func Open(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()
	return Read(f, IsCompressedPath(path))
}

// Read decodes a stream from r.
func Read(r io.Reader, compressed bool) (*Stream, error) {
	if compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading snapshot header: %w", err)
		}
		return nil, errors.New("snapshot stream is empty")
	}
	st := &Stream{}
	if err := json.Unmarshal(sc.Bytes(), &st.Header); err != nil {
		return nil, fmt.Errorf("parsing snapshot header: %w", err)
	}
	if st.Header.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", st.Header.Version)
	}
	for line := 2; sc.Scan(); line++ {
		var s sim.TickSnapshot
		if err := json.Unmarshal(sc.Bytes(), &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		st.Snapshots = append(st.Snapshots, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshots: %w", err)
	}
	return st, nil
}
