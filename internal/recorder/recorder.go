// Package recorder implements the two session recording sink formats: a
// plain timestamped JSON stream, and an asciinema v2 compatible stream.
// Recording captures PTY output only (not child-side input echo), matching
// asciinema's own model — input echo in raw-mode apps is not observable at
// this layer, a documented limitation.
package recorder

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Format selects the on-disk recording format.
type Format string

const (
	FormatJSONStream Format = "jsonstream"
	FormatAsciinema  Format = "asciinema"
)

// Record is one entry of the JSONStream format.
type Record struct {
	TMs  int64  `json:"t_ms"`
	Dir  string `json:"dir"` // "in" or "out"
	Data string `json:"data"`
}

// Header precedes all JSONStream records.
type Header struct {
	Version   int    `json:"version"`
	SessionID string `json:"session_id"`
	Cols      int    `json:"cols"`
	Rows      int    `json:"rows"`
	StartedAt string `json:"started_at"`
}

type asciinemaHeader struct {
	Version   int     `json:"version"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Timestamp int64   `json:"timestamp"`
}

// Recorder appends timestamped byte batches to an underlying writer in one
// of the two supported formats. Safe for concurrent Append calls.
type Recorder struct {
	mu      sync.Mutex
	w       *bufio.Writer
	format  Format
	start   time.Time
	wroteHeader bool
	sessionID string
	cols, rows int
}

// New opens a Recorder writing to w. The header is written lazily on the
// first Append so callers may construct it before the session has produced
// any output.
func New(w io.Writer, format Format, sessionID string, cols, rows int) *Recorder {
	return &Recorder{
		w:         bufio.NewWriter(w),
		format:    format,
		start:     time.Now(),
		sessionID: sessionID,
		cols:      cols,
		rows:      rows,
	}
}

func (r *Recorder) writeHeaderLocked() error {
	if r.wroteHeader {
		return nil
	}
	r.wroteHeader = true
	switch r.format {
	case FormatAsciinema:
		h := asciinemaHeader{Version: 2, Width: r.cols, Height: r.rows, Timestamp: r.start.Unix()}
		b, err := json.Marshal(h)
		if err != nil {
			return err
		}
		if _, err := r.w.Write(b); err != nil {
			return err
		}
		return r.w.WriteByte('\n')
	default:
		h := Header{Version: 1, SessionID: r.sessionID, Cols: r.cols, Rows: r.rows, StartedAt: r.start.Format(time.RFC3339)}
		b, err := json.Marshal(h)
		if err != nil {
			return err
		}
		if _, err := r.w.Write(b); err != nil {
			return err
		}
		return r.w.WriteByte('\n')
	}
}

// Append records one output byte batch with its elapsed-time-since-start.
func (r *Recorder) Append(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writeHeaderLocked(); err != nil {
		return err
	}
	elapsed := time.Since(r.start)
	switch r.format {
	case FormatAsciinema:
		line := fmt.Sprintf("[%.6f,\"o\",%s]\n", elapsed.Seconds(), mustJSONString(string(data)))
		if _, err := r.w.WriteString(line); err != nil {
			return err
		}
	default:
		rec := Record{TMs: elapsed.Milliseconds(), Dir: "out", Data: base64.StdEncoding.EncodeToString(data)}
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := r.w.Write(b); err != nil {
			return err
		}
		if err := r.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return r.w.Flush()
}

func mustJSONString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// Close flushes any buffered output.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Flush()
}
