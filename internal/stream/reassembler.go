// Package stream rebuilds a streamed completion body into one JSON document.
package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// RetryMessage is what the user sees whenever the accumulated text does not
// parse. The raw text is for logs only.
const RetryMessage = "Failed to generate itinerary. The AI may be overloaded or the response was not valid JSON. Please try again."

var (
	ErrMalformed = errors.New("stream: accumulated response is not valid JSON")
	ErrFinished  = errors.New("stream: reassembler already finished")
)

const readChunkSize = 4096

type Result struct {
	// Raw is the full decoded text, kept for diagnostics.
	Raw      string
	Document any
	Chunks   int
}

// Reassembler accumulates byte chunks in arrival order. Multi-byte runes split
// across chunk boundaries are held back until complete. Parsing happens once,
// in Finish.
type Reassembler struct {
	buf      strings.Builder
	pending  []byte
	chunks   int
	finished bool
}

func NewReassembler() *Reassembler {
	return &Reassembler{}
}

func (r *Reassembler) Write(chunk []byte) (int, error) {
	if r.finished {
		return 0, ErrFinished
	}
	if len(chunk) == 0 {
		return 0, nil
	}
	r.chunks++
	data := append(r.pending, chunk...)
	complete, rest := splitIncompleteRune(data)
	r.buf.WriteString(strings.ToValidUTF8(string(complete), string(utf8.RuneError)))
	r.pending = append([]byte(nil), rest...)
	return len(chunk), nil
}

// Finish flushes any held-back bytes and parses the accumulated text. The
// returned Result is non-nil even on ErrMalformed so callers can log Raw.
func (r *Reassembler) Finish() (*Result, error) {
	if r.finished {
		return nil, ErrFinished
	}
	r.finished = true
	if len(r.pending) > 0 {
		r.buf.WriteString(strings.ToValidUTF8(string(r.pending), string(utf8.RuneError)))
		r.pending = nil
	}

	res := &Result{Raw: r.buf.String(), Chunks: r.chunks}
	if err := json.Unmarshal([]byte(res.Raw), &res.Document); err != nil {
		return res, fmt.Errorf("%w (%d bytes): %v", ErrMalformed, len(res.Raw), err)
	}
	return res, nil
}

// Reassemble reads src to EOF and parses the result once.
func Reassemble(src io.Reader) (*Result, error) {
	r := NewReassembler()
	buf := make([]byte, readChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			_, _ = r.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res, _ := r.Finish()
			return res, fmt.Errorf("stream: read body: %w", err)
		}
	}
	return r.Finish()
}

func splitIncompleteRune(b []byte) (complete, rest []byte) {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if utf8.FullRune(b[i:]) {
			return b, nil
		}
		return b[:i], b[i:]
	}
	return b, nil
}
