// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio

import (
	"errors"
	"fmt"
	"io"
)

// AsyncWriter is the host capability a Sink needs: submit a buffer, get a
// future that settles when the host has consumed it.
//
// Writes are all-or-fail: a resolved future means every submitted byte was
// consumed. The buffer passed to Write is owned by the host afterwards.
type AsyncWriter interface {
	Write(p []byte) (Future[struct{}], error)
}

// WriteFunc adapts a function to AsyncWriter.
type WriteFunc func(p []byte) (Future[struct{}], error)

func (f WriteFunc) Write(p []byte) (Future[struct{}], error) { return f(p) }

// Flusher is implemented by writers that can flush buffered data.
type Flusher interface {
	Flush() error
}

var errNoWrite = errors.New("host writer has no callable write operation")

// Sink adapts an AsyncWriter into a pollable sequential writer.
//
// Write is a poll. The first call copies p, submits the copy and returns
// (0, ErrWouldBlock). The caller polls again with the same bytes after Ready
// fires; the poll that observes completion returns the full submitted length.
// Exactly one write is in flight at a time.
//
// Flush and Close complete immediately: a Sink holds nothing beyond the one
// in-flight write, and closing the host writer is the host's business.
type Sink struct {
	w         AsyncWriter
	submitted int
	written   int64
	pending   PendingSlot[struct{}]
}

// NewSink probes host for the AsyncWriter capability. A host that does not
// provide it yields a *ConfigError; no write is attempted.
func NewSink(host any) (*Sink, error) {
	var w AsyncWriter
	switch h := host.(type) {
	case nil:
		return nil, &ConfigError{Field: "writer", Err: errNoWrite}
	case WriteFunc:
		if h == nil {
			return nil, &ConfigError{Field: "writer.write", Err: errNoWrite}
		}
		w = h
	case func(p []byte) (Future[struct{}], error):
		if h == nil {
			return nil, &ConfigError{Field: "writer.write", Err: errNoWrite}
		}
		w = WriteFunc(h)
	case AsyncWriter:
		w = h
	default:
		return nil, &ConfigError{Field: "writer.write", Err: fmt.Errorf("%w (got %T)", errNoWrite, host)}
	}
	return &Sink{w: w}, nil
}

// Pending reports whether a write is in flight.
func (s *Sink) Pending() bool { return !s.pending.Empty() }

// Written returns the total number of bytes the host has accepted.
func (s *Sink) Written() int64 { return s.written }

// Ready returns a channel closed when the in-flight write settles, or an
// already closed channel when nothing is in flight.
func (s *Sink) Ready() <-chan struct{} { return s.pending.Ready() }

// Write polls the sink with p.
//
// Results:
//   - (0, ErrWouldBlock): a write is in flight; poll again later.
//   - (n, nil): the in-flight write completed; n is its submitted length.
//   - (0, *HostCallError): the host failed the write; nothing is in flight.
//   - (0, io.ErrShortBuffer): p is shorter than the in-flight write; the write
//     stays in flight and is not polled.
func (s *Sink) Write(p []byte) (int, error) {
	if s.pending.Empty() {
		if len(p) == 0 {
			return 0, nil
		}
		owned := make([]byte, len(p))
		copy(owned, p)
		f, err := s.w.Write(owned)
		if err != nil {
			return 0, hostCallError("write", err)
		}
		if f == nil {
			return 0, &HostCallError{Op: "write", Err: errors.New("host write returned no promise")}
		}
		s.submitted = len(owned)
		s.pending.Submit(f)
		return 0, ErrWouldBlock
	}

	if len(p) < s.submitted {
		return 0, fmt.Errorf("hostio: write re-presented %d of %d submitted bytes: %w", len(p), s.submitted, io.ErrShortBuffer)
	}
	_, err := s.pending.Poll()
	if IsWouldBlock(err) {
		return 0, ErrWouldBlock
	}
	n := s.submitted
	s.submitted = 0
	if err != nil {
		return 0, hostCallError("write", err)
	}
	s.written += int64(n)
	return n, nil
}

// Flush returns nil immediately.
func (s *Sink) Flush() error { return nil }

// Close returns nil immediately.
func (s *Sink) Close() error { return nil }
