// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio

import (
	"context"
	"io"
)

// DefaultChunkSize is the staging buffer size used when NewPump gets nil.
const DefaultChunkSize = 32 * 1024

// Waiter is implemented by pollable readers and writers that can tell a
// scheduler when polling again may make progress. Source, Sink and the
// progress taps implement it.
type Waiter interface {
	Ready() <-chan struct{}
}

// Pump copies from a pollable reader to a pollable writer across any number
// of suspensions.
//
// Unlike a one-shot copy, a Pump keeps the bytes it has read but the writer
// has not yet accepted, and presents exactly those bytes again on the next
// step. This is what a Sink requires: a write that returned ErrWouldBlock
// holds a copy of the buffer and completes on a later poll with the same
// bytes.
//
// A Pump is driven by one caller at a time.
type Pump struct {
	dst     io.Writer
	src     io.Reader
	buf     []byte
	staged  []byte
	written int64
	eof     bool
	done    bool
	blocked Op
	backoff Backoff
	stopErr error
}

// NewPump returns a Pump copying src to dst, staging reads through buf.
// If buf is nil, a DefaultChunkSize buffer is allocated.
// If buf has zero length, NewPump panics.
func NewPump(dst io.Writer, src io.Reader, buf []byte) *Pump {
	if buf != nil && len(buf) == 0 {
		panic("empty buffer in NewPump")
	}
	if buf == nil {
		buf = make([]byte, DefaultChunkSize)
	}
	return &Pump{dst: dst, src: src, buf: buf}
}

// Written returns the number of bytes the writer has accepted so far.
func (p *Pump) Written() int64 { return p.written }

// Done reports whether the reader hit end of stream and every byte read has
// been accepted by the writer.
func (p *Pump) Done() bool { return p.done }

// Blocked returns the side that reported ErrWouldBlock most recently, or
// OpNone after progress.
func (p *Pump) Blocked() Op { return p.blocked }

// Ready returns a channel closed when the blocked side may make progress.
// It returns nil when the blocked side offers no Ready channel, and an
// already closed channel when nothing is blocked.
func (p *Pump) Ready() <-chan struct{} {
	var side any
	switch p.blocked {
	case OpPumpRead:
		side = p.src
	case OpPumpWrite:
		side = p.dst
	default:
		return closedChan
	}
	if w, ok := side.(Waiter); ok {
		return w.Ready()
	}
	return nil
}

// Step makes as much progress as possible without waiting.
//
// Results:
//   - (n, nil): the copy is complete; Done reports true.
//   - (n, ErrWouldBlock): progress stopped at a suspension; step again after
//     Ready fires. n may be > 0.
//   - (n, err): the reader or writer failed.
func (p *Pump) Step() (written int64, err error) {
	return p.step(ReturnPolicy{})
}

// StepPolicy is like Step but consults policy on ErrWouldBlock.
//
//   - nil policy: identical to Step
//   - non-nil: PolicyRetry triggers policy.Yield(op) and another poll;
//     PolicyReturn returns ErrWouldBlock.
func (p *Pump) StepPolicy(policy SemanticPolicy) (written int64, err error) {
	if policy == nil {
		policy = ReturnPolicy{}
	}
	return p.step(policy)
}

func (p *Pump) step(policy SemanticPolicy) (written int64, err error) {
	for !p.done {
		if len(p.staged) > 0 {
			nw, ew := p.dst.Write(p.staged)
			if nw > 0 {
				written += int64(nw)
				p.written += int64(nw)
				p.staged = p.staged[nw:]
				p.progressed()
			}
			if ew != nil {
				if IsWouldBlock(ew) {
					p.blocked = OpPumpWrite
					if policy.OnWouldBlock(OpPumpWrite) == PolicyRetry {
						policy.Yield(OpPumpWrite)
						continue
					}
					return written, ErrWouldBlock
				}
				return written, ew
			}
			if nw == 0 {
				return written, io.ErrShortWrite
			}
			continue
		}

		if p.eof {
			p.done = true
			break
		}

		nr, er := p.src.Read(p.buf)
		if nr > 0 {
			p.staged = p.buf[:nr]
			p.progressed()
		}
		if er != nil {
			if er == io.EOF {
				p.eof = true
				continue
			}
			if IsWouldBlock(er) {
				if nr > 0 {
					continue
				}
				p.blocked = OpPumpRead
				if policy.OnWouldBlock(OpPumpRead) == PolicyRetry {
					policy.Yield(OpPumpRead)
					continue
				}
				return written, ErrWouldBlock
			}
			return written, er
		}
		if nr == 0 {
			// (0, nil) is "no progress"; return rather than spin.
			return written, nil
		}
	}
	return written, nil
}

func (p *Pump) progressed() {
	p.blocked = OpNone
	p.backoff.Reset()
}

// Run drives the Pump to completion, waiting on Ready channels between
// suspensions. It stops early when ctx is done or cancel fires; a nil cancel
// never fires.
func (p *Pump) Run(ctx context.Context, cancel Signal) (written int64, err error) {
	cancel = SignalOrNever(cancel)
	p.stopErr = nil
	policy := PolicyFunc{
		WouldBlockFunc: func(Op) PolicyAction {
			if p.stopErr == nil && cancel.Poll() == nil {
				p.stopErr = ErrCanceled
			}
			if p.stopErr != nil {
				return PolicyReturn
			}
			return PolicyRetry
		},
		YieldFunc: func(Op) {
			p.stopErr = p.wait(ctx, cancel)
		},
	}
	for {
		if cancel.Poll() == nil {
			return written, ErrCanceled
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, err := p.step(policy)
		written += n
		if err == nil && p.done {
			return written, nil
		}
		if IsWouldBlock(err) && p.stopErr != nil {
			return written, p.stopErr
		}
		if err != nil {
			return written, err
		}
		// (0, nil) from the reader: give it time before polling again.
		if err := p.backoff.Wait(ctx); err != nil {
			return written, err
		}
	}
}

func (p *Pump) wait(ctx context.Context, cancel Signal) error {
	ready := p.Ready()
	if ready == nil {
		if err := p.backoff.Wait(ctx); err != nil {
			return err
		}
		return nil
	}
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-cancel.Done():
		return ErrCanceled
	}
}
