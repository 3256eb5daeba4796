// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio_test

import (
	"errors"
	"fmt"

	"code.hybscloud.com/hostio"
)

// memBlob is a Blob over a byte slice whose slice requests settle only when
// the test says so. It counts every host call.
type memBlob struct {
	data     []byte
	calls    int
	ranges   [][2]int64
	inflight *hostio.Promise[[]byte]
	sliceErr error // returned synchronously by Slice
	reject   error // used by settle instead of data
	wrapped  bool  // hand out futures that wrap ErrWouldBlock
}

func (b *memBlob) Size() int64 { return int64(len(b.data)) }

func (b *memBlob) Slice(start, end int64) (hostio.Future[[]byte], error) {
	b.calls++
	b.ranges = append(b.ranges, [2]int64{start, end})
	if b.sliceErr != nil {
		return nil, b.sliceErr
	}
	p := hostio.NewPromise[[]byte]()
	b.inflight = p
	if b.wrapped {
		return wrappedPending[[]byte]{p}, nil
	}
	return p, nil
}

// settle settles the in-flight slice with the requested bytes (or b.reject).
func (b *memBlob) settle() {
	if b.inflight == nil {
		return
	}
	r := b.ranges[len(b.ranges)-1]
	p := b.inflight
	b.inflight = nil
	if b.reject != nil {
		p.Reject(b.reject)
		return
	}
	out := make([]byte, r[1]-r[0])
	copy(out, b.data[r[0]:r[1]])
	p.Resolve(out)
}

// instantBlob settles every slice immediately.
type instantBlob struct {
	data  []byte
	calls int
}

func (b *instantBlob) Size() int64 { return int64(len(b.data)) }

func (b *instantBlob) Slice(start, end int64) (hostio.Future[[]byte], error) {
	b.calls++
	out := make([]byte, end-start)
	copy(out, b.data[start:end])
	return hostio.Resolved(out), nil
}

// memWriter is an AsyncWriter that records submissions and settles them when
// the test says so.
type memWriter struct {
	got      []byte
	calls    int
	bufs     [][]byte
	inflight *hostio.Promise[struct{}]
	writeErr error
	reject   error
	wrapped  bool
}

func (w *memWriter) Write(p []byte) (hostio.Future[struct{}], error) {
	w.calls++
	if w.writeErr != nil {
		return nil, w.writeErr
	}
	w.bufs = append(w.bufs, p)
	pr := hostio.NewPromise[struct{}]()
	w.inflight = pr
	if w.wrapped {
		return wrappedPending[struct{}]{pr}, nil
	}
	return pr, nil
}

func (w *memWriter) settle() {
	if w.inflight == nil {
		return
	}
	pr := w.inflight
	w.inflight = nil
	if w.reject != nil {
		pr.Reject(w.reject)
		return
	}
	w.got = append(w.got, w.bufs[len(w.bufs)-1]...)
	pr.Resolve(struct{}{})
}

// wrappedPending reports its unsettled state as an error wrapping
// ErrWouldBlock, as some hosts annotate it.
type wrappedPending[T any] struct {
	p *hostio.Promise[T]
}

func (f wrappedPending[T]) Poll() (T, error) {
	v, err := f.p.Poll()
	if errors.Is(err, hostio.ErrWouldBlock) {
		return v, fmt.Errorf("host: pending: %w", err)
	}
	return v, err
}

func (f wrappedPending[T]) Done() <-chan struct{} { return f.p.Done() }

// pollRead polls src with buf, settling the host between polls, until the
// poll completes. It returns the poll result and how many polls were needed.
func pollRead(src *hostio.Source, blob *memBlob, buf []byte) (n, polls int, err error) {
	for {
		polls++
		n, err = src.Read(buf)
		if err != hostio.ErrWouldBlock {
			return n, polls, err
		}
		blob.settle()
	}
}

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
	return b
}
