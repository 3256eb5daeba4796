// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package oshost provides hostio host objects backed by ordinary Go readers
// and writers. Host operations run on goroutines so that the adapters see
// the same pending-then-settled behavior as in a browser.
package oshost

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"code.hybscloud.com/hostio"
)

// ReaderAtSizer is implemented by *bytes.Reader, *strings.Reader and
// *io.SectionReader.
type ReaderAtSizer interface {
	io.ReaderAt
	Size() int64
}

// Blob is a hostio.Blob over an io.ReaderAt.
type Blob struct {
	r      io.ReaderAt
	size   int64
	name   string
	closer io.Closer
}

// File returns a Blob over r.
func File(r ReaderAtSizer) *Blob {
	return &Blob{r: r, size: r.Size()}
}

// OpenFile opens the named file as a Blob. The caller closes it.
func OpenFile(path string) (*Blob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("oshost: %s is not a regular file", path)
	}
	return &Blob{r: f, size: fi.Size(), name: filepath.Base(path), closer: f}, nil
}

func (b *Blob) Size() int64 { return b.size }

// Name returns the base name of an opened file, or "".
func (b *Blob) Name() string { return b.name }

// Slice reads [start, end) on a goroutine.
func (b *Blob) Slice(start, end int64) (hostio.Future[[]byte], error) {
	if start < 0 || end < start || end > b.size {
		return nil, fmt.Errorf("oshost: slice [%d, %d) out of range for size %d", start, end, b.size)
	}
	return hostio.Async(func() ([]byte, error) {
		buf := make([]byte, end-start)
		n, err := b.r.ReadAt(buf, start)
		if n == len(buf) {
			return buf, nil
		}
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}), nil
}

func (b *Blob) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

var errClosed = errors.New("oshost: writer closed")

// Writer is a hostio.AsyncWriter over an io.Writer. Each write runs on its
// own goroutine after the previous one finished, so bytes land in
// submission order even when the caller does not wait.
type Writer struct {
	w      io.Writer
	mu     sync.Mutex
	last   <-chan struct{}
	closed bool
}

// NewWriter returns a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write submits p. A short write rejects with io.ErrShortWrite.
func (w *Writer) Write(p []byte) (hostio.Future[struct{}], error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, errClosed
	}
	prev := w.last
	pr := hostio.NewPromise[struct{}]()
	w.last = pr.Done()
	go func() {
		if prev != nil {
			<-prev
		}
		n, err := w.w.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			pr.Reject(err)
			return
		}
		pr.Resolve(struct{}{})
	}()
	return pr, nil
}

// Close waits for submitted writes to finish, then closes the underlying
// writer when it is an io.Closer. Later writes fail.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	last := w.last
	w.mu.Unlock()
	if last != nil {
		<-last
	}
	if c, ok := w.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
