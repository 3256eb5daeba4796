// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio

import "io"

// ProgressFunc receives (current, total) byte counts. It is called
// synchronously from the poll that made progress and must not block.
type ProgressFunc func(current, total int64)

// ProgressReader returns a Reader that reports progress to fn after each read
// that delivered bytes. Semantics are passed through unchanged:
//   - (0, ErrWouldBlock) is returned as is, with no report.
//   - io.EOF and failures are returned as is.
//
// The returned Reader forwards Ready when r implements Waiter.
func ProgressReader(r io.Reader, total int64, fn ProgressFunc) io.Reader {
	return &progressReader{r: r, total: total, fn: fn}
}

// ProgressWriter returns a Writer that reports progress to fn after each
// write the underlying writer accepted. ErrWouldBlock is returned unchanged;
// bytes accepted alongside an error are still reported.
//
// The returned Writer forwards Ready, Flush and Close when w supports them.
func ProgressWriter(w io.Writer, total int64, fn ProgressFunc) io.Writer {
	return &progressWriter{w: w, total: total, fn: fn}
}

type progressReader struct {
	r     io.Reader
	total int64
	cur   int64
	fn    ProgressFunc
}

func (t *progressReader) Read(p []byte) (n int, err error) {
	n, err = t.r.Read(p)
	if n > 0 {
		t.cur += int64(n)
		if t.fn != nil {
			t.fn(t.cur, t.total)
		}
	}
	return n, err
}

func (t *progressReader) Ready() <-chan struct{} {
	if w, ok := t.r.(Waiter); ok {
		return w.Ready()
	}
	return nil
}

type progressWriter struct {
	w     io.Writer
	total int64
	cur   int64
	fn    ProgressFunc
}

func (t *progressWriter) Write(p []byte) (n int, err error) {
	n, err = t.w.Write(p)
	if n > 0 {
		t.cur += int64(n)
		if t.fn != nil {
			t.fn(t.cur, t.total)
		}
	}
	return n, err
}

func (t *progressWriter) Ready() <-chan struct{} {
	if w, ok := t.w.(Waiter); ok {
		return w.Ready()
	}
	return nil
}

func (t *progressWriter) Flush() error {
	if f, ok := t.w.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (t *progressWriter) Close() error {
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
