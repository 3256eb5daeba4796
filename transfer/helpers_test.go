// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"code.hybscloud.com/hostio"
	"code.hybscloud.com/hostio/transfer"
)

// asyncBlob settles slices on another goroutine, like a browser File.
type asyncBlob struct {
	data     []byte
	sliceErr error
}

func (b *asyncBlob) Size() int64 { return int64(len(b.data)) }

func (b *asyncBlob) Slice(start, end int64) (hostio.Future[[]byte], error) {
	return hostio.Async(func() ([]byte, error) {
		if b.sliceErr != nil {
			return nil, b.sliceErr
		}
		out := make([]byte, end-start)
		copy(out, b.data[start:end])
		return out, nil
	}), nil
}

// asyncWriter completes writes on another goroutine.
type asyncWriter struct {
	mu     sync.Mutex
	got    []byte
	calls  int
	reject error
}

func (w *asyncWriter) Write(p []byte) (hostio.Future[struct{}], error) {
	w.mu.Lock()
	w.calls++
	w.mu.Unlock()
	return hostio.Async(func() (struct{}, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.reject != nil {
			return struct{}{}, w.reject
		}
		w.got = append(w.got, p...)
		return struct{}{}, nil
	}), nil
}

func (w *asyncWriter) bytes() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]byte(nil), w.got...)
}

// countingEngine records how often each Engine method was called.
type countingEngine struct {
	transfer.Engine
	mu    sync.Mutex
	hosts int
	joins int
}

func (e *countingEngine) Host(ctx context.Context, cfg *transfer.Config) (transfer.Session, error) {
	e.mu.Lock()
	e.hosts++
	e.mu.Unlock()
	return e.Engine.Host(ctx, cfg)
}

func (e *countingEngine) Join(ctx context.Context, cfg *transfer.Config, code string) (transfer.Session, error) {
	e.mu.Lock()
	e.joins++
	e.mu.Unlock()
	return e.Engine.Join(ctx, cfg, code)
}

// textOnlyEngine joins sessions whose peer offers no file.
type textOnlyEngine struct{ transfer.Loopback }

func (e *textOnlyEngine) Join(context.Context, *transfer.Config, string) (transfer.Session, error) {
	return textSession{}, nil
}

type textSession struct{}

func (textSession) Code() string { return "1-text" }
func (textSession) SendFile(context.Context, []transfer.RelayHint, io.Reader, string, int64, transfer.Abilities, transfer.Handlers, hostio.Signal) error {
	return nil
}
func (textSession) RequestFile(context.Context, []transfer.RelayHint, transfer.Abilities, hostio.Signal) (transfer.Request, error) {
	return nil, nil
}
func (textSession) Close() error { return nil }

func newClient(t *testing.T, engine transfer.Engine) *transfer.Client {
	t.Helper()
	cfg := transfer.DefaultConfig()
	cfg.ChunkSize = 1000
	c, err := transfer.NewClient(cfg, engine, transfer.NewLogger(false, io.Discard))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*13 + 5)
	}
	return b
}
