// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/hostio"
)

// countingFuture counts polls and settles after a fixed number of them.
type countingFuture struct {
	polls   int
	readyAt int
	val     int
	err     error
	done    chan struct{}
}

func (f *countingFuture) Poll() (int, error) {
	f.polls++
	if f.polls < f.readyAt {
		return 0, hostio.ErrWouldBlock
	}
	return f.val, f.err
}

func (f *countingFuture) Done() <-chan struct{} { return f.done }

func TestPendingSlot_EmptyPoll(t *testing.T) {
	var s hostio.PendingSlot[int]
	if !s.Empty() {
		t.Fatalf("zero value should be empty")
	}
	if _, err := s.Poll(); err != hostio.ErrNothingPending {
		t.Fatalf("err=%v want ErrNothingPending", err)
	}
	select {
	case <-s.Ready():
	default:
		t.Fatalf("Ready on empty slot should be closed")
	}
}

func TestPendingSlot_ResultConsumedOnce(t *testing.T) {
	var s hostio.PendingSlot[int]
	f := &countingFuture{readyAt: 3, val: 42}
	s.Submit(f)

	for i := 0; i < 2; i++ {
		if _, err := s.Poll(); err != hostio.ErrWouldBlock {
			t.Fatalf("poll %d: err=%v", i, err)
		}
		if s.Empty() {
			t.Fatalf("slot cleared before completion")
		}
	}
	v, err := s.Poll()
	if v != 42 || err != nil {
		t.Fatalf("v=%d err=%v", v, err)
	}
	if !s.Empty() {
		t.Fatalf("slot not cleared at completion")
	}
	if _, err := s.Poll(); err != hostio.ErrNothingPending {
		t.Fatalf("result observed twice: err=%v", err)
	}
	if f.polls != 3 {
		t.Fatalf("inner polls=%d want 3", f.polls)
	}
}

func TestPendingSlot_ErrorClearsSlot(t *testing.T) {
	var s hostio.PendingSlot[int]
	boom := errors.New("boom")
	s.Submit(hostio.Rejected[int](boom))
	if _, err := s.Poll(); !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	if !s.Empty() {
		t.Fatalf("slot not cleared after error")
	}
	s.Submit(hostio.Resolved(7))
	if v, err := s.Poll(); v != 7 || err != nil {
		t.Fatalf("v=%d err=%v", v, err)
	}
}

func TestPendingSlot_SubmitOccupiedPanics(t *testing.T) {
	var s hostio.PendingSlot[int]
	s.Submit(hostio.NewPromise[int]())
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	s.Submit(hostio.NewPromise[int]())
}

func TestPendingSlot_SubmitNilPanics(t *testing.T) {
	var s hostio.PendingSlot[int]
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	s.Submit(nil)
}

func TestPendingSlot_ReadyFollowsFuture(t *testing.T) {
	var s hostio.PendingSlot[string]
	p := hostio.NewPromise[string]()
	s.Submit(p)
	select {
	case <-s.Ready():
		t.Fatalf("Ready closed before settlement")
	default:
	}
	p.Resolve("x")
	<-s.Ready()
	if v, err := s.Poll(); v != "x" || err != nil {
		t.Fatalf("v=%q err=%v", v, err)
	}
}

func TestPendingSlot_WrappedWouldBlockKeepsSlot(t *testing.T) {
	var s hostio.PendingSlot[int]
	p := hostio.NewPromise[int]()
	s.Submit(wrappedPending[int]{p})
	for range 3 {
		if _, err := s.Poll(); err != hostio.ErrWouldBlock {
			t.Fatalf("want bare ErrWouldBlock got %v", err)
		}
		if s.Empty() {
			t.Fatal("slot cleared while still in flight")
		}
	}
	p.Resolve(7)
	if v, err := s.Poll(); v != 7 || err != nil {
		t.Fatalf("v=%d err=%v", v, err)
	}
	if !s.Empty() {
		t.Fatal("slot kept after settle")
	}
}
