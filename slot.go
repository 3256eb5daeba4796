// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio

// closedChan is returned by Ready when there is nothing to wait for.
var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// PendingSlot holds at most one in-flight host operation.
//
// Poll forwards to the held future. While the future is unsettled the slot is
// kept and ErrWouldBlock is returned, so re-polling never reaches the host a
// second time. The poll that observes settlement clears the slot and hands
// out the result; the result is consumed exactly once.
//
// The zero value is an empty slot. A PendingSlot is owned by one caller.
type PendingSlot[T any] struct {
	f Future[T]
}

// Empty reports whether no operation is in flight.
func (s *PendingSlot[T]) Empty() bool { return s.f == nil }

// Submit stores f as the in-flight operation.
// Submit panics if the slot is occupied or f is nil; check Empty first.
func (s *PendingSlot[T]) Submit(f Future[T]) {
	if f == nil {
		panic("hostio: submit of nil future")
	}
	if s.f != nil {
		panic("hostio: submit on occupied slot")
	}
	s.f = f
}

// Poll polls the in-flight operation.
//
//   - empty slot: ErrNothingPending
//   - unsettled (any error matching ErrWouldBlock): ErrWouldBlock, slot kept
//   - settled: the slot is cleared and the settled value and error returned
func (s *PendingSlot[T]) Poll() (T, error) {
	if s.f == nil {
		var zero T
		return zero, ErrNothingPending
	}
	v, err := s.f.Poll()
	if IsWouldBlock(err) {
		return v, ErrWouldBlock
	}
	s.f = nil
	return v, err
}

// Ready returns a channel closed when the in-flight operation settles.
// For an empty slot the channel is already closed.
func (s *PendingSlot[T]) Ready() <-chan struct{} {
	if s.f == nil {
		return closedChan
	}
	return s.f.Done()
}
