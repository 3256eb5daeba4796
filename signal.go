// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio

// Signal is a pollable cancellation input.
//
// Poll returns nil once the signal has fired and ErrWouldBlock before that.
// Done is closed when the signal fires; a nil channel means it never will.
type Signal interface {
	Poll() error
	Done() <-chan struct{}
}

// Never is a Signal that never fires. Pass it where an engine requires a
// cancellation input but the integration offers no mid-transfer cancellation.
type Never struct{}

// Poll always returns ErrWouldBlock.
func (Never) Poll() error { return ErrWouldBlock }

// Done returns a nil channel, which blocks forever in a select.
func (Never) Done() <-chan struct{} { return nil }

// SignalOrNever returns s, or Never when s is nil.
// APIs taking a Signal accept nil to mean "no cancellation".
func SignalOrNever(s Signal) Signal {
	if s == nil {
		return Never{}
	}
	return s
}

// Trigger is a Signal fired by calling Fire. The zero value is not usable;
// use NewTrigger.
type Trigger struct {
	p *Promise[struct{}]
}

// NewTrigger returns an unfired Trigger.
func NewTrigger() *Trigger { return &Trigger{p: NewPromise[struct{}]()} }

// Fire fires the trigger. Only the first call has an effect.
func (t *Trigger) Fire() { t.p.Resolve(struct{}{}) }

func (t *Trigger) Poll() error {
	_, err := t.p.Poll()
	return err
}

func (t *Trigger) Done() <-chan struct{} { return t.p.Done() }
