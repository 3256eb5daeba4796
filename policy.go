// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio

import "runtime"

// Op identifies which side of a Pump reported ErrWouldBlock.
type Op uint8

const (
	OpNone Op = iota
	OpPumpRead
	OpPumpWrite
)

func (op Op) String() string {
	switch op {
	case OpNone:
		return "None"
	case OpPumpRead:
		return "PumpRead"
	case OpPumpWrite:
		return "PumpWrite"
	default:
		return "Op(unknown)"
	}
}

// PolicyAction tells an engine whether it should return to the caller
// or attempt the operation again.
type PolicyAction uint8

const (
	// PolicyReturn means: return ErrWouldBlock to the caller immediately.
	PolicyReturn PolicyAction = iota

	// PolicyRetry means: call Yield, then poll again.
	PolicyRetry
)

// SemanticPolicy customizes how a Pump reacts to ErrWouldBlock.
//
// Contract expectations:
//   - OnWouldBlock is only called for would-block results.
//   - If PolicyRetry is returned, the engine calls Yield(op) and then polls again.
//   - If Yield(op) does not actually wait for the host operation to settle,
//     the engine spins.
type SemanticPolicy interface {
	Yield(op Op)
	OnWouldBlock(op Op) PolicyAction
}

// PolicyFunc is a convenience implementation for callers that want to inject
// behavior without defining a struct type.
//
// Default behaviors when fields are nil:
//   - YieldFunc: calls runtime.Gosched() to yield the processor
//   - WouldBlockFunc: returns PolicyReturn
type PolicyFunc struct {
	YieldFunc      func(op Op)
	WouldBlockFunc func(op Op) PolicyAction
}

func (p PolicyFunc) Yield(op Op) {
	if p.YieldFunc != nil {
		p.YieldFunc(op)
		return
	}
	runtime.Gosched()
}

func (p PolicyFunc) OnWouldBlock(op Op) PolicyAction {
	if p.WouldBlockFunc != nil {
		return p.WouldBlockFunc(op)
	}
	return PolicyReturn
}

// ReturnPolicy never waits and never retries. It preserves the poll contract
// for callers driven by their own event loop.
type ReturnPolicy struct{}

func (ReturnPolicy) Yield(Op) {}

func (ReturnPolicy) OnWouldBlock(Op) PolicyAction { return PolicyReturn }

// YieldPolicy retries every would-block after calling YieldFunc.
// Default Yield behavior: runtime.Gosched().
type YieldPolicy struct {
	// YieldFunc is invoked before each retry. It may park, run an event-loop
	// tick, wait on a Ready channel, etc.
	YieldFunc func(op Op)
}

func (p YieldPolicy) Yield(op Op) {
	if p.YieldFunc != nil {
		p.YieldFunc(op)
		return
	}
	runtime.Gosched()
}

func (YieldPolicy) OnWouldBlock(Op) PolicyAction { return PolicyRetry }
