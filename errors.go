// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio

import (
	"errors"
	"fmt"
)

// hostio introduces one semantic error and three failure kinds.
//
// Mental model:
//   - ErrWouldBlock: the host operation is in flight; retry after Ready fires.
//   - HostCallError: the host rejected a slice or write (IO kind).
//   - ConfigError: a host capability or setting is missing or malformed.
//   - ProtocolError: the transfer engine failed; not decomposed further.
//
// ErrWouldBlock is expected control flow, not a failure.

// ErrWouldBlock means “no further progress without waiting”.
// Next step: wait for the in-flight operation to settle, then poll again.
var ErrWouldBlock = errors.New("hostio: would block")

// ErrNothingPending is returned by PendingSlot.Poll on an empty slot.
// Callers are expected to Submit before polling.
var ErrNothingPending = errors.New("hostio: nothing pending")

// ErrCanceled is returned by blocking helpers when a cancellation Signal fires.
var ErrCanceled = errors.New("hostio: canceled")

// Kind sentinels. Typed errors below match them via errors.Is.
var (
	ErrHostCall = errors.New("hostio: host call failed")
	ErrConfig   = errors.New("hostio: configuration error")
	ErrProtocol = errors.New("hostio: protocol error")
)

// HostCallError reports a rejected or failed host operation.
type HostCallError struct {
	Op  string // "slice" or "write"
	Err error
}

func (e *HostCallError) Error() string {
	if e.Err == nil {
		return "hostio: " + e.Op + ": host call failed"
	}
	return "hostio: " + e.Op + ": " + e.Err.Error()
}

func (e *HostCallError) Unwrap() error { return e.Err }

func (e *HostCallError) Is(target error) bool { return target == ErrHostCall }

// ConfigError reports a missing capability or an invalid setting. It is
// returned at construction time, before any transfer starts.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("hostio: config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// ProtocolError wraps an opaque transfer engine failure.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	if e.Err == nil {
		return ErrProtocol.Error()
	}
	return "hostio: protocol: " + e.Err.Error()
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

func hostCallError(op string, err error) error {
	var hce *HostCallError
	if errors.As(err, &hce) {
		return err
	}
	return &HostCallError{Op: op, Err: err}
}
