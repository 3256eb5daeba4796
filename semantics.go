// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio

import (
	"errors"
)

// Outcome classifies a poll result.
//
// OutcomeReady:      the poll completed (including end-of-stream).
// OutcomeSuspended:  a host operation is in flight; poll again after Ready.
// OutcomeFailure:    any other error.
type Outcome uint8

const (
	OutcomeFailure Outcome = iota
	OutcomeReady
	OutcomeSuspended
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReady:
		return "Ready"
	case OutcomeSuspended:
		return "Suspended"
	default:
		return "Failure"
	}
}

// IsWouldBlock reports whether err carries the would-block semantic.
// It returns true for ErrWouldBlock and wrappers (via errors.Is).
func IsWouldBlock(err error) bool { return errors.Is(err, ErrWouldBlock) }

// IsNonFailure reports whether err should be treated as a non-failure in
// poll-driven control flow: nil or ErrWouldBlock.
func IsNonFailure(err error) bool { return err == nil || IsWouldBlock(err) }

// IsHostCall reports whether err is a HostCallError (or wraps one).
func IsHostCall(err error) bool { return errors.Is(err, ErrHostCall) }

// IsConfig reports whether err is a ConfigError (or wraps one).
func IsConfig(err error) bool { return errors.Is(err, ErrConfig) }

// IsProtocol reports whether err is a ProtocolError (or wraps one).
func IsProtocol(err error) bool { return errors.Is(err, ErrProtocol) }

// Classify maps err to an Outcome.
//
// Note: io.EOF is classified as a failure here; Source callers treat it as
// the terminal Ready(0) themselves.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeReady
	}
	if IsWouldBlock(err) {
		return OutcomeSuspended
	}
	return OutcomeFailure
}
