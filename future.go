// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostio

import (
	"fmt"
	"sync"
)

// Future is the Go face of a host promise.
//
// Poll never blocks: it returns ErrWouldBlock until the operation settles and
// the settled value and error on every call after that. Done is closed once
// the future settles; schedulers select on it to know when to poll again.
type Future[T any] interface {
	Poll() (T, error)
	Done() <-chan struct{}
}

// Promise is a settable Future. The zero value is not usable; use NewPromise.
//
// Resolve and Reject may be called from any goroutine. Only the first
// settlement takes effect.
type Promise[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	val     T
	err     error
}

// NewPromise returns an unsettled promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolve settles p with v. It reports whether this call settled p.
func (p *Promise[T]) Resolve(v T) bool { return p.settle(v, nil) }

// Reject settles p with err. A nil err is replaced by ErrHostCall so that a
// rejected promise never reads as success, and a would-block err is flattened
// so that it never reads as still pending.
func (p *Promise[T]) Reject(err error) bool {
	if err == nil {
		err = ErrHostCall
	} else if IsWouldBlock(err) {
		err = fmt.Errorf("hostio: rejected: %v", err)
	}
	var zero T
	return p.settle(zero, err)
}

func (p *Promise[T]) settle(v T, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.settled {
		return false
	}
	p.val, p.err, p.settled = v, err, true
	close(p.done)
	return true
}

func (p *Promise[T]) Poll() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.settled {
		var zero T
		return zero, ErrWouldBlock
	}
	return p.val, p.err
}

func (p *Promise[T]) Done() <-chan struct{} { return p.done }

// Resolved returns a future already settled with v.
func Resolved[T any](v T) Future[T] {
	p := NewPromise[T]()
	p.Resolve(v)
	return p
}

// Rejected returns a future already settled with err.
func Rejected[T any](err error) Future[T] {
	p := NewPromise[T]()
	p.Reject(err)
	return p
}

// Async runs fn on a new goroutine and settles the returned future with its
// result. It is meant for Go-native hosts whose operations are blocking calls.
func Async[T any](fn func() (T, error)) Future[T] {
	p := NewPromise[T]()
	go func() {
		v, err := fn()
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(v)
	}()
	return p
}
