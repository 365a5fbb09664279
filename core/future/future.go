// File: core/future/future.go
// Package future implements settle-once asynchronous results.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package future

import (
	"context"
	"sync"

	"github.com/momentics/hioload-sched/api"
)

type state uint8

const (
	statePending state = iota
	stateSettled
)

// Future is an asynchronous result that settles exactly once.
type Future[T any] struct {
	mu    sync.Mutex
	done  chan struct{} // lazily created by Await
	state state
	res   api.Result[T]
	conts []func(T, error)
}

// Promise is the producing side of a Future.
type Promise[T any] struct {
	f *Future[T]
}

// NewPromise creates an unsettled promise/future pair.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{f: &Future[T]{}}
}

// Future returns the consuming side.
func (p *Promise[T]) Future() *Future[T] {
	return p.f
}

// Resolve settles the future with a value. Settling twice panics.
func (p *Promise[T]) Resolve(v T) {
	p.f.settle(v, nil)
}

// Fail settles the future with an error. Settling twice panics.
func (p *Promise[T]) Fail(err error) {
	var zero T
	p.f.settle(zero, err)
}

// Ready returns a future already settled with v.
func Ready[T any](v T) *Future[T] {
	f := &Future[T]{}
	f.settle(v, nil)
	return f
}

// Failed returns a future already settled with err.
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{}
	var zero T
	f.settle(zero, err)
	return f
}

func (f *Future[T]) settle(v T, err error) {
	f.mu.Lock()
	if f.state != statePending {
		f.mu.Unlock()
		panic("future: promise settled twice")
	}
	f.state = stateSettled
	f.res = api.Result[T]{Value: v, Err: err}
	conts := f.conts
	f.conts = nil
	done := f.done
	f.mu.Unlock()

	if done != nil {
		close(done)
	}
	// Continuations run on the settling goroutine, in registration order.
	for _, fn := range conts {
		fn(v, err)
	}
}

// OnComplete registers fn to run when the future settles. If it is already
// settled, fn runs inline before OnComplete returns.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	f.mu.Lock()
	if f.state == stateSettled {
		res := f.res
		f.mu.Unlock()
		fn(res.Value, res.Err)
		return
	}
	f.conts = append(f.conts, fn)
	f.mu.Unlock()
}

// TryGet returns the settled result without blocking. ok is false while
// the future is still pending.
func (f *Future[T]) TryGet() (res api.Result[T], ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != stateSettled {
		return api.Result[T]{}, false
	}
	return f.res, true
}

// Await blocks until the future settles or ctx is done. It must not be
// called from the shard that settles the future.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	f.mu.Lock()
	if f.state == stateSettled {
		res := f.res
		f.mu.Unlock()
		return res.Value, res.Err
	}
	if f.done == nil {
		f.done = make(chan struct{})
	}
	done := f.done
	f.mu.Unlock()

	select {
	case <-done:
		f.mu.Lock()
		res := f.res
		f.mu.Unlock()
		return res.Value, res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
