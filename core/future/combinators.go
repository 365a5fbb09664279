// File: core/future/combinators.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Composition helpers over futures: value chaining, future chaining, and
// the asynchronous left fold used by the local aggregation engine.

package future

// Then returns a future settled with fn applied to f's value. Failure of
// f, or an error from fn, fails the returned future instead.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	p := NewPromise[U]()
	f.OnComplete(func(v T, err error) {
		if err != nil {
			p.Fail(err)
			return
		}
		u, ferr := fn(v)
		if ferr != nil {
			p.Fail(ferr)
			return
		}
		p.Resolve(u)
	})
	return p.Future()
}

// ThenFuture chains an asynchronous continuation: fn's future settles the
// returned one. Failures short-circuit as in Then.
func ThenFuture[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	p := NewPromise[U]()
	f.OnComplete(func(v T, err error) {
		if err != nil {
			p.Fail(err)
			return
		}
		fn(v).OnComplete(func(u U, uerr error) {
			if uerr != nil {
				p.Fail(uerr)
				return
			}
			p.Resolve(u)
		})
	})
	return p.Future()
}

// Fold drives next until exhaustion, reducing every produced value into
// the accumulator strictly left to right: the reduction of one element
// completes before the next element's future is consumed. Settled results
// are folded without suspension; a pending future parks the fold until it
// settles, letting other work of the settling goroutine interleave. The
// first failure, whether from a produced future or from reduce, settles
// the result with that error and stops the fold.
func Fold[M, A any](next func() (*Future[M], bool), reduce func(A, M) (A, error), initial A) *Future[A] {
	p := NewPromise[A]()
	var step func(A)
	step = func(acc A) {
		for {
			f, ok := next()
			if !ok {
				p.Resolve(acc)
				return
			}
			if res, settled := f.TryGet(); settled {
				if res.Err != nil {
					p.Fail(res.Err)
					return
				}
				acc2, rerr := reduce(acc, res.Value)
				if rerr != nil {
					p.Fail(rerr)
					return
				}
				acc = acc2
				continue
			}
			f.OnComplete(func(v M, err error) {
				if err != nil {
					p.Fail(err)
					return
				}
				acc2, rerr := reduce(acc, v)
				if rerr != nil {
					p.Fail(rerr)
					return
				}
				step(acc2)
			})
			return
		}
	}
	step(initial)
	return p.Future()
}
