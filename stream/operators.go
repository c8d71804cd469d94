package stream

import "sync"

// Map transforms every value of s.
func Map[T, U any](s Stream[T], f func(T) U) Stream[U] {
	return New(func(o Observer[U]) func() {
		return s.Subscribe(Observer[T]{
			Next: func(v T) { o.Next(f(v)) },
			Err:  o.Err,
			Done: o.Done,
		}).Unsubscribe
	})
}

// TryMap transforms every value of s; an error from f terminates the stream.
func TryMap[T, U any](s Stream[T], f func(T) (U, error)) Stream[U] {
	return New(func(o Observer[U]) func() {
		return s.Subscribe(Observer[T]{
			Next: func(v T) {
				u, err := f(v)
				if err != nil {
					o.Err(err)
					return
				}
				o.Next(u)
			},
			Err:  o.Err,
			Done: o.Done,
		}).Unsubscribe
	})
}

// Filter keeps the values for which keep returns true.
func (s Stream[T]) Filter(keep func(T) bool) Stream[T] {
	return New(func(o Observer[T]) func() {
		return s.Subscribe(Observer[T]{
			Next: func(v T) {
				if keep(v) {
					o.Next(v)
				}
			},
			Err:  o.Err,
			Done: o.Done,
		}).Unsubscribe
	})
}

// Tap runs f on every value without altering the stream.
func (s Stream[T]) Tap(f func(T)) Stream[T] {
	return New(func(o Observer[T]) func() {
		return s.Subscribe(Observer[T]{
			Next: func(v T) {
				f(v)
				o.Next(v)
			},
			Err:  o.Err,
			Done: o.Done,
		}).Unsubscribe
	})
}

// Take emits the first n values then completes.
func (s Stream[T]) Take(n int) Stream[T] {
	return New(func(o Observer[T]) func() {
		if n <= 0 {
			o.Done()
			return nil
		}
		var (
			mu    sync.Mutex
			count int
		)
		return s.Subscribe(Observer[T]{
			Next: func(v T) {
				mu.Lock()
				count++
				c := count
				mu.Unlock()
				if c > n {
					return
				}
				o.Next(v)
				if c == n {
					o.Done()
				}
			},
			Err:  o.Err,
			Done: o.Done,
		}).Unsubscribe
	})
}

// DistinctUntilChanged drops a value when equal(previous, value) holds.
func (s Stream[T]) DistinctUntilChanged(equal func(prev, cur T) bool) Stream[T] {
	return New(func(o Observer[T]) func() {
		var (
			mu      sync.Mutex
			hasPrev bool
			prev    T
		)
		return s.Subscribe(Observer[T]{
			Next: func(v T) {
				mu.Lock()
				skip := hasPrev && equal(prev, v)
				prev, hasPrev = v, true
				mu.Unlock()
				if !skip {
					o.Next(v)
				}
			},
			Err:  o.Err,
			Done: o.Done,
		}).Unsubscribe
	})
}

// Merge interleaves the values of all streams. It completes when every input
// completed and fails on the first error.
func Merge[T any](streams ...Stream[T]) Stream[T] {
	return New(func(o Observer[T]) func() {
		if len(streams) == 0 {
			o.Done()
			return nil
		}
		var (
			mu      sync.Mutex
			pending = len(streams)
		)
		subs := make([]*Subscription, 0, len(streams))
		for _, s := range streams {
			subs = append(subs, s.Subscribe(Observer[T]{
				Next: o.Next,
				Err:  o.Err,
				Done: func() {
					mu.Lock()
					pending--
					last := pending == 0
					mu.Unlock()
					if last {
						o.Done()
					}
				},
			}))
		}
		return func() {
			for _, sub := range subs {
				sub.Unsubscribe()
			}
		}
	})
}

// CombineLatest emits f(a, b) once both inputs produced a value and then on
// every new value of either. It completes when both inputs completed.
func CombineLatest[A, B, R any](a Stream[A], b Stream[B], f func(A, B) R) Stream[R] {
	return New(func(o Observer[R]) func() {
		var (
			mu         sync.Mutex
			lastA      A
			lastB      B
			hasA, hasB bool
			pending    = 2
		)
		emit := func() {
			mu.Lock()
			ready := hasA && hasB
			va, vb := lastA, lastB
			mu.Unlock()
			if ready {
				o.Next(f(va, vb))
			}
		}
		done := func() {
			mu.Lock()
			pending--
			last := pending == 0
			mu.Unlock()
			if last {
				o.Done()
			}
		}
		subA := a.Subscribe(Observer[A]{
			Next: func(v A) {
				mu.Lock()
				lastA, hasA = v, true
				mu.Unlock()
				emit()
			},
			Err:  o.Err,
			Done: done,
		})
		subB := b.Subscribe(Observer[B]{
			Next: func(v B) {
				mu.Lock()
				lastB, hasB = v, true
				mu.Unlock()
				emit()
			},
			Err:  o.Err,
			Done: done,
		})
		return func() {
			subA.Unsubscribe()
			subB.Unsubscribe()
		}
	})
}
