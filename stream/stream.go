// Package stream implements the small push-stream toolkit the engine derives
// its views with: lazy streams, hot subjects, multicasting and a handful of
// operators. Delivery is synchronous, so a value flows through the whole
// graph before the next one enters it.
package stream

import "sync"

// Observer receives the notifications of a stream. Nil callbacks are ignored.
type Observer[T any] struct {
	Next func(T)
	Err  func(error)
	Done func()
}

// Stream is a lazy push sequence: nothing happens until Subscribe.
type Stream[T any] struct {
	subscribe func(o Observer[T]) (cancel func())
}

// New builds a stream from a subscribe function. The observer handed to
// subscribe always has all three callbacks set and never delivers after a
// terminal notification or after the subscriber cancelled. The returned
// cancel function, if any, is called exactly once.
func New[T any](subscribe func(o Observer[T]) func()) Stream[T] {
	return Stream[T]{subscribe: subscribe}
}

// Subscription is the handle of one subscriber.
type Subscription struct {
	mu      sync.Mutex
	stopped bool
	cancel  func()
}

// Unsubscribe stops delivery and releases upstream resources. It is safe to
// call more than once and from any goroutine.
func (s *Subscription) Unsubscribe() {
	s.stop()
}

// Closed reports whether the subscription ended, by Unsubscribe or by a
// terminal notification.
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// stop marks the subscription stopped and runs the cancel function.
// It reports whether this call did the transition.
func (s *Subscription) stop() bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	s.stopped = true
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return true
}

// setCancel stores cancel, or runs it right away when the subscription
// already ended while subscribing (e.g. Take satisfied by a replayed value).
func (s *Subscription) setCancel(cancel func()) {
	if cancel == nil {
		return
	}
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()
}

// Subscribe starts the stream for o.
func (s Stream[T]) Subscribe(o Observer[T]) *Subscription {
	sub := &Subscription{}
	if s.subscribe == nil {
		return sub
	}
	guarded := Observer[T]{
		Next: func(v T) {
			if sub.Closed() {
				return
			}
			if o.Next != nil {
				o.Next(v)
			}
		},
		Err: func(err error) {
			if sub.stop() && o.Err != nil {
				o.Err(err)
			}
		},
		Done: func() {
			if sub.stop() && o.Done != nil {
				o.Done()
			}
		},
	}
	sub.setCancel(s.subscribe(guarded))
	return sub
}

// Listen subscribes with a value callback only.
func (s Stream[T]) Listen(next func(T)) *Subscription {
	return s.Subscribe(Observer[T]{Next: next})
}

// Chan delivers the values of s on a buffered channel, closed when s
// terminates. The error, if any, is available through the returned func once
// the channel is closed. When the buffer is full the oldest value is dropped,
// so a slow reader always ends up with the latest one.
func (s Stream[T]) Chan(buffer int) (<-chan T, func() error, *Subscription) {
	ch := make(chan T, buffer)
	var (
		mu   sync.Mutex
		err  error
		once sync.Once
	)
	closeCh := func() { once.Do(func() { close(ch) }) }
	sub := s.Subscribe(Observer[T]{
		Next: func(v T) {
			for {
				select {
				case ch <- v:
					return
				default:
				}
				select {
				case <-ch:
				default:
				}
			}
		},
		Err: func(e error) {
			mu.Lock()
			err = e
			mu.Unlock()
			closeCh()
		},
		Done: closeCh,
	})
	return ch, func() error {
		mu.Lock()
		defer mu.Unlock()
		return err
	}, sub
}

// Of emits vs then completes.
func Of[T any](vs ...T) Stream[T] {
	return New(func(o Observer[T]) func() {
		for _, v := range vs {
			o.Next(v)
		}
		o.Done()
		return nil
	})
}
