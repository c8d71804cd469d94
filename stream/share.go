package stream

import "sync"

// Share multicasts s: the first subscriber connects to s, later subscribers
// join the same upstream subscription and the last one leaving disconnects it.
// Subscribers only see values emitted after they joined. After s terminated
// the next subscriber reconnects.
func (s Stream[T]) Share() Stream[T] {
	return share(s, false)
}

// ShareReplay multicasts s and replays the latest value to late subscribers.
// Once connected it stays connected, so the cached value survives every
// subscriber leaving.
func (s Stream[T]) ShareReplay() Stream[T] {
	return share(s, true)
}

func share[T any](src Stream[T], replay bool) Stream[T] {
	var (
		mu      sync.Mutex
		subject *Subject[T]
		conn    *Subscription
		refs    int
	)
	return New(func(o Observer[T]) func() {
		mu.Lock()
		if subject == nil || (!replay && subject.Terminated()) {
			if replay {
				subject = NewReplaySubject[T]()
			} else {
				subject = NewSubject[T]()
			}
			conn = nil
			refs = 0
		}
		current := subject
		var placeholder *Subscription
		if conn == nil {
			placeholder = &Subscription{}
			conn = placeholder
		}
		refs++
		mu.Unlock()

		inner := current.Stream().Subscribe(o)

		if placeholder != nil {
			upstream := src.Subscribe(Observer[T]{
				Next: current.Next,
				Err:  current.Error,
				Done: current.Complete,
			})
			mu.Lock()
			kept := conn == placeholder
			if kept {
				conn = upstream
			}
			mu.Unlock()
			if !kept {
				// Every subscriber left while connecting.
				upstream.Unsubscribe()
			}
		}

		return func() {
			inner.Unsubscribe()
			if replay {
				return
			}
			mu.Lock()
			var release *Subscription
			if subject == current {
				refs--
				if refs == 0 {
					release = conn
					conn = nil
					subject = nil
				}
			}
			mu.Unlock()
			if release != nil {
				release.Unsubscribe()
			}
		}
	})
}
