package stream

import "sync"

// Subject is a hot, multicast source fed by calling Next, Error and Complete.
// A replaying subject also hands its most recent value to late subscribers.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []subjectObserver[T]
	nextID    uint64
	replay    bool
	hasLast   bool
	last      T
	done      bool
	err       error
}

type subjectObserver[T any] struct {
	id uint64
	o  Observer[T]
}

// NewSubject returns a subject without replay.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// NewReplaySubject returns a subject that replays its latest value.
func NewReplaySubject[T any]() *Subject[T] {
	return &Subject[T]{replay: true}
}

// Next pushes v to every current subscriber. Ignored once terminated.
func (s *Subject[T]) Next(v T) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	if s.replay {
		s.last = v
		s.hasLast = true
	}
	observers := append([]subjectObserver[T](nil), s.observers...)
	s.mu.Unlock()

	for _, so := range observers {
		so.o.Next(v)
	}
}

// Error terminates the subject with err.
func (s *Subject[T]) Error(err error) {
	s.terminate(err)
}

// Complete terminates the subject without error.
func (s *Subject[T]) Complete() {
	s.terminate(nil)
}

func (s *Subject[T]) terminate(err error) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.err = err
	observers := s.observers
	s.observers = nil
	s.mu.Unlock()

	for _, so := range observers {
		if err != nil {
			so.o.Err(err)
		} else {
			so.o.Done()
		}
	}
}

// Terminated reports whether Error or Complete was called.
func (s *Subject[T]) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Latest returns the cached value of a replaying subject.
func (s *Subject[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Stream exposes the subject as a stream.
func (s *Subject[T]) Stream() Stream[T] {
	return New(func(o Observer[T]) func() {
		s.mu.Lock()
		last, hasLast := s.last, s.hasLast && s.replay
		if s.done {
			err := s.err
			s.mu.Unlock()
			if hasLast {
				o.Next(last)
			}
			if err != nil {
				o.Err(err)
			} else {
				o.Done()
			}
			return nil
		}
		s.nextID++
		id := s.nextID
		s.observers = append(s.observers, subjectObserver[T]{id: id, o: o})
		s.mu.Unlock()

		if hasLast {
			o.Next(last)
		}
		return func() { s.remove(id) }
	})
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, so := range s.observers {
		if so.id == id {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Count returns the number of active subscribers.
func (s *Subject[T]) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}
