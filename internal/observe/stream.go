// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aube

// Package observe implements the push-on-change query primitive used by the
// store and service layers. A Stream carries a sequence of values to any
// number of subscribers; a new subscriber immediately receives the latest
// published value, and slow subscribers observe only the most recent value
// (intermediate values are coalesced away).
package observe

import (
	"context"
	"sync"
)

// Stream is a broadcast channel of values of type T with
// replay-last-value-to-new-subscriber semantics.
//
// The zero value is not usable; construct with [NewStream].
type Stream[T any] struct {
	mu      sync.Mutex
	subs    map[int]chan T
	nextID  int
	last    T
	hasLast bool
	closed  bool
}

// NewStream constructs an empty open stream.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[int]chan T)}
}

// Publish records v as the stream's latest value and delivers it to every
// subscriber. Delivery never blocks: a subscriber that has not consumed the
// previous value loses it in favour of v. Publishing on a closed stream is a
// no-op.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.last = v
	s.hasLast = true

	for _, ch := range s.subs {
		select {
		case <-ch: // drop the stale value
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its handle. If a value has
// already been published, it is replayed into the subscription immediately.
// When ctx is cancelled the subscription closes itself; passing
// context.Background keeps it open until [Subscription.Close] or stream close.
func (s *Stream[T]) Subscribe(ctx context.Context) *Subscription[T] {
	ch := make(chan T, 1)
	sub := &Subscription[T]{stream: s, ch: ch, done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.once.Do(func() {
			close(sub.done)
			close(ch)
		})
		return sub
	}

	sub.id = s.nextID
	s.nextID++
	s.subs[sub.id] = ch
	if s.hasLast {
		ch <- s.last
	}
	s.mu.Unlock()

	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				sub.Close()
			case <-sub.done:
			}
		}()
	}

	return sub
}

// Close terminates the stream: all subscription channels are closed and
// future Publish calls are ignored. Safe to call more than once.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// Subscription is a single consumer of a [Stream].
type Subscription[T any] struct {
	stream *Stream[T]
	id     int
	ch     chan T

	once sync.Once
	done chan struct{}
}

// C returns the receive channel of the subscription. It is closed when the
// subscription or its parent stream is closed.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Close detaches the subscription from its stream and closes its channel.
// Safe to call more than once.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		close(s.done)

		s.stream.mu.Lock()
		defer s.stream.mu.Unlock()

		if _, ok := s.stream.subs[s.id]; ok {
			delete(s.stream.subs, s.id)
			close(s.ch)
		}
	})
}

// Map derives a stream of U values from src by applying f to every published
// value. The derived stream closes when src closes.
func Map[T, U any](src *Stream[T], f func(T) U) *Stream[U] {
	dst := NewStream[U]()
	sub := src.Subscribe(context.Background())

	go func() {
		defer dst.Close()
		for v := range sub.C() {
			dst.Publish(f(v))
		}
	}()

	return dst
}
