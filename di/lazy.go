// Copyright (c) 2025-present deep.rent GmbH (https://deep.rent)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package di

import "sync"

// Lazy defers the resolution of a slot until the first call to Get and
// remembers the result. It is safe for concurrent use.
type Lazy[T any] struct {
	r    Resolver
	slot Slot[T]

	mu    sync.Mutex
	done  bool
	value T
}

// NewLazy returns a Lazy resolving slot through r.
func NewLazy[T any](r Resolver, slot Slot[T]) *Lazy[T] {
	return &Lazy[T]{r: r, slot: slot}
}

// Get resolves the slot on first use and returns the same value afterwards.
// A resolution that panics is attempted again on the next call. If several
// goroutines race on the first call, the first result to arrive wins.
func (l *Lazy[T]) Get() T {
	l.mu.Lock()
	if l.done {
		defer l.mu.Unlock()
		return l.value
	}
	l.mu.Unlock()

	v := Use(l.r, l.slot)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.done {
		l.value, l.done = v, true
	}
	return l.value
}

// Provider resolves a slot on every call to Get, so each call observes the
// slot's scope: transient slots yield a fresh instance each time.
type Provider[T any] struct {
	r    Resolver
	slot Slot[T]
}

// NewProvider returns a Provider resolving slot through r.
func NewProvider[T any](r Resolver, slot Slot[T]) Provider[T] {
	return Provider[T]{r: r, slot: slot}
}

// Get resolves the slot.
func (p Provider[T]) Get() T {
	return Use(p.r, p.slot)
}
