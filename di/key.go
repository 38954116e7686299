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

import (
	"reflect"
	"strings"
)

// Key identifies a registration within a Container. Two keys are equal if
// both the type and the discriminator name are equal.
type Key struct {
	// Type is the abstract service type.
	Type reflect.Type
	// Name optionally distinguishes several registrations of the same type.
	Name string
}

// KeyOf returns the key for type T. Path segments are joined with dots to
// form the discriminator name.
func KeyOf[T any](path ...string) Key {
	return Key{Type: reflect.TypeFor[T](), Name: strings.Join(path, ".")}
}

// String renders the key as "name@type", or "@type" if unnamed.
func (k Key) String() string {
	t := "<nil>"
	if k.Type != nil {
		t = k.Type.String()
	}
	return k.Name + "@" + t
}

// Slot is a typed handle for an injectable service of type T. Unlike a bare
// Key, a Slot lets the typed helpers (Bind, Use, ...) check factory and
// result types at compile time. Slots are comparable values; the zero Slot
// denotes the unnamed registration of T.
type Slot[T any] struct {
	name string
}

// NewSlot creates a Slot for type T. Path segments are joined with dots to
// form the discriminator name, so NewSlot[Engine]("engine", "fast") and
// NewSlot[Engine]("engine.fast") are the same slot.
func NewSlot[T any](path ...string) Slot[T] {
	return Slot[T]{name: strings.Join(path, ".")}
}

// Key returns the untyped identity of the slot.
func (s Slot[T]) Key() Key {
	return Key{Type: reflect.TypeFor[T](), Name: s.name}
}

// Name returns the discriminator name of the slot.
func (s Slot[T]) Name() string {
	return s.name
}

// Tag returns a human-readable label for the slot, for use in logs and
// diagnostics.
func Tag[T any](slot Slot[T]) string {
	return slot.Key().String()
}
