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
	"fmt"
	"reflect"
)

// Bind registers factory for slot, replacing any previous registration.
func Bind[T any](
	r Registrar,
	slot Slot[T],
	scope Scope,
	factory func(Resolver) T,
) {
	r.Register(slot.Key(), scope, erase(slot, factory))
}

// BindIfAbsent registers factory for slot unless the slot is already bound.
// It reports whether the factory was installed.
func BindIfAbsent[T any](
	r Registrar,
	slot Slot[T],
	scope Scope,
	factory func(Resolver) T,
) bool {
	return r.RegisterIfAbsent(slot.Key(), scope, erase(slot, factory))
}

// Bind1 registers a factory taking one construction argument.
func Bind1[T, A any](
	r Registrar,
	slot Slot[T],
	scope Scope,
	factory func(Resolver, A) T,
) {
	r.Register(slot.Key(), scope, erase1(slot, factory))
}

// BindIfAbsent1 is the idempotent variant of Bind1.
func BindIfAbsent1[T, A any](
	r Registrar,
	slot Slot[T],
	scope Scope,
	factory func(Resolver, A) T,
) bool {
	return r.RegisterIfAbsent(slot.Key(), scope, erase1(slot, factory))
}

// Bind2 registers a factory taking two construction arguments.
func Bind2[T, A1, A2 any](
	r Registrar,
	slot Slot[T],
	scope Scope,
	factory func(Resolver, A1, A2) T,
) {
	r.Register(slot.Key(), scope, erase2(slot, factory))
}

// BindIfAbsent2 is the idempotent variant of Bind2.
func BindIfAbsent2[T, A1, A2 any](
	r Registrar,
	slot Slot[T],
	scope Scope,
	factory func(Resolver, A1, A2) T,
) bool {
	return r.RegisterIfAbsent(slot.Key(), scope, erase2(slot, factory))
}

// Bind3 registers a factory taking three construction arguments.
func Bind3[T, A1, A2, A3 any](
	r Registrar,
	slot Slot[T],
	scope Scope,
	factory func(Resolver, A1, A2, A3) T,
) {
	r.Register(slot.Key(), scope, erase3(slot, factory))
}

// BindIfAbsent3 is the idempotent variant of Bind3.
func BindIfAbsent3[T, A1, A2, A3 any](
	r Registrar,
	slot Slot[T],
	scope Scope,
	factory func(Resolver, A1, A2, A3) T,
) bool {
	return r.RegisterIfAbsent(slot.Key(), scope, erase3(slot, factory))
}

// Use resolves the instance for slot. It is a Defect if the slot is not
// bound or the registered factory returns a value that is not a T.
func Use[T any](r Resolver, slot Slot[T]) T {
	key := slot.Key()
	return cast[T](r, key, r.Resolve(key))
}

// Use1 resolves the instance for slot, passing one construction argument.
func Use1[T, A any](r Resolver, slot Slot[T], a A) T {
	key := slot.Key()
	return cast[T](r, key, r.Resolve(key, a))
}

// Use2 resolves the instance for slot, passing two construction arguments.
func Use2[T, A1, A2 any](r Resolver, slot Slot[T], a1 A1, a2 A2) T {
	key := slot.Key()
	return cast[T](r, key, r.Resolve(key, a1, a2))
}

// Use3 resolves the instance for slot, passing three construction
// arguments.
func Use3[T, A1, A2, A3 any](r Resolver, slot Slot[T], a1 A1, a2 A2, a3 A3) T {
	key := slot.Key()
	return cast[T](r, key, r.Resolve(key, a1, a2, a3))
}

// Has reports whether slot is bound.
func Has[T any](r Resolver, slot Slot[T]) bool {
	return r.HasEntry(slot.Key())
}

func erase[T any](slot Slot[T], f func(Resolver) T) Factory {
	if f == nil {
		return nil
	}
	key := slot.Key()
	return func(r Resolver, args []any) any {
		arity(r, key, args, 0)
		return f(r)
	}
}

func erase1[T, A any](slot Slot[T], f func(Resolver, A) T) Factory {
	if f == nil {
		return nil
	}
	key := slot.Key()
	return func(r Resolver, args []any) any {
		arity(r, key, args, 1)
		return f(r, arg[A](r, key, args, 0))
	}
}

func erase2[T, A1, A2 any](slot Slot[T], f func(Resolver, A1, A2) T) Factory {
	if f == nil {
		return nil
	}
	key := slot.Key()
	return func(r Resolver, args []any) any {
		arity(r, key, args, 2)
		return f(r,
			arg[A1](r, key, args, 0),
			arg[A2](r, key, args, 1),
		)
	}
}

func erase3[T, A1, A2, A3 any](
	slot Slot[T],
	f func(Resolver, A1, A2, A3) T,
) Factory {
	if f == nil {
		return nil
	}
	key := slot.Key()
	return func(r Resolver, args []any) any {
		arity(r, key, args, 3)
		return f(r,
			arg[A1](r, key, args, 0),
			arg[A2](r, key, args, 1),
			arg[A3](r, key, args, 2),
		)
	}
}

// arity raises ErrArityMismatch unless exactly n arguments were supplied.
func arity(r Resolver, key Key, args []any, n int) {
	if len(args) != n {
		raise(r, &Defect{
			Err:    ErrArityMismatch,
			Key:    key,
			Detail: fmt.Sprintf("want %d, got %d", n, len(args)),
		})
	}
}

// arg extracts the i-th construction argument as an A.
func arg[A any](r Resolver, key Key, args []any, i int) A {
	v := args[i]
	if a, ok := v.(A); ok {
		return a
	}
	if v == nil && nillable[A]() {
		var zero A
		return zero
	}
	raise(r, &Defect{
		Err:    ErrTypeMismatch,
		Key:    key,
		Detail: fmt.Sprintf("argument %d: want %s, got %T", i, reflect.TypeFor[A](), v),
	})
	var zero A
	return zero
}

// cast converts a resolved instance to T.
func cast[T any](r Resolver, key Key, v any) T {
	if t, ok := v.(T); ok {
		return t
	}
	var zero T
	if v == nil && nillable[T]() {
		return zero
	}
	raise(r, &Defect{
		Err:    ErrTypeMismatch,
		Key:    key,
		Detail: fmt.Sprintf("want %s, got %T", reflect.TypeFor[T](), v),
	})
	return zero
}

// nillable reports whether the zero value of T is nil.
func nillable[T any]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case
		reflect.Pointer,
		reflect.Interface,
		reflect.Slice,
		reflect.Map,
		reflect.Chan,
		reflect.Func,
		reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
