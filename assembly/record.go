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

package assembly

import "github.com/deep-rent/graft/di"

// Services are shared across modules: they are registered idempotently and
// released once no module holds them anymore. Components belong to a single
// module and are rebuilt on every resolution.

// RecordService registers factory as the shared service for T unless one is
// already registered. It reports whether the factory was installed.
func RecordService[T any](r di.Registrar, factory func(di.Resolver) T) bool {
	return di.BindIfAbsent(r, di.NewSlot[T](), di.WeakCache, factory)
}

// RecordServiceNamed is like RecordService, but registers under the given
// configuration name.
func RecordServiceNamed[T any](
	r di.Registrar,
	name string,
	factory func(di.Resolver) T,
) bool {
	return di.BindIfAbsent(r, di.NewSlot[T](name), di.WeakCache, factory)
}

// RecordSingleton registers factory as the process-wide instance of T unless
// one is already registered.
func RecordSingleton[T any](r di.Registrar, factory func(di.Resolver) T) bool {
	return di.BindIfAbsent(r, di.NewSlot[T](), di.Singleton, factory)
}

// RecordComponent registers factory as a module component of type T,
// replacing any previous registration.
func RecordComponent[T any](r di.Registrar, factory func(di.Resolver) T) {
	di.Bind(r, di.NewSlot[T](), di.Transient, factory)
}

// RecordComponent1 registers a component built from one argument.
func RecordComponent1[T, A any](r di.Registrar, factory func(di.Resolver, A) T) {
	di.Bind1(r, di.NewSlot[T](), di.Transient, factory)
}

// RecordComponent2 registers a component built from two arguments.
func RecordComponent2[T, A1, A2 any](
	r di.Registrar,
	factory func(di.Resolver, A1, A2) T,
) {
	di.Bind2(r, di.NewSlot[T](), di.Transient, factory)
}

// RecordComponent3 registers a component built from three arguments.
func RecordComponent3[T, A1, A2, A3 any](
	r di.Registrar,
	factory func(di.Resolver, A1, A2, A3) T,
) {
	di.Bind3(r, di.NewSlot[T](), di.Transient, factory)
}

// RecordScoped registers factory for T with an explicit scope, replacing any
// previous registration. An optional name path selects a named slot.
func RecordScoped[T any](
	r di.Registrar,
	scope di.Scope,
	factory func(di.Resolver) T,
	name ...string,
) {
	di.Bind(r, di.NewSlot[T](name...), scope, factory)
}

// UnravelService resolves the shared service of type T.
func UnravelService[T any](r di.Resolver) T {
	return di.Use(r, di.NewSlot[T]())
}

// UnravelServiceNamed resolves the shared service of type T registered
// under name.
func UnravelServiceNamed[T any](r di.Resolver, name string) T {
	return di.Use(r, di.NewSlot[T](name))
}

// UnravelComponent resolves the component of type T.
func UnravelComponent[T any](r di.Resolver) T {
	return di.Use(r, di.NewSlot[T]())
}

// UnravelComponent1 resolves the component of type T built from a.
func UnravelComponent1[T, A any](r di.Resolver, a A) T {
	return di.Use1(r, di.NewSlot[T](), a)
}

// UnravelComponent2 resolves the component of type T built from a1 and a2.
func UnravelComponent2[T, A1, A2 any](r di.Resolver, a1 A1, a2 A2) T {
	return di.Use2(r, di.NewSlot[T](), a1, a2)
}

// UnravelComponent3 resolves the component of type T built from a1, a2 and
// a3.
func UnravelComponent3[T, A1, A2, A3 any](r di.Resolver, a1 A1, a2 A2, a3 A3) T {
	return di.Use3(r, di.NewSlot[T](), a1, a2, a3)
}

// LazyService returns a handle that resolves the shared service of type T
// on first use.
func LazyService[T any](r di.Resolver) *di.Lazy[T] {
	return di.NewLazy(r, di.NewSlot[T]())
}

// ComponentProvider returns a handle that resolves a fresh component of
// type T on every call.
func ComponentProvider[T any](r di.Resolver) di.Provider[T] {
	return di.NewProvider(r, di.NewSlot[T]())
}
