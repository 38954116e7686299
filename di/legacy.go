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

import "reflect"

// The methods in this file predate Slot. They identify services by
// reflect.Type and an explicit name, and spell out every argument arity.
// Registrations are idempotent and resolution reports a missing entry
// instead of raising a Defect. All of them share the entry store and scope
// policies with the typed API.

// Record registers factory for t unless t is already registered.
//
// Deprecated: Use BindIfAbsent.
func (c *Container) Record(t reflect.Type, scope Scope, factory func(Resolver) any) {
	c.RecordNamed(t, "", scope, factory)
}

// RecordNamed registers factory for t under name unless that key is
// already registered.
//
// Deprecated: Use BindIfAbsent with a named Slot.
func (c *Container) RecordNamed(
	t reflect.Type,
	name string,
	scope Scope,
	factory func(Resolver) any,
) {
	var f Factory
	if factory != nil {
		f = func(r Resolver, _ []any) any { return factory(r) }
	}
	c.record(Key{Type: t, Name: name}, scope, 0, f)
}

// Record1 registers a factory taking one construction argument.
//
// Deprecated: Use BindIfAbsent1.
func (c *Container) Record1(t reflect.Type, scope Scope, factory func(Resolver, any) any) {
	var f Factory
	if factory != nil {
		f = func(r Resolver, args []any) any { return factory(r, args[0]) }
	}
	c.record(Key{Type: t}, scope, 1, f)
}

// Record2 registers a factory taking two construction arguments.
//
// Deprecated: Use BindIfAbsent2.
func (c *Container) Record2(t reflect.Type, scope Scope, factory func(Resolver, any, any) any) {
	var f Factory
	if factory != nil {
		f = func(r Resolver, args []any) any { return factory(r, args[0], args[1]) }
	}
	c.record(Key{Type: t}, scope, 2, f)
}

// Record3 registers a factory taking three construction arguments.
//
// Deprecated: Use BindIfAbsent3.
func (c *Container) Record3(t reflect.Type, scope Scope, factory func(Resolver, any, any, any) any) {
	var f Factory
	if factory != nil {
		f = func(r Resolver, args []any) any { return factory(r, args[0], args[1], args[2]) }
	}
	c.record(Key{Type: t}, scope, 3, f)
}

// Unravel returns the instance registered for t, or false if there is none.
//
// Deprecated: Use Use.
func (c *Container) Unravel(t reflect.Type) (any, bool) {
	return c.unravel(Key{Type: t})
}

// UnravelNamed returns the instance registered for t under name, or false
// if there is none.
//
// Deprecated: Use Use with a named Slot.
func (c *Container) UnravelNamed(t reflect.Type, name string) (any, bool) {
	return c.unravel(Key{Type: t, Name: name})
}

// Unravel1 resolves t with one construction argument.
//
// Deprecated: Use Use1.
func (c *Container) Unravel1(t reflect.Type, a any) (any, bool) {
	return c.unravel(Key{Type: t}, a)
}

// Unravel2 resolves t with two construction arguments.
//
// Deprecated: Use Use2.
func (c *Container) Unravel2(t reflect.Type, a1, a2 any) (any, bool) {
	return c.unravel(Key{Type: t}, a1, a2)
}

// Unravel3 resolves t with three construction arguments.
//
// Deprecated: Use Use3.
func (c *Container) Unravel3(t reflect.Type, a1, a2, a3 any) (any, bool) {
	return c.unravel(Key{Type: t}, a1, a2, a3)
}

// record installs f with an arity guard unless key is registered.
func (c *Container) record(key Key, scope Scope, n int, f Factory) {
	if f != nil {
		inner := f
		f = func(r Resolver, args []any) any {
			arity(r, key, args, n)
			return inner(r, args)
		}
	}
	c.RegisterIfAbsent(key, scope, f)
}

// unravel resolves key unless it is unregistered. Entries are never
// removed, so a positive check cannot be invalidated before Resolve.
func (c *Container) unravel(key Key, args ...any) (any, bool) {
	if !c.HasEntry(key) {
		return nil, false
	}
	return c.Resolve(key, args...), true
}
