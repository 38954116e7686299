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

import "fmt"

// Scope is the lifetime policy applied to an entry at resolution time.
type Scope uint8

const (
	// Transient entries invoke their factory on every resolution.
	Transient Scope = iota
	// Singleton entries invoke their factory once and keep the instance.
	Singleton
	// WeakCache entries keep a non-owning reference to the last instance and
	// rebuild it once it has been garbage collected.
	WeakCache
	// AlwaysNewInstance is recognized for compatibility with older
	// composition code, but any registration using it is a Defect.
	//
	// Deprecated: Use Transient.
	AlwaysNewInstance
)

// Aliases matching the storage names used by composition units.
const (
	Fleeting    = Transient
	AutoRelease = WeakCache
)

// String returns the lower camelCase name of the scope.
func (s Scope) String() string {
	switch s {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	case WeakCache:
		return "weakCache"
	case AlwaysNewInstance:
		return "alwaysNewInstance"
	default:
		return fmt.Sprintf("Scope(%d)", uint8(s))
	}
}

// allowed reports whether entries may be registered with s.
func (s Scope) allowed() bool {
	return s <= WeakCache
}

// entry is the stored record for one key. Its scope-local state is only
// touched while the owning container's gate is held.
type entry struct {
	key     Key
	scope   Scope
	factory Factory

	// instance and built hold the singleton state.
	instance any
	built    bool
	// cache holds the weak-cache state.
	cache weakSlot
}

// resolve applies the scope policy, invoking the factory with c when no
// reusable instance is available. The caller must hold the gate.
func (e *entry) resolve(c *Container, args []any) any {
	switch e.scope {
	case Singleton:
		if e.built {
			return e.instance
		}
		v := e.factory(c, args)
		e.instance, e.built = v, true
		c.constructed(e)
		return v

	case WeakCache:
		if v, ok := e.cache.load(); ok {
			return v
		}
		v := e.factory(c, args)
		cached, err := e.cache.store(v)
		if err != nil {
			c.fail(&Defect{Err: ErrWeakValue, Key: e.key, Detail: err.Error()})
		}
		c.constructed(e)
		if !cached && v != nil {
			c.logger.Debug("Skipped weak caching", "key", e.key.String(), "type", fmt.Sprintf("%T", v))
		}
		return v

	default:
		v := e.factory(c, args)
		c.constructed(e)
		return v
	}
}
