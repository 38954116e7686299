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
	"unsafe"
	"weak"

	"github.com/deep-rent/graft/internal/weakref"
)

// weakSlot remembers a pointer instance without keeping it reachable.
//
// Factories are type-erased, so the slot cannot instantiate weak.Pointer with
// the instance's own type. Instead it tracks the object's address through a
// byte-typed weak pointer and keeps the pointer type on the side to rebuild
// an identical interface value on load.
type weakSlot struct {
	typ reflect.Type
	ptr weak.Pointer[byte]
}

// load returns the cached instance if it is still reachable.
func (w *weakSlot) load() (any, bool) {
	if w.typ == nil {
		return nil, false
	}
	p := w.ptr.Value()
	if p == nil {
		w.reset()
		return nil, false
	}
	return reflect.NewAt(w.typ.Elem(), unsafe.Pointer(p)).Interface(), true
}

// store replaces the cached instance with v and reports whether it is
// cached. Nil pointers are not cached, and neither are pointers to values
// whose collection a weak pointer cannot observe (see weakref.Trackable).
// Non-pointer values yield an error.
func (w *weakSlot) store(v any) (bool, error) {
	w.reset()
	if v == nil {
		return false, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return false, fmt.Errorf("got %T", v)
	}
	if rv.IsNil() || !weakref.Trackable(rv.Type().Elem()) {
		return false, nil
	}
	w.ptr = weak.Make((*byte)(rv.UnsafePointer()))
	w.typ = rv.Type()
	return true, nil
}

func (w *weakSlot) reset() {
	w.typ = nil
	w.ptr = weak.Pointer[byte]{}
}
