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

// Package weakref decides which heap objects can be tracked by weak
// pointers.
package weakref

import "reflect"

// tinySize mirrors the runtime's tiny allocator threshold. Pointer-free
// objects below it share memory blocks with unrelated allocations, so a
// weak pointer to one of them may stay valid long after it is unreachable.
const tinySize = 16

// Trackable reports whether a weak pointer to a value of type t reliably
// observes its collection.
func Trackable(t reflect.Type) bool {
	switch size := t.Size(); {
	case size == 0:
		return false
	case size < tinySize:
		return HasPointers(t)
	default:
		return true
	}
}

// HasPointers reports whether values of type t contain pointers the garbage
// collector has to scan.
func HasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && HasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if HasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
