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
	"errors"
	"fmt"
)

var (
	// ErrUnregistered reports a resolution of a key without an entry.
	ErrUnregistered = errors.New("service is not registered")
	// ErrForbiddenScope reports a registration with AlwaysNewInstance or an
	// unknown scope value.
	ErrForbiddenScope = errors.New("scope is forbidden")
	// ErrTypeMismatch reports a factory result or construction argument
	// whose dynamic type does not match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrArityMismatch reports a resolution that supplies a different number
	// of construction arguments than the registered factory expects.
	ErrArityMismatch = errors.New("argument count mismatch")
	// ErrCircular reports a key that reappears in its own resolution chain.
	ErrCircular = errors.New("circular dependency")
	// ErrWeakValue reports a weak-cache factory that returned a non-pointer.
	ErrWeakValue = errors.New("weak-cache scope requires a pointer instance")
	// ErrNilFactory reports a registration without a factory.
	ErrNilFactory = errors.New("factory is nil")
	// ErrInvalidKey reports a key without a type.
	ErrInvalidKey = errors.New("key has no type")
)

// Defect describes a structural misconfiguration of a Container. It wraps
// one of the sentinel errors above, so callers may test it with errors.Is.
type Defect struct {
	// Err is the sentinel classifying the defect.
	Err error
	// Key is the identity the defect was raised for.
	Key Key
	// Detail optionally adds context, such as the offending types.
	Detail string
	// Version is the version of the container that raised the defect.
	Version string
}

// Error implements the error interface.
func (d *Defect) Error() string {
	msg := fmt.Sprintf("di: %v for %s", d.Err, d.Key)
	if d.Detail != "" {
		msg += ": " + d.Detail
	}
	return msg
}

// Unwrap returns the sentinel error.
func (d *Defect) Unwrap() error {
	return d.Err
}

// failer is implemented by the Container, so that the typed helpers can
// report defects through the container behind a Resolver.
type failer interface {
	fail(d *Defect)
}

// raise reports d through the container behind r, if any, and panics if the
// fatal hook returns.
func raise(r any, d *Defect) {
	if f, ok := r.(failer); ok {
		f.fail(d)
	}
	panic(d)
}
