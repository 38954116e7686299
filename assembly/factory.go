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

// Package assembly builds application modules on top of a shared
// di.Container.
//
// A module is described by a Unit, whose Assemble method registers the
// module's components. Shared services are grouped by a Recorder and applied
// once at startup:
//
//	f := assembly.New(di.New())
//	f.Record(Services{})
//	h := assembly.Assemble[FirstUnit](f)
//	view := assembly.Unravel(h, SlotFirstView)
//
// The Factory memoizes assembled units by type. A unit is assembled again
// only after every Handle to it has been released and the unit has been
// garbage collected. Units that are empty or small and free of pointers are
// kept for the lifetime of the Factory.
package assembly

import (
	"log/slog"
	"reflect"
	"sync"
	"weak"

	"github.com/deep-rent/graft/di"
	"github.com/deep-rent/graft/internal/weakref"
)

// Unit registers the components of one module.
type Unit interface {
	Assemble(r di.Registrar)
}

// Recorder groups the units that register shared services.
type Recorder interface {
	Units() []Unit
}

// config holds configuration options for a Factory.
type config struct {
	logger *slog.Logger
}

// Option configures a Factory.
type Option func(*config)

// WithLogger sets the logger for assembly messages. A nil value will be
// ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Factory applies units to a container and keeps track of the units it has
// assembled. It is safe for concurrent use.
type Factory struct {
	c      *di.Container
	logger *slog.Logger

	mu sync.Mutex
	// units maps a unit type to a weak.Pointer[U], or to a *U if values
	// of U cannot be tracked weakly (see weakref.Trackable).
	units map[reflect.Type]any
}

// New creates a Factory that registers into c.
func New(c *di.Container, opts ...Option) *Factory {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Factory{
		c:      c,
		logger: cfg.logger,
		units:  make(map[reflect.Type]any),
	}
}

// Container returns the container the factory registers into.
func (f *Factory) Container() *di.Container {
	return f.c
}

// Record assembles every unit of rec. Units of a Recorder are expected to
// register idempotently, so recording the same services twice is harmless.
func (f *Factory) Record(rec Recorder) {
	units := rec.Units()
	for _, u := range units {
		u.Assemble(f.c)
	}
	f.logger.Debug(
		"Recorded services",
		"recorder", reflect.TypeOf(rec).String(),
		"units", len(units),
	)
}

// Handle keeps an assembled unit alive and resolves from the container it
// was assembled into.
type Handle[U any] struct {
	factory *Factory
	unit    *U
}

// Unit returns the assembled unit.
func (h *Handle[U]) Unit() *U {
	return h.unit
}

// Factory returns the factory the unit was assembled by.
func (h *Handle[U]) Factory() *Factory {
	return h.factory
}

// Assemble returns a handle to the unit of type U, assembling it into the
// factory's container unless a live instance already exists. Units must not
// call Assemble on the same factory from within their Assemble method.
func Assemble[U any, P interface {
	*U
	Unit
}](f *Factory) *Handle[U] {
	t := reflect.TypeFor[U]()

	f.mu.Lock()
	defer f.mu.Unlock()

	if u := lookup[U](f.units[t]); u != nil {
		f.logger.Debug("Reused unit", "unit", t.String())
		return &Handle[U]{factory: f, unit: u}
	}

	u := new(U)
	P(u).Assemble(f.c)
	if !weakref.Trackable(t) {
		f.units[t] = u
	} else {
		f.units[t] = weak.Make(u)
	}
	f.logger.Debug("Assembled unit", "unit", t.String())
	return &Handle[U]{factory: f, unit: u}
}

// lookup returns the memoized unit, or nil if it is absent or collected.
func lookup[U any](v any) *U {
	switch m := v.(type) {
	case *U:
		return m
	case weak.Pointer[U]:
		return m.Value()
	default:
		return nil
	}
}

// Unravel resolves the root object of the unit behind h.
func Unravel[T, U any](h *Handle[U], slot di.Slot[T]) T {
	return di.Use(h.factory.c, slot)
}
