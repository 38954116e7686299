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
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/mod/semver"

	"github.com/deep-rent/graft/internal/goid"
)

// DefaultVersion is reported by containers created without WithVersion.
const DefaultVersion = "development"

// Factory builds an instance for a registered key. It receives the resolver
// of the ongoing resolution, through which it may resolve collaborators, and
// the positional construction arguments supplied by the caller.
type Factory func(r Resolver, args []any) any

// Resolver looks up instances by key.
type Resolver interface {
	// Resolve returns the instance for key, constructing it according to the
	// entry's scope. Resolving an unregistered key is a Defect.
	Resolve(key Key, args ...any) any
	// HasEntry reports whether key is registered.
	HasEntry(key Key) bool
}

// Registrar installs entries.
type Registrar interface {
	// Register installs an entry for key, replacing any previous one.
	Register(key Key, scope Scope, factory Factory)
	// RegisterIfAbsent installs an entry for key unless one already exists.
	// It reports whether the entry was installed.
	RegisterIfAbsent(key Key, scope Scope, factory Factory) bool
	// HasEntry reports whether key is registered.
	HasEntry(key Key) bool
}

// config holds configuration options for a Container.
type config struct {
	logger  *slog.Logger
	version string
	fatal   func(error)
}

// Option configures a Container.
type Option func(*config)

// WithLogger sets the logger for registration, construction and defect
// messages. A nil value will be ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithVersion sets the version reported alongside defects. The value must
// be a semantic version; the leading "v" is optional. Invalid values are
// ignored, leaving DefaultVersion in place.
func WithVersion(version string) Option {
	return func(cfg *config) {
		v := strings.TrimSpace(version)
		if v != "" && v[0] != 'v' {
			v = "v" + v
		}
		if semver.IsValid(v) {
			cfg.version = semver.Canonical(v)
		}
	}
}

// WithFatal sets the hook that receives defects. The hook is not expected
// to return: it should panic or terminate the process. If it does return,
// the container panics with the defect. A nil value will be ignored.
func WithFatal(fn func(error)) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.fatal = fn
		}
	}
}

// Container is the dependency injection container. It owns the entries of
// one composition domain and serializes access to them through a single
// gate. The gate is reentrant: a goroutine that holds it, typically while
// running a factory, may register and resolve through the same Container
// again. A Container is safe for concurrent use.
type Container struct {
	gate sync.Mutex
	// owner is the ID of the goroutine holding the gate, or 0.
	owner atomic.Int64
	// chain lists the keys under construction, outermost first.
	chain   []Key
	entries map[Key]*entry
	logger  *slog.Logger
	version string
	fatal   func(error)
}

// New creates an empty Container with the given options.
func New(opts ...Option) *Container {
	cfg := config{
		logger:  slog.Default(),
		version: DefaultVersion,
		fatal:   func(err error) { panic(err) },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Container{
		entries: make(map[Key]*entry),
		logger:  cfg.logger,
		version: cfg.version,
		fatal:   cfg.fatal,
	}
}

// Version returns the configured version.
func (c *Container) Version() string {
	return c.version
}

// Register implements Registrar. A previous entry for the same key is
// replaced along with any instance it cached.
func (c *Container) Register(key Key, scope Scope, factory Factory) {
	c.check(key, scope, factory)

	defer c.enter()()

	c.install(key, scope, factory)
}

// RegisterIfAbsent implements Registrar. An existing entry is left
// untouched.
func (c *Container) RegisterIfAbsent(key Key, scope Scope, factory Factory) bool {
	c.check(key, scope, factory)

	defer c.enter()()

	if _, ok := c.entries[key]; ok {
		c.logger.Debug("Skipped registration", "key", key.String())
		return false
	}
	c.install(key, scope, factory)
	return true
}

// HasEntry implements Registrar and Resolver.
func (c *Container) HasEntry(key Key) bool {
	defer c.enter()()

	_, ok := c.entries[key]
	return ok
}

// Keys returns the registered keys ordered by their string form.
func (c *Container) Keys() []Key {
	leave := c.enter()
	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	leave()

	slices.SortFunc(keys, func(a, b Key) int {
		return cmp.Compare(a.String(), b.String())
	})
	return keys
}

// Resolve implements Resolver. It holds the gate for the whole resolution,
// including every nested resolution the factories perform. Factories
// receive the Container itself as their Resolver.
func (c *Container) Resolve(key Key, args ...any) any {
	defer c.enter()()

	e, ok := c.entries[key]
	if !ok {
		c.fail(&Defect{Err: ErrUnregistered, Key: key})
	}
	if slices.Contains(c.chain, key) {
		c.fail(&Defect{Err: ErrCircular, Key: key, Detail: c.trace(key)})
	}

	c.chain = append(c.chain, key)
	defer func() { c.chain = c.chain[:len(c.chain)-1] }()

	return e.resolve(c, args)
}

// enter acquires the gate unless the calling goroutine already holds it,
// and returns the function that releases it again.
func (c *Container) enter() (leave func()) {
	id := goid.Current()
	if id != 0 && c.owner.Load() == id {
		return func() {}
	}
	c.gate.Lock()
	c.owner.Store(id)
	return func() {
		c.owner.Store(0)
		c.gate.Unlock()
	}
}

// check validates a registration before it touches the store.
func (c *Container) check(key Key, scope Scope, factory Factory) {
	switch {
	case key.Type == nil:
		c.fail(&Defect{Err: ErrInvalidKey, Key: key})
	case factory == nil:
		c.fail(&Defect{Err: ErrNilFactory, Key: key})
	case !scope.allowed():
		c.fail(&Defect{Err: ErrForbiddenScope, Key: key, Detail: scope.String()})
	}
}

// install stores a fresh entry; the caller must hold the gate.
func (c *Container) install(key Key, scope Scope, factory Factory) {
	c.entries[key] = &entry{key: key, scope: scope, factory: factory}
	c.logger.Debug("Registered service", "key", key.String(), "scope", scope.String())
}

// constructed logs a factory invocation.
func (c *Container) constructed(e *entry) {
	c.logger.Debug("Constructed instance", "key", e.key.String(), "scope", e.scope.String())
}

// fail logs d and hands it to the fatal hook. It does not return.
func (c *Container) fail(d *Defect) {
	d.Version = c.version
	c.logger.Error(
		"Container misconfigured",
		"key", d.Key.String(),
		"version", d.Version,
		"error", d.Error(),
	)
	c.fatal(d)
	panic(d)
}

// trace renders the resolution chain that leads back to key.
func (c *Container) trace(key Key) string {
	parts := make([]string, 0, len(c.chain)+1)
	for _, k := range c.chain {
		parts = append(parts, k.String())
	}
	parts = append(parts, key.String())
	return strings.Join(parts, " -> ")
}
