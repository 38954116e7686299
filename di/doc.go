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

// Package di provides a runtime dependency injection container.
//
// A Container maps service identities to factories and governs the lifetime
// of the instances those factories produce. An identity is a Key: the type
// of the service plus an optional discriminator name. The typed Slot handle
// derives keys at compile time, so most code never builds a Key by hand.
//
// # Usage
//
// Composition code registers factories once, then resolves the root of an
// object graph. Factories receive a Resolver through which they resolve their
// own collaborators:
//
//	var (
//		SlotClock = di.NewSlot[Clock]()
//		SlotRepo  = di.NewSlot[*Repo]("repo", "primary")
//	)
//
//	c := di.New(di.WithLogger(logger))
//	di.Bind(c, SlotClock, di.Singleton, func(r di.Resolver) Clock {
//		return systemClock{}
//	})
//	di.Bind(c, SlotRepo, di.Transient, func(r di.Resolver) *Repo {
//		return &Repo{Clock: di.Use(r, SlotClock)}
//	})
//
//	repo := di.Use(c, SlotRepo)
//
// Factories may take up to three positional construction arguments, which
// the caller supplies at resolution time:
//
//	di.Bind1(c, SlotPresenter, di.Transient,
//		func(r di.Resolver, view View) *Presenter {
//			return NewPresenter(view)
//		},
//	)
//	p := di.Use1(c, SlotPresenter, view)
//
// # Scopes
//
// Transient entries construct on every resolution. Singleton entries
// construct once and keep the instance for the lifetime of the container.
// WeakCache entries remember the last instance without keeping it alive:
// it is handed out again for as long as somebody else holds it, and rebuilt
// once the garbage collector has reclaimed it. AlwaysNewInstance is a legacy
// value that is rejected at registration.
//
// # Concurrency
//
// Every registration and every outermost resolution passes one gate, so
// the first construction of a singleton happens exactly once even under
// concurrent access. The gate is reentrant per goroutine: a factory may
// resolve or register through the Resolver it receives, through a captured
// *Container, or through a Resolver stored by an earlier component, and
// joins the resolution already in progress. Other goroutines wait for the
// gate, so a factory must not block on goroutines that use the container.
//
// # Weak caching
//
// WeakCache instances must be pointers. Pointers to zero-sized or small
// pointer-free values are handed out without being cached, since the
// runtime may keep their memory alive alongside unrelated objects.
//
// # Defects
//
// Structural misconfiguration (an unregistered key, a forbidden scope, a
// type or arity mismatch, a circular dependency) is a programming error, not
// a runtime condition. The container logs a Defect and passes it to the
// fatal hook, which panics by default. See WithFatal.
package di
