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

// Package app runs composition roots. It creates the container and the
// assembly factory, hands them to the program's entry points and shuts them
// down when an OS interrupt signal arrives.
//
// # Usage
//
//	err := app.Run(func(ctx context.Context, f *assembly.Factory) error {
//		f.Record(Services{})
//		h := assembly.Assemble[HomeUnit](f)
//		return assembly.Unravel(h, SlotHome).Serve(ctx)
//	}, app.WithLogger(logger), app.WithVersion(cfg.Version))
//
// Panics raised by an entry point, including container defects, are
// recovered and returned as errors so that the caller decides how the
// process exits.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deep-rent/graft/assembly"
	"github.com/deep-rent/graft/di"
	"github.com/deep-rent/graft/log"
)

// DefaultTimeout is the default duration to wait for the entry points to
// return after a termination signal.
const DefaultTimeout = 10 * time.Second

// Main is an entry point of a composition root. It receives a context that
// is canceled on shutdown and the factory wrapping the shared container.
type Main func(ctx context.Context, f *assembly.Factory) error

type config struct {
	logger  *slog.Logger
	version string
	timeout time.Duration
	signals []os.Signal
	ctx     context.Context
	fatal   func(error)
}

// Option configures the runner.
type Option func(*config)

// WithLogger sets the logger of the runner. The container and the factory
// log through it with the component set to "di" and "assembly". A nil value
// will be ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithVersion sets the version reported by the container.
func WithVersion(version string) Option {
	return func(c *config) {
		c.version = version
	}
}

// WithTimeout sets the graceful shutdown timeout. Non-positive durations
// are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSignals sets the signals that trigger a shutdown. It defaults to
// SIGTERM and SIGINT.
func WithSignals(signals ...os.Signal) Option {
	return func(c *config) {
		if len(signals) > 0 {
			c.signals = signals
		}
	}
}

// WithContext sets the parent context. Canceling it triggers a shutdown.
// A nil value will be ignored.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithFatal sets the container's defect hook. See di.WithFatal.
func WithFatal(fn func(error)) Option {
	return func(c *config) {
		c.fatal = fn
	}
}

// Run executes fn and blocks until it returns, or until a shutdown signal
// arrives and fn has honored the cancellation. An error from fn that merely
// reports the cancellation is not returned.
func Run(fn Main, opts ...Option) error {
	return RunAll([]Main{fn}, opts...)
}

// RunAll executes the entry points concurrently against one shared
// container. The first failure cancels the others.
func RunAll(fns []Main, opts ...Option) error {
	cfg := config{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
		signals: []os.Signal{syscall.SIGTERM, syscall.SIGINT},
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := di.New(
		di.WithLogger(cfg.logger.With(log.KeyComponent, "di")),
		di.WithVersion(cfg.version),
		di.WithFatal(cfg.fatal),
	)
	f := assembly.New(c, assembly.WithLogger(cfg.logger.With(log.KeyComponent, "assembly")))

	ctx, stop := signal.NotifyContext(cfg.ctx, cfg.signals...)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		g.Go(func() error { return guard(gctx, f, fn) })
	}
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	cfg.logger.Info("Application started", "version", c.Version(), "entries", len(fns))

	select {
	case err := <-done:
		if err = ignoreCanceled(err); err != nil {
			return fmt.Errorf("encountered an application error: %w", err)
		}
		cfg.logger.Info("Application stopped")
		return nil

	case <-ctx.Done():
		cfg.logger.Info("Shutdown signal received, initiating graceful shutdown")

		timer := time.NewTimer(cfg.timeout)
		defer timer.Stop()

		select {
		case err := <-done:
			if err = ignoreCanceled(err); err != nil {
				return fmt.Errorf("error occurred during shutdown: %w", err)
			}
			cfg.logger.Info("Shutdown completed successfully")
			return nil
		case <-timer.C:
			return fmt.Errorf("shutdown timed out after %v", cfg.timeout)
		}
	}
}

// guard runs fn and converts a panic into an error carrying the stack. A
// panicking di.Defect stays reachable through errors.As.
func guard(ctx context.Context, f *assembly.Factory, fn Main) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("application panic: %w\n%s", e, debug.Stack())
			} else {
				err = fmt.Errorf("application panic: %v\n%s", r, debug.Stack())
			}
		}
	}()
	return fn(ctx, f)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
