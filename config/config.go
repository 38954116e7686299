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

// Package config loads the runtime configuration of a composition root.
//
// Values come from GRAFT_-prefixed environment variables. Optional dotenv
// files supply values for variables the process environment does not set;
// earlier files take precedence over later ones.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/deep-rent/graft/env"
	"github.com/deep-rent/graft/log"
)

// Prefix is prepended to every variable name.
const Prefix = "GRAFT_"

// DefaultFile is read when no files are configured. It may be absent.
const DefaultFile = ".env"

// Config is the runtime configuration.
type Config struct {
	// LogLevel is the minimum level, as accepted by log.ParseLevel.
	LogLevel string `env:",default:info"`
	// LogFormat is "text" or "json".
	LogFormat string `env:",default:text"`
	// LogSource adds source positions to log records.
	LogSource bool
	// Version is reported by the container alongside defects.
	Version string
}

// Logger builds a logger writing to w according to c.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return log.New(
		log.WithWriter(w),
		log.WithLevel(c.LogLevel),
		log.WithFormat(c.LogFormat),
		log.WithAddSource(c.LogSource),
	)
}

type options struct {
	files  []string
	lookup env.Lookup
}

// Option configures Load.
type Option func(*options)

// WithFiles replaces the dotenv files to read. Missing files are skipped.
func WithFiles(paths ...string) Option {
	return func(o *options) {
		o.files = paths
	}
}

// WithLookup replaces os.LookupEnv as the process environment. A nil value
// will be ignored.
func WithLookup(lookup env.Lookup) Option {
	return func(o *options) {
		if lookup != nil {
			o.lookup = lookup
		}
	}
}

// Load reads the configuration.
func Load(opts ...Option) (*Config, error) {
	o := options{
		files:  []string{DefaultFile},
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(&o)
	}

	file, err := read(o.files)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := o.lookup(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}

	var cfg Config
	if err := env.Unmarshal(&cfg, env.WithPrefix(Prefix), env.WithLookup(lookup)); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := log.ParseFormat(cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// read merges the given dotenv files. A key keeps the value of the first
// file that defines it.
func read(paths []string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, path := range paths {
		m, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, err)
		}
		for k, v := range m {
			if _, ok := vars[k]; !ok {
				vars[k] = v
			}
		}
	}
	return vars, nil
}
