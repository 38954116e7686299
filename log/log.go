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

// Package log builds the slog.Logger instances handed to containers and
// composition roots, configured through functional options.
//
// # Usage
//
// A composition root typically derives one logger from its configuration
// and tags it with the component it is passed to:
//
//	logger := log.New(
//		log.WithLevel("debug"),
//		log.WithFormat("json"),
//		log.WithComponent("di"),
//	)
//	c := di.New(di.WithLogger(logger))
//
// Tests that do not inspect log output use Discard.
//
// # Conventions
//
// Stick to the following rules to keep log output consistent:
//
//   - Format attribute keys in lower camelCase.
//   - Prefer longer keys over abbreviations (e.g., "error" over "err").
//   - Capitalize the first letter of every log message.
//   - Do not end log messages with punctuation.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Default configuration values for a new logger.
const (
	DefaultLevel     = slog.LevelInfo
	DefaultAddSource = false
	DefaultFormat    = FormatText
)

// KeyComponent is the attribute key set by WithComponent.
const KeyComponent = "component"

// Format defines the log output format, such as JSON or plain text.
type Format uint8

const (
	FormatText Format = iota // Human-readable text format.
	FormatJSON               // JSON format, suitable for structured logging.
)

// String returns the lower-case string representation of the log format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	default:
		return "text"
	}
}

// New creates and configures a new slog.Logger. By default, it logs at
// slog.LevelInfo in plain text to os.Stderr, without source information.
// Standard output is left to the program's own results.
func New(opts ...Option) *slog.Logger {
	c := config{
		Level:     DefaultLevel,
		AddSource: DefaultAddSource,
		Format:    DefaultFormat,
		Writer:    os.Stderr,
	}
	for _, opt := range opts {
		opt(&c)
	}

	o := &slog.HandlerOptions{
		Level:     c.Level,
		AddSource: c.AddSource,
	}

	var handler slog.Handler
	switch c.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(c.Writer, o)
	default:
		handler = slog.NewTextHandler(c.Writer, o)
	}

	logger := slog.New(handler)
	if c.Component != "" {
		logger = logger.With(KeyComponent, c.Component)
	}
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// config holds the configuration settings for the logger.
type config struct {
	Level     slog.Level
	AddSource bool
	Format    Format
	Writer    io.Writer
	Component string
}

// Option defines a function that modifies the logger configuration.
type Option func(*config)

// WithLevel returns an Option that sets the minimum log level.
// It accepts either a slog.Level or a string recognized by ParseLevel.
// If the provided value is invalid, the configured level remains unchanged.
func WithLevel(v any) Option {
	return func(c *config) {
		switch t := v.(type) {
		case slog.Level:
			c.Level = t
		case string:
			if level, err := ParseLevel(t); err == nil {
				c.Level = level
			}
		}
	}
}

// WithFormat returns an Option that sets the log output format.
// It accepts either a Format or a string recognized by ParseFormat.
// If the provided value is invalid, the configured format remains unchanged.
func WithFormat(v any) Option {
	return func(c *config) {
		switch t := v.(type) {
		case Format:
			c.Format = t
		case string:
			if format, err := ParseFormat(t); err == nil {
				c.Format = format
			}
		}
	}
}

// WithAddSource returns an Option that configures the logger to include
// the source code position (file and line number) in the log output.
func WithAddSource(add bool) Option {
	return func(c *config) {
		c.AddSource = add
	}
}

// WithWriter returns an Option that sets the output destination for the logs.
// If the provided io.Writer is nil, it is ignored.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.Writer = w
		}
	}
}

// WithComponent returns an Option that attaches the given component name to
// every record under KeyComponent. Blank names are ignored.
func WithComponent(name string) Option {
	return func(c *config) {
		if name = strings.TrimSpace(name); name != "" {
			c.Component = name
		}
	}
}

// ParseLevel converts a string into a slog.Level.
// It can handle any string produced by slog.Level.MarshalText, ignoring case.
// It also accepts numeric offsets that would result in a different string on
// output. For example, "error-8" would translate to "info".
func ParseLevel(s string) (level slog.Level, err error) {
	if e := level.UnmarshalText([]byte(s)); e != nil {
		err = fmt.Errorf("invalid log level %q", s)
	}
	return
}

// ParseFormat converts a string into a Format.
// It is case-insensitive and returns an error if the string is not
// a valid format ("text" or "json").
func ParseFormat(s string) (format Format, err error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	default:
		return format, fmt.Errorf("invalid log format %q", s)
	}
}
