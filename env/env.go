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

// Package env populates configuration structs from environment variables.
//
// # Usage
//
// Declare a struct whose exported fields describe the variables to read,
// then call Unmarshal with a pointer to it:
//
//	type Config struct {
//		Level   string        `env:",default:info"`
//		Version string        `env:",required"`
//		Timeout time.Duration `env:",default:5s"`
//		Tags    []string      `env:",split:';'"`
//		Store   StoreConfig   `env:",prefix:DB_"`
//		Ignored int           `env:"-"`
//	}
//
//	var cfg Config
//	if err := env.Unmarshal(&cfg, env.WithPrefix("APP_")); err != nil {
//		return err
//	}
//
// The variable name of a field is taken from the first element of its env
// tag, or derived from the field name in upper SNAKE_CASE.
//
// # Options
//
// The remaining tag elements are options:
//
//   - "default:<value>" is used when the variable is not set.
//   - "required" fails unmarshaling when the variable is not set and there
//     is no default.
//   - "prefix:<value>" replaces the prefix of a nested struct, which is the
//     field's variable name followed by an underscore otherwise.
//   - "inline" flattens an embedded struct into its parent.
//   - "split:<value>" sets the separator for slices (a comma by default).
//
// Option values may be wrapped in single or double quotes to contain commas.
package env

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Lookup retrieves the value of a variable. It has the signature of
// os.LookupEnv.
type Lookup func(key string) (string, bool)

// Unmarshaler is implemented by types that parse their own variable value.
type Unmarshaler interface {
	UnmarshalEnv(value string) error
}

type config struct {
	prefix string
	lookup Lookup
}

// Option configures Unmarshal.
type Option func(*config)

// WithPrefix prepends prefix to every variable name.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithLookup replaces os.LookupEnv as the source of values. A nil value
// will be ignored.
func WithLookup(lookup Lookup) Option {
	return func(c *config) {
		if lookup != nil {
			c.lookup = lookup
		}
	}
}

// Unmarshal populates the struct pointed to by v. Fields whose variables
// are unset and have no default keep their current value. Unexported fields
// and fields tagged with `env:"-"` are skipped.
func Unmarshal(v any, opts ...Option) error {
	cfg := config{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&cfg)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("env: expected a non-nil pointer to a struct, got %T", v)
	}
	d := decoder{lookup: cfg.lookup}
	if err := d.walk(rv.Elem(), cfg.prefix); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	return nil
}

var (
	typeDuration    = reflect.TypeFor[time.Duration]()
	typeUnmarshaler = reflect.TypeFor[Unmarshaler]()
)

// tag holds the parsed options of an env struct tag.
type tag struct {
	name     string
	fallback string
	prefix   *string
	split    string
	inline   bool
	required bool
}

type decoder struct {
	lookup Lookup
}

func (d decoder) walk(rv reflect.Value, prefix string) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		raw := sf.Tag.Get("env")
		if raw == "-" {
			continue
		}
		t, err := parseTag(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", sf.Name, err)
		}
		fv := rv.Field(i)

		if sf.Anonymous && t.inline {
			if err := d.walk(fv, prefix); err != nil {
				return err
			}
			continue
		}

		name := t.name
		if name == "" {
			name = snake(sf.Name)
		}

		if sf.Type.Kind() == reflect.Struct && !custom(sf.Type) {
			nested := prefix + name + "_"
			if t.prefix != nil {
				nested = prefix + *t.prefix
			}
			if err := d.walk(fv, nested); err != nil {
				return err
			}
			continue
		}

		key := prefix + name
		val, ok := d.lookup(key)
		switch {
		case ok:
		case t.fallback != "":
			val = t.fallback
		case t.required:
			return fmt.Errorf("required variable %q is not set", key)
		default:
			continue
		}
		if err := set(fv, val, t.split); err != nil {
			return fmt.Errorf("variable %q: %w", key, err)
		}
	}
	return nil
}

// custom reports whether *t implements Unmarshaler.
func custom(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(typeUnmarshaler)
}

func set(rv reflect.Value, s string, sep string) error {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}
	if custom(rv.Type()) {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalEnv(s)
	}
	if rv.Type() == typeDuration {
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		rv.SetInt(int64(d))
		return nil
	}

	switch rv.Kind() {
	case reflect.String:
		rv.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetFloat(f)
	case reflect.Slice:
		if s == "" {
			rv.Set(reflect.MakeSlice(rv.Type(), 0, 0))
			return nil
		}
		parts := strings.Split(s, sep)
		out := reflect.MakeSlice(rv.Type(), len(parts), len(parts))
		for i, p := range parts {
			if err := set(out.Index(i), strings.TrimSpace(p), sep); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		rv.Set(out)
	default:
		return fmt.Errorf("unsupported type %v", rv.Type())
	}
	return nil
}

// parseTag splits an env tag into its name and options. Commas inside
// quoted option values do not separate options.
func parseTag(s string) (tag, error) {
	t := tag{split: ","}
	name, rest, _ := strings.Cut(s, ",")
	t.name = strings.TrimSpace(name)

	for _, part := range fields(rest) {
		key, val, ok := strings.Cut(part, ":")
		key = strings.TrimSpace(key)
		if !ok {
			switch key {
			case "":
			case "inline":
				t.inline = true
			case "required":
				t.required = true
			default:
				return t, fmt.Errorf("unknown tag option %q", key)
			}
			continue
		}
		val = unquote(val)
		switch key {
		case "default":
			t.fallback = val
		case "prefix":
			t.prefix = &val
		case "split":
			if val == "" {
				return t, errors.New("empty split separator")
			}
			t.split = val
		default:
			return t, fmt.Errorf("unknown tag option %q", key)
		}
	}
	return t, nil
}

// fields splits s at commas that are not enclosed in quotes.
func fields(s string) []string {
	var out []string
	var quote rune
	start := 0
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ',':
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func unquote(s string) string {
	if n := len(s); n >= 2 && (s[0] == '"' || s[0] == '\'') && s[n-1] == s[0] {
		return s[1 : n-1]
	}
	return s
}

// snake converts a Go identifier to upper SNAKE_CASE, keeping acronyms
// together: "LogLevel" becomes "LOG_LEVEL" and "HTTPPort" becomes
// "HTTP_PORT".
func snake(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			next := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && next) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
