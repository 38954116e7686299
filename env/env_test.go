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

package env_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deep-rent/graft/env"
)

func lookup(m map[string]string) env.Option {
	return env.WithLookup(func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	})
}

type upper string

func (u *upper) UnmarshalEnv(v string) error {
	*u = upper(strings.ToUpper(v))
	return nil
}

type failing struct{ Raw string }

func (*failing) UnmarshalEnv(string) error { return assert.AnError }

type Store struct {
	Host string
	Port int `env:",default:5432"`
}

type Shared struct {
	Region string
}

type Config struct {
	Shared `env:",inline"`

	LogLevel string        `env:",default:info"`
	Version  string        `env:",required"`
	Timeout  time.Duration `env:",default:5s"`
	Debug    bool
	Retries  uint8
	Ratio    float64
	Offset   int16
	Tags     []string `env:",split:';'"`
	Ports    []int
	Name     upper
	Custom   *int  `env:"CUSTOM_NUMBER"`
	Store    Store `env:",prefix:DB_"`
	Cache    Store
	Skipped  string `env:"-"`
	hidden   string
}

func TestUnmarshal(t *testing.T) {
	vars := map[string]string{
		"APP_REGION":        "eu-central",
		"APP_VERSION":       "1.2.3",
		"APP_TIMEOUT":       "250ms",
		"APP_DEBUG":         "true",
		"APP_RETRIES":       "3",
		"APP_RATIO":         "0.75",
		"APP_OFFSET":        "-12",
		"APP_TAGS":          "a;b; c",
		"APP_PORTS":         "80,443",
		"APP_NAME":          "graft",
		"APP_CUSTOM_NUMBER": "42",
		"APP_DB_HOST":       "db.local",
		"APP_CACHE_HOST":    "cache.local",
		"APP_CACHE_PORT":    "6379",
		"APP_SKIPPED":       "nope",
		"APP_HIDDEN":        "nope",
	}

	var cfg Config
	require.NoError(t, env.Unmarshal(&cfg, env.WithPrefix("APP_"), lookup(vars)))

	assert.Equal(t, "eu-central", cfg.Region)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, uint8(3), cfg.Retries)
	assert.InDelta(t, 0.75, cfg.Ratio, 1e-9)
	assert.Equal(t, int16(-12), cfg.Offset)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Tags)
	assert.Equal(t, []int{80, 443}, cfg.Ports)
	assert.Equal(t, upper("GRAFT"), cfg.Name)
	require.NotNil(t, cfg.Custom)
	assert.Equal(t, 42, *cfg.Custom)
	assert.Equal(t, Store{Host: "db.local", Port: 5432}, cfg.Store)
	assert.Equal(t, Store{Host: "cache.local", Port: 6379}, cfg.Cache)
	assert.Empty(t, cfg.Skipped)
	assert.Empty(t, cfg.hidden)
}

func TestUnmarshalKeepsUnsetFields(t *testing.T) {
	cfg := Config{Debug: true, Ratio: 1.5}
	require.NoError(t, env.Unmarshal(&cfg, lookup(map[string]string{"VERSION": "x"})))

	assert.True(t, cfg.Debug)
	assert.InDelta(t, 1.5, cfg.Ratio, 1e-9)
	assert.Nil(t, cfg.Tags)
}

func TestUnmarshalEmptySlice(t *testing.T) {
	var cfg Config
	require.NoError(t, env.Unmarshal(&cfg, lookup(map[string]string{
		"VERSION": "x",
		"TAGS":    "",
	})))
	assert.NotNil(t, cfg.Tags)
	assert.Empty(t, cfg.Tags)
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		v    any
		vars map[string]string
		msg  string
	}{
		{
			name: "nil pointer",
			v:    (*Config)(nil),
			msg:  "expected a non-nil pointer to a struct",
		},
		{
			name: "non-pointer",
			v:    Config{},
			msg:  "expected a non-nil pointer to a struct",
		},
		{
			name: "pointer to non-struct",
			v:    new(int),
			msg:  "expected a non-nil pointer to a struct",
		},
		{
			name: "required",
			v:    &Config{},
			msg:  `required variable "VERSION" is not set`,
		},
		{
			name: "invalid bool",
			v:    &Config{},
			vars: map[string]string{"VERSION": "x", "DEBUG": "maybe"},
			msg:  `variable "DEBUG"`,
		},
		{
			name: "overflow",
			v:    &Config{},
			vars: map[string]string{"VERSION": "x", "RETRIES": "300"},
			msg:  `variable "RETRIES"`,
		},
		{
			name: "invalid duration",
			v:    &Config{},
			vars: map[string]string{"VERSION": "x", "TIMEOUT": "soon"},
			msg:  `variable "TIMEOUT"`,
		},
		{
			name: "invalid slice element",
			v:    &Config{},
			vars: map[string]string{"VERSION": "x", "PORTS": "80,http"},
			msg:  "element 1",
		},
		{
			name: "unmarshaler error",
			v: &struct {
				F failing
			}{},
			vars: map[string]string{"F": "x"},
			msg:  assert.AnError.Error(),
		},
		{
			name: "unsupported type",
			v: &struct {
				C complex64
			}{},
			vars: map[string]string{"C": "1"},
			msg:  "unsupported type complex64",
		},
		{
			name: "unknown option",
			v: &struct {
				V string `env:",weird"`
			}{},
			msg: `unknown tag option "weird"`,
		},
		{
			name: "empty separator",
			v: &struct {
				V []string `env:",split:''"`
			}{},
			msg: "empty split separator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.Unmarshal(tt.v, lookup(tt.vars))
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "env: "), err.Error())
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestNames(t *testing.T) {
	type names struct {
		LogLevel string
		HTTPPort string
		Plain    string
		Quoted   string `env:"QUOTED,default:'a,b'"`
	}

	vars := map[string]string{
		"LOG_LEVEL": "1",
		"HTTP_PORT": "2",
		"PLAIN":     "4",
	}

	var v names
	require.NoError(t, env.Unmarshal(&v, lookup(vars)))
	assert.Equal(t, "1", v.LogLevel)
	assert.Equal(t, "2", v.HTTPPort)
	assert.Equal(t, "4", v.Plain)
	assert.Equal(t, "a,b", v.Quoted)
}
