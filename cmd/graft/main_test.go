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

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deep-rent/graft/app"
	"github.com/deep-rent/graft/clock"
	"github.com/deep-rent/graft/log"
)

func TestGreet(t *testing.T) {
	var buf bytes.Buffer
	err := app.Run(greet(&buf, []string{"Ada", "Grace"}), app.WithLogger(log.Discard()))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], ", Ada! (graft)")
	assert.Contains(t, lines[1], ", Grace! (graft)")
}

func TestGreetDefaultName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, app.Run(greet(&buf, nil), app.WithLogger(log.Discard())))
	assert.Contains(t, buf.String(), ", world! (graft)")
}

func TestGreetCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := app.Run(greet(&buf, []string{"Ada"}), app.WithLogger(log.Discard()), app.WithContext(ctx))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestSalutation(t *testing.T) {
	s := &Salutation{Morning: "m", Day: "d", Evening: "e"}
	at := func(h int) time.Time { return time.Date(2025, 3, 1, h, 0, 0, 0, time.UTC) }

	assert.Equal(t, "m", s.For(at(8)))
	assert.Equal(t, "d", s.For(at(12)))
	assert.Equal(t, "e", s.For(at(21)))
}

func TestPageRender(t *testing.T) {
	p := &Page{
		Clock:      clock.Frozen(time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)),
		Salutation: &Salutation{Morning: "m", Day: "d", Evening: "Good evening"},
		Sign:       &Signature{Author: "graft"},
	}
	assert.Equal(t, "Good evening, Ada! (graft)", p.Render("Ada"))
}
