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
	"fmt"
	"time"

	"github.com/deep-rent/graft/assembly"
	"github.com/deep-rent/graft/clock"
	"github.com/deep-rent/graft/di"
)

// Salutation picks a greeting for a time of day.
type Salutation struct {
	Morning, Day, Evening string
}

// For returns the morning greeting before noon, the day greeting until 6pm
// and the evening greeting after that, judged by the hour of t.
func (s *Salutation) For(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return s.Morning
	case h < 18:
		return s.Day
	default:
		return s.Evening
	}
}

// Page renders greetings.
type Page struct {
	Clock      clock.Clock
	Salutation *Salutation
	Sign       *Signature
}

// Signature closes every greeting.
type Signature struct {
	Author string
}

// Render greets name with the salutation for the current time of the page's
// clock, signed by the author.
func (p *Page) Render(name string) string {
	return fmt.Sprintf("%s, %s! (%s)", p.Salutation.For(p.Clock()), name, p.Sign.Author)
}

// Language selects the salutation service.
const Language = "en"

var SlotPage = di.NewSlot[*Page]()

type clockUnit struct{}

func (clockUnit) Assemble(r di.Registrar) {
	assembly.RecordSingleton(r, func(di.Resolver) clock.Clock {
		return clock.System(time.Local)
	})
}

type salutationUnit struct{}

func (salutationUnit) Assemble(r di.Registrar) {
	assembly.RecordServiceNamed(r, "en", func(di.Resolver) *Salutation {
		return &Salutation{Morning: "Good morning", Day: "Hello", Evening: "Good evening"}
	})
	assembly.RecordServiceNamed(r, "de", func(di.Resolver) *Salutation {
		return &Salutation{Morning: "Guten Morgen", Day: "Hallo", Evening: "Guten Abend"}
	})
}

// Services records the services shared by all modules.
type Services struct{}

func (Services) Units() []assembly.Unit {
	return []assembly.Unit{clockUnit{}, salutationUnit{}}
}

// GreetingUnit assembles the greeting module.
type GreetingUnit struct{}

func (u *GreetingUnit) Assemble(r di.Registrar) {
	assembly.RecordComponent1(r, func(_ di.Resolver, author string) *Signature {
		return &Signature{Author: author}
	})
	assembly.RecordComponent(r, func(r di.Resolver) *Page {
		return &Page{
			Clock:      assembly.UnravelService[clock.Clock](r),
			Salutation: assembly.UnravelServiceNamed[*Salutation](r, Language),
			Sign:       assembly.UnravelComponent1[*Signature](r, "graft"),
		}
	})
}
