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

package assembly_test

import (
	"sync/atomic"
	"weak"

	"github.com/deep-rent/graft/assembly"
	"github.com/deep-rent/graft/di"
)

// The types below model a small screen module: a view owning its renderer,
// router and provider, which refer back to the view without keeping it
// alive.

type FirstService struct {
	Name string
	Tags []string
}

type SecondService struct {
	Name string
	Tags []string
}

type FirstView struct {
	Renderer  *FirstRenderer
	Router    *FirstRouter
	Provider  *FirstProvider
	Displayed int
}

func (v *FirstView) Display() { v.Displayed++ }

func (v *FirstView) DidRequestSecond() { v.Router.ShowSecond() }

type FirstRenderer struct {
	view  weak.Pointer[FirstView]
	Title string
}

// Tap forwards a user interaction to the view if it is still alive.
func (r *FirstRenderer) Tap() bool {
	v := r.view.Value()
	if v == nil {
		return false
	}
	v.DidRequestSecond()
	return true
}

type FirstRouter struct {
	view  weak.Pointer[FirstView]
	Shown []string
}

func (r *FirstRouter) ShowSecond() { r.Shown = append(r.Shown, "second") }

type FirstPresenter struct {
	view weak.Pointer[FirstView]
	Name string
}

func (p *FirstPresenter) DidObtain() {
	if v := p.view.Value(); v != nil {
		v.Display()
	}
}

type FirstProvider struct {
	Presenter *FirstPresenter
	First     *FirstService
	Second    *di.Lazy[*SecondService]
}

func (p *FirstProvider) Obtain() { p.Presenter.DidObtain() }

var SlotFirstView = di.NewSlot[*FirstView]()

var (
	firstAssembled atomic.Int32
	firstServices  atomic.Int32
)

type FirstUnit struct {
	Name string
}

func (u *FirstUnit) Assemble(r di.Registrar) {
	firstAssembled.Add(1)

	assembly.RecordComponent(r, func(r di.Resolver) *FirstView {
		v := &FirstView{}
		presenter := assembly.UnravelComponent1[*FirstPresenter](r, v)
		v.Renderer = assembly.UnravelComponent1[*FirstRenderer](r, v)
		v.Router = assembly.UnravelComponent1[*FirstRouter](r, v)
		v.Provider = assembly.UnravelComponent1[*FirstProvider](r, presenter)
		return v
	})
	assembly.RecordComponent1(r, func(_ di.Resolver, v *FirstView) *FirstRenderer {
		return &FirstRenderer{view: weak.Make(v), Title: "first"}
	})
	assembly.RecordComponent1(r, func(_ di.Resolver, v *FirstView) *FirstPresenter {
		return &FirstPresenter{view: weak.Make(v), Name: "first"}
	})
	assembly.RecordComponent1(r, func(_ di.Resolver, v *FirstView) *FirstRouter {
		return &FirstRouter{view: weak.Make(v)}
	})
	assembly.RecordComponent1(r, func(r di.Resolver, p *FirstPresenter) *FirstProvider {
		return &FirstProvider{
			Presenter: p,
			First:     assembly.UnravelService[*FirstService](r),
			Second:    assembly.LazyService[*SecondService](r),
		}
	})
}

type firstServicesUnit struct{}

func (firstServicesUnit) Assemble(r di.Registrar) {
	assembly.RecordService(r, func(di.Resolver) *FirstService {
		firstServices.Add(1)
		return &FirstService{Name: "first"}
	})
}

type secondServicesUnit struct{}

func (secondServicesUnit) Assemble(r di.Registrar) {
	assembly.RecordService(r, func(di.Resolver) *SecondService {
		return &SecondService{Name: "second"}
	})
}

// Services records the services shared by all modules.
type Services struct{}

func (Services) Units() []assembly.Unit {
	return []assembly.Unit{firstServicesUnit{}, secondServicesUnit{}}
}

// emptyUnit has no size and is therefore memoized strongly.
type emptyUnit struct{}

var emptyAssembled atomic.Int32

func (*emptyUnit) Assemble(r di.Registrar) {
	emptyAssembled.Add(1)
	assembly.RecordSingleton(r, func(di.Resolver) *SecondService {
		return &SecondService{Name: "empty"}
	})
}
