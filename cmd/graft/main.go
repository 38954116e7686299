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

// Command graft is a sample composition root. It loads its configuration
// from GRAFT_ variables and an optional .env file, assembles a greeting
// module into a shared container and greets every name given on the
// command line.
//
// Usage:
//
//	GRAFT_LOG_LEVEL=debug graft Ada Grace
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/deep-rent/graft/app"
	"github.com/deep-rent/graft/assembly"
	"github.com/deep-rent/graft/config"
	"github.com/deep-rent/graft/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.New(log.WithComponent("graft")).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stderr)

	err = app.Run(
		greet(os.Stdout, os.Args[1:]),
		app.WithLogger(logger),
		app.WithVersion(cfg.Version),
		app.WithFatal(func(err error) {
			logger.Error("Aborting due to a misconfigured container", "error", err)
			os.Exit(1)
		}),
	)
	if err != nil {
		logger.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// greet returns the entry point that writes one greeting per name to w.
func greet(w io.Writer, names []string) app.Main {
	return func(ctx context.Context, f *assembly.Factory) error {
		f.Record(Services{})
		h := assembly.Assemble[GreetingUnit](f)

		if len(names) == 0 {
			names = []string{"world"}
		}
		for _, name := range names {
			if err := ctx.Err(); err != nil {
				return err
			}
			page := assembly.Unravel(h, SlotPage)
			if _, err := fmt.Fprintln(w, page.Render(name)); err != nil {
				return err
			}
		}
		return nil
	}
}
