/*
Copyright 2026 Appointly, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gravitational/trace"

	"github.com/appointly/booking-client/client/auth"
	"github.com/appointly/booking-client/lib"
	"github.com/appointly/booking-client/lib/logger"
)

const (
	appName        = "booking-cli"
	appDescription = "Command line client of the appointment booking service"
)

// Version and Gitref are set at build time
var (
	Version = "dev"
	Gitref  = ""
)

var cli CLI

func main() {
	logger.Init()
	kctx := kong.Parse(
		&cli,
		kong.UsageOnError(),
		kong.Configuration(KongTOMLResolver),
		kong.Name(appName),
		kong.Description(appDescription),
	)

	if err := logger.Setup(cli.LoggerConfig()); err != nil {
		lib.Bail(err, 1)
	}

	ctx, cancel := lib.SignalContext(context.Background())
	defer cancel()

	if kctx.Command() == "version" {
		kctx.FatalIfErrorf(kctx.Run(&App{ctx: ctx, out: os.Stdout}))
		return
	}

	app, err := NewApp(ctx, &cli, os.Stdout)
	if err != nil {
		lib.Bail(err, 1)
	}

	// See respective commands Run() methods
	err = kctx.Run(app)
	switch {
	case err == nil:
		return
	case lib.IsCanceled(err):
		os.Exit(130)
	case auth.IsUnauthenticated(err):
		fmt.Fprintln(os.Stderr, "You are not logged in, run `booking-cli login` first.")
		os.Exit(2)
	case auth.IsTerminal(err):
		// The invalidation callback has already told the user to log in again.
		if cli.Debug {
			fmt.Fprintln(os.Stderr, trace.DebugReport(err))
		}
		os.Exit(2)
	default:
		lib.Bail(err, 1)
	}
}
