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
	"io"

	"github.com/gravitational/trace"
	"github.com/manifoldco/promptui"

	"github.com/appointly/booking-client/client/auth"
	"github.com/appointly/booking-client/client/auth/state"
	"github.com/appointly/booking-client/client/booking"
	"github.com/appointly/booking-client/lib/logger"
)

// PromptFunc asks the user for a secret.
type PromptFunc func(label string) (string, error)

// App holds the clients shared by the commands
type App struct {
	ctx     context.Context
	out     io.Writer
	prompt  PromptFunc
	store   state.Store
	auth    *auth.Client
	booking *booking.Client
}

// NewApp builds the session store and the clients out of the configuration
func NewApp(ctx context.Context, conf *CLI, out io.Writer) (*App, error) {
	if err := conf.Validate(); err != nil {
		return nil, trace.Wrap(err)
	}

	store, err := state.NewStore(conf.StoreConfig())
	if err != nil {
		return nil, trace.Wrap(err)
	}

	app := &App{
		ctx:    ctx,
		out:    out,
		prompt: promptSecret,
		store:  store,
	}

	app.auth, err = auth.NewClient(auth.Config{
		APIURL:       conf.APIURL,
		Timeout:      conf.APITimeout,
		Store:        store,
		OnInvalidate: app.onInvalidate,
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}

	app.booking, err = booking.NewClient(conf.APIURL, app.auth.HTTPClient())
	if err != nil {
		return nil, trace.Wrap(err)
	}

	logger.Get(ctx).WithField("api_url", conf.APIURL).Debug("Booking client is ready")
	return app, nil
}

// Context returns the context the commands run with
func (a *App) Context() context.Context {
	return a.ctx
}

func (a *App) onInvalidate(ctx context.Context, reason string) {
	logger.Get(ctx).WithField("reason", reason).Debug("Session invalidated")
	fmt.Fprintln(a.out, "Your session has expired, please log in again with `booking-cli login`.")
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func promptSecret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(input string) error {
			if input == "" {
				return trace.BadParameter("%s must not be empty", label)
			}
			return nil
		},
	}
	value, err := prompt.Run()
	return value, trace.Wrap(err)
}
