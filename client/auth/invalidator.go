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

package auth

import (
	"context"

	"github.com/gravitational/trace"

	"github.com/appointly/booking-client/client/auth/state"
	"github.com/appointly/booking-client/lib/logger"
)

// InvalidateFunc tells the application the user has to log in again.
type InvalidateFunc func(ctx context.Context, reason string)

// Invalidator tears down a session that cannot be recovered.
type Invalidator struct {
	store  state.Store
	notify InvalidateFunc
}

// NewInvalidator returns an Invalidator. notify may be nil.
func NewInvalidator(store state.Store, notify InvalidateFunc) *Invalidator {
	return &Invalidator{store: store, notify: notify}
}

// Invalidate clears the store and then notifies the application. The
// notification fires even if the store was already empty or could not be
// cleared.
func (i *Invalidator) Invalidate(ctx context.Context, reason string) error {
	err := i.clear(ctx, reason)
	i.notifyApp(ctx, reason)
	return trace.Wrap(err)
}

// clear drops the stored session. Callers that must order the teardown
// against other store writes call it under their own lock and notify later.
func (i *Invalidator) clear(ctx context.Context, reason string) error {
	log := logger.Get(ctx)
	log.WithField("reason", reason).Warn("Invalidating session")

	err := i.store.ClearSession(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to clear the session")
	}
	return trace.Wrap(err)
}

func (i *Invalidator) notifyApp(ctx context.Context, reason string) {
	if i.notify != nil {
		i.notify(ctx, reason)
	}
}
