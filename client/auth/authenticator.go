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
	"github.com/google/uuid"
	"github.com/gravitational/trace"

	"github.com/appointly/booking-client/client/auth/state"
)

// Authenticator stamps outbound requests with the stored access token.
type Authenticator struct {
	store state.Store
}

// NewAuthenticator returns an Authenticator reading from store.
func NewAuthenticator(store state.Store) *Authenticator {
	return &Authenticator{store: store}
}

// Authenticate returns p stamped with the current access token. Without a
// session the request goes out unauthenticated. The request ID is assigned on
// the first attempt and kept by the replay.
func (a *Authenticator) Authenticate(p PendingRequest) (PendingRequest, error) {
	session, err := a.store.GetSession(p.Context())
	if err != nil {
		return PendingRequest{}, trace.Wrap(err)
	}

	var credential string
	if !session.IsEmpty() {
		credential = session.AccessToken
	}

	requestID := p.RequestID()
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return p.stamped(credential, requestID), nil
}
