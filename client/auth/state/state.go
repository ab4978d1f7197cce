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

package state

import (
	"context"
)

const (
	// AccessTokenKey is the well-known key the access credential is stored under.
	AccessTokenKey = "access_token"
	// RefreshTokenKey is the well-known key the refresh credential is stored under.
	RefreshTokenKey = "refresh_token"
)

// Session is the credential pair issued by the booking API on login.
type Session struct {
	// AccessToken is the short-lived Bearer token attached to every API request.
	AccessToken string
	// RefreshToken is used solely to mint a new access token.
	RefreshToken string
}

// IsEmpty reports whether the session is unusable. A session missing either of the
// credentials is treated the same as no session at all.
func (s Session) IsEmpty() bool {
	return s.AccessToken == "" || s.RefreshToken == ""
}

// Store defines the interface for persisting the session.
//
// Implementations must write and clear both credentials together: no reader may
// observe a pair where one credential was updated and the other was not.
type Store interface {
	// GetSession returns the current session. A missing session is returned as an
	// empty Session and a nil error.
	GetSession(context.Context) (Session, error)
	// PutSession replaces both credentials.
	PutSession(context.Context, Session) error
	// ClearSession removes both credentials.
	ClearSession(context.Context) error
}
