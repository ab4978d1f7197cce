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
	"errors"
	"fmt"

	"github.com/gravitational/trace"
)

// ErrorKind classifies the failures surfaced by the authentication layer.
type ErrorKind int

const (
	// Unauthenticated means there was no session to authenticate the call with.
	Unauthenticated ErrorKind = iota + 1
	// AuthFailureTerminal means the session could not be recovered and has been
	// torn down. The user must log in again.
	AuthFailureTerminal
	// RefreshTransportFailure means the renewal call itself did not complete.
	// It is terminal as well.
	RefreshTransportFailure
)

func (k ErrorKind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case AuthFailureTerminal:
		return "auth failure"
	case RefreshTransportFailure:
		return "refresh transport failure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned to the callers whose requests could not be authenticated.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Terminal tells whether the session was torn down.
func (e *Error) Terminal() bool {
	return e.Kind == AuthFailureTerminal || e.Kind == RefreshTransportFailure
}

func newError(kind ErrorKind, cause error, format string, args ...interface{}) error {
	return trace.Wrap(&Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	})
}

// AsError extracts the authentication error from err, if any.
func AsError(err error) (*Error, bool) {
	for err != nil {
		if authErr, ok := err.(*Error); ok {
			return authErr, true
		}
		if traceErr, ok := err.(trace.Error); ok && traceErr.OrigError() != err {
			err = traceErr.OrigError()
			continue
		}
		err = errors.Unwrap(err)
	}
	return nil, false
}

// IsAuthError tells whether err comes from the authentication layer.
func IsAuthError(err error) bool {
	_, ok := AsError(err)
	return ok
}

// IsUnauthenticated tells whether err was caused by a missing session.
func IsUnauthenticated(err error) bool {
	authErr, ok := AsError(err)
	return ok && authErr.Kind == Unauthenticated
}

// IsTerminal tells whether err means the session is gone and the user has to
// log in again.
func IsTerminal(err error) bool {
	authErr, ok := AsError(err)
	return ok && authErr.Terminal()
}
