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
	"io"
	"net/http"

	"github.com/gravitational/trace"

	"github.com/appointly/booking-client/lib/logger"
)

// maxDrainBytes bounds how much of a 401 body is read so the connection can be
// reused.
const maxDrainBytes = 4 << 10

// Transport is an http.RoundTripper running every request through
// authenticate, send and on-failure-handle stages.
type Transport struct {
	next          http.RoundTripper
	authenticator *Authenticator
	coordinator   *Coordinator
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	p, err := NewPendingRequest(req)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return t.Send(p)
}

// Send authenticates and sends p. A 401 answer is handed to the coordinator and
// never reaches the caller; any other response is returned as is.
func (t *Transport) Send(p PendingRequest) (*http.Response, error) {
	sent, err := t.authenticator.Authenticate(p)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	resp, err := t.next.RoundTrip(sent.Request())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	io.CopyN(io.Discard, resp.Body, maxDrainBytes)
	resp.Body.Close()

	logger.Get(sent.Context()).WithFields(logger.Fields{
		"request_id": sent.RequestID(),
		"method":     sent.Method(),
		"path":       sent.URL().Path,
		"attempt":    sent.Attempt(),
	}).Debug("Request was not authorized")

	return t.coordinator.HandleUnauthorized(sent)
}

var _ http.RoundTripper = &Transport{}
