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
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/gravitational/trace"
)

const (
	authorizationHeader = "Authorization"
	requestIDHeader     = "X-Request-ID"
)

// PendingRequest is one attempt of an outbound call. It carries everything
// needed to send the call again: the original request with its body buffered
// and its credential stripped. Values are never modified after construction;
// every stage derives a new one.
type PendingRequest struct {
	original   *http.Request
	header     http.Header
	body       []byte
	hasBody    bool
	credential string
	requestID  string
	attempt    int
}

// NewPendingRequest buffers the body of req and closes it.
func NewPendingRequest(req *http.Request) (PendingRequest, error) {
	p := PendingRequest{
		original:  req,
		header:    req.Header.Clone(),
		requestID: req.Header.Get(requestIDHeader),
	}
	if p.header == nil {
		p.header = make(http.Header)
	}
	p.header.Del(authorizationHeader)

	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return PendingRequest{}, trace.Wrap(err, "reading request body")
		}
		p.body = body
		p.hasBody = true
	}
	return p, nil
}

// Context returns the caller's context.
func (p PendingRequest) Context() context.Context {
	return p.original.Context()
}

// Method returns the HTTP method.
func (p PendingRequest) Method() string {
	return p.original.Method
}

// URL returns a copy of the request URL.
func (p PendingRequest) URL() *url.URL {
	u := *p.original.URL
	return &u
}

// Header returns a copy of the headers, without the credential.
func (p PendingRequest) Header() http.Header {
	return p.header.Clone()
}

// Body returns a copy of the buffered body.
func (p PendingRequest) Body() []byte {
	if !p.hasBody {
		return nil
	}
	return append([]byte{}, p.body...)
}

// Credential is the access token this attempt was stamped with. Empty means the
// attempt was sent unauthenticated.
func (p PendingRequest) Credential() string {
	return p.credential
}

// RequestID identifies the call across its attempts.
func (p PendingRequest) RequestID() string {
	return p.requestID
}

// Attempt is zero for the original send and one for the replay.
func (p PendingRequest) Attempt() int {
	return p.attempt
}

func (p PendingRequest) stamped(credential, requestID string) PendingRequest {
	p.credential = credential
	p.requestID = requestID
	return p
}

func (p PendingRequest) retry() PendingRequest {
	p.attempt++
	return p
}

// Request builds the *http.Request for this attempt.
func (p PendingRequest) Request() *http.Request {
	req := p.original.Clone(p.original.Context())
	req.Header = p.header.Clone()
	if p.credential != "" {
		req.Header.Set(authorizationHeader, "Bearer "+p.credential)
	}
	if p.requestID != "" {
		req.Header.Set(requestIDHeader, p.requestID)
	}

	if !p.hasBody {
		req.Body = nil
		req.GetBody = nil
		return req
	}
	body := p.body
	req.ContentLength = int64(len(body))
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	return req
}
