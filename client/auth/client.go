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
	"net/http"
	"time"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/appointly/booking-client/client/auth/authapi"
	"github.com/appointly/booking-client/client/auth/state"
	"github.com/appointly/booking-client/lib/logger"
)

// Config configures a Client.
type Config struct {
	// APIURL is the base URL of the API. Ignored when Authorizer is set.
	APIURL string
	// Timeout bounds each request sent through HTTPClient.
	Timeout time.Duration
	// RefreshTimeout bounds a session renewal.
	RefreshTimeout time.Duration
	// Store keeps the session.
	Store state.Store
	// Authorizer performs login and renewal calls.
	Authorizer authapi.Authorizer
	// Transport sends the requests. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	// OnInvalidate is called when the session has been torn down.
	OnInvalidate InvalidateFunc
	// Clock is used for the renewal timestamps.
	Clock clockwork.Clock
	// Registerer receives the Prometheus counters when set.
	Registerer prometheus.Registerer
}

// CheckAndSetDefaults validates the config and fills in the defaults.
func (c *Config) CheckAndSetDefaults() error {
	if c.Store == nil {
		return trace.BadParameter("missing session store")
	}
	if c.Authorizer == nil && c.APIURL == "" {
		return trace.BadParameter("missing API URL")
	}
	if c.Timeout <= 0 {
		c.Timeout = authapi.DefaultHTTPTimeout
	}
	if c.RefreshTimeout <= 0 {
		c.RefreshTimeout = DefaultRefreshTimeout
	}
	if c.Transport == nil {
		c.Transport = http.DefaultTransport
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}

// Client owns the session of one user and an HTTP client authenticated with it.
type Client struct {
	store       state.Store
	authorizer  authapi.Authorizer
	coordinator *Coordinator
	httpClient  *http.Client
}

// NewClient wires the store, the authenticator, the coordinator and the
// invalidator into an authenticating transport.
func NewClient(conf Config) (*Client, error) {
	if err := conf.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}

	authorizer := conf.Authorizer
	if authorizer == nil {
		var err error
		authorizer, err = authapi.NewClient(conf.APIURL, conf.Timeout)
		if err != nil {
			return nil, trace.Wrap(err)
		}
	}

	metrics, err := NewMetrics(conf.Registerer)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	coordinator := &Coordinator{
		store:          conf.Store,
		refresher:      authorizer,
		invalidator:    NewInvalidator(conf.Store, conf.OnInvalidate),
		clock:          conf.Clock,
		metrics:        metrics,
		refreshTimeout: conf.RefreshTimeout,
	}
	transport := &Transport{
		next:          conf.Transport,
		authenticator: NewAuthenticator(conf.Store),
		coordinator:   coordinator,
	}
	coordinator.sender = transport

	return &Client{
		store:       conf.Store,
		authorizer:  authorizer,
		coordinator: coordinator,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   conf.Timeout,
		},
	}, nil
}

// Login exchanges the credentials for a session and stores it.
func (c *Client) Login(ctx context.Context, username, password string) error {
	session, err := c.authorizer.Login(ctx, username, password)
	if err != nil {
		return trace.Wrap(err)
	}

	// A renewal of the previous session must not overwrite the new one.
	if _, err := c.coordinator.Cancel(ctx, "logged in again", *session); err != nil {
		return trace.Wrap(err)
	}
	logger.Get(ctx).WithField("username", username).Info("Logged in")
	return nil
}

// Logout drops the session. Requests waiting for a renewal are rejected.
// The invalidation callback is not called.
func (c *Client) Logout(ctx context.Context) error {
	n, err := c.coordinator.Cancel(ctx, "logged out", state.Session{})
	if n > 0 {
		logger.Get(ctx).WithField("rejected", n).Debug("Rejected requests waiting for session renewal")
	}
	return trace.Wrap(err)
}

// Session returns the stored session.
func (c *Client) Session(ctx context.Context) (state.Session, error) {
	session, err := c.store.GetSession(ctx)
	return session, trace.Wrap(err)
}

// HTTPClient returns the client whose requests are authenticated.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Coordinator returns the renewal coordinator.
func (c *Client) Coordinator() *Coordinator {
	return c.coordinator
}
