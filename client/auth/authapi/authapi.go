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

package authapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gravitational/trace"
	"github.com/tidwall/gjson"

	"github.com/appointly/booking-client/client/auth/state"
	"github.com/appointly/booking-client/lib"
)

// DefaultHTTPTimeout bounds a single login or refresh call.
const DefaultHTTPTimeout = 10 * time.Second

const (
	loginPath   = "auth/"
	refreshPath = "auth/refresh/"

	authMaxConns = 10
)

// Authorizer is the full authentication contract of the booking API.
type Authorizer interface {
	Exchanger
	Refresher
}

// Exchanger trades user credentials for a session.
type Exchanger interface {
	Login(ctx context.Context, username, password string) (*state.Session, error)
}

// Refresher mints a new access token from a refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*state.Session, error)
}

// LoginRequest is the body of POST /auth/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenResponse is returned by both endpoints. Refresh is empty when the
// refresh endpoint does not rotate the refresh token.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Client implements Authorizer on top of resty. Its requests never pass through
// the authenticating transport.
type Client struct {
	client *resty.Client
}

// NewClient returns a client for the API rooted at apiURL.
func NewClient(apiURL string, timeout time.Duration) (*Client, error) {
	baseURL, err := lib.AddrToURL(apiURL)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return newClient(makeAuthClient(baseURL.String(), timeout)), nil
}

func newClient(client *resty.Client) *Client {
	return &Client{client: client}
}

func makeAuthClient(apiURL string, timeout time.Duration) *resty.Client {
	client := resty.
		NewWithClient(&http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxConnsPerHost:     authMaxConns,
				MaxIdleConnsPerHost: authMaxConns,
			},
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBaseURL(apiURL)
	client.JSONMarshal = lib.MarshalJSON
	client.JSONUnmarshal = lib.UnmarshalJSON
	return client
}

// Login implements Exchanger
func (c *Client) Login(ctx context.Context, username, password string) (*state.Session, error) {
	if username == "" || password == "" {
		return nil, trace.BadParameter("username and password are required")
	}

	var result TokenResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(LoginRequest{Username: username, Password: password}).
		SetResult(&result).
		Post(loginPath)
	if err != nil {
		return nil, trace.ConnectionProblem(err, "login request failed")
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return nil, trace.ConnectionProblem(nil, "login failed with status %d: %s", resp.StatusCode(), describeError(resp))
	}
	if resp.IsError() {
		return nil, trace.AccessDenied("invalid credentials: %s", describeError(resp))
	}
	if result.Access == "" || result.Refresh == "" {
		return nil, trace.BadParameter("login response is missing tokens")
	}

	return &state.Session{
		AccessToken:  result.Access,
		RefreshToken: result.Refresh,
	}, nil
}

// Refresh implements Refresher.
// The returned session keeps refreshToken unless the server rotated it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*state.Session, error) {
	if refreshToken == "" {
		return nil, trace.BadParameter("missing refresh token")
	}

	var result TokenResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(RefreshRequest{Refresh: refreshToken}).
		SetResult(&result).
		Post(refreshPath)
	if err != nil {
		return nil, trace.ConnectionProblem(err, "token refresh request failed")
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return nil, trace.ConnectionProblem(nil, "token refresh failed with status %d: %s", resp.StatusCode(), describeError(resp))
	}
	if resp.IsError() {
		return nil, trace.AccessDenied("refresh token rejected: %s", describeError(resp))
	}
	if result.Access == "" {
		return nil, trace.BadParameter("refresh response is missing the access token")
	}

	session := &state.Session{
		AccessToken:  result.Access,
		RefreshToken: refreshToken,
	}
	if result.Refresh != "" {
		session.RefreshToken = result.Refresh
	}
	return session, nil
}

// describeError extracts the server's explanation from an error body.
// The booking API answers with {"detail": "..."} in most cases.
func describeError(resp *resty.Response) string {
	body := resp.Body()
	if gjson.ValidBytes(body) {
		for _, path := range []string{"detail", "error", "message", "non_field_errors.0"} {
			if value := gjson.GetBytes(body, path); value.Exists() && value.String() != "" {
				return value.String()
			}
		}
	}
	return http.StatusText(resp.StatusCode())
}

var _ Authorizer = &Client{}
