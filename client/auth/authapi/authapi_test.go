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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gravitational/trace"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/suite"

	. "github.com/appointly/booking-client/lib/testing"
)

type AuthAPISuite struct {
	Suite

	// Request parameters
	username     string
	password     string
	refreshToken string

	// Response parameters
	loginAccessToken    string
	loginRefreshToken   string
	refreshedAccess     string
	rotatedRefreshToken string

	loginStatus   int
	refreshStatus int
	refreshBody   string

	srv    *httptest.Server
	client *Client
}

func TestAuthAPI(t *testing.T) { suite.Run(t, &AuthAPISuite{}) }

func (s *AuthAPISuite) SetupSuite() {
	s.username = "alice"
	s.password = "my-password"
	s.refreshToken = "my-refresh-token1"
	s.loginAccessToken = "my-access-token1"
	s.loginRefreshToken = "my-refresh-token1"
	s.refreshedAccess = "my-access-token2"

	login := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.Require().Equal("application/json", r.Header.Get("Content-Type"))
		var req LoginRequest
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))

		w.Header().Add("Content-Type", "application/json")
		if s.loginStatus != 0 {
			w.WriteHeader(s.loginStatus)
			w.Write([]byte(`{"detail": "No active account found with the given credentials"}`))
			return
		}
		s.Require().Equal(s.username, req.Username)
		s.Require().Equal(s.password, req.Password)
		err := json.NewEncoder(w).Encode(TokenResponse{Access: s.loginAccessToken, Refresh: s.loginRefreshToken})
		s.Require().NoError(err)
	}

	refresh := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req RefreshRequest
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		s.Require().Equal(s.refreshToken, req.Refresh)

		w.Header().Add("Content-Type", "application/json")
		if s.refreshStatus != 0 {
			w.WriteHeader(s.refreshStatus)
			w.Write([]byte(s.refreshBody))
			return
		}
		err := json.NewEncoder(w).Encode(TokenResponse{Access: s.refreshedAccess, Refresh: s.rotatedRefreshToken})
		s.Require().NoError(err)
	}

	router := httprouter.New()
	router.POST("/api/auth/", login)
	router.POST("/api/auth/refresh/", refresh)

	s.srv = httptest.NewServer(router)

	client, err := NewClient(s.srv.URL+"/api", time.Second)
	s.Require().NoError(err)
	s.client = client
}

func (s *AuthAPISuite) SetupTest() {
	s.loginStatus = 0
	s.refreshStatus = 0
	s.refreshBody = ""
	s.rotatedRefreshToken = ""
}

func (s *AuthAPISuite) TearDownSuite() {
	s.srv.Close()
}

func (s *AuthAPISuite) TestLoginOK() {
	session, err := s.client.Login(s.Ctx(), s.username, s.password)
	s.Require().NoError(err)
	s.Require().Equal(s.loginAccessToken, session.AccessToken)
	s.Require().Equal(s.loginRefreshToken, session.RefreshToken)
}

func (s *AuthAPISuite) TestLoginInvalidCredentials() {
	s.loginStatus = http.StatusUnauthorized
	_, err := s.client.Login(s.Ctx(), s.username, "wrong")
	s.Require().Error(err)
	s.Require().True(trace.IsAccessDenied(err))
	s.Require().ErrorContains(err, "No active account found")
}

func (s *AuthAPISuite) TestLoginServerError() {
	s.loginStatus = http.StatusBadGateway
	_, err := s.client.Login(s.Ctx(), s.username, s.password)
	s.Require().True(trace.IsConnectionProblem(err))
}

func (s *AuthAPISuite) TestLoginMissingCredentials() {
	_, err := s.client.Login(s.Ctx(), s.username, "")
	s.Require().True(trace.IsBadParameter(err))
}

func (s *AuthAPISuite) TestRefreshOK() {
	session, err := s.client.Refresh(s.Ctx(), s.refreshToken)
	s.Require().NoError(err)
	s.Require().Equal(s.refreshedAccess, session.AccessToken)
	s.Require().Equal(s.refreshToken, session.RefreshToken)
}

func (s *AuthAPISuite) TestRefreshRotated() {
	s.rotatedRefreshToken = "my-refresh-token2"
	session, err := s.client.Refresh(s.Ctx(), s.refreshToken)
	s.Require().NoError(err)
	s.Require().Equal(s.refreshedAccess, session.AccessToken)
	s.Require().Equal(s.rotatedRefreshToken, session.RefreshToken)
}

func (s *AuthAPISuite) TestRefreshRejected() {
	s.refreshStatus = http.StatusUnauthorized
	s.refreshBody = `{"detail": "Token is invalid or expired", "code": "token_not_valid"}`
	_, err := s.client.Refresh(s.Ctx(), s.refreshToken)
	s.Require().True(trace.IsAccessDenied(err))
	s.Require().ErrorContains(err, "Token is invalid or expired")
}

func (s *AuthAPISuite) TestRefreshServerError() {
	s.refreshStatus = http.StatusServiceUnavailable
	s.refreshBody = "upstream unavailable"
	_, err := s.client.Refresh(s.Ctx(), s.refreshToken)
	s.Require().True(trace.IsConnectionProblem(err))
	s.Require().ErrorContains(err, http.StatusText(http.StatusServiceUnavailable))
}

func (s *AuthAPISuite) TestRefreshUnreachable() {
	client, err := NewClient("http://127.0.0.1:1/api/", 100*time.Millisecond)
	s.Require().NoError(err)
	_, err = client.Refresh(s.Ctx(), s.refreshToken)
	s.Require().True(trace.IsConnectionProblem(err))
}
