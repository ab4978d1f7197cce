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

// Package fakeapi is an in-process fake of the booking API used by tests. It
// implements the authentication contract (login, refresh, bearer checks) and a
// small in-memory rendition of the business endpoints.
package fakeapi

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gravitational/trace"
	"github.com/julienschmidt/httprouter"
	limiter "github.com/sethvargo/go-limiter"
	"github.com/sethvargo/go-limiter/memorystore"

	"github.com/appointly/booking-client/client/booking"
	"github.com/appointly/booking-client/lib"
	"github.com/appointly/booking-client/lib/stringset"
)

const (
	accessTokenTTL  = 5 * time.Minute
	refreshTokenTTL = 24 * time.Hour

	defaultLoginAttempts = 5
)

// User is an account known to the fake.
type User struct {
	ID          int
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	IsStaff     bool
	IsSuperuser bool
}

// RecordedRequest is a protected API call as seen by the fake.
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Body          string
	Authorization string
	RequestID     string
	// Rejected is true when the call was answered with 401.
	Rejected bool
}

// Config tunes the fake.
type Config struct {
	// LoginAttempts is the number of logins allowed per username per minute.
	LoginAttempts uint64
}

// Server is the fake booking API.
type Server struct {
	srv        *httptest.Server
	signingKey []byte
	loginLimit limiter.Store

	mu            sync.Mutex
	nextID        int
	users         map[string]*User
	accessTokens  map[string]string // token -> username
	refreshTokens map[string]string // token -> username
	blacklist     stringset.StringSet
	rotateRefresh bool
	rejectAll     bool
	refreshStatus int
	refreshGate   *gate
	refreshCalls  int
	requests      []RecordedRequest

	doctors      map[int]*doctor
	patients     map[string]*booking.Patient // by username
	patientIDs   map[string]int
	appointments []booking.Appointment
}

// New starts a fake API server. Callers must Close it.
func New(conf Config) (*Server, error) {
	if conf.LoginAttempts == 0 {
		conf.LoginAttempts = defaultLoginAttempts
	}

	loginLimit, err := memorystore.New(&memorystore.Config{
		Tokens:   conf.LoginAttempts,
		Interval: time.Minute,
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, trace.Wrap(err)
	}

	s := &Server{
		signingKey:    key,
		loginLimit:    loginLimit,
		nextID:        1,
		users:         make(map[string]*User),
		accessTokens:  make(map[string]string),
		refreshTokens: make(map[string]string),
		blacklist:     stringset.New(),
		doctors:       make(map[int]*doctor),
		patients:      make(map[string]*booking.Patient),
		patientIDs:    make(map[string]int),
	}

	router := httprouter.New()
	router.POST("/api/auth/", s.login)
	router.POST("/api/auth/refresh/", s.refresh)
	router.POST("/api/register/patient/", s.registerPatient)

	router.GET("/api/profile/", s.protected(s.getProfile))
	router.PUT("/api/profile/", s.protected(s.putProfile))
	router.GET("/api/doctors/", s.protected(s.listDoctors))
	router.GET("/api/doctors/:id/", s.protected(s.staffOnly(s.getDoctor)))
	// httprouter does not allow a static segment next to a wildcard, so
	// POST /api/doctors/add/ is dispatched inside the wildcard route.
	router.POST("/api/doctors/:id/", s.protected(s.staffOnly(s.addDoctor)))
	router.PUT("/api/doctors/:id/edit/", s.protected(s.staffOnly(s.editDoctor)))
	router.DELETE("/api/doctors/:id/", s.protected(s.staffOnly(s.deleteDoctor)))
	router.GET("/api/patients/", s.protected(s.staffOnly(s.listPatients)))
	router.GET("/api/appointments/", s.protected(s.listAppointments))
	router.POST("/api/appointments/", s.protected(s.bookAppointment))
	router.GET("/api/appointments/available/", s.protected(s.availableSlots))

	s.srv = httptest.NewServer(router)
	return s, nil
}

// URL returns the API base URL, ending with "/api/".
func (s *Server) URL() string {
	return s.srv.URL + "/api/"
}

// Close stops the server and releases a held refresh, if any.
func (s *Server) Close() {
	s.mu.Lock()
	held := s.refreshGate
	s.refreshGate = nil
	s.mu.Unlock()
	if held != nil {
		held.open()
	}
	s.srv.Close()
}

// AddUser registers an account and returns its ID.
func (s *Server) AddUser(user User) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(user).ID
}

func (s *Server) addUserLocked(user User) *User {
	user.ID = s.nextID
	s.nextID++
	s.users[user.Username] = &user
	return &user
}

// IssueSession mints a credential pair for a user without going through login.
func (s *Server) IssueSession(username string) (access, refresh string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return "", "", trace.NotFound("user %q not found", username)
	}
	return s.issueLocked(user)
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTokens = make(map[string]string)
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens = make(map[string]string)
}

// SetRotateRefresh makes the refresh endpoint issue a new refresh token and
// revoke the presented one.
func (s *Server) SetRotateRefresh(rotate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotateRefresh = rotate
}

// SetRejectAll makes every protected endpoint answer 401 regardless of the token.
func (s *Server) SetRejectAll(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectAll = reject
}

// FailRefresh makes the refresh endpoint answer with the given status.
// Zero restores normal behavior.
func (s *Server) FailRefresh(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshStatus = status
}

// HoldRefresh makes refresh calls block until the returned func is called.
func (s *Server) HoldRefresh() (release func()) {
	held := &gate{ch: make(chan struct{})}
	s.mu.Lock()
	s.refreshGate = held
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		if s.refreshGate == held {
			s.refreshGate = nil
		}
		s.mu.Unlock()
		held.open()
	}
}

type gate struct {
	ch   chan struct{}
	once sync.Once
}

func (g *gate) open() {
	g.once.Do(func() { close(g.ch) })
}

// BlacklistedTokens returns the refresh tokens retired by rotation.
func (s *Server) BlacklistedTokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blacklist.Sorted()
}

// RefreshCalls returns the number of refresh calls received.
func (s *Server) RefreshCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

// Requests returns the protected calls received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// RejectedRequests returns how many protected calls were answered with 401.
func (s *Server) RejectedRequests() int {
	var n int
	for _, req := range s.Requests() {
		if req.Rejected {
			n++
		}
	}
	return n
}

func (s *Server) issueLocked(user *User) (string, string, error) {
	access, err := s.mint(user, "access", accessTokenTTL)
	if err != nil {
		return "", "", trace.Wrap(err)
	}
	refresh, err := s.mint(user, "refresh", refreshTokenTTL)
	if err != nil {
		return "", "", trace.Wrap(err)
	}
	s.accessTokens[access] = user.Username
	s.refreshTokens[refresh] = user.Username
	return access, refresh, nil
}

func (s *Server) mint(user *User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := booking.Claims{
		UserID:      user.ID,
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	return token, trace.Wrap(err)
}

func (s *Server) login(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(rw, http.StatusBadRequest, detail(err.Error()))
		return
	}

	_, _, _, ok, err := s.loginLimit.Take(r.Context(), req.Username)
	if err != nil {
		writeJSON(rw, http.StatusInternalServerError, detail(err.Error()))
		return
	}
	if !ok {
		writeJSON(rw, http.StatusTooManyRequests, detail("Too many login attempts"))
		return
	}

	s.mu.Lock()
	user, found := s.users[req.Username]
	if !found || user.Password != req.Password {
		s.mu.Unlock()
		writeJSON(rw, http.StatusUnauthorized, detail("No active account found with the given credentials"))
		return
	}
	access, refresh, err := s.issueLocked(user)
	s.mu.Unlock()
	if err != nil {
		writeJSON(rw, http.StatusInternalServerError, detail(err.Error()))
		return
	}

	writeJSON(rw, http.StatusOK, map[string]interface{}{
		"access":       access,
		"refresh":      refresh,
		"id":           user.ID,
		"username":     user.Username,
		"is_staff":     user.IsStaff,
		"is_superuser": user.IsSuperuser,
	})
}

func (s *Server) refresh(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	s.refreshCalls++
	held := s.refreshGate
	s.mu.Unlock()

	if held != nil {
		select {
		case <-held.ch:
		case <-r.Context().Done():
			return
		}
	}

	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(rw, http.StatusBadRequest, detail(err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshStatus != 0 {
		writeJSON(rw, s.refreshStatus, detail("Refresh is unavailable"))
		return
	}

	if s.blacklist.Contains(req.Refresh) {
		writeJSON(rw, http.StatusUnauthorized, map[string]string{
			"detail": "Token is blacklisted",
			"code":   "token_not_valid",
		})
		return
	}

	username, ok := s.refreshTokens[req.Refresh]
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
		return
	}
	user := s.users[username]

	access, err := s.mint(user, "access", accessTokenTTL)
	if err != nil {
		writeJSON(rw, http.StatusInternalServerError, detail(err.Error()))
		return
	}
	s.accessTokens[access] = username
	resp := map[string]string{"access": access}

	if s.rotateRefresh {
		refresh, err := s.mint(user, "refresh", refreshTokenTTL)
		if err != nil {
			writeJSON(rw, http.StatusInternalServerError, detail(err.Error()))
			return
		}
		delete(s.refreshTokens, req.Refresh)
		s.blacklist.Add(req.Refresh)
		s.refreshTokens[refresh] = username
		resp["refresh"] = refresh
	}

	writeJSON(rw, http.StatusOK, resp)
}

type protectedHandle func(rw http.ResponseWriter, r *http.Request, ps httprouter.Params, user *User)

// protected checks the bearer token and records the call.
func (s *Server) protected(handle protectedHandle) httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(rw, http.StatusBadRequest, detail(err.Error()))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		authorization := r.Header.Get("Authorization")
		token := strings.TrimPrefix(authorization, "Bearer ")

		s.mu.Lock()
		username, ok := s.accessTokens[token]
		ok = ok && token != "" && !s.rejectAll
		user := s.users[username]
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Body:          string(body),
			Authorization: authorization,
			RequestID:     r.Header.Get("X-Request-ID"),
			Rejected:      !ok,
		})
		s.mu.Unlock()

		if !ok {
			rw.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			writeJSON(rw, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		handle(rw, r, ps, user)
	}
}

func (s *Server) staffOnly(handle protectedHandle) protectedHandle {
	return func(rw http.ResponseWriter, r *http.Request, ps httprouter.Params, user *User) {
		if !user.IsStaff {
			writeJSON(rw, http.StatusForbidden, detail("You do not have permission to perform this action."))
			return
		}
		handle(rw, r, ps, user)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(lib.UnmarshalJSON(body, v))
}

func writeJSON(rw http.ResponseWriter, status int, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if v == nil {
		return
	}
	if body, err := lib.MarshalJSON(v); err == nil {
		rw.Write(body)
	}
}

func detail(message string) map[string]string {
	return map[string]string{"detail": message}
}

// WaitRequests blocks until the fake has seen at least n protected calls.
func (s *Server) WaitRequests(ctx context.Context, n int) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		if len(s.Requests()) >= n {
			return nil
		}
		select {
		case <-ctx.Done():
			return trace.Wrap(ctx.Err())
		case <-ticker.C:
		}
	}
}
