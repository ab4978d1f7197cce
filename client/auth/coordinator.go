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
	"sync"
	"time"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"

	"github.com/appointly/booking-client/client/auth/authapi"
	"github.com/appointly/booking-client/client/auth/state"
	"github.com/appointly/booking-client/lib/logger"
)

// DefaultRefreshTimeout bounds a session renewal.
const DefaultRefreshTimeout = 15 * time.Second

// Status is the state of the coordinator.
type Status int

const (
	// Idle means no renewal is in flight.
	Idle Status = iota
	// Refreshing means a renewal is in flight and 401 answers are queued.
	Refreshing
)

func (s Status) String() string {
	if s == Refreshing {
		return "refreshing"
	}
	return "idle"
}

// Stats are counters kept by the coordinator.
type Stats struct {
	RenewalsStarted   int
	RenewalsSucceeded int
	RenewalsFailed    int
	RenewalsCancelled int
	Replays           int
	LastRenewal       time.Time
}

// sender sends an attempt through the authenticating pipeline.
type sender interface {
	Send(p PendingRequest) (*http.Response, error)
}

type result struct {
	resp *http.Response
	err  error
}

type waiter struct {
	req  PendingRequest
	done chan result
}

// Coordinator reacts to 401 answers. It renews the session at most once at a
// time, queues every request that fails while the renewal is in flight and
// settles all of them with the renewal's outcome.
type Coordinator struct {
	store          state.Store
	refresher      authapi.Refresher
	invalidator    *Invalidator
	sender         sender
	clock          clockwork.Clock
	metrics        *Metrics
	refreshTimeout time.Duration

	mu            sync.Mutex // protects the below fields
	status        Status
	generation    uint64
	queue         []*waiter
	cancelRenewal context.CancelFunc
	condemned     string
	stats         Stats
}

// HandleUnauthorized is called with an attempt the server answered with 401.
// It blocks until the attempt is replayed or rejected, or ctx is done.
func (c *Coordinator) HandleUnauthorized(p PendingRequest) (*http.Response, error) {
	ctx := p.Context()
	log := logger.Get(ctx).WithField("request_id", p.RequestID())

	if p.Attempt() > 0 {
		log.Warn("Request was rejected again after the session was renewed")
		c.metrics.authFailure(AuthFailureTerminal, 1)
		c.condemn(ctx, p.Credential(), "request rejected after session renewal")
		return nil, newError(AuthFailureTerminal, nil, "request %s %s rejected after session renewal", p.Method(), p.URL().Path)
	}

	c.mu.Lock()
	session, err := c.store.GetSession(ctx)
	if err != nil {
		c.mu.Unlock()
		return nil, trace.Wrap(err)
	}

	if session.IsEmpty() {
		c.mu.Unlock()
		c.metrics.authFailure(Unauthenticated, 1)
		return nil, newError(Unauthenticated, nil, "no session, log in first")
	}

	// The session was renewed while this attempt was in flight.
	if c.status == Idle && session.AccessToken != p.Credential() {
		c.stats.Replays++
		c.mu.Unlock()
		log.Debug("Request carried an outdated access token, sending it again")
		c.metrics.replay()
		return c.sender.Send(p.retry())
	}

	w := &waiter{req: p.retry(), done: make(chan result, 1)}
	c.queue = append(c.queue, w)
	if c.status == Idle {
		c.startRenewalLocked(ctx, session.RefreshToken)
	}
	c.mu.Unlock()

	select {
	case res := <-w.done:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, trace.Wrap(ctx.Err())
	}
}

func (c *Coordinator) startRenewalLocked(ctx context.Context, refreshToken string) {
	c.status = Refreshing
	c.generation++
	c.stats.RenewalsStarted++
	c.metrics.renewal(renewalStarted)

	renewCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	c.cancelRenewal = cancel
	go c.renew(renewCtx, cancel, c.generation, refreshToken)
}

func (c *Coordinator) renew(ctx context.Context, cancel context.CancelFunc, generation uint64, refreshToken string) {
	defer cancel()
	log := logger.Get(ctx)
	log.Debug("Renewing session")

	session, err := c.refresher.Refresh(ctx, refreshToken)
	if err == nil {
		c.mu.Lock()
		if c.generation != generation {
			c.mu.Unlock()
			log.Debug("Renewal was cancelled, discarding its result")
			return
		}
		if err = c.store.PutSession(ctx, *session); err == nil {
			queue := c.takeQueueLocked()
			c.stats.RenewalsSucceeded++
			c.stats.LastRenewal = c.clock.Now()
			c.mu.Unlock()

			c.metrics.renewal(renewalSucceeded)
			log.WithField("queued", len(queue)).Info("Session renewed")
			c.replay(queue)
			return
		}
		c.mu.Unlock()
		err = trace.Wrap(err, "storing renewed session")
	}

	c.fail(ctx, generation, err)
}

// fail tears the session down and rejects the queue. The generation check and
// the clear happen under one lock so that a login or logout that cancelled this
// renewal is never undone by it. The coordinator stays in Refreshing until the
// store is cleared, so no new renewal starts with the refresh token that just
// failed.
func (c *Coordinator) fail(ctx context.Context, generation uint64, err error) {
	log := logger.Get(ctx)

	kind := RefreshTransportFailure
	if trace.IsAccessDenied(err) {
		kind = AuthFailureTerminal
	}

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		log.Debug("Renewal was cancelled, discarding its failure")
		return
	}
	log.WithError(err).Error("Failed to renew session")
	c.invalidator.clear(context.WithoutCancel(ctx), "session renewal failed")
	queue := c.takeQueueLocked()
	c.stats.RenewalsFailed++
	c.mu.Unlock()

	c.invalidator.notifyApp(context.WithoutCancel(ctx), "session renewal failed")
	c.metrics.renewal(renewalFailed)
	c.reject(queue, kind, newError(kind, err, "session renewal failed"))
}

// replay sends the queued requests again in the order they failed.
func (c *Coordinator) replay(queue []*waiter) {
	for _, w := range queue {
		if err := w.req.Context().Err(); err != nil {
			w.done <- result{err: trace.Wrap(err)}
			continue
		}

		c.mu.Lock()
		c.stats.Replays++
		c.mu.Unlock()
		c.metrics.replay()

		resp, err := c.sender.Send(w.req)
		w.done <- result{resp: resp, err: err}
	}
}

// condemn tears down the session a request was stamped with, once. A session
// that has already been replaced or cleared is left alone. A renewal in flight
// for the condemned session is cancelled so that it cannot bring it back.
func (c *Coordinator) condemn(ctx context.Context, credential, reason string) {
	if credential == "" {
		return
	}
	c.mu.Lock()
	session, err := c.store.GetSession(ctx)
	if err != nil || session.AccessToken != credential || c.condemned == credential {
		c.mu.Unlock()
		return
	}
	c.condemned = credential
	queue, cancelled := c.cancelLocked()
	c.invalidator.clear(ctx, reason)
	c.mu.Unlock()

	if cancelled {
		c.reject(queue, AuthFailureTerminal, newError(AuthFailureTerminal, nil, "session renewal cancelled: %s", reason))
	}
	c.invalidator.notifyApp(ctx, reason)
}

// Cancel aborts an in-flight renewal and replaces the stored session with
// next; an empty next clears it. Both happen under the coordinator lock, so
// the renewal's outcome is discarded and cannot overwrite next. The queued
// requests are rejected at once. It returns the number of rejected requests.
func (c *Coordinator) Cancel(ctx context.Context, reason string, next state.Session) (int, error) {
	c.mu.Lock()
	queue, cancelled := c.cancelLocked()
	var err error
	if next.IsEmpty() {
		err = c.store.ClearSession(ctx)
	} else {
		err = c.store.PutSession(ctx, next)
	}
	c.mu.Unlock()

	if cancelled {
		c.reject(queue, AuthFailureTerminal, newError(AuthFailureTerminal, nil, "session renewal cancelled: %s", reason))
	}
	return len(queue), trace.Wrap(err)
}

// cancelLocked bumps the generation and takes the queue if a renewal is in
// flight.
func (c *Coordinator) cancelLocked() ([]*waiter, bool) {
	if c.status != Refreshing {
		return nil, false
	}
	c.generation++
	c.stats.RenewalsCancelled++
	c.metrics.renewal(renewalCancelled)
	return c.takeQueueLocked(), true
}

func (c *Coordinator) reject(queue []*waiter, kind ErrorKind, err error) {
	c.metrics.authFailure(kind, len(queue))
	for _, w := range queue {
		w.done <- result{err: err}
	}
}

func (c *Coordinator) takeQueueLocked() []*waiter {
	queue := c.queue
	c.queue = nil
	c.status = Idle
	if c.cancelRenewal != nil {
		c.cancelRenewal()
		c.cancelRenewal = nil
	}
	return queue
}

// Status returns the current state.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Pending returns the number of queued requests.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Stats returns a snapshot of the counters.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
