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

package testing

import (
	"context"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/appointly/booking-client/lib/logger"
	"github.com/appointly/booking-client/lib/testing/fakeapi"
)

const defaultTestTimeout = 10 * time.Second

// Suite is the base of the test suites talking to a fake API.
type Suite struct {
	suite.Suite
	ctx context.Context
}

// SetContext sets the context of the current test. It is cancelled when the
// test ends.
func (s *Suite) SetContext(timeout time.Duration) context.Context {
	t := s.T()
	t.Helper()

	require.Nil(t, s.ctx, "Context cannot be set twice")

	ctx, _ := logger.WithField(context.Background(), "test", t.Name())
	ctx, cancel := context.WithTimeout(ctx, timeout)
	t.Cleanup(func() {
		cancel()
		s.ctx = nil
	})
	s.ctx = ctx
	return ctx
}

// Ctx returns the context of the current test.
func (s *Suite) Ctx() context.Context {
	t := s.T()
	t.Helper()

	if ctx := s.ctx; ctx != nil {
		return ctx
	}
	return s.SetContext(defaultTestTimeout)
}

// NewFakeAPI starts a fake API that is closed when the current test ends.
func (s *Suite) NewFakeAPI(conf fakeapi.Config) *fakeapi.Server {
	t := s.T()
	t.Helper()

	api, err := fakeapi.New(conf)
	require.NoError(t, err)
	t.Cleanup(api.Close)
	return api
}

// NewTmpDir returns a directory removed when the current test ends.
func (s *Suite) NewTmpDir() string {
	return s.T().TempDir()
}
