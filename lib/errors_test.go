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

package lib

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestIsCanceled(t *testing.T) {
	wrapped := trace.Wrap(&url.Error{Op: "Get", URL: "http://localhost", Err: context.Canceled})
	require.True(t, IsCanceled(wrapped))
	require.False(t, IsDeadline(wrapped))

	require.True(t, IsDeadline(trace.Wrap(fmt.Errorf("waiting: %w", context.DeadlineExceeded))))
	require.False(t, IsCanceled(trace.NotFound("nope")))
	require.False(t, IsCanceled(nil))
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf, "booking-cli", "1.2.0", "abc123")
	require.Contains(t, buf.String(), "booking-cli v1.2.0 git:abc123")

	buf.Reset()
	PrintVersion(&buf, "booking-cli", "1.2.0", "")
	require.NotContains(t, buf.String(), "git:")
}
