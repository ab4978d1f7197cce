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

package logger

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(Init)

	require.NoError(t, Setup(Config{Output: "stdout", Severity: "WARN"}))
	require.Equal(t, log.WarnLevel, log.GetLevel())

	require.NoError(t, Setup(Config{}))
	require.Equal(t, log.InfoLevel, log.GetLevel())

	logFile := filepath.Join(t.TempDir(), "client.log")
	require.NoError(t, Setup(Config{Output: logFile, Severity: "debug"}))
	require.Equal(t, log.DebugLevel, log.GetLevel())
	require.FileExists(t, logFile)

	err := Setup(Config{Severity: "loud"})
	require.True(t, trace.IsBadParameter(err))

	err = Setup(Config{Output: filepath.Join(t.TempDir(), "missing", "client.log")})
	require.Error(t, err)
}

func TestContextFields(t *testing.T) {
	t.Cleanup(Init)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true, DisableColors: true})

	ctx := context.Background()
	require.Equal(t, Standard(), Get(ctx))

	ctx = SetField(ctx, "user", "alice")
	ctx = SetFields(ctx, Fields{"request_id": "42"})
	Get(ctx).Info("sent")

	out := buf.String()
	require.Contains(t, out, "user=alice")
	require.Contains(t, out, "request_id=42")
	require.Contains(t, out, `msg=sent`)

	// The parent context keeps its logger.
	buf.Reset()
	Get(context.Background()).Info("plain")
	require.NotContains(t, buf.String(), "user=alice")
}
