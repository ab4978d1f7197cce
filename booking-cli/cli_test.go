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

package main

import (
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"

	"github.com/appointly/booking-client/client/auth/state"
	"github.com/appointly/booking-client/lib/logger"
)

func TestCLIConfig(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		env  map[string]string

		wantAPI     APIConfig
		wantSession SessionConfig
		wantLog     LogConfig
		wantDebug   bool
		wantCommand string
	}{
		{
			name: "defaults",
			args: []string{"appointments", "list"},
			wantAPI: APIConfig{
				APIURL:     "http://localhost:8000/api/",
				APITimeout: 10 * time.Second,
			},
			wantSession: SessionConfig{SessionDriver: "disk"},
			wantLog:     LogConfig{LogOutput: "stderr", LogSeverity: "warn"},
			wantCommand: "appointments list",
		},
		{
			name: "config file",
			args: []string{"--config", "testdata/config.toml", "whoami"},
			wantAPI: APIConfig{
				APIURL:     "https://booking.example.com/api/",
				APITimeout: 30 * time.Second,
			},
			wantSession: SessionConfig{SessionDriver: "redis", SessionRedisAddr: "localhost:6379"},
			wantLog:     LogConfig{LogOutput: "stdout", LogSeverity: "info"},
			wantDebug:   true,
			wantCommand: "whoami",
		},
		{
			name: "flags override the config file",
			args: []string{"--config", "testdata/config.toml", "--api-url", "http://127.0.0.1:9000/api/", "--session-driver", "memory", "doctors", "show", "7"},
			wantAPI: APIConfig{
				APIURL:     "http://127.0.0.1:9000/api/",
				APITimeout: 30 * time.Second,
			},
			wantSession: SessionConfig{SessionDriver: "memory", SessionRedisAddr: "localhost:6379"},
			wantLog:     LogConfig{LogOutput: "stdout", LogSeverity: "info"},
			wantDebug:   true,
			wantCommand: "doctors show <id>",
		},
		{
			name: "environment",
			args: []string{"logout"},
			env:  map[string]string{"BOOKING_API_URL": "http://api.internal/api/", "BOOKING_SESSION_DIR": "/tmp/booking"},
			wantAPI: APIConfig{
				APIURL:     "http://api.internal/api/",
				APITimeout: 10 * time.Second,
			},
			wantSession: SessionConfig{SessionDriver: "disk", SessionDir: "/tmp/booking"},
			wantLog:     LogConfig{LogOutput: "stderr", LogSeverity: "warn"},
			wantCommand: "logout",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			cli := CLI{}
			parser, err := kong.New(
				&cli,
				kong.UsageOnError(),
				kong.Configuration(KongTOMLResolver),
				kong.Name(appName),
				kong.Description(appDescription),
			)
			require.NoError(t, err)
			kctx, err := parser.Parse(tc.args)
			require.NoError(t, err)

			require.Equal(t, tc.wantCommand, kctx.Command())
			require.Equal(t, tc.wantAPI, cli.APIConfig)
			require.Equal(t, tc.wantSession, cli.SessionConfig)
			require.Equal(t, tc.wantLog, cli.LogConfig)
			require.Equal(t, tc.wantDebug, cli.Debug)
		})
	}
}

func TestCLIValidate(t *testing.T) {
	cli := CLI{
		APIConfig:     APIConfig{APIURL: "http://localhost:8000/api/", APITimeout: time.Second},
		SessionConfig: SessionConfig{SessionDriver: state.DriverRedis},
	}
	require.True(t, trace.IsBadParameter(cli.Validate()))

	cli.SessionRedisAddr = "localhost:6379"
	require.NoError(t, cli.Validate())

	cli.APIURL = ""
	require.Error(t, cli.Validate())
}

func TestLoggerConfig(t *testing.T) {
	cli := CLI{LogConfig: LogConfig{LogOutput: "stdout", LogSeverity: "warn"}}
	require.Equal(t, logger.Config{Output: "stdout", Severity: "warn"}, cli.LoggerConfig())

	cli.Debug = true
	require.Equal(t, "debug", cli.LoggerConfig().Severity)
}
