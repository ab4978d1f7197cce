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
	"time"

	"github.com/alecthomas/kong"
	"github.com/gravitational/trace"

	"github.com/appointly/booking-client/client/auth/state"
	"github.com/appointly/booking-client/lib"
	"github.com/appointly/booking-client/lib/logger"
)

// APIConfig is the booking API connection configuration
type APIConfig struct {
	// APIURL is the API base URL
	APIURL string `help:"Booking API URL" default:"http://localhost:8000/api/" env:"BOOKING_API_URL" name:"api-url"`

	// APITimeout bounds a single request
	APITimeout time.Duration `help:"HTTP request timeout" default:"10s" env:"BOOKING_API_TIMEOUT" name:"api-timeout"`
}

// SessionConfig is the session store configuration
type SessionConfig struct {
	// SessionDriver selects the store
	SessionDriver string `help:"Session store driver" enum:"disk,memory,redis" default:"disk" env:"BOOKING_SESSION_DRIVER" name:"session-driver"`

	// SessionDir is where the disk driver keeps the credentials
	SessionDir string `help:"Session directory, ~/.booking/session by default" env:"BOOKING_SESSION_DIR" name:"session-dir"`

	// SessionRedisAddr is the address of the redis server
	SessionRedisAddr string `help:"Redis address used by the redis driver" env:"BOOKING_SESSION_REDIS_ADDR" name:"session-redis-addr"`
}

// LogConfig is the logging configuration
type LogConfig struct {
	// LogOutput is stderr, stdout or a file path
	LogOutput string `help:"Log output: stderr, stdout or a file path" default:"stderr" env:"BOOKING_LOG_OUTPUT" name:"log-output"`

	// LogSeverity is the minimum logged severity
	LogSeverity string `help:"Log severity" default:"warn" env:"BOOKING_LOG_SEVERITY" name:"log-severity"`
}

// CLI represents command structure
type CLI struct {
	// Config is the path to configuration file
	Config kong.ConfigFlag `help:"Path to TOML configuration file" optional:"true" type:"existingfile" env:"BOOKING_CONFIG"`

	// Debug is a debug logging mode flag
	Debug bool `help:"Debug logging" short:"d"`

	APIConfig
	SessionConfig
	LogConfig

	// Version is the version print command
	Version VersionCmd `cmd:"true" help:"Print version"`

	// Login is the login command
	Login LoginCmd `cmd:"true" help:"Log in and keep the session"`

	// Logout is the logout command
	Logout LogoutCmd `cmd:"true" help:"Drop the session"`

	// Whoami prints the logged in user
	Whoami WhoamiCmd `cmd:"true" help:"Show the logged in user"`

	// Signup registers a patient
	Signup SignupCmd `cmd:"true" help:"Register a new patient account"`

	// Dashboard prints the overview of the logged in user
	Dashboard DashboardCmd `cmd:"true" help:"Show the dashboard of the logged in user"`

	// Doctors groups the doctor commands
	Doctors DoctorsCmd `cmd:"true" help:"Manage doctors"`

	// Patients groups the patient commands
	Patients PatientsCmd `cmd:"true" help:"Manage patients"`

	// Appointments groups the appointment commands
	Appointments AppointmentsCmd `cmd:"true" help:"Browse and book appointments"`
}

// StoreConfig converts the session flags to the store configuration
func (c *CLI) StoreConfig() state.Config {
	return state.Config{
		Driver:    c.SessionDriver,
		Dir:       c.SessionDir,
		RedisAddr: c.SessionRedisAddr,
	}
}

// LoggerConfig converts the log flags to the logger configuration
func (c *CLI) LoggerConfig() logger.Config {
	conf := logger.Config{
		Output:   c.LogOutput,
		Severity: c.LogSeverity,
	}
	if c.Debug {
		conf.Severity = "debug"
	}
	return conf
}

// Validate checks the flags
func (c *CLI) Validate() error {
	if _, err := lib.AddrToURL(c.APIURL); err != nil {
		return trace.Wrap(err, "invalid API URL")
	}
	if c.APITimeout <= 0 {
		return trace.BadParameter("API timeout must be positive")
	}
	storeConf := c.StoreConfig()
	return trace.Wrap(storeConf.CheckAndSetDefaults())
}
