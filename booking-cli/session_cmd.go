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
	"strconv"
	"time"

	"github.com/gravitational/trace"

	"github.com/appointly/booking-client/client/booking"
	"github.com/appointly/booking-client/lib"
)

// VersionCmd prints the version
type VersionCmd struct{}

// Run implements the command
func (c *VersionCmd) Run(app *App) error {
	lib.PrintVersion(app.out, appName, Version, Gitref)
	return nil
}

// LoginCmd logs in and keeps the session
type LoginCmd struct {
	// Username is the account name
	Username string `arg:"true" help:"Username" required:"true"`

	// PasswordFile is read instead of prompting
	PasswordFile string `help:"Read the password from a file instead of prompting" type:"existingfile" env:"BOOKING_PASSWORD_FILE"`
}

// Run implements the command
func (c *LoginCmd) Run(app *App) error {
	password, err := readSecret(app, c.PasswordFile, "Password")
	if err != nil {
		return trace.Wrap(err)
	}

	if err := app.auth.Login(app.Context(), c.Username, password); err != nil {
		if trace.IsAccessDenied(err) {
			return trace.AccessDenied("invalid username or password")
		}
		return trace.Wrap(err)
	}

	profile, err := app.booking.Profile(app.Context())
	if err != nil {
		return trace.Wrap(err)
	}
	app.printf("Logged in as %s (%s).\n", profile.Username, profile.Role())
	return nil
}

// LogoutCmd drops the session
type LogoutCmd struct{}

// Run implements the command
func (c *LogoutCmd) Run(app *App) error {
	if err := app.auth.Logout(app.Context()); err != nil {
		return trace.Wrap(err)
	}
	app.printf("Logged out.\n")
	return nil
}

// WhoamiCmd prints the logged in user and the state of the session
type WhoamiCmd struct{}

// Run implements the command
func (c *WhoamiCmd) Run(app *App) error {
	profile, err := app.booking.Profile(app.Context())
	if err != nil {
		return trace.Wrap(err)
	}

	rows := [][]string{
		{"Username", profile.Username},
		{"Name", fullName(profile.FirstName, profile.LastName)},
		{"Email", profile.Email},
		{"Role", string(profile.Role())},
	}

	// The profile call may have renewed the session, so read it afterwards.
	session, err := app.auth.Session(app.Context())
	if err != nil {
		return trace.Wrap(err)
	}
	if claims, err := booking.ParseClaims(session.AccessToken); err == nil && claims.ExpiresAt != nil {
		rows = append(rows, []string{"Access token expires", claims.ExpiresAt.Time.Local().Format(time.RFC1123)})
	}

	app.table([]string{"Field", "Value"}, rows)
	return nil
}

// SignupCmd registers a patient account
type SignupCmd struct {
	Username           string `arg:"true" help:"Username" required:"true"`
	Email              string `help:"Email address" required:"true"`
	FirstName          string `help:"First name" required:"true"`
	LastName           string `help:"Last name" required:"true"`
	Gender             string `help:"Gender"`
	DOB                string `help:"Date of birth, YYYY-MM-DD" name:"dob"`
	Phone              string `help:"Phone number"`
	BloodGroup         string `help:"Blood group"`
	ChronicConditions  string `help:"Chronic conditions"`
	Allergies          string `help:"Allergies"`
	CurrentMedications string `help:"Current medications"`
	EmergencyContact   string `help:"Emergency contact"`
	PasswordFile       string `help:"Read the password from a file instead of prompting" type:"existingfile" env:"BOOKING_PASSWORD_FILE"`
}

// Run implements the command
func (c *SignupCmd) Run(app *App) error {
	password, err := readSecret(app, c.PasswordFile, "Password")
	if err != nil {
		return trace.Wrap(err)
	}

	patient, err := app.booking.RegisterPatient(app.Context(), booking.PatientRegistration{
		User: booking.RegistrationUser{
			Username: c.Username,
			Email:    c.Email,
			Password: password,
		},
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		Gender:             c.Gender,
		DOB:                c.DOB,
		Phone:              c.Phone,
		BloodGroup:         c.BloodGroup,
		ChronicConditions:  c.ChronicConditions,
		Allergies:          c.Allergies,
		CurrentMedications: c.CurrentMedications,
		EmergencyContact:   c.EmergencyContact,
	})
	if err != nil {
		return trace.Wrap(err)
	}
	app.printf("Registered patient %s. Log in with `booking-cli login %s`.\n", patient.User.Username, patient.User.Username)
	return nil
}

func readSecret(app *App, filename, label string) (string, error) {
	if filename != "" {
		secret, err := lib.ReadPassword(filename)
		return secret, trace.Wrap(err)
	}
	secret, err := app.prompt(label)
	return secret, trace.Wrap(err)
}

func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
