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

package booking_test

import (
	"net/http"
	"testing"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/appointly/booking-client/client/auth"
	"github.com/appointly/booking-client/client/auth/state"
	"github.com/appointly/booking-client/client/booking"
	. "github.com/appointly/booking-client/lib/testing"
	"github.com/appointly/booking-client/lib/testing/fakeapi"
)

const (
	adminName   = "admin"
	doctorName  = "house"
	patientName = "bob"
	password    = "s3cret"
	visitDate   = "2024-03-04"
)

type BookingSuite struct {
	Suite
	api      *fakeapi.Server
	auth     *auth.Client
	client   *booking.Client
	doctorID int
}

func TestBooking(t *testing.T) { suite.Run(t, &BookingSuite{}) }

func (s *BookingSuite) SetupTest() {
	t := s.T()

	s.api = s.NewFakeAPI(fakeapi.Config{})
	s.api.AddUser(fakeapi.User{
		Username:    adminName,
		Password:    password,
		IsStaff:     true,
		IsSuperuser: true,
	})
	s.doctorID = s.api.AddDoctor(fakeapi.User{
		Username:  doctorName,
		Password:  password,
		FirstName: "Gregory",
		LastName:  "House",
	}, booking.Doctor{
		Specialization: "Diagnostics",
		City:           "Princeton",
		WorkingStart:   "09:00",
		WorkingEnd:     "17:00",
	})
	s.api.AddPatient(fakeapi.User{
		Username:  patientName,
		Password:  password,
		FirstName: "Bob",
		LastName:  "Builder",
	}, booking.Patient{BloodGroup: "A+"})

	authClient, err := auth.NewClient(auth.Config{
		APIURL: s.api.URL(),
		Store:  state.NewMemoryStore(),
	})
	require.NoError(t, err)
	s.auth = authClient

	client, err := booking.NewClient(s.api.URL(), authClient.HTTPClient())
	require.NoError(t, err)
	s.client = client
}

func (s *BookingSuite) loginAs(username string) {
	require.NoError(s.T(), s.auth.Login(s.Ctx(), username, password))
}

func (s *BookingSuite) TestProfileRoles() {
	t := s.T()

	for username, role := range map[string]booking.Role{
		adminName:   booking.RoleAdmin,
		doctorName:  booking.RoleDoctor,
		patientName: booking.RolePatient,
	} {
		s.loginAs(username)
		profile, err := s.client.Profile(s.Ctx())
		require.NoError(t, err)
		require.Equal(t, username, profile.Username)
		require.Equal(t, role, profile.Role())
	}
}

func (s *BookingSuite) TestUpdateProfile() {
	t := s.T()

	s.loginAs(patientName)
	profile, err := s.client.UpdateProfile(s.Ctx(), booking.Profile{Email: "bob@example.com"})
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", profile.Email)
	require.Equal(t, "Bob", profile.FirstName)
}

func (s *BookingSuite) TestManageDoctors() {
	t := s.T()
	s.loginAs(adminName)

	added, err := s.client.AddDoctor(s.Ctx(), booking.DoctorInput{
		Username:        "wilson",
		Password:        password,
		FirstName:       "James",
		LastName:        "Wilson",
		Specialization:  "Oncology",
		WorkingStart:    "08:00",
		WorkingEnd:      "12:00",
		ExperienceYears: 12,
	})
	require.NoError(t, err)
	require.Equal(t, "James Wilson", added.DoctorName)
	require.Equal(t, 12, added.ExperienceYears)

	doctors, err := s.client.Doctors(s.Ctx())
	require.NoError(t, err)
	require.Len(t, doctors, 2)

	edited, err := s.client.EditDoctor(s.Ctx(), added.ID, booking.DoctorInput{City: "Plainsboro"})
	require.NoError(t, err)
	require.Equal(t, "Plainsboro", edited.City)
	require.Equal(t, "Oncology", edited.Specialization)

	fetched, err := s.client.Doctor(s.Ctx(), added.ID)
	require.NoError(t, err)
	require.Equal(t, "Plainsboro", fetched.City)

	require.NoError(t, s.client.DeleteDoctor(s.Ctx(), added.ID))
	_, err = s.client.Doctor(s.Ctx(), added.ID)
	require.True(t, booking.IsNotFound(err))

	_, err = s.client.AddDoctor(s.Ctx(), booking.DoctorInput{Username: doctorName, Password: password})
	apiErr, ok := booking.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "already exists")
}

func (s *BookingSuite) TestForbiddenIsPassedThrough() {
	t := s.T()
	s.loginAs(patientName)

	_, err := s.client.Patients(s.Ctx())
	apiErr, ok := booking.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.False(t, auth.IsAuthError(err))

	// A business failure leaves the session alone.
	session, err := s.auth.Session(s.Ctx())
	require.NoError(t, err)
	require.False(t, session.IsEmpty())
	require.Zero(t, s.api.RefreshCalls())
}

func (s *BookingSuite) TestBookAppointment() {
	t := s.T()
	s.loginAs(patientName)

	slots, err := s.client.AvailableSlots(s.Ctx(), s.doctorID, visitDate)
	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "11:00", "13:00", "15:00"}, slots.AvailableSlots)

	appt, err := s.client.BookAppointment(s.Ctx(), booking.AppointmentInput{Doctor: s.doctorID, Date: visitDate, Time: "11:00"})
	require.NoError(t, err)
	require.Equal(t, "Gregory House", appt.DoctorName)
	require.Equal(t, "Bob Builder", appt.PatientName)

	slots, err = s.client.AvailableSlots(s.Ctx(), s.doctorID, visitDate)
	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "13:00", "15:00"}, slots.AvailableSlots)

	_, err = s.client.BookAppointment(s.Ctx(), booking.AppointmentInput{Doctor: s.doctorID, Date: visitDate, Time: "11:00"})
	apiErr, ok := booking.AsAPIError(err)
	require.True(t, ok)
	require.Contains(t, apiErr.Message, "already booked")

	_, err = s.client.BookAppointment(s.Ctx(), booking.AppointmentInput{Doctor: s.doctorID, Date: visitDate, Time: "16:00"})
	apiErr, ok = booking.AsAPIError(err)
	require.True(t, ok)
	require.Contains(t, apiErr.Message, "outside the doctor's working hours")

	appointments, err := s.client.Appointments(s.Ctx())
	require.NoError(t, err)
	require.Len(t, appointments, 1)

	// The doctor sees the booking too.
	s.loginAs(doctorName)
	appointments, err = s.client.Appointments(s.Ctx())
	require.NoError(t, err)
	require.Len(t, appointments, 1)
}

func (s *BookingSuite) TestBookAfterExpiry() {
	t := s.T()
	s.loginAs(patientName)
	s.api.ExpireAccessTokens()

	_, err := s.client.BookAppointment(s.Ctx(), booking.AppointmentInput{Doctor: s.doctorID, Date: visitDate, Time: "09:00"})
	require.NoError(t, err)
	require.Equal(t, 1, s.api.RefreshCalls())
	require.Len(t, s.api.Appointments(), 1)
}

func (s *BookingSuite) TestBookValidation() {
	t := s.T()
	s.loginAs(patientName)

	_, err := s.client.BookAppointment(s.Ctx(), booking.AppointmentInput{Doctor: s.doctorID, Date: "04/03/2024", Time: "09:00"})
	require.True(t, trace.IsBadParameter(err))
	_, err = s.client.BookAppointment(s.Ctx(), booking.AppointmentInput{Doctor: s.doctorID, Date: visitDate, Time: "9am"})
	require.True(t, trace.IsBadParameter(err))
	_, err = s.client.AvailableSlots(s.Ctx(), s.doctorID, "")
	require.True(t, trace.IsBadParameter(err))

	require.Empty(t, s.api.Requests())
}

func (s *BookingSuite) TestRegisterPatient() {
	t := s.T()

	patient, err := s.client.RegisterPatient(s.Ctx(), booking.PatientRegistration{
		User:       booking.RegistrationUser{Username: "carol", Email: "carol@example.com", Password: password},
		FirstName:  "Carol",
		LastName:   "Danvers",
		BloodGroup: "O-",
	})
	require.NoError(t, err)
	require.Equal(t, "carol", patient.User.Username)
	require.Equal(t, "O-", patient.BloodGroup)

	s.loginAs("carol")
	profile, err := s.client.Profile(s.Ctx())
	require.NoError(t, err)
	require.Equal(t, booking.RolePatient, profile.Role())

	_, err = s.client.RegisterPatient(s.Ctx(), booking.PatientRegistration{
		User: booking.RegistrationUser{Username: "carol", Password: password},
	})
	apiErr, ok := booking.AsAPIError(err)
	require.True(t, ok)
	require.Contains(t, apiErr.Message, "user: username: A user with that username already exists.")
}

func (s *BookingSuite) TestClaims() {
	t := s.T()
	s.loginAs(adminName)

	session, err := s.auth.Session(s.Ctx())
	require.NoError(t, err)
	claims, err := booking.ParseClaims(session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, adminName, claims.Username)
	require.Equal(t, "access", claims.TokenType)
	require.True(t, claims.IsSuperuser)
	require.NotEmpty(t, claims.ID)

	_, err = booking.ParseClaims("not-a-token")
	require.True(t, trace.IsBadParameter(err))
}
