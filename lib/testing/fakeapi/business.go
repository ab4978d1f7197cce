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

package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/appointly/booking-client/client/booking"
)

const (
	slotMinutes     = 120
	maxMultipartMem = 1 << 20
)

type doctor struct {
	profile  booking.Doctor
	username string
}

// AddDoctor registers a staff account together with its doctor profile and
// returns the doctor ID.
func (s *Server) AddDoctor(user User, profile booking.Doctor) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.IsStaff = true
	u := s.addUserLocked(user)
	profile.ID = u.ID
	profile.Username = u.Username
	profile.Email = u.Email
	if profile.DoctorName == "" {
		profile.DoctorName = fullName(u)
	}
	profile.Appointments = nil
	s.doctors[profile.ID] = &doctor{profile: profile, username: u.Username}
	return profile.ID
}

// AddPatient registers a patient account and returns the patient ID.
func (s *Server) AddPatient(user User, profile booking.Patient) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPatientLocked(user, profile)
}

func (s *Server) addPatientLocked(user User, profile booking.Patient) int {
	u := s.addUserLocked(user)
	profile.User = booking.PatientUser{Username: u.Username, Email: u.Email}
	profile.FirstName = u.FirstName
	profile.LastName = u.LastName
	profile.Appointments = nil
	s.patients[u.Username] = &profile
	s.patientIDs[u.Username] = u.ID
	return u.ID
}

// Appointments returns every booked appointment.
func (s *Server) Appointments() []booking.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]booking.Appointment(nil), s.appointments...)
}

func (s *Server) getProfile(rw http.ResponseWriter, _ *http.Request, _ httprouter.Params, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(rw, http.StatusOK, profileOf(user))
}

func (s *Server) putProfile(rw http.ResponseWriter, r *http.Request, _ httprouter.Params, user *User) {
	var update booking.Profile
	if err := decodeJSON(r, &update); err != nil {
		writeJSON(rw, http.StatusBadRequest, detail(err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if update.Username != "" && update.Username != user.Username {
		if _, taken := s.users[update.Username]; taken {
			writeJSON(rw, http.StatusBadRequest, map[string][]string{
				"username": {"A user with that username already exists."},
			})
			return
		}
		delete(s.users, user.Username)
		user.Username = update.Username
		s.users[user.Username] = user
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	writeJSON(rw, http.StatusOK, profileOf(user))
}

func (s *Server) listDoctors(rw http.ResponseWriter, _ *http.Request, _ httprouter.Params, _ *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.doctors))
	for id := range s.doctors {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := make([]booking.Doctor, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.doctorViewLocked(s.doctors[id]))
	}
	writeJSON(rw, http.StatusOK, result)
}

func (s *Server) getDoctor(rw http.ResponseWriter, _ *http.Request, ps httprouter.Params, _ *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookupDoctorLocked(ps.ByName("id"))
	if !ok {
		writeJSON(rw, http.StatusNotFound, detail("Not found."))
		return
	}
	writeJSON(rw, http.StatusOK, s.doctorViewLocked(doc))
}

func (s *Server) addDoctor(rw http.ResponseWriter, r *http.Request, ps httprouter.Params, _ *User) {
	if ps.ByName("id") != "add" {
		writeJSON(rw, http.StatusMethodNotAllowed, detail(`Method "POST" not allowed.`))
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMem); err != nil {
		writeJSON(rw, http.StatusBadRequest, detail(err.Error()))
		return
	}

	username, password := r.FormValue("username"), r.FormValue("password")
	if username == "" || password == "" {
		writeJSON(rw, http.StatusBadRequest, map[string][]string{
			"username": {"This field is required."},
			"password": {"This field is required."},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users[username]; taken {
		writeJSON(rw, http.StatusBadRequest, map[string][]string{
			"username": {"A user with that username already exists."},
		})
		return
	}

	u := s.addUserLocked(User{
		Username:  username,
		Password:  password,
		Email:     r.FormValue("email"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		IsStaff:   true,
	})
	doc := &doctor{
		username: u.Username,
		profile: booking.Doctor{
			ID:         u.ID,
			Username:   u.Username,
			Email:      u.Email,
			DoctorName: fullName(u),
		},
	}
	applyDoctorForm(&doc.profile, r)
	s.doctors[doc.profile.ID] = doc
	writeJSON(rw, http.StatusCreated, s.doctorViewLocked(doc))
}

func (s *Server) editDoctor(rw http.ResponseWriter, r *http.Request, ps httprouter.Params, _ *User) {
	if err := r.ParseMultipartForm(maxMultipartMem); err != nil {
		writeJSON(rw, http.StatusBadRequest, detail(err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.lookupDoctorLocked(ps.ByName("id"))
	if !ok {
		writeJSON(rw, http.StatusNotFound, detail("Not found."))
		return
	}

	u := s.users[doc.username]
	if email := r.FormValue("email"); email != "" {
		u.Email = email
		doc.profile.Email = email
	}
	if first := r.FormValue("first_name"); first != "" {
		u.FirstName = first
	}
	if last := r.FormValue("last_name"); last != "" {
		u.LastName = last
	}
	if password := r.FormValue("password"); password != "" {
		u.Password = password
	}
	doc.profile.DoctorName = fullName(u)
	applyDoctorForm(&doc.profile, r)
	writeJSON(rw, http.StatusOK, s.doctorViewLocked(doc))
}

func (s *Server) deleteDoctor(rw http.ResponseWriter, _ *http.Request, ps httprouter.Params, _ *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookupDoctorLocked(ps.ByName("id"))
	if !ok {
		writeJSON(rw, http.StatusNotFound, detail("Not found."))
		return
	}
	delete(s.doctors, doc.profile.ID)
	delete(s.users, doc.username)

	kept := s.appointments[:0]
	for _, appt := range s.appointments {
		if appt.Doctor != doc.profile.ID {
			kept = append(kept, appt)
		}
	}
	s.appointments = kept
	writeJSON(rw, http.StatusNoContent, nil)
}

func (s *Server) listPatients(rw http.ResponseWriter, _ *http.Request, _ httprouter.Params, _ *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.patients))
	for name := range s.patients {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]booking.Patient, 0, len(names))
	for _, name := range names {
		result = append(result, s.patientViewLocked(name))
	}
	writeJSON(rw, http.StatusOK, result)
}

func (s *Server) registerPatient(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reg booking.PatientRegistration
	if err := decodeJSON(r, &reg); err != nil {
		writeJSON(rw, http.StatusBadRequest, detail(err.Error()))
		return
	}
	if reg.User.Username == "" || reg.User.Password == "" {
		writeJSON(rw, http.StatusBadRequest, map[string]map[string][]string{
			"user": {"username": {"This field is required."}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users[reg.User.Username]; taken {
		writeJSON(rw, http.StatusBadRequest, map[string]map[string][]string{
			"user": {"username": {"A user with that username already exists."}},
		})
		return
	}

	s.addPatientLocked(User{
		Username:  reg.User.Username,
		Password:  reg.User.Password,
		Email:     reg.User.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
	}, booking.Patient{
		Gender:             reg.Gender,
		DOB:                reg.DOB,
		Phone:              reg.Phone,
		BloodGroup:         reg.BloodGroup,
		ChronicConditions:  reg.ChronicConditions,
		Allergies:          reg.Allergies,
		CurrentMedications: reg.CurrentMedications,
		EmergencyContact:   reg.EmergencyContact,
	})
	writeJSON(rw, http.StatusCreated, s.patientViewLocked(reg.User.Username))
}

func (s *Server) listAppointments(rw http.ResponseWriter, _ *http.Request, _ httprouter.Params, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]booking.Appointment, 0, len(s.appointments))
	for _, appt := range s.appointments {
		switch {
		case user.IsStaff && user.IsSuperuser:
		case user.IsStaff && appt.Doctor != user.ID:
			continue
		case !user.IsStaff && appt.Patient != s.patientIDs[user.Username]:
			continue
		}
		result = append(result, appt)
	}
	writeJSON(rw, http.StatusOK, result)
}

func (s *Server) bookAppointment(rw http.ResponseWriter, r *http.Request, _ httprouter.Params, user *User) {
	var input booking.AppointmentInput
	if err := decodeJSON(r, &input); err != nil {
		writeJSON(rw, http.StatusBadRequest, detail(err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	patientID, ok := s.patientIDs[user.Username]
	if !ok {
		writeJSON(rw, http.StatusBadRequest, nonFieldError("User is not a valid patient."))
		return
	}
	doc, ok := s.doctors[input.Doctor]
	if !ok {
		writeJSON(rw, http.StatusBadRequest, map[string][]string{
			"doctor": {fmt.Sprintf("Invalid pk %q - object does not exist.", strconv.Itoa(input.Doctor))},
		})
		return
	}
	at, ok := parseClock(input.Time)
	if !ok || input.Date == "" {
		writeJSON(rw, http.StatusBadRequest, nonFieldError("Date and time are required."))
		return
	}
	start, _ := parseClock(doc.profile.WorkingStart)
	end, _ := parseClock(doc.profile.WorkingEnd)
	if at < start || at+slotMinutes > end {
		writeJSON(rw, http.StatusBadRequest, nonFieldError("Selected time is outside the doctor's working hours."))
		return
	}
	for _, appt := range s.appointments {
		if booked, _ := parseClock(appt.Time); appt.Doctor == input.Doctor && appt.Date == input.Date && booked == at {
			writeJSON(rw, http.StatusBadRequest, nonFieldError("This time slot is already booked for the selected doctor."))
			return
		}
	}

	appt := booking.Appointment{
		ID:          len(s.appointments) + 1,
		Doctor:      input.Doctor,
		DoctorName:  doc.profile.DoctorName,
		Patient:     patientID,
		PatientName: fullName(user),
		Date:        input.Date,
		Time:        formatClock(at) + ":00",
	}
	s.appointments = append(s.appointments, appt)
	writeJSON(rw, http.StatusCreated, appt)
}

func (s *Server) availableSlots(rw http.ResponseWriter, r *http.Request, _ httprouter.Params, _ *User) {
	query := r.URL.Query()
	doctorID, date := query.Get("doctor"), query.Get("date")
	if doctorID == "" || date == "" {
		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": "doctor and date are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.lookupDoctorLocked(doctorID)
	if !ok {
		writeJSON(rw, http.StatusNotFound, map[string]string{"error": "Doctor not found"})
		return
	}

	booked := make(map[int]bool)
	for _, appt := range s.appointments {
		if appt.Doctor == doc.profile.ID && appt.Date == date {
			if at, ok := parseClock(appt.Time); ok {
				booked[at] = true
			}
		}
	}

	start, _ := parseClock(doc.profile.WorkingStart)
	end, _ := parseClock(doc.profile.WorkingEnd)
	slots := []string{}
	for at := start; at+slotMinutes <= end; at += slotMinutes {
		if !booked[at] {
			slots = append(slots, formatClock(at))
		}
	}
	writeJSON(rw, http.StatusOK, booking.AvailableSlots{
		Doctor:         doc.profile.ID,
		Date:           date,
		AvailableSlots: slots,
	})
}

func (s *Server) lookupDoctorLocked(rawID string) (*doctor, bool) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return nil, false
	}
	doc, ok := s.doctors[id]
	return doc, ok
}

func (s *Server) doctorViewLocked(doc *doctor) booking.Doctor {
	view := doc.profile
	view.Appointments = []booking.DoctorAppointment{}
	for _, appt := range s.appointments {
		if appt.Doctor == doc.profile.ID {
			view.Appointments = append(view.Appointments, booking.DoctorAppointment{
				ID:          appt.ID,
				PatientName: appt.PatientName,
				Date:        appt.Date,
				Time:        appt.Time,
			})
		}
	}
	return view
}

func (s *Server) patientViewLocked(username string) booking.Patient {
	view := *s.patients[username]
	view.Appointments = []booking.PatientAppointment{}
	id := s.patientIDs[username]
	for _, appt := range s.appointments {
		if appt.Patient != id {
			continue
		}
		var specialization string
		if doc, ok := s.doctors[appt.Doctor]; ok {
			specialization = doc.profile.Specialization
		}
		view.Appointments = append(view.Appointments, booking.PatientAppointment{
			ID:                   appt.ID,
			DoctorName:           appt.DoctorName,
			DoctorSpecialization: specialization,
			Date:                 appt.Date,
			Time:                 appt.Time,
		})
	}
	return view
}

func applyDoctorForm(profile *booking.Doctor, r *http.Request) {
	fields := map[string]*string{
		"clinic_name":      &profile.ClinicName,
		"clinic_address":   &profile.ClinicAddress,
		"city":             &profile.City,
		"state":            &profile.State,
		"zipcode":          &profile.Zipcode,
		"specialization":   &profile.Specialization,
		"qualification":    &profile.Qualification,
		"gender":           &profile.Gender,
		"phone":            &profile.Phone,
		"working_start":    &profile.WorkingStart,
		"working_end":      &profile.WorkingEnd,
		"consultation_fee": &profile.ConsultationFee,
	}
	for name, field := range fields {
		if value := r.FormValue(name); value != "" {
			*field = value
		}
	}
	if years, err := strconv.Atoi(r.FormValue("experience_years")); err == nil {
		profile.ExperienceYears = years
	}
}

func profileOf(user *User) booking.Profile {
	return booking.Profile{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}

func fullName(user *User) string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

func nonFieldError(message string) map[string][]string {
	return map[string][]string{"non_field_errors": {message}}
}

// parseClock turns "HH:MM" or "HH:MM:SS" into minutes since midnight.
func parseClock(value string) (int, bool) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
