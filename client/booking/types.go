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

package booking

import (
	"strconv"
)

// Role tells which dashboard a user lands on.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Profile is the logged in user as returned by GET /profile/.
type Profile struct {
	ID          int    `json:"id,omitempty"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsSuperuser bool   `json:"is_superuser"`
	IsStaff     bool   `json:"is_staff"`
}

// Role maps the staff flags to a role. Superusers are admins, other staff
// members are doctors, everybody else is a patient.
func (p Profile) Role() Role {
	switch {
	case p.IsSuperuser:
		return RoleAdmin
	case p.IsStaff:
		return RoleDoctor
	default:
		return RolePatient
	}
}

// Doctor is a doctor profile together with its booked appointments.
type Doctor struct {
	ID              int                 `json:"id"`
	Email           string              `json:"email"`
	Username        string              `json:"username"`
	DoctorName      string              `json:"doctor_name"`
	ClinicName      string              `json:"clinic_name"`
	ClinicAddress   string              `json:"clinic_address"`
	City            string              `json:"city"`
	State           string              `json:"state"`
	Zipcode         string              `json:"zipcode"`
	Specialization  string              `json:"specialization"`
	Gender          string              `json:"gender"`
	Phone           string              `json:"phone"`
	WorkingStart    string              `json:"working_start"`
	WorkingEnd      string              `json:"working_end"`
	ProfileImage    string              `json:"profile_image"`
	Qualification   string              `json:"qualification"`
	ExperienceYears int                 `json:"experience_years"`
	ConsultationFee string              `json:"consultation_fee"`
	Appointments    []DoctorAppointment `json:"appointments"`
}

// DoctorAppointment is an appointment as seen from the doctor's side.
type DoctorAppointment struct {
	ID          int    `json:"id"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// DoctorInput holds the fields of the add/edit doctor forms. Empty fields are
// not sent, so on edit they keep their current values.
type DoctorInput struct {
	Username        string
	Email           string
	Password        string
	FirstName       string
	LastName        string
	ClinicName      string
	ClinicAddress   string
	City            string
	State           string
	Zipcode         string
	Specialization  string
	Qualification   string
	Gender          string
	Phone           string
	WorkingStart    string
	WorkingEnd      string
	ExperienceYears int
	ConsultationFee string
}

// FormData renders the input as multipart form fields.
func (d DoctorInput) FormData() map[string]string {
	fields := map[string]string{
		"username":         d.Username,
		"email":            d.Email,
		"password":         d.Password,
		"first_name":       d.FirstName,
		"last_name":        d.LastName,
		"clinic_name":      d.ClinicName,
		"clinic_address":   d.ClinicAddress,
		"city":             d.City,
		"state":            d.State,
		"zipcode":          d.Zipcode,
		"specialization":   d.Specialization,
		"qualification":    d.Qualification,
		"gender":           d.Gender,
		"phone":            d.Phone,
		"working_start":    d.WorkingStart,
		"working_end":      d.WorkingEnd,
		"consultation_fee": d.ConsultationFee,
	}
	if d.ExperienceYears > 0 {
		fields["experience_years"] = strconv.Itoa(d.ExperienceYears)
	}
	for key, value := range fields {
		if value == "" {
			delete(fields, key)
		}
	}
	return fields
}

// Patient is a patient profile together with its appointments.
type Patient struct {
	User               PatientUser          `json:"user"`
	FirstName          string               `json:"first_name"`
	LastName           string               `json:"last_name"`
	Gender             string               `json:"gender"`
	DOB                string               `json:"dob"`
	Phone              string               `json:"phone"`
	ProfileImage       string               `json:"profile_image"`
	BloodGroup         string               `json:"blood_group"`
	ChronicConditions  string               `json:"chronic_conditions"`
	Allergies          string               `json:"allergies"`
	CurrentMedications string               `json:"current_medications"`
	EmergencyContact   string               `json:"emergency_contact"`
	Appointments       []PatientAppointment `json:"appointments"`
}

// PatientUser is the account part of a patient profile.
type PatientUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PatientAppointment is an appointment as seen from the patient's side.
type PatientAppointment struct {
	ID                   int    `json:"id"`
	DoctorName           string `json:"doctor_name"`
	DoctorSpecialization string `json:"doctor_specialization"`
	Date                 string `json:"date"`
	Time                 string `json:"time"`
}

// Appointment is a booked slot.
type Appointment struct {
	ID          int    `json:"id"`
	Doctor      int    `json:"doctor"`
	DoctorName  string `json:"doctor_name"`
	Patient     int    `json:"patient"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// AppointmentInput is the body of a booking request. The patient is taken
// from the session on the server side.
type AppointmentInput struct {
	Doctor int    `json:"doctor"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

// AvailableSlots lists the free slots of a doctor on a date.
type AvailableSlots struct {
	Doctor         int      `json:"doctor"`
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
}

// PatientRegistration is the body of the patient signup request.
type PatientRegistration struct {
	User               RegistrationUser `json:"user"`
	FirstName          string           `json:"first_name"`
	LastName           string           `json:"last_name"`
	Gender             string           `json:"gender,omitempty"`
	DOB                string           `json:"dob,omitempty"`
	Phone              string           `json:"phone,omitempty"`
	BloodGroup         string           `json:"blood_group,omitempty"`
	ChronicConditions  string           `json:"chronic_conditions,omitempty"`
	Allergies          string           `json:"allergies,omitempty"`
	CurrentMedications string           `json:"current_medications,omitempty"`
	EmergencyContact   string           `json:"emergency_contact,omitempty"`
}

// RegistrationUser holds the account credentials of a new patient.
type RegistrationUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
