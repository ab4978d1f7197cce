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
	"github.com/gravitational/trace"
	"golang.org/x/sync/errgroup"

	"github.com/appointly/booking-client/client/booking"
)

// DashboardCmd prints the overview matching the role of the logged in user
type DashboardCmd struct{}

// Run implements the command
func (c *DashboardCmd) Run(app *App) error {
	var (
		profile      *booking.Profile
		appointments []booking.Appointment
		doctors      []booking.Doctor
	)

	// The calls share one session; if it expired they share one renewal.
	group, ctx := errgroup.WithContext(app.Context())
	group.Go(func() error {
		var err error
		profile, err = app.booking.Profile(ctx)
		return trace.Wrap(err)
	})
	group.Go(func() error {
		var err error
		appointments, err = app.booking.Appointments(ctx)
		return trace.Wrap(err)
	})
	group.Go(func() error {
		var err error
		doctors, err = app.booking.Doctors(ctx)
		return trace.Wrap(err)
	})
	if err := group.Wait(); err != nil {
		return trace.Wrap(err)
	}

	app.printf("Welcome, %s (%s)\n\n", fullName(profile.FirstName, profile.LastName), profile.Role())

	switch profile.Role() {
	case booking.RoleAdmin:
		patients, err := app.booking.Patients(app.Context())
		if err != nil {
			return trace.Wrap(err)
		}
		app.printf("Doctors: %d, patients: %d, appointments: %d\n\n", len(doctors), len(patients), len(appointments))
		app.printDoctors(doctors)
	case booking.RoleDoctor:
		app.printf("Your appointments:\n")
		app.printAppointments(appointments)
	default:
		app.printf("Your appointments:\n")
		app.printAppointments(appointments)
		app.printf("\nDoctors:\n")
		app.printDoctors(doctors)
	}
	return nil
}

// DoctorsCmd groups the doctor commands
type DoctorsCmd struct {
	List   DoctorsListCmd   `cmd:"true" help:"List doctors"`
	Show   DoctorsShowCmd   `cmd:"true" help:"Show a doctor with its appointments (admins only)"`
	Add    DoctorsAddCmd    `cmd:"true" help:"Add a doctor (admins only)"`
	Edit   DoctorsEditCmd   `cmd:"true" help:"Edit a doctor (admins only)"`
	Delete DoctorsDeleteCmd `cmd:"true" help:"Delete a doctor (admins only)"`
}

// DoctorsListCmd lists doctors
type DoctorsListCmd struct{}

// Run implements the command
func (c *DoctorsListCmd) Run(app *App) error {
	doctors, err := app.booking.Doctors(app.Context())
	if err != nil {
		return trace.Wrap(err)
	}
	app.printDoctors(doctors)
	return nil
}

// DoctorsShowCmd shows one doctor
type DoctorsShowCmd struct {
	ID int `arg:"true" help:"Doctor ID" required:"true"`
}

// Run implements the command
func (c *DoctorsShowCmd) Run(app *App) error {
	doctor, err := app.booking.Doctor(app.Context(), c.ID)
	if booking.IsNotFound(err) {
		return trace.NotFound("doctor %d not found", c.ID)
	}
	if err != nil {
		return trace.Wrap(err)
	}

	app.table([]string{"Field", "Value"}, [][]string{
		{"ID", itoa(doctor.ID)},
		{"Name", doctor.DoctorName},
		{"Username", doctor.Username},
		{"Email", doctor.Email},
		{"Specialization", doctor.Specialization},
		{"Qualification", doctor.Qualification},
		{"Experience", itoa(doctor.ExperienceYears) + " years"},
		{"Clinic", doctor.ClinicName},
		{"Address", doctor.ClinicAddress + ", " + doctor.City + ", " + doctor.State + " " + doctor.Zipcode},
		{"Phone", doctor.Phone},
		{"Hours", doctor.WorkingStart + "-" + doctor.WorkingEnd},
		{"Fee", doctor.ConsultationFee},
	})

	rows := make([][]string, 0, len(doctor.Appointments))
	for _, appt := range doctor.Appointments {
		rows = append(rows, []string{itoa(appt.ID), appt.Date, appt.Time, appt.PatientName})
	}
	app.printf("\nAppointments:\n")
	app.table([]string{"ID", "Date", "Time", "Patient"}, rows)
	return nil
}

// DoctorFields are the editable doctor fields
type DoctorFields struct {
	Email           string `help:"Email address"`
	FirstName       string `help:"First name"`
	LastName        string `help:"Last name"`
	ClinicName      string `help:"Clinic name"`
	ClinicAddress   string `help:"Clinic address"`
	City            string `help:"City"`
	State           string `help:"State"`
	Zipcode         string `help:"Zip code"`
	Specialization  string `help:"Specialization"`
	Qualification   string `help:"Qualification"`
	Gender          string `help:"Gender"`
	Phone           string `help:"Phone number"`
	WorkingStart    string `help:"Start of the working hours, HH:MM"`
	WorkingEnd      string `help:"End of the working hours, HH:MM"`
	ExperienceYears int    `help:"Years of experience"`
	ConsultationFee string `help:"Consultation fee"`
}

func (f DoctorFields) input() booking.DoctorInput {
	return booking.DoctorInput{
		Email:           f.Email,
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		ClinicName:      f.ClinicName,
		ClinicAddress:   f.ClinicAddress,
		City:            f.City,
		State:           f.State,
		Zipcode:         f.Zipcode,
		Specialization:  f.Specialization,
		Qualification:   f.Qualification,
		Gender:          f.Gender,
		Phone:           f.Phone,
		WorkingStart:    f.WorkingStart,
		WorkingEnd:      f.WorkingEnd,
		ExperienceYears: f.ExperienceYears,
		ConsultationFee: f.ConsultationFee,
	}
}

// DoctorsAddCmd adds a doctor
type DoctorsAddCmd struct {
	Username     string `arg:"true" help:"Username of the doctor account" required:"true"`
	PasswordFile string `help:"Read the doctor's password from a file instead of prompting" type:"existingfile"`
	DoctorFields
}

// Run implements the command
func (c *DoctorsAddCmd) Run(app *App) error {
	password, err := readSecret(app, c.PasswordFile, "Doctor password")
	if err != nil {
		return trace.Wrap(err)
	}

	input := c.input()
	input.Username = c.Username
	input.Password = password
	doctor, err := app.booking.AddDoctor(app.Context(), input)
	if err != nil {
		return trace.Wrap(err)
	}
	app.printf("Added doctor %s with ID %d.\n", doctor.DoctorName, doctor.ID)
	return nil
}

// DoctorsEditCmd edits a doctor
type DoctorsEditCmd struct {
	ID int `arg:"true" help:"Doctor ID" required:"true"`
	DoctorFields
}

// Run implements the command
func (c *DoctorsEditCmd) Run(app *App) error {
	doctor, err := app.booking.EditDoctor(app.Context(), c.ID, c.input())
	if err != nil {
		return trace.Wrap(err)
	}
	app.printf("Updated doctor %s.\n", doctor.DoctorName)
	return nil
}

// DoctorsDeleteCmd deletes a doctor
type DoctorsDeleteCmd struct {
	ID int `arg:"true" help:"Doctor ID" required:"true"`
}

// Run implements the command
func (c *DoctorsDeleteCmd) Run(app *App) error {
	if err := app.booking.DeleteDoctor(app.Context(), c.ID); err != nil {
		return trace.Wrap(err)
	}
	app.printf("Deleted doctor %d.\n", c.ID)
	return nil
}

// PatientsCmd groups the patient commands
type PatientsCmd struct {
	List PatientsListCmd `cmd:"true" help:"List patients (admins only)"`
}

// PatientsListCmd lists patients
type PatientsListCmd struct{}

// Run implements the command
func (c *PatientsListCmd) Run(app *App) error {
	patients, err := app.booking.Patients(app.Context())
	if err != nil {
		return trace.Wrap(err)
	}
	app.printPatients(patients)
	return nil
}

// AppointmentsCmd groups the appointment commands
type AppointmentsCmd struct {
	List      AppointmentsListCmd      `cmd:"true" help:"List your appointments"`
	Available AppointmentsAvailableCmd `cmd:"true" help:"Show the free slots of a doctor"`
	Book      AppointmentsBookCmd      `cmd:"true" help:"Book an appointment"`
}

// AppointmentsListCmd lists appointments
type AppointmentsListCmd struct{}

// Run implements the command
func (c *AppointmentsListCmd) Run(app *App) error {
	appointments, err := app.booking.Appointments(app.Context())
	if err != nil {
		return trace.Wrap(err)
	}
	app.printAppointments(appointments)
	return nil
}

// AppointmentsAvailableCmd shows free slots
type AppointmentsAvailableCmd struct {
	Doctor int    `help:"Doctor ID" required:"true"`
	Date   string `help:"Date, YYYY-MM-DD" required:"true"`
}

// Run implements the command
func (c *AppointmentsAvailableCmd) Run(app *App) error {
	slots, err := app.booking.AvailableSlots(app.Context(), c.Doctor, c.Date)
	if err != nil {
		return trace.Wrap(err)
	}
	if len(slots.AvailableSlots) == 0 {
		app.printf("No free slots on %s.\n", slots.Date)
		return nil
	}
	rows := make([][]string, 0, len(slots.AvailableSlots))
	for _, slot := range slots.AvailableSlots {
		rows = append(rows, []string{slots.Date, slot})
	}
	app.table([]string{"Date", "Time"}, rows)
	return nil
}

// AppointmentsBookCmd books a slot
type AppointmentsBookCmd struct {
	Doctor int    `help:"Doctor ID" required:"true"`
	Date   string `help:"Date, YYYY-MM-DD" required:"true"`
	Time   string `help:"Time, HH:MM" required:"true"`
}

// Run implements the command
func (c *AppointmentsBookCmd) Run(app *App) error {
	appt, err := app.booking.BookAppointment(app.Context(), booking.AppointmentInput{
		Doctor: c.Doctor,
		Date:   c.Date,
		Time:   c.Time,
	})
	if err != nil {
		return trace.Wrap(err)
	}
	app.printf("Booked appointment %d with %s on %s at %s.\n", appt.ID, appt.DoctorName, appt.Date, appt.Time)
	return nil
}
