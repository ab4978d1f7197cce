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
	"github.com/olekukonko/tablewriter"

	"github.com/appointly/booking-client/client/booking"
)

func (a *App) table(header []string, rows [][]string) {
	table := tablewriter.NewWriter(a.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(rows)
	table.Render()
}

func (a *App) printDoctors(doctors []booking.Doctor) {
	rows := make([][]string, 0, len(doctors))
	for _, d := range doctors {
		rows = append(rows, []string{
			itoa(d.ID),
			d.DoctorName,
			d.Specialization,
			d.ClinicName,
			d.City,
			d.WorkingStart + "-" + d.WorkingEnd,
			d.ConsultationFee,
		})
	}
	a.table([]string{"ID", "Name", "Specialization", "Clinic", "City", "Hours", "Fee"}, rows)
}

func (a *App) printAppointments(appointments []booking.Appointment) {
	rows := make([][]string, 0, len(appointments))
	for _, appt := range appointments {
		rows = append(rows, []string{
			itoa(appt.ID),
			appt.Date,
			appt.Time,
			appt.DoctorName,
			appt.PatientName,
		})
	}
	a.table([]string{"ID", "Date", "Time", "Doctor", "Patient"}, rows)
}

func (a *App) printPatients(patients []booking.Patient) {
	rows := make([][]string, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, []string{
			p.User.Username,
			fullName(p.FirstName, p.LastName),
			p.User.Email,
			p.Phone,
			p.BloodGroup,
			itoa(len(p.Appointments)),
		})
	}
	a.table([]string{"Username", "Name", "Email", "Phone", "Blood group", "Appointments"}, rows)
}
