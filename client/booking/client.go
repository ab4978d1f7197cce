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

// Package booking is the client of the business endpoints of the booking API.
// Authentication is left to the *http.Client it is built with.
package booking

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gravitational/trace"

	"github.com/appointly/booking-client/lib"
)

// DefaultURL is where a local development server listens.
const DefaultURL = "http://localhost:8000/api/"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Client talks to the business endpoints.
type Client struct {
	client *resty.Client
}

// NewClient returns a client for the API rooted at apiURL. Requests are sent
// with httpClient, which is expected to authenticate them.
func NewClient(apiURL string, httpClient *http.Client) (*Client, error) {
	baseURL, err := lib.AddrToURL(apiURL)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL.String()).
		SetHeader("Accept", "application/json")
	client.JSONMarshal = lib.MarshalJSON
	client.JSONUnmarshal = lib.UnmarshalJSON
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.IsError() {
			return newAPIError(resp)
		}
		return nil
	})
	return &Client{client: client}, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.client.R().SetContext(ctx)
}

// Profile returns the logged in user.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var result Profile
	if _, err := c.request(ctx).SetResult(&result).Get("profile/"); err != nil {
		return nil, trace.Wrap(err)
	}
	return &result, nil
}

// UpdateProfile changes the account fields of the logged in user.
func (c *Client) UpdateProfile(ctx context.Context, profile Profile) (*Profile, error) {
	var result Profile
	if _, err := c.request(ctx).SetBody(profile).SetResult(&result).Put("profile/"); err != nil {
		return nil, trace.Wrap(err)
	}
	return &result, nil
}

// Doctors lists every doctor.
func (c *Client) Doctors(ctx context.Context) ([]Doctor, error) {
	var result []Doctor
	if _, err := c.request(ctx).SetResult(&result).Get("doctors/"); err != nil {
		return nil, trace.Wrap(err)
	}
	return result, nil
}

// Doctor returns a single doctor. Admins only.
func (c *Client) Doctor(ctx context.Context, id int) (*Doctor, error) {
	var result Doctor
	if _, err := c.request(ctx).SetResult(&result).Get(lib.BuildURLPath("doctors", strconv.Itoa(id))); err != nil {
		return nil, trace.Wrap(err)
	}
	return &result, nil
}

// AddDoctor creates a doctor together with its staff account. Admins only.
func (c *Client) AddDoctor(ctx context.Context, input DoctorInput) (*Doctor, error) {
	if input.Username == "" || input.Password == "" {
		return nil, trace.BadParameter("username and password are required")
	}
	var result Doctor
	_, err := c.request(ctx).
		SetMultipartFormData(input.FormData()).
		SetResult(&result).
		Post("doctors/add/")
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &result, nil
}

// EditDoctor changes the non-empty fields of input. Admins only.
func (c *Client) EditDoctor(ctx context.Context, id int, input DoctorInput) (*Doctor, error) {
	var result Doctor
	_, err := c.request(ctx).
		SetMultipartFormData(input.FormData()).
		SetResult(&result).
		Put(lib.BuildURLPath("doctors", strconv.Itoa(id), "edit"))
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &result, nil
}

// DeleteDoctor removes a doctor and its appointments. Admins only.
func (c *Client) DeleteDoctor(ctx context.Context, id int) error {
	_, err := c.request(ctx).Delete(lib.BuildURLPath("doctors", strconv.Itoa(id)))
	return trace.Wrap(err)
}

// Patients lists every patient. Admins only.
func (c *Client) Patients(ctx context.Context) ([]Patient, error) {
	var result []Patient
	if _, err := c.request(ctx).SetResult(&result).Get("patients/"); err != nil {
		return nil, trace.Wrap(err)
	}
	return result, nil
}

// Appointments lists the appointments visible to the logged in user.
func (c *Client) Appointments(ctx context.Context) ([]Appointment, error) {
	var result []Appointment
	if _, err := c.request(ctx).SetResult(&result).Get("appointments/"); err != nil {
		return nil, trace.Wrap(err)
	}
	return result, nil
}

// BookAppointment books a slot for the logged in patient.
func (c *Client) BookAppointment(ctx context.Context, input AppointmentInput) (*Appointment, error) {
	if err := checkDate(input.Date); err != nil {
		return nil, trace.Wrap(err)
	}
	if _, err := time.Parse(timeLayout, input.Time); err != nil {
		return nil, trace.BadParameter("time %q is not in HH:MM format", input.Time)
	}

	var result Appointment
	if _, err := c.request(ctx).SetBody(input).SetResult(&result).Post("appointments/"); err != nil {
		return nil, trace.Wrap(err)
	}
	return &result, nil
}

// AvailableSlots returns the free slots of a doctor on a date.
func (c *Client) AvailableSlots(ctx context.Context, doctorID int, date string) (*AvailableSlots, error) {
	if err := checkDate(date); err != nil {
		return nil, trace.Wrap(err)
	}

	var result AvailableSlots
	_, err := c.request(ctx).
		SetQueryParam("doctor", strconv.Itoa(doctorID)).
		SetQueryParam("date", date).
		SetResult(&result).
		Get("appointments/available/")
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &result, nil
}

// RegisterPatient signs a new patient up. It does not log in.
func (c *Client) RegisterPatient(ctx context.Context, registration PatientRegistration) (*Patient, error) {
	if registration.User.Username == "" || registration.User.Password == "" {
		return nil, trace.BadParameter("username and password are required")
	}
	var result Patient
	if _, err := c.request(ctx).SetBody(registration).SetResult(&result).Post("register/patient/"); err != nil {
		return nil, trace.Wrap(err)
	}
	return &result, nil
}

func checkDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return trace.BadParameter("date %q is not in YYYY-MM-DD format", date)
	}
	return nil
}
