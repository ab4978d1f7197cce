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
	"net/http"
	"testing"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	for _, tc := range []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail", http.StatusForbidden, `{"detail": "You do not have permission to perform this action."}`, "You do not have permission to perform this action."},
		{"error", http.StatusNotFound, `{"error": "Doctor not found"}`, "Doctor not found"},
		{"non field", http.StatusBadRequest, `{"non_field_errors": ["This time slot is already booked for the selected doctor."]}`, "This time slot is already booked for the selected doctor."},
		{"fields", http.StatusBadRequest, `{"email": ["Enter a valid email address."], "phone": ["Too long."]}`, "email: Enter a valid email address.; phone: Too long."},
		{"nested", http.StatusBadRequest, `{"user": {"username": ["Required."]}}`, "user: username: Required."},
		{"plain text", http.StatusBadGateway, "bad gateway from proxy", "bad gateway from proxy"},
		{"empty", http.StatusInternalServerError, "", "Internal Server Error"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, errorMessage(tc.status, []byte(tc.body)))
		})
	}
}

func TestAsAPIError(t *testing.T) {
	err := trace.Wrap(&APIError{StatusCode: http.StatusNotFound, Message: "Not found."})
	require.True(t, IsNotFound(err))
	require.Contains(t, err.Error(), "404")

	_, ok := AsAPIError(trace.BadParameter("nope"))
	require.False(t, ok)
}

func TestDoctorInputFormData(t *testing.T) {
	fields := DoctorInput{City: "Princeton", ExperienceYears: 3}.FormData()
	require.Equal(t, map[string]string{"city": "Princeton", "experience_years": "3"}, fields)
}
