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
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/gravitational/trace"
	"github.com/tidwall/gjson"
)

// APIError is a non-2xx answer of a business endpoint. It is returned as is;
// the client does not interpret validation or business-rule failures.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking API returned %d: %s", e.StatusCode, e.Message)
}

func newAPIError(resp *resty.Response) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    errorMessage(resp.StatusCode(), resp.Body()),
		Body:       resp.Body(),
	}
}

// errorMessage flattens the error body. The API answers either with
// {"detail": "..."} / {"error": "..."} or with per-field validation errors
// such as {"username": ["..."]}.
func errorMessage(status int, body []byte) string {
	if !gjson.ValidBytes(body) {
		if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 {
			return text
		}
		return http.StatusText(status)
	}

	parsed := gjson.ParseBytes(body)
	for _, path := range []string{"detail", "error", "message", "non_field_errors.0"} {
		if value := parsed.Get(path); value.Exists() && value.String() != "" {
			return value.String()
		}
	}

	var fields []string
	parsed.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, key.String()+": "+firstMessage(value))
		return true
	})
	if len(fields) > 0 {
		return strings.Join(fields, "; ")
	}
	return http.StatusText(status)
}

func firstMessage(value gjson.Result) string {
	switch {
	case value.IsArray():
		if first := value.Get("0"); first.Exists() {
			return firstMessage(first)
		}
		return ""
	case value.IsObject():
		var nested []string
		value.ForEach(func(key, inner gjson.Result) bool {
			nested = append(nested, key.String()+": "+firstMessage(inner))
			return true
		})
		return strings.Join(nested, ", ")
	default:
		return value.String()
	}
}

// AsAPIError extracts the API error from err, if any.
func AsAPIError(err error) (*APIError, bool) {
	if apiErr, ok := trace.Unwrap(err).(*APIError); ok {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound tells whether the API answered 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}
