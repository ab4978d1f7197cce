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

package lib

import (
	"os"
	"strings"

	"github.com/gravitational/trace"
)

// ReadPassword reads a secret from a file, dropping surrounding whitespace.
func ReadPassword(filename string) (string, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return "", trace.ConvertSystemError(err)
	}
	password := strings.TrimSpace(string(bytes))
	if password == "" {
		return "", trace.BadParameter("password file %q is empty", filename)
	}
	return password, nil
}
