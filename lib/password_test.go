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
	"path/filepath"
	"testing"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestReadPassword(t *testing.T) {
	dir := t.TempDir()

	filename := filepath.Join(dir, "password")
	require.NoError(t, os.WriteFile(filename, []byte("s3cret\n"), 0600))
	password, err := ReadPassword(filename)
	require.NoError(t, err)
	require.Equal(t, "s3cret", password)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0600))
	_, err = ReadPassword(empty)
	require.True(t, trace.IsBadParameter(err))

	_, err = ReadPassword(filepath.Join(dir, "missing"))
	require.True(t, trace.IsNotFound(err))
}
