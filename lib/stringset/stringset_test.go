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

package stringset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringSet(t *testing.T) {
	set := New("refresh-b", "refresh-a", "refresh-b")
	require.Equal(t, 2, set.Len())
	require.True(t, set.Contains("refresh-a"))
	require.False(t, set.Contains("refresh-c"))

	set.Add("refresh-c")
	set.Del("refresh-a")
	require.Equal(t, []string{"refresh-b", "refresh-c"}, set.Sorted())

	require.Empty(t, New().Sorted())
}
