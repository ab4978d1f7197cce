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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// StringSet holds each string at most once.
type StringSet map[string]struct{}

// New builds a set out of the given strings.
func New(elems ...string) StringSet {
	set := make(StringSet, len(elems))
	set.Add(elems...)
	return set
}

// Add inserts strings into the set.
func (set StringSet) Add(elems ...string) {
	for _, str := range elems {
		set[str] = struct{}{}
	}
}

// Del removes a string from the set.
func (set StringSet) Del(str string) {
	delete(set, str)
}

// Contains checks if the set includes a given string.
func (set StringSet) Contains(str string) bool {
	_, ok := set[str]
	return ok
}

// Len returns the set size.
func (set StringSet) Len() int {
	return len(set)
}

// Sorted returns the set contents in ascending order.
func (set StringSet) Sorted() []string {
	result := maps.Keys(set)
	slices.Sort(result)
	return result
}
