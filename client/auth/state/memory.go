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

package state

import (
	"context"
	"sync"

	"github.com/gravitational/trace"
)

// MemoryStore keeps the session in process memory. It does not survive restarts.
type MemoryStore struct {
	lock    sync.RWMutex // protects session
	session Session
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// GetSession implements Store
func (m *MemoryStore) GetSession(_ context.Context) (Session, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.session.IsEmpty() {
		return Session{}, nil
	}
	return m.session, nil
}

// PutSession implements Store
func (m *MemoryStore) PutSession(_ context.Context, session Session) error {
	if session.IsEmpty() {
		return trace.BadParameter("session must contain both access and refresh tokens")
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.session = session
	return nil
}

// ClearSession implements Store
func (m *MemoryStore) ClearSession(_ context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.session = Session{}
	return nil
}

var _ Store = &MemoryStore{}
