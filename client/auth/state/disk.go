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
	"os"
	"path/filepath"
	"sync"

	"github.com/gravitational/trace"
	"github.com/peterbourgon/diskv/v3"
)

const (
	// tempDirName is where diskv stages writes before renaming them into place.
	tempDirName = ".tmp"

	filePerm = 0600
	pathPerm = 0700
)

// DiskStore keeps the session in a directory on disk so it survives restarts.
// Each credential is a separate file named after its well-known key.
type DiskStore struct {
	// lock serializes pair reads and writes within the process.
	lock sync.RWMutex
	// dv is a diskv instance
	dv *diskv.Diskv
}

// NewDiskStore opens (creating if needed) a session directory.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, trace.BadParameter("missing session directory")
	}
	if err := os.MkdirAll(dir, pathPerm); err != nil {
		return nil, trace.ConvertSystemError(err)
	}

	// Simplest transform function: put all the data files into the base dir.
	flatTransform := func(s string) []string { return []string{} }

	// No read cache: another process may rewrite the files at any time.
	dv := diskv.New(diskv.Options{
		BasePath:  dir,
		TempDir:   filepath.Join(dir, tempDirName),
		Transform: flatTransform,
		FilePerm:  filePerm,
		PathPerm:  pathPerm,
	})

	return &DiskStore{dv: dv}, nil
}

// GetSession implements Store
func (d *DiskStore) GetSession(_ context.Context) (Session, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	access, err := d.getStringValue(AccessTokenKey)
	if err != nil {
		return Session{}, trace.Wrap(err)
	}
	refresh, err := d.getStringValue(RefreshTokenKey)
	if err != nil {
		return Session{}, trace.Wrap(err)
	}

	session := Session{AccessToken: access, RefreshToken: refresh}
	if session.IsEmpty() {
		return Session{}, nil
	}
	return session, nil
}

// PutSession implements Store.
// The refresh token is written last: a crash in between leaves either the previous
// pair with a replaced access token or an incomplete pair, which reads as empty.
func (d *DiskStore) PutSession(_ context.Context, session Session) error {
	if session.IsEmpty() {
		return trace.BadParameter("session must contain both access and refresh tokens")
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	if err := d.setStringValue(AccessTokenKey, session.AccessToken); err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(d.setStringValue(RefreshTokenKey, session.RefreshToken))
}

// ClearSession implements Store.
// The refresh token goes first so that an interrupted clear never leaves a
// renewable session behind.
func (d *DiskStore) ClearSession(_ context.Context) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	var errs []error
	for _, key := range []string{RefreshTokenKey, AccessTokenKey} {
		if !d.dv.Has(key) {
			continue
		}
		if err := d.dv.Erase(key); err != nil && !os.IsNotExist(err) {
			errs = append(errs, trace.ConvertSystemError(err))
		}
	}
	return trace.NewAggregate(errs...)
}

// getStringValue gets a string value, empty if it was never written
func (d *DiskStore) getStringValue(name string) (string, error) {
	if !d.dv.Has(name) {
		return "", nil
	}

	b, err := d.dv.Read(name)
	if os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", trace.ConvertSystemError(err)
	}

	return string(b), nil
}

// setStringValue sets string value
func (d *DiskStore) setStringValue(name string, value string) error {
	return trace.ConvertSystemError(d.dv.Write(name, []byte(value)))
}

var _ Store = &DiskStore{}
