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
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gravitational/trace"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		session, err := store.GetSession(ctx)
		require.NoError(t, err)
		require.True(t, session.IsEmpty())
	})

	t.Run("PutGet", func(t *testing.T) {
		session := Session{AccessToken: "access1", RefreshToken: "refresh1"}
		require.NoError(t, store.PutSession(ctx, session))

		got, err := store.GetSession(ctx)
		require.NoError(t, err)
		require.Equal(t, session, got)
	})

	t.Run("ReplaceAccess", func(t *testing.T) {
		session := Session{AccessToken: "access2", RefreshToken: "refresh1"}
		require.NoError(t, store.PutSession(ctx, session))

		got, err := store.GetSession(ctx)
		require.NoError(t, err)
		require.Equal(t, session, got)
	})

	t.Run("PartialPutRejected", func(t *testing.T) {
		err := store.PutSession(ctx, Session{AccessToken: "access3"})
		require.True(t, trace.IsBadParameter(err))

		got, err := store.GetSession(ctx)
		require.NoError(t, err)
		require.Equal(t, "access2", got.AccessToken)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.ClearSession(ctx))

		got, err := store.GetSession(ctx)
		require.NoError(t, err)
		require.Equal(t, Session{}, got)

		// Clearing an empty store is fine.
		require.NoError(t, store.ClearSession(ctx))
	})

	t.Run("ConcurrentReadersSeeWholePairs", func(t *testing.T) {
		pairs := []Session{
			{AccessToken: "a-even", RefreshToken: "r-even"},
			{AccessToken: "a-odd", RefreshToken: "r-odd"},
		}
		valid := map[Session]bool{pairs[0]: true, pairs[1]: true, {}: true}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				assert.NoError(t, store.PutSession(ctx, pairs[i%2]))
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				got, err := store.GetSession(ctx)
				assert.NoError(t, err)
				assert.True(t, valid[got], "torn session read: %+v", got)
			}
		}()
		wg.Wait()
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestDiskStore(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	testStore(t, store)
}

func TestDiskStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewDiskStore(dir)
	require.NoError(t, err)
	session := Session{AccessToken: "my-access-token", RefreshToken: "my-refresh-token"}
	require.NoError(t, store.PutSession(ctx, session))

	// The credentials are kept under their well-known keys.
	access, err := os.ReadFile(filepath.Join(dir, AccessTokenKey))
	require.NoError(t, err)
	require.Equal(t, session.AccessToken, string(access))

	reopened, err := NewDiskStore(dir)
	require.NoError(t, err)
	got, err := reopened.GetSession(ctx)
	require.NoError(t, err)
	require.Equal(t, session, got)
}

func TestDiskStoreIncompletePair(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// Simulate a crash that left only the access token behind.
	require.NoError(t, os.WriteFile(filepath.Join(dir, AccessTokenKey), []byte("orphan"), 0600))

	store, err := NewDiskStore(dir)
	require.NoError(t, err)
	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	require.True(t, got.IsEmpty())
	require.Equal(t, Session{}, got)
}

func TestRedisStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client, "test:")
	testStore(t, store)

	require.NoError(t, store.PutSession(context.Background(), Session{AccessToken: "a", RefreshToken: "r"}))
	value, err := srv.Get("test:" + RefreshTokenKey)
	require.NoError(t, err)
	require.Equal(t, "r", value)
}

func TestRedisStoreUnavailable(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	srv.Close()

	_, err := NewRedisStore(client, "").GetSession(context.Background())
	require.True(t, trace.IsConnectionProblem(err))
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(Config{Driver: DriverMemory})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, store)

	store, err = NewStore(Config{Dir: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &DiskStore{}, store)

	_, err = NewStore(Config{Driver: DriverRedis})
	require.True(t, trace.IsBadParameter(err))

	_, err = NewStore(Config{Driver: "etcd"})
	require.True(t, trace.IsBadParameter(err))
}
