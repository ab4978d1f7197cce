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

	"github.com/gravitational/trace"
	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "booking:session:"

// RedisStore keeps the session in Redis so that several clients on a shared
// workstation can use one login. Both keys are written in a single MULTI/EXEC
// transaction and read with a single MGET.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// GetSession implements Store
func (r *RedisStore) GetSession(ctx context.Context) (Session, error) {
	values, err := r.client.MGet(ctx, r.key(AccessTokenKey), r.key(RefreshTokenKey)).Result()
	if err != nil {
		return Session{}, trace.ConnectionProblem(err, "failed to read session from redis")
	}

	session := Session{
		AccessToken:  stringValue(values, 0),
		RefreshToken: stringValue(values, 1),
	}
	if session.IsEmpty() {
		return Session{}, nil
	}
	return session, nil
}

// PutSession implements Store
func (r *RedisStore) PutSession(ctx context.Context, session Session) error {
	if session.IsEmpty() {
		return trace.BadParameter("session must contain both access and refresh tokens")
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(AccessTokenKey), session.AccessToken, 0)
		pipe.Set(ctx, r.key(RefreshTokenKey), session.RefreshToken, 0)
		return nil
	})
	if err != nil {
		return trace.ConnectionProblem(err, "failed to write session to redis")
	}
	return nil
}

// ClearSession implements Store
func (r *RedisStore) ClearSession(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key(AccessTokenKey), r.key(RefreshTokenKey)).Err(); err != nil {
		return trace.ConnectionProblem(err, "failed to clear session in redis")
	}
	return nil
}

func (r *RedisStore) key(name string) string {
	return r.prefix + name
}

func stringValue(values []interface{}, i int) string {
	if i >= len(values) {
		return ""
	}
	str, _ := values[i].(string)
	return str
}

var _ Store = &RedisStore{}
