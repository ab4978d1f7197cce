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
	"os"
	"path/filepath"

	"github.com/gravitational/trace"
	"github.com/redis/go-redis/v9"
)

const (
	// DriverDisk keeps the session in a local directory.
	DriverDisk = "disk"
	// DriverMemory keeps the session in process memory.
	DriverMemory = "memory"
	// DriverRedis keeps the session in a Redis instance.
	DriverRedis = "redis"

	defaultDirName = ".booking"
)

// Config selects and configures the session store driver.
type Config struct {
	// Driver is one of "disk", "memory" or "redis".
	Driver string `toml:"driver"`
	// Dir is the session directory used by the disk driver.
	Dir string `toml:"dir"`
	// RedisAddr is the host:port of the Redis instance used by the redis driver.
	RedisAddr string `toml:"redis_addr"`
	// RedisKeyPrefix namespaces the session keys.
	RedisKeyPrefix string `toml:"redis_key_prefix"`
}

// CheckAndSetDefaults validates the config and fills in the defaults.
func (c *Config) CheckAndSetDefaults() error {
	if c.Driver == "" {
		c.Driver = DriverDisk
	}

	switch c.Driver {
	case DriverDisk:
		if c.Dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return trace.Wrap(err, "cannot determine the default session directory, set session.dir")
			}
			c.Dir = filepath.Join(home, defaultDirName, "session")
		}
	case DriverMemory:
	case DriverRedis:
		if c.RedisAddr == "" {
			return trace.BadParameter("session.redis_addr is required by the redis driver")
		}
	default:
		return trace.BadParameter("unknown session driver %q", c.Driver)
	}
	return nil
}

// NewStore builds the store selected by the config.
func NewStore(c Config) (Store, error) {
	if err := c.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}

	switch c.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		return NewRedisStore(client, c.RedisKeyPrefix), nil
	default:
		store, err := NewDiskStore(c.Dir)
		if err != nil {
			return nil, trace.Wrap(err)
		}
		return store, nil
	}
}
