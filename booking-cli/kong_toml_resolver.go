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

package main

import (
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/gravitational/trace"
	"github.com/pelletier/go-toml"
)

// sections are the TOML tables a flag name can start with. The rest of the
// flag name is the key within the table, with dashes replaced by underscores:
// --session-redis-addr is read from [session] redis_addr.
var sections = map[string]string{
	"api-":     "api",
	"session-": "session",
	"log-":     "log",
}

// KongTOMLResolver is the kong resolver function for toml configuration file
func KongTOMLResolver(r io.Reader) (kong.Resolver, error) {
	config, err := toml.LoadReader(r)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	// ResolverFunc reads configuration variables from the external source, TOML file in this case
	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
		name := flag.Name

		for prefix, section := range sections {
			if strings.HasPrefix(name, prefix) {
				key := strings.ReplaceAll(strings.TrimPrefix(name, prefix), "-", "_")
				if value := config.Get(section + "." + key); value != nil {
					return value, nil
				}
			}
		}

		return config.Get(name), nil
	}

	return f, nil
}
