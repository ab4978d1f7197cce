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
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/gravitational/trace"
)

// AddrToURL turns an API address into a base URL. Addresses without a scheme are
// assumed to be plain HTTP since the booking API is usually served on a local port.
// The resulting path always ends with a slash so that relative endpoint paths
// like "auth/refresh/" resolve below it.
func AddrToURL(addr string) (*url.URL, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, trace.BadParameter("empty API address")
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}

	result, err := url.Parse(addr)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if result.Host == "" {
		return nil, trace.BadParameter("API address %q has no host", addr)
	}
	if result.Scheme == "https" && result.Port() == "443" {
		// Cut off redundant :443
		result.Host = result.Hostname()
	}
	if !strings.HasSuffix(result.Path, "/") {
		result.Path += "/"
	}
	return result, nil
}

// BuildURLPath joins escaped path segments. A trailing slash is kept since the
// booking API routes are all slash-terminated.
func BuildURLPath(args ...interface{}) string {
	pathArgs := make([]string, 0, len(args))
	for _, a := range args {
		var str string
		switch v := a.(type) {
		case string:
			str = v
		default:
			str = fmt.Sprint(v)
		}
		pathArgs = append(pathArgs, url.PathEscape(str))
	}
	return path.Join(pathArgs...) + "/"
}
