package ratelimit

import "strings"

// unlimited is returned for endpoints that are never limited
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration for a request path and method, or nil.
// Exact paths win over prefix entries (paths ending in "/").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		u := unlimited
		return &u
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}
