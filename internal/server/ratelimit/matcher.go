package ratelimit

import "strings"

// unlimited is returned for requests that are never throttled.
var unlimited = EndpointConfig{}

// MatchEndpoint finds the limit for a request. Health checks and CORS preflights
// are unlimited. Exact paths win over prefixes; nil means use the default limit.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "OPTIONS" || (method == "GET" && path == "/health") {
		u := unlimited
		return &u
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
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
