// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and client redirect parameters.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "praxia-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "praxia.care"
)

// # Client Redirect Contract
//
// The SPA restores a session from these URL parameters after an OAuth
// round trip. They are part of the frontend contract and must not change.
const (
	// ClientAppRoute is the SPA route that receives OAuth login credentials.
	ClientAppRoute = "/app"

	// LandingRoute is the neutral route used for OAuth failure redirects.
	LandingRoute = "/"

	// ParamAuthSuccess marks a redirect as carrying login credentials ("1").
	ParamAuthSuccess = "auth_success"

	// ParamToken carries the issued bearer token.
	ParamToken = "token"

	// ParamUser carries the base64-encoded JSON public user view.
	ParamUser = "user"

	// ParamAuthError carries a human-readable flash message on OAuth failure.
	ParamAuthError = "auth_error"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldMessage = "message"
	FieldError   = "error"
	FieldCode    = "code"
	FieldToken   = "token"
	FieldUser    = "user"
	FieldStatus  = "status"
)

// # Redis Prefixes

const (
	// RedisPrefixOAuthState namespaces transient OAuth CSRF state entries.
	RedisPrefixOAuthState = "oauth:state:"
)
