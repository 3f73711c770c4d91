// Package middleware provides HTTP middleware for the API server.
//
// The Guard type carries the authentication and authorization policies.
// Each policy resolves a Principal into the request context; handlers
// read it back with GetPrincipal.
package middleware
