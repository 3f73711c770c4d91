// Package service contains the business logic layer.
//
// Services depend on repository interfaces defined in this package and
// return sentinel errors (see errors.go) that handlers translate into
// HTTP problem responses.
package service
