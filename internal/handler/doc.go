// Package handler contains the HTTP handlers for the API.
//
// Handlers decode requests, call into the service layer and translate
// service errors into RFC 9457 problem responses. Authorization happens
// before any handler runs, in the middleware guard.
package handler
