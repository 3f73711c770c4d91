package model

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewUnauthenticatedError_SetsWWWAuthenticateHeader(t *testing.T) {
	t.Parallel()
	rr := httptest.NewRecorder()

	NewUnauthenticatedError().WriteJSON(rr)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if got := rr.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("expected WWW-Authenticate 'Bearer', got %q", got)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json content type, got %q", ct)
	}
}

func TestNewUnauthenticatedError_GenericDetail(t *testing.T) {
	t.Parallel()
	p := NewUnauthenticatedError()

	// The detail must not hint at why the request was denied.
	if strings.Contains(strings.ToLower(p.Detail), "token") {
		t.Errorf("detail leaks denial reason: %q", p.Detail)
	}
	if strings.Contains(strings.ToLower(p.Detail), "access") {
		t.Errorf("detail leaks denial reason: %q", p.Detail)
	}
}

func TestNewValidationError_BuildsDetailFromFields(t *testing.T) {
	t.Parallel()
	p := NewValidationError([]FieldError{
		{Field: "new_password", Message: "must be 8-48 characters"},
		{Field: "token", Message: "required"},
	})

	if p.Status != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", p.Status)
	}
	if !strings.Contains(p.Detail, "new_password") {
		t.Errorf("detail should mention first field, got %q", p.Detail)
	}
	if !strings.Contains(p.Detail, "1 more") {
		t.Errorf("detail should count remaining errors, got %q", p.Detail)
	}
}

func TestProblemDetails_ErrorString(t *testing.T) {
	t.Parallel()
	p := NewNotFoundError("club")

	msg := p.Error()

	if !strings.Contains(msg, "404") || !strings.Contains(msg, "club not found") {
		t.Errorf("unexpected error string: %q", msg)
	}
}
