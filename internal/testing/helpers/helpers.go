// Package helpers provides shared utilities for acceptance tests: token
// minting, HTTP request building, and response assertions.
package helpers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matchkit/tourney/api/internal/model"
	"github.com/matchkit/tourney/api/pkg/jwt"
)

// TokenSecret signs every token minted by TokenHelper. Tests that verify
// tokens must use a codec built from the same secret.
const TokenSecret = "acceptance-test-secret"

// TokenHelper mints session and reset tokens for test users.
type TokenHelper struct {
	Codec *jwt.Codec
	t     *testing.T
}

// NewTokenHelper creates a token helper signing with TokenSecret.
func NewTokenHelper(t *testing.T) *TokenHelper {
	return &TokenHelper{
		Codec: jwt.NewCodec([]byte(TokenSecret)),
		t:     t,
	}
}

// SessionToken mints a valid session token for the user.
func (h *TokenHelper) SessionToken(user *model.User) string {
	h.t.Helper()
	token, err := h.Codec.IssueSession(user.Email, time.Hour)
	if err != nil {
		h.t.Fatalf("helpers: issuing session token: %v", err)
	}
	return token
}

// ExpiredSessionToken mints a session token that has already expired.
func (h *TokenHelper) ExpiredSessionToken(user *model.User) string {
	h.t.Helper()
	token, err := h.Codec.IssueSession(user.Email, -time.Hour)
	if err != nil {
		h.t.Fatalf("helpers: issuing expired token: %v", err)
	}
	return token
}

// ResetToken mints a valid password reset token for the user.
func (h *TokenHelper) ResetToken(user *model.User) string {
	h.t.Helper()
	token, err := h.Codec.IssueReset(user.Email, time.Hour)
	if err != nil {
		h.t.Fatalf("helpers: issuing reset token: %v", err)
	}
	return token
}

// RequestBuilder builds HTTP requests fluently.
type RequestBuilder struct {
	t       *testing.T
	method  string
	path    string
	body    []byte
	headers map[string]string
}

// NewRequest starts building a request.
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		headers: map[string]string{},
	}
}

// WithJSON sets a JSON request body.
func (rb *RequestBuilder) WithJSON(body interface{}) *RequestBuilder {
	rb.t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		rb.t.Fatalf("helpers: marshaling body: %v", err)
	}
	rb.body = data
	rb.headers["Content-Type"] = "application/json"
	return rb
}

// WithHeader sets a request header.
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithBearer sets the Authorization header.
func (rb *RequestBuilder) WithBearer(token string) *RequestBuilder {
	rb.headers["Authorization"] = "Bearer " + token
	return rb
}

// Build constructs the http.Request.
func (rb *RequestBuilder) Build() *http.Request {
	var req *http.Request
	if rb.body != nil {
		req = httptest.NewRequest(rb.method, rb.path, bytes.NewReader(rb.body))
	} else {
		req = httptest.NewRequest(rb.method, rb.path, nil)
	}
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	return req
}

// AssertStatus fails the test if the recorded status differs, dumping the
// response body for context.
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Fatalf("expected status %d, got %d\nBody: %s", expected, resp.Code, resp.Body.String())
	}
}

// DecodeResponse unmarshals the response body into v.
func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("helpers: decoding response: %v\nBody: %s", err, resp.Body.String())
	}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}
