package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMissingSecret    = errors.New("missing signing secret")
)

// Claims represents the token payload. Session tokens populate User,
// password-reset tokens populate ResetUser; the two are never set together.
type Claims struct {
	User      string `json:"user,omitempty"`
	ResetUser string `json:"reset_user,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid checks the expiry claim against the wall clock.
func (c *Claims) Valid() error {
	if c.ExpiresAt != 0 && time.Now().Unix() > c.ExpiresAt {
		return ErrTokenExpired
	}
	return nil
}

// Codec signs and verifies bearer tokens with a shared HS256 secret.
// The secret is immutable for the process lifetime; a Codec is safe for
// concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec around the given shared secret. Every server
// instance must be configured with the same secret for tokens to be
// portable between them.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// IssueSession creates a session token for the given subject email.
func (c *Codec) IssueSession(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	return c.sign(Claims{
		User:      email,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	})
}

// IssueReset creates a single-purpose password-reset token for the given
// subject email.
func (c *Codec) IssueReset(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	return c.sign(Claims{
		ResetUser: email,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	})
}

// VerifySession verifies a session token and returns the subject email.
// A reset token fails here because it lacks the "user" claim.
func (c *Codec) VerifySession(token string) (string, error) {
	claims, err := c.verify(token)
	if err != nil {
		return "", err
	}
	if claims.User == "" {
		return "", ErrInvalidToken
	}
	return claims.User, nil
}

// VerifyReset verifies a password-reset token and returns the subject email.
// A session token fails here because it lacks the "reset_user" claim.
func (c *Codec) VerifyReset(token string) (string, error) {
	claims, err := c.verify(token)
	if err != nil {
		return "", err
	}
	if claims.ResetUser == "" {
		return "", ErrInvalidToken
	}
	return claims.ResetUser, nil
}

func (c *Codec) sign(claims Claims) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrMissingSecret
	}

	header := map[string]string{
		"alg": "HS256",
		"typ": "JWT",
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	message := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)

	return message + "." + base64URLEncode(c.mac(message)), nil
}

func (c *Codec) verify(token string) (*Claims, error) {
	if len(c.secret) == 0 {
		return nil, ErrMissingSecret
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	headerB64, claimsB64, signatureB64 := parts[0], parts[1], parts[2]

	signature, err := base64URLDecode(signatureB64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	message := headerB64 + "." + claimsB64
	if !hmac.Equal(signature, c.mac(message)) {
		return nil, ErrInvalidSignature
	}

	claimsJSON, err := base64URLDecode(claimsB64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	if err := claims.Valid(); err != nil {
		return nil, err
	}

	return &claims, nil
}

func (c *Codec) mac(message string) []byte {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(message))
	return h.Sum(nil)
}

// Helper functions

func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func base64URLDecode(s string) ([]byte, error) {
	// Add padding if needed
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}
