// Package jwt provides the signed bearer tokens used by the Tourney API.
//
// The package implements HS256 JSON Web Tokens over a process-wide shared
// secret. Two token kinds exist and are deliberately claim-disjoint:
//
//   - Session tokens carry the subject email in the "user" claim and prove
//     an authenticated login.
//   - Password-reset tokens carry the subject email in the "reset_user"
//     claim and are accepted only by the reset flow.
//
// A reset token never verifies as a session token and vice versa, because
// each verifier requires its own claim to be present.
//
// # Issuing
//
//	codec := jwt.NewCodec([]byte("shared-secret"))
//	token, err := codec.IssueSession("user@example.com", 7*24*time.Hour)
//
// # Verifying
//
//	email, err := codec.VerifySession(token)
//	if err != nil {
//	    // Invalid signature, malformed payload, wrong claim, or expired.
//	}
//
// Expiry is checked against the wall clock at verification time. Tokens
// carry no revocation state; validity is purely a function of signature
// and time.
package jwt
