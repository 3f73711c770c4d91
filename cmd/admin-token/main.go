package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matchkit/tourney/api/pkg/jwt"
)

func main() {
	// Flags for customization
	secret := flag.String("secret", os.Getenv("AUTH_JWT_SECRET"), "Shared signing secret (defaults to AUTH_JWT_SECRET)")
	email := flag.String("email", "admin@tourney.dev", "Email for the token subject")
	ttl := flag.Duration("ttl", 168*time.Hour, "Token lifetime (default: 1 week)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "Error: no signing secret")
		fmt.Fprintln(os.Stderr, "\nSet AUTH_JWT_SECRET or pass -secret.")
		os.Exit(1)
	}

	codec := jwt.NewCodec([]byte(*secret))
	token, err := codec.IssueSession(*email, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "bearer",
			"expires_in":   int(ttl.Seconds()),
			"email":        *email,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
	} else {
		expTime := time.Now().Add(*ttl)
		fmt.Println("Session Token Generated")
		fmt.Println("=======================")
		fmt.Printf("Email:    %s\n", *email)
		fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(token)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/clubs\n", token[:50]+"...")
	}
}
