// Command admintoken prints a bearer token for the admin delete endpoint.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"bulletin/internal/auth"
	"bulletin/internal/config"
)

func main() {
	subject := flag.String("subject", "admin", "token subject recorded in the sub claim")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to ADMIN_TOKEN_TTL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *ttl <= 0 {
		*ttl = cfg.AdminTokenTTL
	}

	tok, err := auth.Issue(*subject, auth.RoleAdmin, cfg.JWTIssuer, cfg.JWTSigningKey, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.ExpiresAt.Format(time.RFC3339))
	fmt.Println(tok.Value)
}
