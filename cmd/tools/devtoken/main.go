package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/noah-isme/backend-crm/internal/auth"
	"github.com/noah-isme/backend-crm/internal/config"
)

// devtoken prints a signed bearer token for local testing against the API.
func main() {
	subject := flag.String("sub", "dev-user", "token subject")
	roles := flag.String("roles", auth.RoleAdmin, "comma separated roles")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	svc, err := auth.NewService(auth.Config{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	token, exp, err := svc.Issue(*subject, strings.Split(*roles, ","), *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format(time.RFC3339))
	fmt.Println(token)
}
