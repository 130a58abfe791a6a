package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"ems.com/ems/config"
	"ems.com/ems/security"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	id := flag.Uint("id", 1, "user id, also the employee id for employees")
	role := flag.String("role", string(security.RoleEmployee), "admin or employee")
	email := flag.String("email", "", "email claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
	secret, err := cfg.SigningSecret()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	r, ok := security.ParseRole(*role)
	if !ok {
		fmt.Fprintf(os.Stderr, "[ERROR] unknown role %q\n", *role)
		os.Exit(1)
	}

	token, err := security.CreateIdentityToken(security.Identity{ID: *id, Email: *email, Role: r}, secret, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
