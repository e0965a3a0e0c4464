package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"backend-journeystress/internal/auth"
	"backend-journeystress/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		subject = fs.String("sub", "", "Token subject, e.g. the analyst's name")
		ttl     = fs.Duration("ttl", auth.DefaultTokenTTL, "Token lifetime")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s --sub analyst [--ttl 24h]\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *subject == "" {
		fs.Usage()
		return 2
	}

	token, err := auth.SignToken(config.Load().JWTSecret, *subject, *ttl)
	if err != nil {
		fmt.Fprintf(stderr, "token failed: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, token)
	return 0
}
