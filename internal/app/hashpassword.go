package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/newsdesk/internal/auth"
)

// runHashPassword generates a bcrypt hash suitable for API_PASSWORD, so
// deployments never need the plaintext in their environment.
func runHashPassword(args []string) int {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	password := fs.String("password", "", "Plaintext password to hash")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		return 2
	}

	fmt.Println(hash)
	return 0
}
