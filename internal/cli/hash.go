package cli

import (
	"bytes"
	"errors"
	"flag"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

func (a *App) hashPassword(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.SetOutput(a.out)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	pw, err := GetPassword(a.out, "Enter password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer wipe(pw)

	confirm, err := GetPassword(a.out, "Repeat password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer wipe(confirm)

	if !bytes.Equal(pw, confirm) {
		return ErrPasswordMismatch
	}

	hash, err := HashPassword(pw, *cost)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.out, hash)
	return err
}

// HashPassword returns the bcrypt hash of pw. Empty passwords are refused.
func HashPassword(pw []byte, cost int) (string, error) {
	if len(pw) == 0 {
		return "", errors.New("password is empty")
	}
	h, err := bcrypt.GenerateFromPassword(pw, cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
