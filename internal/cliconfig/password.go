package cliconfig

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when a password prompt is needed but input is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// IsTerminal reports whether fd refers to an interactive terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// PromptPassword asks for the wallet password on out and reads it from fd without echo.
func PromptPassword(fd int, out io.Writer, wallet string) (string, error) {
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}
	fmt.Fprintf(out, "Enter password for wallet %q: ", wallet)
	defer fmt.Fprintln(out)

	raw, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("password cannot be empty")
	}

	pw := string(raw)
	clear(raw)
	return pw, nil
}
