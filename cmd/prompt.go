package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput indicates that a required value was not entered.
var ErrEmptyInput = errors.New("value cannot be empty")

// prompter asks for values on the terminal, falling back to plain lines when stdin is piped.
type prompter struct {
	in           *bufio.Reader
	out          io.Writer
	fd           int
	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
}

func newStdPrompter() *prompter {
	return &prompter{
		in:           bufio.NewReader(os.Stdin),
		out:          os.Stderr,
		fd:           int(os.Stdin.Fd()), //nolint:gosec // File descriptors fit into int.
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
	}
}

// Line reads one trimmed line.
func (p *prompter) Line(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", label)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}

	value := strings.TrimSpace(line)
	if value == "" {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), ErrEmptyInput)
	}

	return value, nil
}

// Secret reads a value without echo when stdin is a terminal.
func (p *prompter) Secret(label string) (string, error) {
	if !p.isTerminal(p.fd) {
		return p.Line(label)
	}

	_, _ = fmt.Fprintf(p.out, "%s: ", label)

	secret, err := p.readPassword(p.fd)

	_, _ = fmt.Fprintln(p.out)

	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}

	if len(secret) == 0 {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), ErrEmptyInput)
	}

	return string(secret), nil
}

// valueOrPrompt returns value when set and asks for it otherwise.
func valueOrPrompt(value string, ask func(label string) (string, error), label string) (string, error) {
	if value != "" {
		return value, nil
	}

	return ask(label)
}
