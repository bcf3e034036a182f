package effects

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleNavigator tells a terminal user how to log in again.
type ConsoleNavigator struct {
	mu   sync.Mutex
	out  io.Writer
	hint string
}

// NewConsoleNavigator creates a navigator printing hint to out.
func NewConsoleNavigator(out io.Writer, hint string) *ConsoleNavigator {
	return &ConsoleNavigator{
		out:  out,
		hint: hint,
	}
}

// NavigateToLogin prints the login hint.
func (n *ConsoleNavigator) NavigateToLogin(_ context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, _ = fmt.Fprintf(n.out, "Your session has ended. Log in again with: %s\n", n.hint)
}

// ConsoleAlerter prints warnings to a terminal.
type ConsoleAlerter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleAlerter creates an alerter printing to out.
func NewConsoleAlerter(out io.Writer) *ConsoleAlerter {
	return &ConsoleAlerter{out: out}
}

// Alert prints message as a warning.
func (a *ConsoleAlerter) Alert(_ context.Context, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, _ = fmt.Fprintf(a.out, "WARNING: %s\n", message)
}
