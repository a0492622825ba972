package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrMissingAPIKey is returned when no Gemini credential could be found
var ErrMissingAPIKey = errors.New("no Gemini API key found: set GEMINI_API_KEY or GOOGLE_API_KEY")

// APIKeyEnvVars lists the variables consulted for the API key, in order of preference
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// ResolveAPIKey returns the first non-empty API key variable
func ResolveAPIKey(getenv func(string) string) (string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range APIKeyEnvVars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v, nil
		}
	}
	return "", ErrMissingAPIKey
}

// Prompter asks the user for an API key when none is configured
type Prompter struct {
	In  io.Reader
	Out io.Writer
	// ReadSecret reads a line without echo; nil falls back to a plain line read.
	ReadSecret func() (string, error)
}

// NewTerminalPrompter returns a Prompter bound to the process stdin/stderr.
// Input is hidden when stdin is a terminal.
func NewTerminalPrompter() *Prompter {
	p := &Prompter{In: os.Stdin, Out: os.Stderr}
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.ReadSecret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			return string(b), err
		}
	}
	return p
}

// PromptAPIKey resolves the key from the environment and otherwise asks the
// user once. An empty answer halts with ErrMissingAPIKey.
func (p *Prompter) PromptAPIKey(getenv func(string) string) (string, error) {
	if key, err := ResolveAPIKey(getenv); err == nil {
		return key, nil
	}

	fmt.Fprintln(p.Out, "No Gemini API key found in GEMINI_API_KEY or GOOGLE_API_KEY.")
	fmt.Fprint(p.Out, "Enter your Gemini API key: ")

	key, err := p.read()
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrMissingAPIKey
	}
	fmt.Fprintf(p.Out, "Using API key %s\n", MaskAPIKey(key))
	return key, nil
}

func (p *Prompter) read() (string, error) {
	if p.ReadSecret != nil {
		return p.ReadSecret()
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}

// MaskAPIKey hides all but the edges of a key for display
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
