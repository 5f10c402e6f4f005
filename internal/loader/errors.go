package loader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNetwork marks a transport failure reaching a candidate URL.
	ErrNetwork = errors.New("network error")
	// ErrNotFound marks a reachable candidate that did not return a document.
	ErrNotFound = errors.New("document not found")
	// ErrExhausted is returned when no candidate branch produced a document.
	ErrExhausted = errors.New("all candidate branches failed")
)

// FailureMessage is the user-facing text published when a write-up cannot be loaded.
const FailureMessage = "Could not load the project write-up. Try reopening the project later."

// Attempt records the outcome of one candidate branch.
type Attempt struct {
	Branch string `json:"branch"`
	URL    string `json:"url"`
	Err    string `json:"error"`
}

// ExhaustedError lists every failed attempt of a load.
type ExhaustedError struct {
	Repo     string
	Path     string
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Branch + ": " + a.Err
	}
	return fmt.Sprintf("loader: %s/%s: %s (%s)", e.Repo, e.Path, ErrExhausted, strings.Join(parts, "; "))
}

func (e *ExhaustedError) Unwrap() error { return ErrExhausted }
