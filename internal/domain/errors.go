package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCommand is returned when the translator produced no text.
	ErrEmptyCommand = errors.New("model returned an empty command")
	// ErrModelNotConfigured is returned when a model name cannot be resolved.
	ErrModelNotConfigured = errors.New("model not configured")
	// ErrMissingAPIKey is returned when the model's key variable is unset.
	ErrMissingAPIKey = errors.New("missing API key")
)

// ParseError is returned when the classifier response does not match the verdict schema.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse safety verdict: %v\nraw: %s", e.Err, strings.TrimSpace(e.Text))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExecutionError is returned when the shell exits non-zero or cannot start.
type ExecutionError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("command failed (exit %d): %s", e.ExitCode, e.Command)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
