package main

import (
	"context"
	"io"
	"os"
	"time"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time and signal handling.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// Notify derives the context cancelled on shutdown signals.
	Notify func(parent context.Context) (context.Context, context.CancelFunc)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Notify: notifyContext,
	}
}

// now returns the current time, tolerating a partially filled Environment.
func (e *Environment) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// notify derives a signal-aware context, tolerating a partially filled Environment.
func (e *Environment) notify(parent context.Context) (context.Context, context.CancelFunc) {
	if e.Notify == nil {
		return notifyContext(parent)
	}
	return e.Notify(parent)
}
