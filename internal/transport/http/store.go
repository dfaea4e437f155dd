package http

import (
	"time"

	"pphistory/internal/render"
)

// Build is one successful document build
type Build struct {
	RunID    string           `json:"run_id"`
	BuiltAt  time.Time        `json:"built_at"`
	Duration time.Duration    `json:"duration_ns"`
	Document *render.Document `json:"-"`
}

// BuildStore exposes the latest build to the handlers
type BuildStore interface {
	// Latest returns the last successful build; ok is false until one exists
	Latest() (build Build, ok bool)
	// LastError returns the error of the most recent build attempt, or nil
	// when it succeeded
	LastError() error
}
