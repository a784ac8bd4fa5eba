package research

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrRunFinished is the control signal raised by the termination tool.
// The orchestrator consumes it as a normal end of run.
var ErrRunFinished = errors.New("research run finished")

// Tool is a single callable capability exposed to the reasoning process.
// In-band failures (unknown product, missing upstream data) are returned
// as {"error": ...} payloads, never as a Go error; the workflow routes
// around them toward report generation.
type Tool interface {
	// Name returns the unique tool identifier.
	Name() string
	// Description returns a short human-readable summary for the model.
	Description() string
	// Parameters returns the JSON-schema description of the arguments.
	Parameters() map[string]any
	// Call executes the tool, mutating the context, and returns the JSON
	// payload handed back to the model.
	Call(ctx context.Context, args json.RawMessage, rc *Context) (string, error)
}

// Runner port: hands the context and a goal to a reasoning process that
// invokes tools in an order it determines until the termination signal.
type Runner interface {
	Run(ctx context.Context, goal string, rc *Context) error
}

// ArtifactStore port (interface for report artifact persistence)
type ArtifactStore interface {
	// Store persists an artifact and returns its location (path or URL).
	Store(ctx context.Context, name string, contentType string, data []byte) (string, error)
}
