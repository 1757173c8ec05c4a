package onnx

import "github.com/pkg/errors"

// Load-time failure categories. Callers match them with errors.Is.
var (
	// ErrNotFound reports that the model file path does not exist.
	ErrNotFound = errors.New("model file not found")

	// ErrInvalid reports a file that exists but does not decode into a
	// well-formed model.
	ErrInvalid = errors.New("invalid model")
)
