package convert

import "github.com/pkg/errors"

// Conversion failure categories. All of them abort the translation; there is
// no partial result. Callers match them with errors.Is.
var (
	// ErrNotLoaded reports a Convert, Inputs or Outputs call before a
	// successful Load.
	ErrNotLoaded = errors.New("model not loaded")

	// ErrUnsupportedOp reports an operator outside the converter's
	// vocabulary entirely.
	ErrUnsupportedOp = errors.New("unsupported operator")

	// ErrNotImplemented reports an operator the converter recognizes as a
	// planned target but has no lowering rule for yet.
	ErrNotImplemented = errors.New("operator not implemented")

	// ErrNoOutputs reports that no declared graph output was bound during
	// the node walk.
	ErrNoOutputs = errors.New("no resolvable graph outputs")

	// ErrMissingInput reports an unresolvable node input under
	// Options.StrictInputs.
	ErrMissingInput = errors.New("missing node input")

	// ErrUnknownShape reports a graph input without a fully known shape
	// under Options.StrictShapes.
	ErrUnknownShape = errors.New("input shape not fully known")
)
