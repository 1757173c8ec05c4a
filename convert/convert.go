// Package convert is the public API for translating ONNX models into
// symbolic expression graphs.
//
// A trained network becomes a differentiable symbolic expression that a
// downstream numeric-optimization engine can embed directly, instead of
// calling the network as an opaque function.
//
// # Example Usage
//
//	conv := convert.New("model.onnx")
//	if err := conv.Load(); err != nil {
//	    log.Fatal(err)
//	}
//
//	inputs, _ := conv.Inputs()
//	for _, in := range inputs {
//	    fmt.Printf("%s %s %s\n", in.Name, in.Shape, in.DType.Name())
//	}
//
//	expr, err := conv.Convert()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(expr)
//
// Conversion is all-or-nothing: an operator outside the supported
// vocabulary fails with ErrUnsupportedOp, a recognized-but-pending operator
// with ErrNotImplemented, and no partial expression is ever returned. Match
// the exported errors with errors.Is.
package convert

import (
	internalconvert "github.com/symflow-ml/symflow/internal/convert"
	internalonnx "github.com/symflow-ml/symflow/internal/onnx"
)

// Converter translates one ONNX model. Usage is two-step: Load, then
// Convert. Converters are single-use per goroutine; concurrent conversions
// need separate Converter values.
type Converter = internalconvert.Converter

// Options configures conversion strictness.
type Options = internalconvert.Options

// TensorInfo describes a declared model input or output.
type TensorInfo = internalonnx.TensorInfo

// Shape is an ordered list of declared dimensions.
type Shape = internalonnx.Shape

// Dim is a single declared dimension: fixed, named, or unknown.
type Dim = internalonnx.Dim

// DataType is the ONNX element type enumeration.
type DataType = internalonnx.DataType

// Conversion and load failure categories, for use with errors.Is.
var (
	ErrNotFound       = internalonnx.ErrNotFound
	ErrInvalid        = internalonnx.ErrInvalid
	ErrNotLoaded      = internalconvert.ErrNotLoaded
	ErrUnsupportedOp  = internalconvert.ErrUnsupportedOp
	ErrNotImplemented = internalconvert.ErrNotImplemented
	ErrNoOutputs      = internalconvert.ErrNoOutputs
	ErrMissingInput   = internalconvert.ErrMissingInput
	ErrUnknownShape   = internalconvert.ErrUnknownShape
)

// New creates a converter for the model at path.
func New(path string, opts ...Options) *Converter {
	return internalconvert.New(path, opts...)
}

// DefaultOptions returns the lenient default conversion options.
func DefaultOptions() Options {
	return internalconvert.DefaultOptions()
}

// SupportedOps returns the operator kinds the converter can lower.
func SupportedOps() []string {
	registry, err := internalconvert.NewRegistry()
	if err != nil {
		panic(err)
	}
	return registry.Supported()
}

// PlannedOps returns the operator kinds that are recognized but not lowered
// yet.
func PlannedOps() []string {
	registry, err := internalconvert.NewRegistry()
	if err != nil {
		panic(err)
	}
	return registry.Planned()
}
