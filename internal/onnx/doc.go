// Package onnx reads ONNX model files and exposes their computation graph
// as plain Go values: declared inputs and outputs, weight initializers, and
// operation nodes in source order.
//
// The decoder is deliberately small. It understands only the subset of the
// ONNX protobuf schema the converter consumes, skips everything else at the
// wire level, and performs no schema validation beyond structural decoding.
package onnx
