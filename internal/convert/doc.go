// Package convert implements the graph translation engine: it walks an
// ONNX computation graph in source order and lowers it, node by node, into
// a symbolic expression graph via forward substitution over a value
// environment keyed by tensor name.
package convert
