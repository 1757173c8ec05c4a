// Package sym implements a minimal symbolic matrix expression algebra.
//
// Expressions are built as an immutable DAG by the exported constructors and
// carry best-effort row/column counts. The package intentionally provides no
// numeric evaluation; it exists to let a computation graph be re-expressed
// symbolically and handed to a downstream optimization engine.
package sym
