// Package sym is the public API for symflow's symbolic matrix expressions.
//
// Expressions form an immutable DAG built through the constructors below.
// They support the small algebra a numeric-optimization backend needs:
// elementwise arithmetic, matrix products, a handful of elementwise
// functions, constants and named placeholders, and vertical concatenation.
// There is no numeric evaluation; expressions describe computation, they do
// not perform it.
//
// # Example Usage
//
//	x := sym.Symbol("x", 3)                      // 3x1 placeholder
//	w := sym.Const([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
//	y := sym.Fmax(sym.MatMul(x, w), 0)           // relu(x @ w)
//	fmt.Println(y)                               // fmax(mtimes(x, const<3x3>), 0)
package sym

import (
	internalsym "github.com/symflow-ml/symflow/internal/sym"
)

// Expr is an opaque node in a symbolic expression graph.
type Expr = internalsym.Expr

// Op identifies the operation at an expression node.
type Op = internalsym.Op

// Expression node kinds.
const (
	OpSymbol  Op = internalsym.OpSymbol
	OpConst   Op = internalsym.OpConst
	OpAdd     Op = internalsym.OpAdd
	OpSub     Op = internalsym.OpSub
	OpMul     Op = internalsym.OpMul
	OpDiv     Op = internalsym.OpDiv
	OpMatMul  Op = internalsym.OpMatMul
	OpNeg     Op = internalsym.OpNeg
	OpExp     Op = internalsym.OpExp
	OpTanh    Op = internalsym.OpTanh
	OpFmax    Op = internalsym.OpFmax
	OpVertcat Op = internalsym.OpVertcat
)

// Symbol creates a named rows x 1 symbolic placeholder.
func Symbol(name string, rows int) *Expr { return internalsym.Symbol(name, rows) }

// Scalar creates a 1x1 constant.
func Scalar(v float64) *Expr { return internalsym.Scalar(v) }

// Const creates a constant matrix from row-major values.
func Const(value [][]float64) *Expr { return internalsym.Const(value) }

// Add returns the elementwise sum a + b.
func Add(a, b *Expr) *Expr { return internalsym.Add(a, b) }

// Sub returns the elementwise difference a - b.
func Sub(a, b *Expr) *Expr { return internalsym.Sub(a, b) }

// Mul returns the elementwise product a * b.
func Mul(a, b *Expr) *Expr { return internalsym.Mul(a, b) }

// Div returns the elementwise quotient a / b.
func Div(a, b *Expr) *Expr { return internalsym.Div(a, b) }

// MatMul returns the matrix product of a and b.
func MatMul(a, b *Expr) *Expr { return internalsym.MatMul(a, b) }

// Neg returns the elementwise negation of x.
func Neg(x *Expr) *Expr { return internalsym.Neg(x) }

// Exp returns the elementwise exponential of x.
func Exp(x *Expr) *Expr { return internalsym.Exp(x) }

// Tanh returns the elementwise hyperbolic tangent of x.
func Tanh(x *Expr) *Expr { return internalsym.Tanh(x) }

// Fmax returns the elementwise maximum of x and the scalar c.
func Fmax(x *Expr, c float64) *Expr { return internalsym.Fmax(x, c) }

// Vertcat stacks expressions vertically, in order.
func Vertcat(xs ...*Expr) *Expr { return internalsym.Vertcat(xs...) }
