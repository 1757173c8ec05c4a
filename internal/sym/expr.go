package sym

// Op identifies the operation at an expression node.
type Op int

// Expression node kinds.
const (
	OpSymbol Op = iota // named placeholder, column vector
	OpConst            // constant matrix
	OpAdd              // elementwise addition
	OpSub              // elementwise subtraction
	OpMul              // elementwise multiplication
	OpDiv              // elementwise division
	OpMatMul           // matrix product
	OpNeg              // elementwise negation
	OpExp              // elementwise exponential
	OpTanh             // elementwise hyperbolic tangent
	OpFmax             // elementwise maximum against a scalar
	OpVertcat          // vertical concatenation
)

var opNames = map[Op]string{
	OpSymbol:  "sym",
	OpConst:   "const",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMatMul:  "mtimes",
	OpNeg:     "neg",
	OpExp:     "exp",
	OpTanh:    "tanh",
	OpFmax:    "fmax",
	OpVertcat: "vertcat",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "unknown"
}

// Expr is a node in a symbolic expression graph.
//
// Expressions are immutable once constructed and form a DAG: a node may be
// shared as an operand of several other nodes. Consumers treat Expr as an
// opaque value and combine expressions only through the package constructors.
//
// Row and column counts are best-effort bookkeeping; a count of -1 means the
// size is not known symbolically.
type Expr struct {
	op       Op
	operands []*Expr
	name     string      // OpSymbol only
	value    [][]float64 // OpConst only, row-major
	scalar   float64     // OpFmax threshold
	rows     int
	cols     int
}

// Kind returns the operation at this node.
func (e *Expr) Kind() Op { return e.op }

// Operands returns the child expressions of this node.
func (e *Expr) Operands() []*Expr { return e.operands }

// Name returns the symbol name for OpSymbol nodes, empty otherwise.
func (e *Expr) Name() string { return e.name }

// Value returns the constant matrix for OpConst nodes, nil otherwise.
func (e *Expr) Value() [][]float64 { return e.value }

// Threshold returns the scalar bound of an OpFmax node.
func (e *Expr) Threshold() float64 { return e.scalar }

// Rows returns the number of rows, or -1 when unknown.
func (e *Expr) Rows() int { return e.rows }

// Cols returns the number of columns, or -1 when unknown.
func (e *Expr) Cols() int { return e.cols }

// IsScalar reports whether the expression is a 1x1 value.
func (e *Expr) IsScalar() bool { return e.rows == 1 && e.cols == 1 }

// Symbol creates a named symbolic placeholder shaped as a rows x 1 column
// vector. A rows value of 1 yields a scalar placeholder.
func Symbol(name string, rows int) *Expr {
	return &Expr{op: OpSymbol, name: name, rows: rows, cols: 1}
}

// Scalar creates a 1x1 constant.
func Scalar(v float64) *Expr {
	return &Expr{op: OpConst, value: [][]float64{{v}}, rows: 1, cols: 1}
}

// Const creates a constant matrix expression from row-major values.
// The rows must be of equal length; an empty matrix is a 0x0 constant.
func Const(value [][]float64) *Expr {
	rows := len(value)
	cols := 0
	if rows > 0 {
		cols = len(value[0])
	}
	return &Expr{op: OpConst, value: value, rows: rows, cols: cols}
}

// elementwise builds a binary elementwise node. Scalar operands broadcast
// against the other operand's shape.
func elementwise(op Op, a, b *Expr) *Expr {
	rows, cols := a.rows, a.cols
	if a.IsScalar() && !b.IsScalar() {
		rows, cols = b.rows, b.cols
	}
	return &Expr{op: op, operands: []*Expr{a, b}, rows: rows, cols: cols}
}

// Add returns the elementwise sum a + b.
func Add(a, b *Expr) *Expr { return elementwise(OpAdd, a, b) }

// Sub returns the elementwise difference a - b.
func Sub(a, b *Expr) *Expr { return elementwise(OpSub, a, b) }

// Mul returns the elementwise product a * b.
func Mul(a, b *Expr) *Expr { return elementwise(OpMul, a, b) }

// Div returns the elementwise quotient a / b.
func Div(a, b *Expr) *Expr { return elementwise(OpDiv, a, b) }

// MatMul returns the matrix product of a and b.
func MatMul(a, b *Expr) *Expr {
	return &Expr{op: OpMatMul, operands: []*Expr{a, b}, rows: a.rows, cols: b.cols}
}

func unary(op Op, x *Expr) *Expr {
	return &Expr{op: op, operands: []*Expr{x}, rows: x.rows, cols: x.cols}
}

// Neg returns the elementwise negation of x.
func Neg(x *Expr) *Expr { return unary(OpNeg, x) }

// Exp returns the elementwise exponential of x.
func Exp(x *Expr) *Expr { return unary(OpExp, x) }

// Tanh returns the elementwise hyperbolic tangent of x.
func Tanh(x *Expr) *Expr { return unary(OpTanh, x) }

// Fmax returns the elementwise maximum of x and the scalar c.
func Fmax(x *Expr, c float64) *Expr {
	e := unary(OpFmax, x)
	e.scalar = c
	return e
}

// Vertcat stacks the given expressions vertically, in order. The result has
// the summed row count when every operand's rows are known, -1 otherwise.
func Vertcat(xs ...*Expr) *Expr {
	if len(xs) == 1 {
		return xs[0]
	}
	rows := 0
	cols := -1
	for _, x := range xs {
		if x.rows < 0 || rows < 0 {
			rows = -1
		} else {
			rows += x.rows
		}
	}
	if len(xs) > 0 {
		cols = xs[0].cols
	}
	return &Expr{op: OpVertcat, operands: xs, rows: rows, cols: cols}
}
