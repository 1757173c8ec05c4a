package sym

import (
	"fmt"
	"strings"
)

// String renders the expression as a compact infix/functional form, useful
// for debugging and CLI output. Large constants are summarized by shape.
func (e *Expr) String() string {
	var b strings.Builder
	e.render(&b)
	return b.String()
}

func (e *Expr) render(b *strings.Builder) {
	switch e.op {
	case OpSymbol:
		b.WriteString(e.name)
	case OpConst:
		if e.IsScalar() {
			fmt.Fprintf(b, "%g", e.value[0][0])
			return
		}
		fmt.Fprintf(b, "const<%dx%d>", e.rows, e.cols)
	case OpAdd, OpSub, OpMul, OpDiv:
		b.WriteByte('(')
		e.operands[0].render(b)
		fmt.Fprintf(b, " %s ", e.op)
		e.operands[1].render(b)
		b.WriteByte(')')
	case OpMatMul:
		e.renderCall(b, "mtimes", "")
	case OpNeg:
		b.WriteByte('-')
		e.operands[0].render(b)
	case OpExp, OpTanh:
		e.renderCall(b, e.op.String(), "")
	case OpFmax:
		e.renderCall(b, "fmax", fmt.Sprintf(", %g", e.scalar))
	case OpVertcat:
		e.renderCall(b, "vertcat", "")
	}
}

func (e *Expr) renderCall(b *strings.Builder, name, suffix string) {
	b.WriteString(name)
	b.WriteByte('(')
	for i, operand := range e.operands {
		if i > 0 {
			b.WriteString(", ")
		}
		operand.render(b)
	}
	b.WriteString(suffix)
	b.WriteByte(')')
}
