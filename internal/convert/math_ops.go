package convert

import (
	"github.com/pkg/errors"

	"github.com/symflow-ml/symflow/internal/onnx"
	"github.com/symflow-ml/symflow/internal/sym"
)

// registerMathRules adds the arithmetic lowering rules to the registry.
func (r *Registry) registerMathRules() {
	r.register(OpAdd, binaryRule("Add", sym.Add))
	r.register(OpSub, binaryRule("Sub", sym.Sub))
	r.register(OpMul, binaryRule("Mul", sym.Mul))
	r.register(OpDiv, binaryRule("Div", sym.Div))
	r.register(OpMatMul, binaryRule("MatMul", sym.MatMul))
	r.register(OpGemm, lowerGemm)
}

// binaryRule wraps an elementwise or matrix binary constructor with the
// two-operand arity check.
func binaryRule(name string, op func(a, b *sym.Expr) *sym.Expr) Rule {
	return func(_ *onnx.NodeProto, inputs []*sym.Expr) ([]*sym.Expr, error) {
		if len(inputs) != 2 {
			return nil, errors.Errorf("%s expects 2 inputs, got %d", name, len(inputs))
		}
		return []*sym.Expr{op(inputs[0], inputs[1])}, nil
	}
}

// lowerGemm builds alpha*matmul(A, B) + beta*C. The bias C is optional and
// defaults to the scalar zero; alpha and beta default to 1.0.
func lowerGemm(node *onnx.NodeProto, inputs []*sym.Expr) ([]*sym.Expr, error) {
	if len(inputs) < 2 {
		return nil, errors.Errorf("Gemm expects at least 2 inputs, got %d", len(inputs))
	}
	alpha := float64(node.AttrFloat("alpha", 1.0))
	beta := float64(node.AttrFloat("beta", 1.0))

	bias := sym.Scalar(0)
	if len(inputs) > 2 {
		bias = inputs[2]
	}

	product := sym.Mul(sym.Scalar(alpha), sym.MatMul(inputs[0], inputs[1]))
	result := sym.Add(product, sym.Mul(sym.Scalar(beta), bias))
	return []*sym.Expr{result}, nil
}
