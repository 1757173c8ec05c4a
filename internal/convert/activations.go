package convert

import (
	"github.com/pkg/errors"

	"github.com/symflow-ml/symflow/internal/onnx"
	"github.com/symflow-ml/symflow/internal/sym"
)

// registerActivationRules adds the activation and passthrough rules.
func (r *Registry) registerActivationRules() {
	r.register(OpRelu, unaryRule("Relu", lowerRelu))
	r.register(OpSigmoid, unaryRule("Sigmoid", lowerSigmoid))
	r.register(OpTanh, unaryRule("Tanh", sym.Tanh))
	r.register(OpIdentity, unaryRule("Identity", lowerIdentity))
}

func unaryRule(name string, op func(x *sym.Expr) *sym.Expr) Rule {
	return func(_ *onnx.NodeProto, inputs []*sym.Expr) ([]*sym.Expr, error) {
		if len(inputs) != 1 {
			return nil, errors.Errorf("%s expects 1 input, got %d", name, len(inputs))
		}
		return []*sym.Expr{op(inputs[0])}, nil
	}
}

func lowerRelu(x *sym.Expr) *sym.Expr {
	return sym.Fmax(x, 0)
}

// lowerSigmoid expands to 1 / (1 + exp(-x)); the symbolic algebra has no
// native sigmoid.
func lowerSigmoid(x *sym.Expr) *sym.Expr {
	one := sym.Scalar(1)
	return sym.Div(one, sym.Add(one, sym.Exp(sym.Neg(x))))
}

// lowerIdentity passes the input through unchanged, same object.
func lowerIdentity(x *sym.Expr) *sym.Expr {
	return x
}
