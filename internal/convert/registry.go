package convert

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/symflow-ml/symflow/internal/onnx"
	"github.com/symflow-ml/symflow/internal/sym"
)

// OpKind is an ONNX operator type in the converter's closed vocabulary.
type OpKind string

// The operator vocabulary. Every kind listed here is either backed by a
// lowering rule or explicitly planned; NewRegistry enforces that.
const (
	OpAdd       OpKind = "Add"
	OpSub       OpKind = "Sub"
	OpMul       OpKind = "Mul"
	OpDiv       OpKind = "Div"
	OpMatMul    OpKind = "MatMul"
	OpGemm      OpKind = "Gemm"
	OpRelu      OpKind = "Relu"
	OpSigmoid   OpKind = "Sigmoid"
	OpTanh      OpKind = "Tanh"
	OpIdentity  OpKind = "Identity"
	OpConstant  OpKind = "Constant"
	OpReshape   OpKind = "Reshape"
	OpTranspose OpKind = "Transpose"
	OpConcat    OpKind = "Concat"
)

var opVocabulary = []OpKind{
	OpAdd, OpSub, OpMul, OpDiv, OpMatMul, OpGemm,
	OpRelu, OpSigmoid, OpTanh, OpIdentity,
	OpConstant, OpReshape, OpTranspose, OpConcat,
}

// Rule lowers one operation node into symbolic expressions, one per node
// output. The inputs are the node's already-resolved input expressions in
// declared order.
type Rule func(node *onnx.NodeProto, inputs []*sym.Expr) ([]*sym.Expr, error)

// Registry maps operator kinds to lowering rules. Kinds in the vocabulary
// without a rule must be declared planned; dispatching one of those fails
// with ErrNotImplemented rather than ErrUnsupportedOp.
type Registry struct {
	rules   map[OpKind]Rule
	planned map[OpKind]bool
}

// NewRegistry builds the lowering registry and validates it against the
// operator vocabulary. A gap is a construction-time error so it surfaces
// before any model is converted.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		rules: make(map[OpKind]Rule),
		planned: map[OpKind]bool{
			OpConstant:  true,
			OpReshape:   true,
			OpTranspose: true,
			OpConcat:    true,
		},
	}
	r.registerMathRules()
	r.registerActivationRules()

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// validate checks the registry against the operator vocabulary: every kind
// must either carry a rule or be declared planned, and nothing outside the
// vocabulary may be registered.
func (r *Registry) validate() error {
	vocabulary := make(map[OpKind]bool, len(opVocabulary))
	for _, kind := range opVocabulary {
		vocabulary[kind] = true
		if _, ok := r.rules[kind]; !ok && !r.planned[kind] {
			return errors.Errorf("operator %s has no lowering rule and is not planned", kind)
		}
	}
	for kind := range r.rules {
		if !vocabulary[kind] {
			return errors.Errorf("rule registered for %s, which is outside the vocabulary", kind)
		}
		if r.planned[kind] {
			return errors.Errorf("operator %s is both implemented and planned", kind)
		}
	}
	return nil
}

func (r *Registry) register(kind OpKind, rule Rule) {
	r.rules[kind] = rule
}

// Lower dispatches one node against the registry.
func (r *Registry) Lower(node *onnx.NodeProto, inputs []*sym.Expr) ([]*sym.Expr, error) {
	kind := OpKind(node.OpType)
	if rule, ok := r.rules[kind]; ok {
		return rule(node, inputs)
	}
	if r.planned[kind] {
		return nil, errors.Wrap(ErrNotImplemented, node.OpType)
	}
	return nil, errors.Wrap(ErrUnsupportedOp, node.OpType)
}

// Supported returns the sorted operator kinds with active lowering rules.
func (r *Registry) Supported() []string {
	return sortedKinds(r.rules)
}

// Planned returns the sorted operator kinds that are declared but have no
// lowering rule yet.
func (r *Registry) Planned() []string {
	return sortedKinds(r.planned)
}

func sortedKinds[V any](m map[OpKind]V) []string {
	kinds := make([]string, 0, len(m))
	for kind := range m {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	return kinds
}
