package convert

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/symflow-ml/symflow/internal/onnx"
	"github.com/symflow-ml/symflow/internal/sym"
)

// Graph fixtures are assembled as decoded structs; the wire format is the
// parser's concern.

func declaration(name string, dims ...int64) onnx.ValueInfoProto {
	shape := &onnx.TensorShapeProto{}
	for _, d := range dims {
		if d > 0 {
			shape.Dims = append(shape.Dims,
				onnx.DimensionProto{DimValue: d, HasDimValue: true})
		} else {
			shape.Dims = append(shape.Dims,
				onnx.DimensionProto{DimParam: "batch"})
		}
	}
	return onnx.ValueInfoProto{
		Name: name,
		Type: &onnx.TypeProto{
			TensorType: &onnx.TensorTypeProto{ElemType: onnx.TypeFloat, Shape: shape},
		},
	}
}

func weights(name string, rows, cols int64, values ...float32) onnx.TensorProto {
	return onnx.TensorProto{
		Name:      name,
		DataType:  onnx.TypeFloat,
		Dims:      []int64{rows, cols},
		FloatData: values,
	}
}

func mustConvert(t *testing.T, graph *onnx.GraphProto, opts Options) *sym.Expr {
	t.Helper()
	registry, err := NewRegistry()
	require.NoError(t, err)
	expr, err := convertGraph(graph, registry, opts)
	require.NoError(t, err)
	return expr
}

func convertErr(t *testing.T, graph *onnx.GraphProto, opts Options) error {
	t.Helper()
	registry, err := NewRegistry()
	require.NoError(t, err)
	_, err = convertGraph(graph, registry, opts)
	require.Error(t, err)
	return err
}

func TestConvertIdentityReturnsInputUnchanged(t *testing.T) {
	graph := &onnx.GraphProto{
		Inputs:  []onnx.ValueInfoProto{declaration("x", 3)},
		Outputs: []onnx.ValueInfoProto{declaration("y", 3)},
		Nodes: []onnx.NodeProto{
			{OpType: "Identity", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
	}

	expr := mustConvert(t, graph, DefaultOptions())
	// Identity forwards the same object: the result is the input symbol.
	assert.Equal(t, sym.OpSymbol, expr.Kind())
	assert.Equal(t, "x", expr.Name())
	assert.Equal(t, 3, expr.Rows())
}

// Scenario: y = matmul(x, w) with x of shape [3] and a 3x3 constant w.
func TestConvertMatMul(t *testing.T) {
	graph := &onnx.GraphProto{
		Inputs:  []onnx.ValueInfoProto{declaration("x", 3)},
		Outputs: []onnx.ValueInfoProto{declaration("y", 3)},
		Initializers: []onnx.TensorProto{
			weights("w", 3, 3, 1, 0, 0, 0, 1, 0, 0, 0, 1),
		},
		Nodes: []onnx.NodeProto{
			{OpType: "MatMul", Inputs: []string{"x", "w"}, Outputs: []string{"y"}},
		},
	}

	expr := mustConvert(t, graph, DefaultOptions())
	require.Equal(t, sym.OpMatMul, expr.Kind())
	assert.Equal(t, 3, expr.Rows())

	operands := expr.Operands()
	require.Len(t, operands, 2)
	assert.Equal(t, sym.OpSymbol, operands[0].Kind())
	assert.Equal(t, "x", operands[0].Name())
	assert.Equal(t, sym.OpConst, operands[1].Kind())
	assert.Equal(t, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, operands[1].Value())
}

// Scenario: y = relu(x) lowers to fmax(x, 0).
func TestConvertRelu(t *testing.T) {
	graph := &onnx.GraphProto{
		Inputs:  []onnx.ValueInfoProto{declaration("x", 4)},
		Outputs: []onnx.ValueInfoProto{declaration("y", 4)},
		Nodes: []onnx.NodeProto{
			{OpType: "Relu", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
	}

	expr := mustConvert(t, graph, DefaultOptions())
	require.Equal(t, sym.OpFmax, expr.Kind())
	assert.Equal(t, 0.0, expr.Threshold())
	assert.Equal(t, "x", expr.Operands()[0].Name())
}

func TestConvertSigmoidExpansion(t *testing.T) {
	graph := &onnx.GraphProto{
		Inputs:  []onnx.ValueInfoProto{declaration("x", 2)},
		Outputs: []onnx.ValueInfoProto{declaration("y", 2)},
		Nodes: []onnx.NodeProto{
			{OpType: "Sigmoid", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
	}

	expr := mustConvert(t, graph, DefaultOptions())
	assert.Equal(t, "(1 / (1 + exp(-x)))", expr.String())
}

func TestConvertBinaryArithmetic(t *testing.T) {
	tests := []struct {
		op   string
		kind sym.Op
	}{
		{"Add", sym.OpAdd},
		{"Sub", sym.OpSub},
		{"Mul", sym.OpMul},
		{"Div", sym.OpDiv},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			graph := &onnx.GraphProto{
				Inputs: []onnx.ValueInfoProto{
					declaration("a", 2), declaration("b", 2),
				},
				Outputs: []onnx.ValueInfoProto{declaration("y", 2)},
				Nodes: []onnx.NodeProto{
					{OpType: tt.op, Inputs: []string{"a", "b"}, Outputs: []string{"y"}},
				},
			}

			expr := mustConvert(t, graph, DefaultOptions())
			require.Equal(t, tt.kind, expr.Kind())
			// Operand order follows the node's input order exactly.
			assert.Equal(t, "a", expr.Operands()[0].Name())
			assert.Equal(t, "b", expr.Operands()[1].Name())
		})
	}
}

func gemmGraph(inputs []string, attrs ...onnx.AttributeProto) *onnx.GraphProto {
	return &onnx.GraphProto{
		Inputs:  []onnx.ValueInfoProto{declaration("x", 2)},
		Outputs: []onnx.ValueInfoProto{declaration("y", 2)},
		Initializers: []onnx.TensorProto{
			weights("w", 2, 2, 1, 2, 3, 4),
			weights("c", 2, 1, 5, 6),
		},
		Nodes: []onnx.NodeProto{
			{OpType: "Gemm", Inputs: inputs, Outputs: []string{"y"}, Attributes: attrs},
		},
	}
}

func TestConvertGemm(t *testing.T) {
	expr := mustConvert(t, gemmGraph([]string{"x", "w", "c"},
		onnx.AttributeProto{Name: "alpha", Type: onnx.AttrFloat, F: 0.5},
		onnx.AttributeProto{Name: "beta", Type: onnx.AttrFloat, F: 2},
	), DefaultOptions())

	// alpha*matmul(x, w) + beta*c
	require.Equal(t, sym.OpAdd, expr.Kind())
	product := expr.Operands()[0]
	require.Equal(t, sym.OpMul, product.Kind())
	assert.Equal(t, 0.5, product.Operands()[0].Value()[0][0])
	assert.Equal(t, sym.OpMatMul, product.Operands()[1].Kind())

	bias := expr.Operands()[1]
	require.Equal(t, sym.OpMul, bias.Kind())
	assert.Equal(t, 2.0, bias.Operands()[0].Value()[0][0])
	assert.Equal(t, [][]float64{{5}, {6}}, bias.Operands()[1].Value())
}

func TestConvertGemmDefaults(t *testing.T) {
	// Omitted alpha/beta behave as 1.0.
	expr := mustConvert(t, gemmGraph([]string{"x", "w", "c"}), DefaultOptions())

	require.Equal(t, sym.OpAdd, expr.Kind())
	assert.Equal(t, 1.0, expr.Operands()[0].Operands()[0].Value()[0][0])
	assert.Equal(t, 1.0, expr.Operands()[1].Operands()[0].Value()[0][0])
}

func TestConvertGemmWithoutBias(t *testing.T) {
	// A missing third input degrades to the scalar zero; an empty input
	// name is ONNX's marker for an omitted optional input.
	for _, inputs := range [][]string{{"x", "w"}, {"x", "w", ""}} {
		expr := mustConvert(t, gemmGraph(inputs), DefaultOptions())

		require.Equal(t, sym.OpAdd, expr.Kind())
		bias := expr.Operands()[1].Operands()[1]
		require.Equal(t, sym.OpConst, bias.Kind())
		assert.Equal(t, 0.0, bias.Value()[0][0])
	}
}

func TestConvertMultiOutputVertcat(t *testing.T) {
	graph := &onnx.GraphProto{
		Inputs: []onnx.ValueInfoProto{declaration("x", 2)},
		Outputs: []onnx.ValueInfoProto{
			declaration("y1", 2), declaration("y2", 2),
		},
		Nodes: []onnx.NodeProto{
			{OpType: "Relu", Inputs: []string{"x"}, Outputs: []string{"y1"}},
			{OpType: "Tanh", Inputs: []string{"x"}, Outputs: []string{"y2"}},
		},
	}

	expr := mustConvert(t, graph, DefaultOptions())
	require.Equal(t, sym.OpVertcat, expr.Kind())
	require.Len(t, expr.Operands(), 2)
	assert.Equal(t, sym.OpFmax, expr.Operands()[0].Kind())
	assert.Equal(t, sym.OpTanh, expr.Operands()[1].Kind())
	assert.Equal(t, 4, expr.Rows())

	// Reordering the declared outputs reorders the stacked rows.
	graph.Outputs[0], graph.Outputs[1] = graph.Outputs[1], graph.Outputs[0]
	expr = mustConvert(t, graph, DefaultOptions())
	assert.Equal(t, sym.OpTanh, expr.Operands()[0].Kind())
	assert.Equal(t, sym.OpFmax, expr.Operands()[1].Kind())
}

func TestConvertNoResolvableOutputs(t *testing.T) {
	graph := &onnx.GraphProto{
		Name:    "broken",
		Inputs:  []onnx.ValueInfoProto{declaration("x", 2)},
		Outputs: []onnx.ValueInfoProto{declaration("never_bound", 2)},
	}

	err := convertErr(t, graph, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoOutputs)
}

func TestConvertUnsupportedOperatorAborts(t *testing.T) {
	graph := &onnx.GraphProto{
		Inputs:  []onnx.ValueInfoProto{declaration("x", 2)},
		Outputs: []onnx.ValueInfoProto{declaration("y", 2)},
		Nodes: []onnx.NodeProto{
			{Name: "sm", OpType: "Softmax", Inputs: []string{"x"}, Outputs: []string{"t"}},
			{OpType: "Relu", Inputs: []string{"t"}, Outputs: []string{"y"}},
		},
	}

	err := convertErr(t, graph, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedOp)
	assert.Contains(t, err.Error(), "sm")
}

func TestConvertNotImplementedDistinct(t *testing.T) {
	graph := &onnx.GraphProto{
		Inputs:  []onnx.ValueInfoProto{declaration("x", 2)},
		Outputs: []onnx.ValueInfoProto{declaration("y", 2)},
		Nodes: []onnx.NodeProto{
			{OpType: "Reshape", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
	}

	err := convertErr(t, graph, DefaultOptions())
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.NotErrorIs(t, err, ErrUnsupportedOp)
}

func TestConvertStrictInputs(t *testing.T) {
	graph := &onnx.GraphProto{
		Inputs:  []onnx.ValueInfoProto{declaration("a", 2)},
		Outputs: []onnx.ValueInfoProto{declaration("y", 2)},
		Nodes: []onnx.NodeProto{
			{Name: "add0", OpType: "Add", Inputs: []string{"a", "ghost"}, Outputs: []string{"y"}},
		},
	}

	err := convertErr(t, graph, Options{StrictInputs: true})
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "ghost")

	// Default mode drops the unresolved name; the binary rule then sees a
	// single operand and rejects the arity. The silent skip reaches the
	// rule, it does not invent an operand.
	err = convertErr(t, graph, DefaultOptions())
	assert.NotErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "expects 2 inputs")
}

func TestConvertUnknownShapeFallback(t *testing.T) {
	graph := &onnx.GraphProto{
		Inputs:  []onnx.ValueInfoProto{declaration("x", -1, 4)},
		Outputs: []onnx.ValueInfoProto{declaration("y", -1, 4)},
		Nodes: []onnx.NodeProto{
			{OpType: "Identity", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
	}

	expr := mustConvert(t, graph, DefaultOptions())
	assert.True(t, expr.IsScalar(), "partially known shapes fall back to a scalar placeholder")

	err := convertErr(t, graph, Options{StrictShapes: true})
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestConverterSequencing(t *testing.T) {
	conv := New("whatever.onnx")

	_, err := conv.Convert()
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = conv.Inputs()
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = conv.Outputs()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestConverterLoadNotFound(t *testing.T) {
	conv := New(filepath.Join(t.TempDir(), "missing.onnx"))

	err := conv.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, onnx.ErrNotFound)
	assert.Nil(t, conv.Model())
}

func TestConverterLoadInvalid(t *testing.T) {
	conv := New("unused")

	err := conv.LoadFromBytes([]byte{0xff, 0xff, 0xff})
	assert.ErrorIs(t, err, onnx.ErrInvalid)

	// Structurally valid protobuf, but no graph.
	noGraph := protowire.AppendVarint(
		protowire.AppendTag(nil, 1, protowire.VarintType), 8)
	err = conv.LoadFromBytes(noGraph)
	assert.ErrorIs(t, err, onnx.ErrInvalid)
}
