package convert

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/symflow-ml/symflow/internal/onnx"
	"github.com/symflow-ml/symflow/internal/sym"
)

// Options configures conversion behavior.
//
// The defaults reproduce the historical lenient semantics: node input names
// that never got bound are silently dropped, and inputs without a fully
// known shape degrade to scalar placeholders. Both behaviors lose
// information quietly; the strict flags turn them into hard errors.
type Options struct {
	// StrictInputs fails conversion when a non-empty node input name is
	// not bound in the environment, instead of skipping it.
	StrictInputs bool

	// StrictShapes fails conversion when a graph input's shape is not
	// fully known, instead of falling back to a scalar placeholder.
	StrictShapes bool
}

// DefaultOptions returns the lenient default conversion options.
func DefaultOptions() Options {
	return Options{}
}

// Converter translates a neural network stored as an ONNX file into one
// symbolic expression. Usage is two-step: Load, then Convert. A Converter
// is not safe for concurrent use.
type Converter struct {
	path  string
	opts  Options
	model *onnx.ModelProto
}

// New creates a converter for the model at path. Nothing is read until
// Load is called.
func New(path string, opts ...Options) *Converter {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	return &Converter{path: path, opts: opt}
}

// Load reads and decodes the model file. It fails with onnx.ErrNotFound
// when the path does not exist and onnx.ErrInvalid when the file does not
// decode into a model with a graph.
func (c *Converter) Load() error {
	model, err := onnx.ParseFile(c.path)
	if err != nil {
		return err
	}
	return c.setModel(model)
}

// LoadFromBytes decodes a model from raw bytes, for models embedded in the
// binary or fetched from elsewhere.
func (c *Converter) LoadFromBytes(data []byte) error {
	model, err := onnx.Parse(data)
	if err != nil {
		return err
	}
	return c.setModel(model)
}

func (c *Converter) setModel(model *onnx.ModelProto) error {
	if model.Graph == nil {
		return errors.Wrap(onnx.ErrInvalid, "model has no graph")
	}
	c.model = model
	klog.V(1).InfoS("model loaded",
		"path", c.path,
		"opset", model.OpsetVersion(),
		"nodes", len(model.Graph.Nodes),
		"initializers", len(model.Graph.Initializers))
	return nil
}

// Model returns the decoded model, or nil before a successful Load.
func (c *Converter) Model() *onnx.ModelProto {
	return c.model
}

// Inputs returns the declared runtime inputs (initializers excluded).
func (c *Converter) Inputs() ([]onnx.TensorInfo, error) {
	if c.model == nil {
		return nil, errors.Wrap(ErrNotLoaded, "Inputs")
	}
	return c.model.Graph.InputInfos(), nil
}

// Outputs returns the declared outputs in declared order.
func (c *Converter) Outputs() ([]onnx.TensorInfo, error) {
	if c.model == nil {
		return nil, errors.Wrap(ErrNotLoaded, "Outputs")
	}
	return c.model.Graph.OutputInfos(), nil
}

// Convert lowers the loaded graph into a single symbolic expression.
//
// Declared inputs become symbolic placeholders and initializers become
// constant matrices; the operation nodes are then visited in source order,
// each one lowered through the registry and its results bound to the node's
// output names. A graph with one declared output yields that output's
// expression unchanged; several outputs are stacked vertically in declared
// order. Conversion is all-or-nothing: any failing node aborts it with no
// partial result.
func (c *Converter) Convert() (*sym.Expr, error) {
	if c.model == nil {
		return nil, errors.Wrap(ErrNotLoaded, "Convert")
	}
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	return convertGraph(c.model.Graph, registry, c.opts)
}

func convertGraph(graph *onnx.GraphProto, registry *Registry, opts Options) (*sym.Expr, error) {
	env := newEnvironment()

	for _, input := range graph.InputInfos() {
		placeholder, err := materializeInput(input, opts)
		if err != nil {
			return nil, err
		}
		if err := env.bind(input.Name, placeholder); err != nil {
			return nil, err
		}
	}

	for i := range graph.Initializers {
		init := &graph.Initializers[i]
		matrix, err := init.Matrix()
		if err != nil {
			return nil, errors.Wrapf(err, "initializer %s", init.Name)
		}
		if err := env.bind(init.Name, sym.Const(matrix)); err != nil {
			return nil, err
		}
	}

	for i := range graph.Nodes {
		node := &graph.Nodes[i]
		inputs, err := resolveInputs(node, env, opts)
		if err != nil {
			return nil, err
		}
		results, err := registry.Lower(node, inputs)
		if err != nil {
			return nil, errors.Wrapf(err, "node %s", node.Name)
		}
		for j, name := range node.Outputs {
			if j >= len(results) {
				break
			}
			if err := env.bind(name, results[j]); err != nil {
				return nil, err
			}
		}
	}

	return collectOutputs(graph, env)
}

// materializeInput creates the placeholder for one declared input: a column
// vector sized to the flattened element count when the shape is fully
// known, a scalar otherwise.
func materializeInput(input onnx.TensorInfo, opts Options) (*sym.Expr, error) {
	if input.Shape.Known() {
		return sym.Symbol(input.Name, int(input.Shape.Elements())), nil
	}
	if opts.StrictShapes {
		return nil, errors.Wrapf(ErrUnknownShape, "input %s %s", input.Name, input.Shape)
	}
	klog.V(2).InfoS("input shape not fully known, using scalar placeholder",
		"input", input.Name, "shape", input.Shape.String())
	return sym.Symbol(input.Name, 1), nil
}

// resolveInputs looks up a node's input expressions. Unresolved names are
// dropped by default; ONNX marks omitted optional inputs with an empty
// name, which is always dropped.
func resolveInputs(node *onnx.NodeProto, env *environment, opts Options) ([]*sym.Expr, error) {
	inputs := make([]*sym.Expr, 0, len(node.Inputs))
	for _, name := range node.Inputs {
		if name == "" {
			continue
		}
		e, ok := env.lookup(name)
		if !ok {
			if opts.StrictInputs {
				return nil, errors.Wrapf(ErrMissingInput,
					"node %s (%s): %s", node.Name, node.OpType, name)
			}
			klog.V(2).InfoS("dropping unresolved node input",
				"node", node.Name, "op", node.OpType, "input", name)
			continue
		}
		inputs = append(inputs, e)
	}
	return inputs, nil
}

func collectOutputs(graph *onnx.GraphProto, env *environment) (*sym.Expr, error) {
	var outputs []*sym.Expr
	for i := range graph.Outputs {
		if e, ok := env.lookup(graph.Outputs[i].Name); ok {
			outputs = append(outputs, e)
		}
	}
	switch len(outputs) {
	case 0:
		return nil, errors.Wrap(ErrNoOutputs, graph.Name)
	case 1:
		return outputs[0], nil
	default:
		return sym.Vertcat(outputs...), nil
	}
}
