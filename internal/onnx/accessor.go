package onnx

import (
	"strconv"
	"strings"
)

// DimKind distinguishes the three ways an ONNX dimension can be declared.
type DimKind int

const (
	// DimFixed is a concrete positive dimension.
	DimFixed DimKind = iota
	// DimNamed is a symbolic dimension such as "batch_size".
	DimNamed
	// DimUnknown carries no size information at all.
	DimUnknown
)

// Dim is one dimension of a declared tensor shape.
type Dim struct {
	Kind  DimKind
	Value int64  // DimFixed only
	Param string // DimNamed only
}

func (d Dim) String() string {
	switch d.Kind {
	case DimFixed:
		return strconv.FormatInt(d.Value, 10)
	case DimNamed:
		return d.Param
	default:
		return "?"
	}
}

// Shape is an ordered list of dimensions.
type Shape []Dim

// Known reports whether every dimension is a fixed concrete value.
// An empty shape is a known scalar.
func (s Shape) Known() bool {
	for _, d := range s {
		if d.Kind != DimFixed {
			return false
		}
	}
	return true
}

// Elements returns the flattened element count of a fully known shape.
// It must only be called when Known() is true.
func (s Shape) Elements() int64 {
	n := int64(1)
	for _, d := range s {
		n *= d.Value
	}
	return n
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TensorInfo describes a declared graph input or output.
type TensorInfo struct {
	Name  string
	Shape Shape
	DType DataType
}

func tensorInfo(vi *ValueInfoProto) TensorInfo {
	info := TensorInfo{Name: vi.Name}
	if vi.Type == nil || vi.Type.TensorType == nil {
		return info
	}
	tt := vi.Type.TensorType
	info.DType = tt.ElemType
	if tt.Shape == nil {
		return info
	}
	for _, d := range tt.Shape.Dims {
		switch {
		case d.HasDimValue && d.DimValue > 0:
			info.Shape = append(info.Shape, Dim{Kind: DimFixed, Value: d.DimValue})
		case d.DimParam != "":
			info.Shape = append(info.Shape, Dim{Kind: DimNamed, Param: d.DimParam})
		default:
			info.Shape = append(info.Shape, Dim{Kind: DimUnknown})
		}
	}
	return info
}

// InputInfos returns the declared graph inputs, excluding names that are
// bound by initializers. Older exporters re-declare every weight as a graph
// input; those are weights, not runtime inputs.
func (g *GraphProto) InputInfos() []TensorInfo {
	initNames := make(map[string]bool, len(g.Initializers))
	for i := range g.Initializers {
		initNames[g.Initializers[i].Name] = true
	}
	var infos []TensorInfo
	for i := range g.Inputs {
		if initNames[g.Inputs[i].Name] {
			continue
		}
		infos = append(infos, tensorInfo(&g.Inputs[i]))
	}
	return infos
}

// OutputInfos returns the declared graph outputs in declared order.
func (g *GraphProto) OutputInfos() []TensorInfo {
	infos := make([]TensorInfo, len(g.Outputs))
	for i := range g.Outputs {
		infos[i] = tensorInfo(&g.Outputs[i])
	}
	return infos
}

// OpsetVersion returns the default-domain opset version the model imports,
// or zero when none is declared.
func (m *ModelProto) OpsetVersion() int64 {
	for _, opset := range m.OpsetImport {
		if opset.Domain == "" || opset.Domain == "ai.onnx" {
			return opset.Version
		}
	}
	return 0
}

// Metadata returns the model's metadata properties plus producer fields.
func (m *ModelProto) Metadata() map[string]string {
	meta := make(map[string]string, len(m.MetadataProps)+3)
	for _, prop := range m.MetadataProps {
		meta[prop.Key] = prop.Value
	}
	meta["producer_name"] = m.ProducerName
	meta["producer_version"] = m.ProducerVersion
	meta["domain"] = m.Domain
	return meta
}
