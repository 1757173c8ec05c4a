package onnx

import (
	"io/fs"
	"math"
	"os"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// ParseFile parses an ONNX model from a file path.
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(ErrNotFound, path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Parse(data)
}

// Parse parses an ONNX model from raw protobuf bytes.
func Parse(data []byte) (*ModelProto, error) {
	model := &ModelProto{}
	if err := parseModel(data, model); err != nil {
		return nil, errors.Wrap(ErrInvalid, err.Error())
	}
	return model, nil
}

// The parse functions below walk one protobuf message each, using protowire
// for the wire-level decoding and a field-number switch per message, and
// skipping fields the converter has no use for.

func parseModel(data []byte, m *ModelProto) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		switch num {
		case 1: // ir_version
			v, err := fieldVarint(typ, b)
			m.IRVersion = v
			return err
		case 2: // producer_name
			return fieldString(typ, b, &m.ProducerName)
		case 3: // producer_version
			return fieldString(typ, b, &m.ProducerVersion)
		case 4: // domain
			return fieldString(typ, b, &m.Domain)
		case 5: // model_version
			v, err := fieldVarint(typ, b)
			m.ModelVersion = v
			return err
		case 6: // doc_string
			return fieldString(typ, b, &m.DocString)
		case 7: // graph
			m.Graph = &GraphProto{}
			return parseGraph(b, m.Graph)
		case 8: // opset_import
			var opset OperatorSetID
			if err := parseOperatorSetID(b, &opset); err != nil {
				return err
			}
			m.OpsetImport = append(m.OpsetImport, opset)
		case 14: // metadata_props
			var entry StringStringEntry
			if err := parseStringStringEntry(b, &entry); err != nil {
				return err
			}
			m.MetadataProps = append(m.MetadataProps, entry)
		}
		return nil
	})
}

func parseGraph(data []byte, g *GraphProto) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		switch num {
		case 1: // node
			var node NodeProto
			if err := parseNode(b, &node); err != nil {
				return err
			}
			g.Nodes = append(g.Nodes, node)
		case 2: // name
			return fieldString(typ, b, &g.Name)
		case 5: // initializer
			var tensor TensorProto
			if err := parseTensor(b, &tensor); err != nil {
				return err
			}
			g.Initializers = append(g.Initializers, tensor)
		case 11: // input
			var vi ValueInfoProto
			if err := parseValueInfo(b, &vi); err != nil {
				return err
			}
			g.Inputs = append(g.Inputs, vi)
		case 12: // output
			var vi ValueInfoProto
			if err := parseValueInfo(b, &vi); err != nil {
				return err
			}
			g.Outputs = append(g.Outputs, vi)
		}
		return nil
	})
}

func parseNode(data []byte, n *NodeProto) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		switch num {
		case 1: // input
			n.Inputs = append(n.Inputs, string(b))
		case 2: // output
			n.Outputs = append(n.Outputs, string(b))
		case 3: // name
			return fieldString(typ, b, &n.Name)
		case 4: // op_type
			return fieldString(typ, b, &n.OpType)
		case 5: // attribute
			var attr AttributeProto
			if err := parseAttribute(b, &attr); err != nil {
				return err
			}
			n.Attributes = append(n.Attributes, attr)
		case 7: // domain
			return fieldString(typ, b, &n.Domain)
		}
		return nil
	})
}

func parseTensor(data []byte, t *TensorProto) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		switch num {
		case 1: // dims
			return repeatedVarint(typ, b, func(v int64) {
				t.Dims = append(t.Dims, v)
			})
		case 2: // data_type
			v, err := fieldVarint(typ, b)
			t.DataType = DataType(v)
			return err
		case 4: // float_data
			return repeatedFixed32(typ, b, func(bits uint32) {
				t.FloatData = append(t.FloatData, math.Float32frombits(bits))
			})
		case 5: // int32_data
			return repeatedVarint(typ, b, func(v int64) {
				t.Int32Data = append(t.Int32Data, int32(v))
			})
		case 7: // int64_data
			return repeatedVarint(typ, b, func(v int64) {
				t.Int64Data = append(t.Int64Data, v)
			})
		case 8: // name
			return fieldString(typ, b, &t.Name)
		case 9: // raw_data
			t.RawData = b
		case 10: // double_data
			return repeatedFixed64(typ, b, func(bits uint64) {
				t.DoubleData = append(t.DoubleData, math.Float64frombits(bits))
			})
		}
		return nil
	})
}

func parseValueInfo(data []byte, vi *ValueInfoProto) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		switch num {
		case 1: // name
			return fieldString(typ, b, &vi.Name)
		case 2: // type
			vi.Type = &TypeProto{}
			return parseType(b, vi.Type)
		}
		return nil
	})
}

func parseType(data []byte, t *TypeProto) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		if num == 1 { // tensor_type
			t.TensorType = &TensorTypeProto{}
			return parseTensorType(b, t.TensorType)
		}
		return nil
	})
}

func parseTensorType(data []byte, t *TensorTypeProto) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		switch num {
		case 1: // elem_type
			v, err := fieldVarint(typ, b)
			t.ElemType = DataType(v)
			return err
		case 2: // shape
			t.Shape = &TensorShapeProto{}
			return parseShape(b, t.Shape)
		}
		return nil
	})
}

func parseShape(data []byte, s *TensorShapeProto) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		if num == 1 { // dim
			var dim DimensionProto
			if err := parseDimension(b, &dim); err != nil {
				return err
			}
			s.Dims = append(s.Dims, dim)
		}
		return nil
	})
}

func parseDimension(data []byte, d *DimensionProto) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		switch num {
		case 1: // dim_value
			v, err := fieldVarint(typ, b)
			d.DimValue = v
			d.HasDimValue = err == nil
			return err
		case 2: // dim_param
			return fieldString(typ, b, &d.DimParam)
		}
		return nil
	})
}

func parseAttribute(data []byte, a *AttributeProto) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		switch num {
		case 1: // name
			return fieldString(typ, b, &a.Name)
		case 2: // f
			return repeatedFixed32(typ, b, func(bits uint32) {
				a.F = math.Float32frombits(bits)
			})
		case 3: // i
			v, err := fieldVarint(typ, b)
			a.I = v
			return err
		case 4: // s
			a.S = b
		case 6: // floats
			return repeatedFixed32(typ, b, func(bits uint32) {
				a.Floats = append(a.Floats, math.Float32frombits(bits))
			})
		case 7: // ints
			return repeatedVarint(typ, b, func(v int64) {
				a.Ints = append(a.Ints, v)
			})
		case 8: // strings
			a.Strings = append(a.Strings, b)
		case 20: // type
			v, err := fieldVarint(typ, b)
			a.Type = AttributeType(v)
			return err
		}
		return nil
	})
}

func parseOperatorSetID(data []byte, o *OperatorSetID) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		switch num {
		case 1: // domain
			return fieldString(typ, b, &o.Domain)
		case 2: // version
			v, err := fieldVarint(typ, b)
			o.Version = v
			return err
		}
		return nil
	})
}

func parseStringStringEntry(data []byte, e *StringStringEntry) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) error {
		switch num {
		case 1: // key
			return fieldString(typ, b, &e.Key)
		case 2: // value
			return fieldString(typ, b, &e.Value)
		}
		return nil
	})
}

// eachField iterates the fields of one message. For length-delimited fields
// the callback receives the payload bytes; for varint and fixed-width fields
// it receives the remaining buffer positioned at the value, which the typed
// field helpers then consume.
func eachField(data []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		var payload []byte
		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			payload = v
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			payload = data[:n]
			data = data[n:]
		}

		if err := fn(num, typ, payload); err != nil {
			return err
		}
	}
	return nil
}

func fieldVarint(typ protowire.Type, b []byte) (int64, error) {
	if typ != protowire.VarintType {
		return 0, errors.Errorf("unexpected wire type %d for varint field", typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return int64(v), nil
}

func fieldString(typ protowire.Type, b []byte, dst *string) error {
	if typ != protowire.BytesType {
		return errors.Errorf("unexpected wire type %d for string field", typ)
	}
	*dst = string(b)
	return nil
}

// repeatedVarint decodes a varint field that may arrive packed or one value
// at a time.
func repeatedVarint(typ protowire.Type, b []byte, emit func(int64)) error {
	if typ == protowire.VarintType {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		emit(int64(v))
		return nil
	}
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		emit(int64(v))
		b = b[n:]
	}
	return nil
}

// repeatedFixed32 decodes a fixed32 field that may arrive packed or one
// value at a time.
func repeatedFixed32(typ protowire.Type, b []byte, emit func(uint32)) error {
	if typ == protowire.Fixed32Type {
		v, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		emit(v)
		return nil
	}
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		emit(v)
		b = b[n:]
	}
	return nil
}

// repeatedFixed64 decodes a fixed64 field that may arrive packed or one
// value at a time.
func repeatedFixed64(typ protowire.Type, b []byte, emit func(uint64)) error {
	if typ == protowire.Fixed64Type {
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		emit(v)
		return nil
	}
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		emit(v)
		b = b[n:]
	}
	return nil
}
