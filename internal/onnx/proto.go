package onnx

// Hand-structured views of the ONNX protobuf messages, restricted to the
// fields the converter consumes. Field numbers live in parser.go.

// ModelProto is the top-level ONNX model message.
type ModelProto struct {
	IRVersion       int64
	OpsetImport     []OperatorSetID
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	DocString       string
	Graph           *GraphProto
	MetadataProps   []StringStringEntry
}

// GraphProto is the computation graph: operation nodes in source order plus
// declared inputs, outputs and weight initializers.
type GraphProto struct {
	Name         string
	Nodes        []NodeProto
	Inputs       []ValueInfoProto
	Outputs      []ValueInfoProto
	Initializers []TensorProto
}

// NodeProto is a single operation node.
type NodeProto struct {
	Name       string
	OpType     string
	Inputs     []string
	Outputs    []string
	Attributes []AttributeProto
	Domain     string
}

// TensorProto carries a constant tensor (weights and biases).
type TensorProto struct {
	Name       string
	DataType   DataType
	Dims       []int64
	RawData    []byte
	FloatData  []float32
	DoubleData []float64
	Int32Data  []int32
	Int64Data  []int64
}

// ValueInfoProto declares a graph input or output tensor.
type ValueInfoProto struct {
	Name string
	Type *TypeProto
}

// TypeProto describes a declared tensor's type.
type TypeProto struct {
	TensorType *TensorTypeProto
}

// TensorTypeProto couples an element type with a shape.
type TensorTypeProto struct {
	ElemType DataType
	Shape    *TensorShapeProto
}

// TensorShapeProto is an ordered list of dimensions.
type TensorShapeProto struct {
	Dims []DimensionProto
}

// DimensionProto is one dimension: a fixed value, a named symbolic
// parameter, or neither (unknown).
type DimensionProto struct {
	DimValue    int64
	HasDimValue bool
	DimParam    string
}

// AttributeProto is a typed node attribute.
type AttributeProto struct {
	Name    string
	Type    AttributeType
	F       float32
	I       int64
	S       []byte
	Floats  []float32
	Ints    []int64
	Strings [][]byte
}

// OperatorSetID identifies an opset a model imports.
type OperatorSetID struct {
	Domain  string
	Version int64
}

// StringStringEntry is a key-value metadata pair.
type StringStringEntry struct {
	Key   string
	Value string
}

// DataType is the ONNX TensorProto.DataType enumeration.
type DataType int32

// ONNX element types.
const (
	TypeUndefined DataType = 0
	TypeFloat     DataType = 1
	TypeUint8     DataType = 2
	TypeInt8      DataType = 3
	TypeUint16    DataType = 4
	TypeInt16     DataType = 5
	TypeInt32     DataType = 6
	TypeInt64     DataType = 7
	TypeString    DataType = 8
	TypeBool      DataType = 9
	TypeFloat16   DataType = 10
	TypeDouble    DataType = 11
	TypeUint32    DataType = 12
	TypeUint64    DataType = 13
	TypeBFloat16  DataType = 16
)

var dataTypeNames = map[DataType]string{
	TypeUndefined: "UNDEFINED",
	TypeFloat:     "FLOAT",
	TypeUint8:     "UINT8",
	TypeInt8:      "INT8",
	TypeUint16:    "UINT16",
	TypeInt16:     "INT16",
	TypeInt32:     "INT32",
	TypeInt64:     "INT64",
	TypeString:    "STRING",
	TypeBool:      "BOOL",
	TypeFloat16:   "FLOAT16",
	TypeDouble:    "DOUBLE",
	TypeUint32:    "UINT32",
	TypeUint64:    "UINT64",
	TypeBFloat16:  "BFLOAT16",
}

// Name returns the ONNX name of the element type.
func (t DataType) Name() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// AttributeType is the ONNX AttributeProto.AttributeType enumeration.
type AttributeType int32

// ONNX attribute types.
const (
	AttrUndefined AttributeType = 0
	AttrFloat     AttributeType = 1
	AttrInt       AttributeType = 2
	AttrString    AttributeType = 3
	AttrTensor    AttributeType = 4
	AttrGraph     AttributeType = 5
	AttrFloats    AttributeType = 6
	AttrInts      AttributeType = 7
	AttrStrings   AttributeType = 8
)
