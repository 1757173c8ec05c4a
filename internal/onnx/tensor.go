package onnx

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Matrix decodes the initializer into a dense row-major float64 matrix.
//
// Rank-0 tensors become 1x1, rank-1 tensors become column vectors, rank-2
// tensors keep their shape, and higher ranks keep the leading dimension as
// rows with the trailing axes collapsed into columns.
func (t *TensorProto) Matrix() ([][]float64, error) {
	rows, cols := t.matrixDims()
	flat, err := t.floats()
	if err != nil {
		return nil, err
	}
	if int64(len(flat)) != rows*cols {
		return nil, errors.Wrapf(ErrInvalid,
			"tensor %s: %d values for shape %v", t.Name, len(flat), t.Dims)
	}

	matrix := make([][]float64, rows)
	for r := int64(0); r < rows; r++ {
		matrix[r] = flat[r*cols : (r+1)*cols]
	}
	return matrix, nil
}

func (t *TensorProto) matrixDims() (rows, cols int64) {
	switch len(t.Dims) {
	case 0:
		return 1, 1
	case 1:
		return t.Dims[0], 1
	default:
		cols = int64(1)
		for _, d := range t.Dims[1:] {
			cols *= d
		}
		return t.Dims[0], cols
	}
}

// floats decodes the tensor payload into a flat float64 slice, preferring
// raw_data and falling back to the legacy typed fields.
func (t *TensorProto) floats() ([]float64, error) {
	if len(t.RawData) > 0 {
		return t.rawFloats()
	}

	switch {
	case len(t.FloatData) > 0:
		return widen(t.FloatData, func(v float32) float64 { return float64(v) }), nil
	case len(t.DoubleData) > 0:
		return t.DoubleData, nil
	case len(t.Int32Data) > 0:
		return widen(t.Int32Data, func(v int32) float64 { return float64(v) }), nil
	case len(t.Int64Data) > 0:
		return widen(t.Int64Data, func(v int64) float64 { return float64(v) }), nil
	}
	return nil, nil
}

//nolint:gocyclo // one decode branch per ONNX element type
func (t *TensorProto) rawFloats() ([]float64, error) {
	raw := t.RawData
	switch t.DataType {
	case TypeFloat:
		out := make([]float64, 0, len(raw)/4)
		for i := 0; i+4 <= len(raw); i += 4 {
			bits := binary.LittleEndian.Uint32(raw[i:])
			out = append(out, float64(math.Float32frombits(bits)))
		}
		return out, nil
	case TypeDouble:
		out := make([]float64, 0, len(raw)/8)
		for i := 0; i+8 <= len(raw); i += 8 {
			bits := binary.LittleEndian.Uint64(raw[i:])
			out = append(out, math.Float64frombits(bits))
		}
		return out, nil
	case TypeFloat16:
		out := make([]float64, 0, len(raw)/2)
		for i := 0; i+2 <= len(raw); i += 2 {
			bits := binary.LittleEndian.Uint16(raw[i:])
			out = append(out, float64(float16.Frombits(bits).Float32()))
		}
		return out, nil
	case TypeBFloat16:
		out := make([]float64, 0, len(raw)/2)
		for i := 0; i+2 <= len(raw); i += 2 {
			bits := uint32(binary.LittleEndian.Uint16(raw[i:])) << 16
			out = append(out, float64(math.Float32frombits(bits)))
		}
		return out, nil
	case TypeInt32:
		out := make([]float64, 0, len(raw)/4)
		for i := 0; i+4 <= len(raw); i += 4 {
			out = append(out, float64(int32(binary.LittleEndian.Uint32(raw[i:]))))
		}
		return out, nil
	case TypeInt64:
		out := make([]float64, 0, len(raw)/8)
		for i := 0; i+8 <= len(raw); i += 8 {
			out = append(out, float64(int64(binary.LittleEndian.Uint64(raw[i:]))))
		}
		return out, nil
	default:
		return nil, errors.Wrapf(ErrInvalid,
			"tensor %s: unsupported element type %s", t.Name, t.DataType.Name())
	}
}

func widen[T any](src []T, conv func(T) float64) []float64 {
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = conv(v)
	}
	return out
}
