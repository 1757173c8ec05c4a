package onnx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttrTypedLookup(t *testing.T) {
	node := &NodeProto{
		OpType: "Gemm",
		Attributes: []AttributeProto{
			{Name: "alpha", Type: AttrFloat, F: 0.5},
			{Name: "transA", Type: AttrInt, I: 1},
			{Name: "mode", Type: AttrString, S: []byte("strict")},
		},
	}

	assert.InDelta(t, 0.5, node.AttrFloat("alpha", 1.0), 1e-6)
	assert.Equal(t, int64(1), node.AttrInt("transA", 0))
	assert.Equal(t, "strict", node.AttrString("mode", ""))
}

func TestAttrDefaults(t *testing.T) {
	node := &NodeProto{OpType: "Gemm"}

	assert.InDelta(t, 1.0, node.AttrFloat("alpha", 1.0), 1e-6)
	assert.Equal(t, int64(7), node.AttrInt("transB", 7))
	assert.Equal(t, "none", node.AttrString("mode", "none"))
}

func TestAttrNoCrossTypeCoercion(t *testing.T) {
	// An attribute declared INT must not satisfy a float lookup of the
	// same name, and vice versa.
	node := &NodeProto{
		Attributes: []AttributeProto{
			{Name: "alpha", Type: AttrInt, I: 3},
			{Name: "axis", Type: AttrFloat, F: 2},
		},
	}

	assert.InDelta(t, 1.0, node.AttrFloat("alpha", 1.0), 1e-6)
	assert.Equal(t, int64(-1), node.AttrInt("axis", -1))
	assert.Equal(t, "", node.AttrString("alpha", ""))
}
