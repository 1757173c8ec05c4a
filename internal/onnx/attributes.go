package onnx

// Typed attribute lookup. An attribute only matches when both its name and
// its declared type agree with the request; there is no coercion between
// float, int and string attributes.

// AttrFloat returns the first FLOAT attribute with the given name, or def.
func (n *NodeProto) AttrFloat(name string, def float32) float32 {
	for i := range n.Attributes {
		a := &n.Attributes[i]
		if a.Name == name && a.Type == AttrFloat {
			return a.F
		}
	}
	return def
}

// AttrInt returns the first INT attribute with the given name, or def.
func (n *NodeProto) AttrInt(name string, def int64) int64 {
	for i := range n.Attributes {
		a := &n.Attributes[i]
		if a.Name == name && a.Type == AttrInt {
			return a.I
		}
	}
	return def
}

// AttrString returns the first STRING attribute with the given name, or def.
func (n *NodeProto) AttrString(name, def string) string {
	for i := range n.Attributes {
		a := &n.Attributes[i]
		if a.Name == name && a.Type == AttrString {
			return string(a.S)
		}
	}
	return def
}
