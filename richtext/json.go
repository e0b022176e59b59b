package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes a nil list as an empty array, the editor requires
// every element to carry children.
func (ns Nodes) MarshalJSON() ([]byte, error) {
	if ns == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Node(ns))
}

// UnmarshalJSON decodes a list of nodes; objects with a "text" key are leaves
func (ns *Nodes) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	if raws == nil {
		*ns = nil
		return nil
	}

	out := make(Nodes, 0, len(raws))
	for i, raw := range raws {
		n, err := UnmarshalNode(raw)
		if err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		out = append(out, n)
	}
	*ns = out
	return nil
}

// UnmarshalNode decodes a single node
func UnmarshalNode(data []byte) (Node, error) {
	var probe struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	if probe.Text != nil {
		var l Leaf
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, err
		}
		return &l, nil
	}

	var b Block
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Decode parses a JSON document holding either a list of nodes or a
// single node
func Decode(data []byte) (Nodes, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var ns Nodes
		if err := json.Unmarshal(trimmed, &ns); err != nil {
			return nil, fmt.Errorf("failed to decode rich text: %w", err)
		}
		return ns, nil
	}

	n, err := UnmarshalNode(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rich text: %w", err)
	}
	return Nodes{n}, nil
}
