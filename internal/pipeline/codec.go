package pipeline

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// codec is the JSON configuration shared by every (de)serialization in the
// package: standard-library semantics, sorted map keys, so encoded output is
// stable across runs.
var codec = sonic.ConfigStd

// Decode parses the wire form of a pipeline. It is deliberately lenient
// about unknown fields; Validate is the structural gate.
func Decode(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := codec.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode pipeline: %w", err)
	}
	return &p, nil
}

// Encode renders the wire form of a pipeline.
func Encode(p *Pipeline) ([]byte, error) {
	data, err := codec.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode pipeline: %w", err)
	}
	return data, nil
}

// DecodeSaved parses a persisted pipeline record.
func DecodeSaved(data []byte) (*Saved, error) {
	var s Saved
	if err := codec.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode saved pipeline: %w", err)
	}
	return &s, nil
}

// EncodeSaved renders a persisted pipeline record.
func EncodeSaved(s *Saved) ([]byte, error) {
	data, err := codec.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode saved pipeline: %w", err)
	}
	return data, nil
}

// MarshalJSONValue renders any JSON-shaped value with the package codec.
// Stores use it for definition and layout columns.
func MarshalJSONValue(v any) ([]byte, error) {
	return codec.Marshal(v)
}

// UnmarshalJSONValue parses into v with the package codec.
func UnmarshalJSONValue(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}
