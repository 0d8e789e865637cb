package model

import (
	"encoding/json"
	"fmt"
)

// marshalWithExtra encodes known (a struct without custom marshalers) and
// merges extra members into the same top-level object. Known members win.
func marshalWithExtra(known any, extra map[string]any) ([]byte, error) {
	base, err := json.Marshal(known)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(extra)+8)
	for k, v := range extra {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", k, err)
		}
		merged[k] = raw
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// unmarshalWithExtra decodes data into known and returns every member whose
// name is not listed in fields.
func unmarshalWithExtra(data []byte, known any, fields map[string]bool) (map[string]any, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	var extra map[string]any
	for k, raw := range all {
		if fields[k] {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decoding field %q: %w", k, err)
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra, nil
}
