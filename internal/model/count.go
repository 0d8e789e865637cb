package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Count is a stock or activity quantity that decodes leniently: JSON numbers are
// truncated, numeric strings are parsed and anything else becomes 0.
type Count int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*c = 0
		return nil
	}

	switch x := v.(type) {
	case float64:
		*c = Count(x)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			*c = 0
			return nil
		}
		*c = Count(n)
	default:
		*c = 0
	}
	return nil
}
