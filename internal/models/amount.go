package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Amount is a monetary or quantity value as returned by the backend.
// The verb API sends some numbers as JSON strings ("1.000000"), so Amount
// accepts both encodings and always marshals back as a number.
type Amount float64

// UnmarshalJSON accepts a JSON number, a numeric string or null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid amount %s: %w", data, err)
		}
		if s == "" {
			*a = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", s, err)
		}
		*a = Amount(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = Amount(v)
	return nil
}

// Float64 returns the amount as a float64
func (a Amount) Float64() float64 {
	return float64(a)
}
