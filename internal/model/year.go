package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Year is the wire form of an optional publication year. It accepts a JSON
// number, null, a numeric string or an empty string (same as null), and
// remembers whether the key was present at all.
type Year struct {
	Set   bool
	Value *int
}

func YearOf(v int) Year {
	return Year{Set: true, Value: &v}
}

func (y *Year) UnmarshalJSON(b []byte) error {
	y.Set = true
	y.Value = nil

	raw := bytes.TrimSpace(b)
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}

	s := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("publicationYear: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("publicationYear must be a number, got %s", raw)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("publicationYear must be a whole number, got %s", raw)
	}
	if math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("publicationYear is out of range, got %s", raw)
	}

	v := int(f)
	y.Value = &v
	return nil
}

func (y Year) MarshalJSON() ([]byte, error) {
	if y.Value == nil {
		return []byte(`null`), nil
	}
	return json.Marshal(*y.Value)
}

// Int returns a copy of the value, nil when unset or null.
func (y Year) Int() *int {
	if y.Value == nil {
		return nil
	}
	v := *y.Value
	return &v
}
