package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is the wire form of a text field in a partial update. Set reports
// whether the key was present; Value is nil when it was sent as null.
type Text struct {
	Set   bool
	Value *string
}

func TextOf(s string) Text {
	return Text{Set: true, Value: &s}
}

func (t *Text) UnmarshalJSON(b []byte) error {
	t.Set = true
	t.Value = nil

	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("expected a string or null, got %s", b)
	}
	t.Value = &s
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if t.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*t.Value)
}

// Patch returns the value to merge: nil when the key was absent, and an empty
// string when it was sent as null, so the merged record fails "required".
func (t Text) Patch() *string {
	if !t.Set {
		return nil
	}
	if t.Value == nil {
		empty := ""
		return &empty
	}
	v := *t.Value
	return &v
}
