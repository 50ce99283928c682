package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// wireID accepts identifiers sent either as JSON numbers or strings.
type wireID string

func (w *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*w = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = wireID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*w = wireID(n.String())
	return nil
}

func (w wireID) String() string {
	return string(w)
}

// firstID returns the first non-empty candidate.
func firstID(candidates ...wireID) wireID {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v *string, def string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return def
	}
	return *v
}
