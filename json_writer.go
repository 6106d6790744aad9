package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// jsonObjectWriter builds a JSON object whose keys keep their insertion
// order, so encoded records and reports are stable line by line.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Append adds key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	b, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	if w.Len() > 0 {
		w.WriteByte(',')
	}
	w.WriteString(strconv.Quote(key))
	w.WriteByte(':')
	w.Write(b)
	return w
}

// AppendIf adds key only when cond holds.
func (w *jsonObjectWriter) AppendIf(cond bool, key string, value any) *jsonObjectWriter {
	if !cond {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON wraps the appended fields in braces.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.Len()+2)
	out = append(out, '{')
	out = append(out, w.Bytes()...)
	out = append(out, '}')
	return out, nil
}
