package diffx

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResultType is the discriminator identifying which kind of difference a
// Result records. The four values are a wire contract: they are
// case-sensitive and stable across versions.
type ResultType string

const (
	// Added marks a value present only in the new document
	Added = ResultType("Added")
	// Removed marks a value present only in the old document
	Removed = ResultType("Removed")
	// Modified marks a same-kind value change at a path
	Modified = ResultType("Modified")
	// TypeChanged marks a change of fundamental kind at a path
	TypeChanged = ResultType("TypeChanged")
)

// Result is one typed difference between two documents. Added & Removed carry
// Value; Modified & TypeChanged carry OldValue & NewValue. Results are
// immutable once constructed.
type Result struct {
	Type     ResultType
	Path     string
	Value    Value
	OldValue Value
	NewValue Value
}

// Results is an ordered difference sequence, in traversal order of the
// compared documents. It may be empty.
type Results []Result

// NewAdded records a value present only in the new document
func NewAdded(path string, v Value) Result {
	return Result{Type: Added, Path: path, Value: v}
}

// NewRemoved records a value present only in the old document
func NewRemoved(path string, v Value) Result {
	return Result{Type: Removed, Path: path, Value: v}
}

// NewModified records a same-kind value change
func NewModified(path string, oldV, newV Value) Result {
	return Result{Type: Modified, Path: path, OldValue: oldV, NewValue: newV}
}

// NewTypeChanged records a change of fundamental kind
func NewTypeChanged(path string, oldV, newV Value) Result {
	return Result{Type: TypeChanged, Path: path, OldValue: oldV, NewValue: newV}
}

// ToGo converts a Result to host dynamic form: a mapping with "type", "path",
// and either "value" or "old_value"+"new_value" depending on the variant
func (r Result) ToGo() map[string]interface{} {
	out := map[string]interface{}{
		"type": string(r.Type),
		"path": r.Path,
	}
	switch r.Type {
	case Added, Removed:
		out["value"] = ToGo(r.Value)
	case Modified, TypeChanged:
		out["old_value"] = ToGo(r.OldValue)
		out["new_value"] = ToGo(r.NewValue)
	}
	return out
}

// ToGo converts a result sequence to host dynamic form, order preserved
func (rs Results) ToGo() []map[string]interface{} {
	out := make([]map[string]interface{}, len(rs))
	for i, r := range rs {
		out[i] = r.ToGo()
	}
	return out
}

// ResultFromGo reverse-marshals a host result mapping back into a Result.
// It is the exact inverse of ToGo for all four variants. A missing required
// field or an unrecognized discriminator fails with a MalformedResultError.
func ResultFromGo(m map[string]interface{}) (Result, error) {
	rt, ok := m["type"]
	if !ok {
		return Result{}, &MalformedResultError{Reason: `missing field "type"`}
	}
	typeStr, ok := rt.(string)
	if !ok {
		return Result{}, &MalformedResultError{Reason: fmt.Sprintf(`field "type" must be a string, got %T`, rt)}
	}

	rp, ok := m["path"]
	if !ok {
		return Result{}, &MalformedResultError{Reason: `missing field "path"`}
	}
	path, ok := rp.(string)
	if !ok {
		return Result{}, &MalformedResultError{Reason: fmt.Sprintf(`field "path" must be a string, got %T`, rp)}
	}

	switch ResultType(typeStr) {
	case Added, Removed:
		v, err := requireField(m, "value")
		if err != nil {
			return Result{}, err
		}
		if ResultType(typeStr) == Added {
			return NewAdded(path, v), nil
		}
		return NewRemoved(path, v), nil

	case Modified, TypeChanged:
		oldV, err := requireField(m, "old_value")
		if err != nil {
			return Result{}, err
		}
		newV, err := requireField(m, "new_value")
		if err != nil {
			return Result{}, err
		}
		if ResultType(typeStr) == Modified {
			return NewModified(path, oldV, newV), nil
		}
		return NewTypeChanged(path, oldV, newV), nil
	}

	return Result{}, &MalformedResultError{Reason: fmt.Sprintf("unrecognized discriminator %q", typeStr)}
}

// ResultsFromGo reverse-marshals a sequence of host result mappings
func ResultsFromGo(ms []map[string]interface{}) (Results, error) {
	rs := make(Results, 0, len(ms))
	for i, m := range ms {
		r, err := ResultFromGo(m)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		rs = append(rs, r)
	}
	return rs, nil
}

func requireField(m map[string]interface{}, field string) (Value, error) {
	raw, ok := m[field]
	if !ok {
		return nil, &MalformedResultError{Reason: fmt.Sprintf("missing field %q", field)}
	}
	v, err := FromGo(raw)
	if err != nil {
		return nil, &MalformedResultError{Reason: fmt.Sprintf("field %q: %s", field, err)}
	}
	return v, nil
}

// resultJSON is the JSON wire form of a Result. Pointer fields distinguish
// "absent" from legitimate null/false/zero values.
type resultJSON struct {
	Type     ResultType   `json:"type"`
	Path     string       `json:"path"`
	Value    *interface{} `json:"value,omitempty"`
	OldValue *interface{} `json:"old_value,omitempty"`
	NewValue *interface{} `json:"new_value,omitempty"`
}

// MarshalJSON implements a custom JSON marshaller matching the host map form
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{Type: r.Type, Path: r.Path}
	switch r.Type {
	case Added, Removed:
		v := ToGo(r.Value)
		out.Value = &v
	case Modified, TypeChanged:
		oldV, newV := ToGo(r.OldValue), ToGo(r.NewValue)
		out.OldValue = &oldV
		out.NewValue = &newV
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON. Numbers decode through
// json.Number so exact integers survive the trip.
func (r *Result) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return err
	}
	parsed, err := ResultFromGo(m)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
