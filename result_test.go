package diffx

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cmpValues lets go-cmp look inside the canonical value types
var cmpValues = cmp.AllowUnexported(Number{}, Object{}, objectEntry{})

func TestDiscriminatorStability(t *testing.T) {
	// the host-map form is a wire contract: exact keys, exact discriminators
	got := NewAdded("/a", Int(1)).ToGo()
	want := map[string]interface{}{
		"type":  "Added",
		"path":  "/a",
		"value": int64(1),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("host form mismatch (-want +got):\n%s", diff)
	}

	back, err := ResultFromGo(got)
	require.NoError(t, err)
	if diff := cmp.Diff(NewAdded("/a", Int(1)), back, cmpValues); diff != "" {
		t.Errorf("reverse marshal mismatch (-want +got):\n%s", diff)
	}
}

func TestResultRoundTrip(t *testing.T) {
	cases := []struct {
		description string
		result      Result
	}{
		{"added", NewAdded("a.b", String("x"))},
		{"added null", NewAdded("n", Null{})},
		{"removed", NewRemoved("items[2]", Bool(false))},
		{"modified", NewModified("age", Int(30), Int(31))},
		{"type changed", NewTypeChanged("x", Int(5), String("5"))},
		{"compound value", NewAdded("cfg", mustJSONValue(t, `{"port": 8080, "tags": ["a", "b"]}`))},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			back, err := ResultFromGo(c.result.ToGo())
			require.NoError(t, err)
			if diff := cmp.Diff(c.result, back, cmpValues); diff != "" {
				t.Errorf("host round trip mismatch (-want +got):\n%s", diff)
			}

			data, err := json.Marshal(c.result)
			require.NoError(t, err)
			var fromJSON Result
			require.NoError(t, json.Unmarshal(data, &fromJSON))
			if !Equal(valueOf(c.result), valueOf(fromJSON)) || fromJSON.Type != c.result.Type || fromJSON.Path != c.result.Path {
				t.Errorf("json round trip mismatch: %+v != %+v", c.result, fromJSON)
			}
		})
	}
}

func valueOf(r Result) Value {
	if r.Value != nil {
		return r.Value
	}
	return Array{r.OldValue, r.NewValue}
}

func TestResultJSONForm(t *testing.T) {
	data, err := json.Marshal(NewAdded("a", Int(1)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "Added", "path": "a", "value": 1}`, string(data))

	data, err = json.Marshal(NewModified("b", Int(2), Int(3)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "Modified", "path": "b", "old_value": 2, "new_value": 3}`, string(data))

	// null payloads must not be dropped by marshalling
	data, err = json.Marshal(NewRemoved("n", Null{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "Removed", "path": "n", "value": null}`, string(data))
}

func TestResultFromGoMalformed(t *testing.T) {
	cases := []struct {
		description string
		input       map[string]interface{}
	}{
		{"missing type", map[string]interface{}{"path": "a", "value": 1}},
		{"non-string type", map[string]interface{}{"type": 1, "path": "a"}},
		{"unknown discriminator", map[string]interface{}{"type": "Mutated", "path": "a", "value": 1}},
		{"lowercase discriminator", map[string]interface{}{"type": "added", "path": "a", "value": 1}},
		{"missing path", map[string]interface{}{"type": "Added", "value": 1}},
		{"missing value", map[string]interface{}{"type": "Added", "path": "a"}},
		{"missing old value", map[string]interface{}{"type": "Modified", "path": "a", "new_value": 1}},
		{"missing new value", map[string]interface{}{"type": "TypeChanged", "path": "a", "old_value": 1}},
		{"unconvertible value", map[string]interface{}{"type": "Added", "path": "a", "value": func() {}}},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			_, err := ResultFromGo(c.input)
			var mre *MalformedResultError
			require.ErrorAs(t, err, &mre)
		})
	}
}

func TestResultsFromGo(t *testing.T) {
	rs := Results{
		NewModified("a", Int(1), Int(2)),
		NewAdded("b", String("x")),
	}
	back, err := ResultsFromGo(rs.ToGo())
	require.NoError(t, err)
	if diff := cmp.Diff(rs, back, cmpValues); diff != "" {
		t.Errorf("sequence round trip mismatch (-want +got):\n%s", diff)
	}

	_, err = ResultsFromGo([]map[string]interface{}{{"type": "Added"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "result 0")
}
