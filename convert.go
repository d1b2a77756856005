package diffx

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// MaxDepth bounds converter recursion. Host graphs deeper than this are
// assumed to be self-referential and rejected with a CycleError instead of
// exhausting the stack.
const MaxDepth = 10000

// FromGo converts a host dynamic value graph into a canonical Value. It
// accepts the shapes produced by decoding any supported format into
// interface{} trees: nil, bool, integer & float types, string, slices, and
// string-keyed maps. Values that are already canonical pass through
// unchanged. Anything else fails with an UnsupportedTypeError.
//
// Host maps carry no ordering, so their keys are converted in sorted order
// to keep conversion deterministic.
func FromGo(v interface{}) (Value, error) {
	return fromGo(v, 0)
}

// fromGo is a single ordered dispatch. The case order is load-bearing:
// bool must be tested before the numeric cases, and exact integer types
// before floats, so each host value lands on exactly one canonical kind.
func fromGo(v interface{}, depth int) (Value, error) {
	if depth > MaxDepth {
		return nil, &CycleError{Depth: MaxDepth}
	}

	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(int64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Float(float64(x)), nil
		}
		return Int(int64(x)), nil
	case float32:
		return floatValue(float64(x)), nil
	case float64:
		return floatValue(x), nil
	case string:
		return String(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, &UnsupportedTypeError{GoType: fmt.Sprintf("json.Number %q", x)}
		}
		return floatValue(f), nil
	case time.Time:
		// TOML decodes datetimes as time.Time; canonically they are text
		return String(x.Format(time.RFC3339)), nil
	case []interface{}:
		arr := make(Array, len(x))
		for i, el := range x {
			cv, err := fromGo(el, depth+1)
			if err != nil {
				return nil, err
			}
			arr[i] = cv
		}
		return arr, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		obj := NewObject()
		for _, k := range keys {
			cv, err := fromGo(x[k], depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(k, cv)
		}
		return obj, nil
	}

	return fromGoReflect(reflect.ValueOf(v), depth)
}

// fromGoReflect handles host shapes outside the fast-path switch: typed
// slices, typed maps, and pointers, the way decoded TOML & INI trees
// sometimes arrive.
func fromGoReflect(rv reflect.Value, depth int) (Value, error) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return fromGo(rv.Elem().Interface(), depth+1)

	case reflect.Slice, reflect.Array:
		arr := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			cv, err := fromGo(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			arr[i] = cv
		}
		return arr, nil

	case reflect.Map:
		type pair struct {
			key string
			val reflect.Value
		}
		pairs := make([]pair, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := stringifyKey(iter.Key())
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, pair{key: key, val: iter.Value()})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

		obj := NewObject()
		for _, p := range pairs {
			cv, err := fromGo(p.val.Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(p.key, cv)
		}
		return obj, nil
	}

	return nil, &UnsupportedTypeError{GoType: fmt.Sprintf("%T", rv.Interface())}
}

// stringifyKey converts a map key to text, failing for key types with no
// sensible text form
func stringifyKey(key reflect.Value) (string, error) {
	if key.Kind() == reflect.Interface {
		key = key.Elem()
	}
	switch key.Kind() {
	case reflect.String:
		return key.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(key.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(key.Uint(), 10), nil
	}
	return "", &UnsupportedTypeError{GoType: fmt.Sprintf("map key %s", key.Kind())}
}

// floatValue maps non-finite floats to zero so conversion stays total for
// degenerate-but-representable inputs
func floatValue(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Float(0)
	}
	return Float(f)
}

// ToGo converts a canonical Value back into host dynamic form. It is total:
// every canonical kind has a defined host representation. Exact integers
// come back as int64, other numbers as float64. Mapping key order is lost
// because Go maps are unordered; re-converting the output still reproduces
// the same canonical value.
func ToGo(v Value) interface{} {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Number:
		if i, ok := x.Int64(); ok {
			return i
		}
		return x.Float64()
	case String:
		return string(x)
	case Array:
		out := make([]interface{}, len(x))
		for i, el := range x {
			out[i] = ToGo(el)
		}
		return out
	case *Object:
		out := make(map[string]interface{}, x.Len())
		for _, e := range x.entries {
			out[e.key] = ToGo(e.value)
		}
		return out
	}
	// Null, or a nil Value
	return nil
}
