package diffx

import "strconv"

// Kind names the fundamental type of a canonical value. Two values whose kinds
// differ are never equal, and a diff between them reports a type change rather
// than a modification.
type Kind string

const (
	KindNull   = Kind("null")
	KindBool   = Kind("bool")
	KindNumber = Kind("number")
	KindString = Kind("string")
	KindArray  = Kind("array")
	KindObject = Kind("object")
)

// Value is a node in a canonical document tree: the single representation all
// supported formats and host values are normalized into before comparison.
// The set of implementations is closed: Null, Bool, Number, String, Array and
// *Object. Trees are finite & acyclic by construction of the converters.
type Value interface {
	Kind() Kind
}

// Null is the absent value
type Null struct{}

// Kind returns KindNull
func (Null) Kind() Kind { return KindNull }

// Bool is a boolean value
type Bool bool

// Kind returns KindBool
func (Bool) Kind() Kind { return KindBool }

// String is a text value
type String string

// Kind returns KindString
func (String) Kind() Kind { return KindString }

// Number is a numeric value that remembers whether its source literal was an
// integer or a float. Integers and floats are the same fundamental kind; the
// distinction is kept so output can reproduce the source faithfully.
type Number struct {
	i     int64
	f     float64
	isInt bool
}

// Int creates an exact integer Number
func Int(i int64) Number { return Number{i: i, isInt: true} }

// Float creates a floating-point Number
func Float(f float64) Number { return Number{f: f} }

// Kind returns KindNumber
func (Number) Kind() Kind { return KindNumber }

// IsInt reports whether the number came from an integer literal
func (n Number) IsInt() bool { return n.isInt }

// Int64 returns the exact integer value when the number is integral
func (n Number) Int64() (int64, bool) { return n.i, n.isInt }

// Float64 returns the numeric value as a float, exact integers included
func (n Number) Float64() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

// String renders the number the way its source literal was written
func (n Number) String() string {
	if n.isInt {
		return strconv.FormatInt(n.i, 10)
	}
	return strconv.FormatFloat(n.f, 'f', -1, 64)
}

// Array is an ordered sequence of values
type Array []Value

// Kind returns KindArray
func (Array) Kind() Kind { return KindArray }

// Object is an ordered mapping with unique string keys. Insertion order is
// preserved for display & traversal but is not significant for equality.
type Object struct {
	entries []objectEntry
	index   map[string]int
}

type objectEntry struct {
	key   string
	value Value
}

// Kind returns KindObject
func (*Object) Kind() Kind { return KindObject }

// NewObject creates an empty ordered mapping
func NewObject() *Object {
	return &Object{index: map[string]int{}}
}

// Set assigns a key. Re-setting an existing key replaces its value in place,
// keeping the key's original position.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.entries[i].value = v
		return
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, objectEntry{key: key, value: v})
}

// Get fetches the value for a key
func (o *Object) Get(key string) (Value, bool) {
	if i, ok := o.index[key]; ok {
		return o.entries[i].value, true
	}
	return nil, false
}

// Has reports key presence
func (o *Object) Has(key string) bool {
	_, ok := o.index[key]
	return ok
}

// Len returns the number of keys
func (o *Object) Len() int { return len(o.entries) }

// Keys lists keys in insertion order
func (o *Object) Keys() []string {
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.key
	}
	return keys
}

// Equal reports structural equality of two canonical values. Object key order
// is ignored, array order is significant, numbers compare by numeric value so
// an integer 1 equals a float 1.0 regardless of which format produced it.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case String:
		return av == b.(String)
	case Number:
		return numberEqual(av, b.(Number))
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if av.Len() != bv.Len() {
			return false
		}
		for _, e := range av.entries {
			other, ok := bv.Get(e.key)
			if !ok || !Equal(e.value, other) {
				return false
			}
		}
		return true
	}
	return false
}

func numberEqual(a, b Number) bool {
	if ai, ok := a.Int64(); ok {
		if bi, ok := b.Int64(); ok {
			return ai == bi
		}
	}
	return a.Float64() == b.Float64()
}
