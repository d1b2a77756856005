package diffx

import (
	"fmt"
	"strings"
	"unicode"
)

// Diff is the unified host-facing entry point: it compares two dynamic
// values under a loosely-typed option mapping and returns differences in
// host dynamic form, ready to cross a language or process boundary.
//
// Both inputs are converted to canonical form, the option mapping is
// validated, and the resulting sequence is marshalled back out. Any failure
// surfaces as a single typed error; partial result sets are never returned.
func Diff(old, new interface{}, options map[string]interface{}) ([]map[string]interface{}, error) {
	oldV, err := FromGo(old)
	if err != nil {
		return nil, fmt.Errorf("old value: %w", err)
	}
	newV, err := FromGo(new)
	if err != nil {
		return nil, fmt.Errorf("new value: %w", err)
	}
	opts, err := ParseOptions(options)
	if err != nil {
		return nil, err
	}
	return DiffValues(oldV, newV, opts).ToGo(), nil
}

// DiffValues compares two canonical values and returns an ordered sequence
// of typed differences. The walk is deterministic: mapping keys in insertion
// order (old document first, then keys only the new document has), array
// elements by position or by the configured identity key. A nil opts is the
// zero configuration: strict equality semantics.
func DiffValues(old, new Value, opts *Options) Results {
	if opts == nil {
		opts = &Options{}
	}
	d := &differ{opts: opts}
	d.compare("", old, new)

	if opts.PathFilter == "" {
		return d.results
	}
	var kept Results
	for _, r := range d.results {
		if strings.Contains(r.Path, opts.PathFilter) {
			kept = append(kept, r)
		}
	}
	return kept
}

type differ struct {
	opts    *Options
	results Results
}

func (d *differ) emit(r Result) {
	d.results = append(d.results, r)
}

func (d *differ) compare(path string, old, new Value) {
	if old.Kind() != new.Kind() {
		d.emit(NewTypeChanged(path, old, new))
		return
	}

	switch o := old.(type) {
	case *Object:
		d.compareObjects(path, o, new.(*Object))
	case Array:
		d.compareArrays(path, o, new.(Array))
	default:
		if !d.scalarEqual(old, new) {
			d.emit(NewModified(path, old, new))
		}
	}
}

func (d *differ) compareObjects(path string, old, new *Object) {
	for _, key := range old.Keys() {
		if d.ignored(key) {
			continue
		}
		oldChild, _ := old.Get(key)
		newChild, ok := new.Get(key)
		if !ok {
			d.emit(NewRemoved(joinPath(path, key), oldChild))
			continue
		}
		d.compare(joinPath(path, key), oldChild, newChild)
	}
	for _, key := range new.Keys() {
		if d.ignored(key) || old.Has(key) {
			continue
		}
		newChild, _ := new.Get(key)
		d.emit(NewAdded(joinPath(path, key), newChild))
	}
}

func (d *differ) compareArrays(path string, old, new Array) {
	if d.opts.ArrayIDKey != "" {
		d.compareArraysByID(path, old, new)
		return
	}

	common := len(old)
	if len(new) < common {
		common = len(new)
	}

	// batching changes bookkeeping only, never which results come out
	step := common
	if d.opts.UseMemoryOptimization && d.opts.BatchSize > 0 {
		step = d.opts.BatchSize
	}
	for start := 0; start < common; start += step {
		end := start + step
		if end > common {
			end = common
		}
		for i := start; i < end; i++ {
			d.compare(indexPath(path, i), old[i], new[i])
		}
	}

	for i := common; i < len(new); i++ {
		d.emit(NewAdded(indexPath(path, i), new[i]))
	}
	for i := common; i < len(old); i++ {
		d.emit(NewRemoved(indexPath(path, i), old[i]))
	}
}

// compareArraysByID matches object elements by the value of the configured
// identity key, so reordering is not reported as change. Elements without
// the key fall back to positional pairing among themselves.
func (d *differ) compareArraysByID(path string, old, new Array) {
	idKey := d.opts.ArrayIDKey

	oldByID, oldRest := splitByID(old, idKey)
	newByID, newRest := splitByID(new, idKey)

	newIndex := make(map[string]Value, len(newByID))
	for _, el := range newByID {
		newIndex[el.id] = el.value
	}
	oldIndex := make(map[string]Value, len(oldByID))
	for _, el := range oldByID {
		oldIndex[el.id] = el.value
	}

	for _, el := range oldByID {
		p := idPath(path, idKey, el.id)
		counterpart, ok := newIndex[el.id]
		if !ok {
			d.emit(NewRemoved(p, el.value))
			continue
		}
		d.compare(p, el.value, counterpart)
	}
	for _, el := range newByID {
		if _, ok := oldIndex[el.id]; !ok {
			d.emit(NewAdded(idPath(path, idKey, el.id), el.value))
		}
	}

	// pair leftover keyless elements in order of occurrence
	common := len(oldRest)
	if len(newRest) < common {
		common = len(newRest)
	}
	for i := 0; i < common; i++ {
		d.compare(indexPath(path, newRest[i].index), oldRest[i].value, newRest[i].value)
	}
	for i := common; i < len(newRest); i++ {
		d.emit(NewAdded(indexPath(path, newRest[i].index), newRest[i].value))
	}
	for i := common; i < len(oldRest); i++ {
		d.emit(NewRemoved(indexPath(path, oldRest[i].index), oldRest[i].value))
	}
}

type identified struct {
	id    string
	index int
	value Value
}

// splitByID partitions array elements into those carrying the identity key
// and the rest, both in original order
func splitByID(arr Array, idKey string) (withID, rest []identified) {
	for i, el := range arr {
		if obj, ok := el.(*Object); ok {
			if id, ok := obj.Get(idKey); ok {
				withID = append(withID, identified{id: literal(id), index: i, value: el})
				continue
			}
		}
		rest = append(rest, identified{index: i, value: el})
	}
	return withID, rest
}

func (d *differ) scalarEqual(old, new Value) bool {
	switch o := old.(type) {
	case Number:
		n := new.(Number)
		if d.opts.Epsilon != nil {
			delta := o.Float64() - n.Float64()
			if delta < 0 {
				delta = -delta
			}
			return delta <= *d.opts.Epsilon
		}
		return numberEqual(o, n)
	case String:
		return d.foldString(string(o)) == d.foldString(string(new.(String)))
	}
	return Equal(old, new)
}

func (d *differ) foldString(s string) string {
	if d.opts.IgnoreWhitespace {
		s = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s)
	}
	if d.opts.IgnoreCase {
		s = strings.ToLower(s)
	}
	return s
}

func (d *differ) ignored(key string) bool {
	return d.opts.IgnoreKeysRegex != nil && d.opts.IgnoreKeysRegex.MatchString(key)
}

// joinPath builds dotted key paths: "", "a" -> "a"; "a", "b" -> "a.b"
func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// indexPath builds positional paths: "items", 0 -> "items[0]"
func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

// idPath builds identity-key paths: "users", "id", "1" -> "users[id=1]"
func idPath(parent, key, id string) string {
	return fmt.Sprintf("%s[%s=%s]", parent, key, id)
}

// literal renders a scalar the way it appears in path segments
func literal(v Value) string {
	switch x := v.(type) {
	case Null:
		return "null"
	case Bool:
		if x {
			return "true"
		}
		return "false"
	case Number:
		return x.String()
	case String:
		return string(x)
	}
	return string(v.Kind())
}
