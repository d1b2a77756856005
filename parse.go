package diffx

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	ini "gopkg.in/ini.v1"
	yaml "gopkg.in/yaml.v3"
)

// DataFormat names a supported input document format
type DataFormat string

const (
	// DataJSON is JSON text
	DataJSON = DataFormat("json")
	// DataYAML is YAML text
	DataYAML = DataFormat("yaml")
	// DataTOML is TOML text
	DataTOML = DataFormat("toml")
	// DataINI is INI text
	DataINI = DataFormat("ini")
	// DataXML is XML text
	DataXML = DataFormat("xml")
	// DataCSV is CSV text with a header row
	DataCSV = DataFormat("csv")
)

// Parse converts document text in the named format to a canonical Value
func Parse(text string, format DataFormat) (Value, error) {
	switch format {
	case DataJSON:
		return ParseJSON(text)
	case DataYAML:
		return ParseYAML(text)
	case DataTOML:
		return ParseTOML(text)
	case DataINI:
		return ParseINI(text)
	case DataXML:
		return ParseXML(text)
	case DataCSV:
		return ParseCSV(text)
	}
	return nil, &ParseError{Format: format, Err: fmt.Errorf("unsupported format %q", format)}
}

// DataFormatForPath maps a file extension to its input format
func DataFormatForPath(path string) (DataFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DataJSON, nil
	case ".yaml", ".yml":
		return DataYAML, nil
	case ".toml":
		return DataTOML, nil
	case ".ini", ".cfg":
		return DataINI, nil
	case ".xml":
		return DataXML, nil
	case ".csv":
		return DataCSV, nil
	}
	return "", fmt.Errorf("cannot infer format from path %q", path)
}

// DiffStrings parses two documents of the same format and diffs them
func DiffStrings(old, new string, format DataFormat, options map[string]interface{}) (Results, error) {
	oldV, err := Parse(old, format)
	if err != nil {
		return nil, err
	}
	newV, err := Parse(new, format)
	if err != nil {
		return nil, err
	}
	opts, err := ParseOptions(options)
	if err != nil {
		return nil, err
	}
	return DiffValues(oldV, newV, opts), nil
}

// DiffFiles reads & diffs two files, inferring each file's format from its
// extension. The two files may use different formats; they are compared in
// canonical form.
func DiffFiles(oldPath, newPath string, options map[string]interface{}) (Results, error) {
	oldV, err := parseFile(oldPath)
	if err != nil {
		return nil, err
	}
	newV, err := parseFile(newPath)
	if err != nil {
		return nil, err
	}
	opts, err := ParseOptions(options)
	if err != nil {
		return nil, err
	}
	return DiffValues(oldV, newV, opts), nil
}

func parseFile(path string) (Value, error) {
	format, err := DataFormatForPath(path)
	if err != nil {
		return nil, err
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(text), format)
}

// ParseJSON decodes JSON text. It works at the token level rather than into
// map[string]interface{} so object key order and the integer/float
// distinction both survive.
func ParseJSON(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, &ParseError{Format: DataJSON, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ParseError{Format: DataJSON, Err: fmt.Errorf("trailing content after document")}
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			// closing brace
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case bool:
		return Bool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", t)
		}
		return Float(f), nil
	case string:
		return String(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// ParseYAML decodes YAML text through the yaml.v3 node API, preserving
// mapping order and scalar tags
func ParseYAML(text string) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, &ParseError{Format: DataYAML, Err: err}
	}
	if root.Kind == 0 {
		// empty document
		return Null{}, nil
	}
	v, err := yamlToValue(&root, 0)
	if err != nil {
		return nil, &ParseError{Format: DataYAML, Err: err}
	}
	return v, nil
}

func yamlToValue(n *yaml.Node, depth int) (Value, error) {
	if depth > MaxDepth {
		return nil, &CycleError{Depth: MaxDepth}
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return yamlToValue(n.Content[0], depth+1)

	case yaml.AliasNode:
		return yamlToValue(n.Alias, depth+1)

	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlToValue(n.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil

	case yaml.SequenceNode:
		arr := make(Array, len(n.Content))
		for i, child := range n.Content {
			v, err := yamlToValue(child, depth+1)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil

	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return Null{}, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return Bool(b), nil
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return nil, err
			}
			return Int(i), nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return nil, err
			}
			return floatValue(f), nil
		}
		return String(n.Value), nil
	}
	return nil, fmt.Errorf("unexpected node kind %d", n.Kind)
}

// ParseTOML decodes TOML text. Mapping order is not preserved (keys come out
// sorted); datetimes become RFC 3339 strings.
func ParseTOML(text string) (Value, error) {
	var m map[string]interface{}
	if _, err := toml.Decode(text, &m); err != nil {
		return nil, &ParseError{Format: DataTOML, Err: err}
	}
	v, err := FromGo(m)
	if err != nil {
		return nil, &ParseError{Format: DataTOML, Err: err}
	}
	return v, nil
}

// ParseINI decodes INI text: named sections become nested mappings of string
// values, keys outside any section land at the mapping root
func ParseINI(text string) (Value, error) {
	f, err := ini.Load([]byte(text))
	if err != nil {
		return nil, &ParseError{Format: DataINI, Err: err}
	}

	obj := NewObject()
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			for _, key := range section.Keys() {
				obj.Set(key.Name(), String(key.Value()))
			}
			continue
		}
		sub := NewObject()
		for _, key := range section.Keys() {
			sub.Set(key.Name(), String(key.Value()))
		}
		obj.Set(section.Name(), sub)
	}
	return obj, nil
}

// ParseCSV decodes CSV text with a header row into a sequence of row
// mappings. All cell values are strings.
func ParseCSV(text string) (Value, error) {
	records, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		return nil, &ParseError{Format: DataCSV, Err: err}
	}
	if len(records) == 0 {
		return Array{}, nil
	}

	header := records[0]
	rows := make(Array, 0, len(records)-1)
	for _, record := range records[1:] {
		row := NewObject()
		for i, field := range record {
			if i < len(header) {
				row.Set(header[i], String(field))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseXML decodes XML text into a mapping rooted at the document element.
// Elements holding only text become strings, elements with children become
// mappings, repeated same-name siblings collapse into a sequence, and
// attributes appear as "@name" keys.
func ParseXML(text string) (Value, error) {
	dec := xml.NewDecoder(strings.NewReader(text))

	var start *xml.StartElement
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, &ParseError{Format: DataXML, Err: fmt.Errorf("no root element")}
			}
			return nil, &ParseError{Format: DataXML, Err: err}
		}
		if s, ok := tok.(xml.StartElement); ok {
			start = &s
			break
		}
	}

	el, err := decodeXMLElement(dec, *start)
	if err != nil {
		return nil, &ParseError{Format: DataXML, Err: err}
	}
	root := NewObject()
	root.Set(el.name, el.value())
	return root, nil
}

type xmlElement struct {
	name     string
	attrs    []xml.Attr
	children []*xmlElement
	text     string
}

func decodeXMLElement(dec *xml.Decoder, start xml.StartElement) (*xmlElement, error) {
	el := &xmlElement{name: start.Name.Local, attrs: start.Attr}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeXMLElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.children = append(el.children, child)
		case xml.CharData:
			el.text += string(t)
		case xml.EndElement:
			return el, nil
		}
	}
}

// value shapes a decoded element into canonical form
func (el *xmlElement) value() Value {
	text := strings.TrimSpace(el.text)
	if len(el.children) == 0 && len(el.attrs) == 0 {
		return String(text)
	}

	obj := NewObject()
	for _, attr := range el.attrs {
		obj.Set("@"+attr.Name.Local, String(attr.Value))
	}

	// group repeated sibling names into sequences, first occurrence fixing order
	counts := map[string]int{}
	for _, child := range el.children {
		counts[child.name]++
	}
	for _, child := range el.children {
		if counts[child.name] > 1 {
			existing, ok := obj.Get(child.name)
			if !ok {
				obj.Set(child.name, Array{child.value()})
				continue
			}
			obj.Set(child.name, append(existing.(Array), child.value()))
			continue
		}
		obj.Set(child.name, child.value())
	}

	if text != "" {
		obj.Set("#text", String(text))
	}
	return obj
}
