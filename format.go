package diffx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"
)

// FormatString is a convenience wrapper that renders to a string instead of
// an io.Writer
func FormatString(rs Results, format OutputFormat, opts *Options) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatResults(buf, rs, format, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatResults renders a result sequence to w in the selected output
// format. opts is optional & only supplies display hints (ShowTypes).
func FormatResults(w io.Writer, rs Results, format OutputFormat, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}

	switch format {
	case FormatJSON:
		return formatJSON(w, rs)
	case FormatYAML:
		return formatYAML(w, rs)
	case FormatDiffx, "":
		return formatDiffx(w, rs, opts, nil)
	case FormatUnified:
		return formatUnified(w, rs)
	}
	return &RenderError{Err: fmt.Errorf("unknown output format %q", format)}
}

// RenderResults reverse-marshals externally-supplied host result mappings
// and renders them: the round-trip path used when results cross a host
// boundary on their way to display
func RenderResults(hostResults []map[string]interface{}, format string) (string, error) {
	f, err := ParseOutputFormat(format)
	if err != nil {
		return "", &RenderError{Err: err}
	}
	rs, err := ResultsFromGo(hostResults)
	if err != nil {
		return "", err
	}
	return FormatString(rs, f, nil)
}

func formatJSON(w io.Writer, rs Results) error {
	if len(rs) == 0 {
		_, err := io.WriteString(w, "[]")
		return err
	}
	data, err := json.Marshal(rs)
	if err != nil {
		return &RenderError{Err: err}
	}
	_, err = w.Write(data)
	return err
}

func formatYAML(w io.Writer, rs Results) error {
	data, err := yaml.Marshal(rs.ToGo())
	if err != nil {
		return &RenderError{Err: err}
	}
	_, err = w.Write(data)
	return err
}

// FormatDiffxColor renders the diffx line format with ANSI colors:
// green "+" for additions, red "-" for removals, blue "~" for
// modifications, yellow "!" for type changes
func FormatDiffxColor(w io.Writer, rs Results, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	return formatDiffx(w, rs, opts, map[ResultType]string{
		ResultType("close"): "\x1b[0m",

		Added:       "\x1b[32m",
		Removed:     "\x1b[31m",
		Modified:    "\x1b[34m",
		TypeChanged: "\x1b[33m",
	})
}

func formatDiffx(w io.Writer, rs Results, opts *Options, colorMap map[ResultType]string) error {
	for _, r := range rs {
		var line string
		switch r.Type {
		case Added:
			line = fmt.Sprintf("+ %s: %s", r.Path, renderValue(r.Value, opts))
		case Removed:
			line = fmt.Sprintf("- %s: %s", r.Path, renderValue(r.Value, opts))
		case Modified:
			line = fmt.Sprintf("~ %s: %s -> %s", r.Path, renderValue(r.OldValue, opts), renderValue(r.NewValue, opts))
		case TypeChanged:
			line = fmt.Sprintf("! %s: %s -> %s", r.Path, renderValue(r.OldValue, opts), renderValue(r.NewValue, opts))
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", colorMap[r.Type], line, colorMap[ResultType("close")]); err != nil {
			return err
		}
	}
	return nil
}

func formatUnified(w io.Writer, rs Results) error {
	if len(rs) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "--- old\n+++ new\n"); err != nil {
		return err
	}
	for _, r := range rs {
		var err error
		switch r.Type {
		case Added:
			_, err = fmt.Fprintf(w, "+%s: %s\n", r.Path, renderValue(r.Value, nil))
		case Removed:
			_, err = fmt.Fprintf(w, "-%s: %s\n", r.Path, renderValue(r.Value, nil))
		case Modified, TypeChanged:
			if _, err = fmt.Fprintf(w, "-%s: %s\n", r.Path, renderValue(r.OldValue, nil)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "+%s: %s\n", r.Path, renderValue(r.NewValue, nil))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// renderValue prints a canonical value as compact JSON, optionally
// annotated with its kind
func renderValue(v Value, opts *Options) string {
	data, err := json.Marshal(ToGo(v))
	if err != nil {
		// ToGo output is always JSON-encodable
		data = []byte("null")
	}
	if opts != nil && opts.ShowTypes && v != nil {
		return fmt.Sprintf("%s (%s)", data, v.Kind())
	}
	return string(data)
}
