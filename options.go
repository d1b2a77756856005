package diffx

import (
	"fmt"
	"regexp"
	"strings"
)

// OutputFormat names a rendering of a diff result sequence
type OutputFormat string

const (
	// FormatDiffx is the native human-readable line format
	FormatDiffx = OutputFormat("diffx")
	// FormatJSON renders results as a JSON array
	FormatJSON = OutputFormat("json")
	// FormatYAML renders results as a YAML document
	FormatYAML = OutputFormat("yaml")
	// FormatUnified renders results in a unified-diff style
	FormatUnified = OutputFormat("unified")
)

// OutputFormats lists every valid output format name
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatDiffx, FormatJSON, FormatYAML, FormatUnified}
}

// ParseOutputFormat validates a format name. Unknown names fail with the
// valid set in the error detail.
func ParseOutputFormat(name string) (OutputFormat, error) {
	for _, f := range OutputFormats() {
		if name == string(f) {
			return f, nil
		}
	}
	valid := make([]string, 0, 4)
	for _, f := range OutputFormats() {
		valid = append(valid, string(f))
	}
	return "", fmt.Errorf("unknown output format %q, valid formats: %s", name, strings.Join(valid, ", "))
}

// Options are the validated comparison parameters. The zero value reproduces
// strict structural & value equality: no tolerance, no key exclusion, no path
// filtering, diffx output.
type Options struct {
	// Epsilon is the numeric comparison tolerance. nil means exact equality.
	Epsilon *float64
	// ArrayIDKey matches array elements by a field value instead of position
	ArrayIDKey string
	// IgnoreKeysRegex omits matching mapping keys from comparison at any depth
	IgnoreKeysRegex *regexp.Regexp
	// PathFilter keeps only results whose path contains this substring
	PathFilter string
	// OutputFormat selects the renderer. Empty means FormatDiffx.
	OutputFormat OutputFormat
	// ShowUnchanged asks the renderer to include unchanged context
	ShowUnchanged bool
	// ShowTypes asks the renderer to annotate values with their kinds
	ShowTypes bool
	// UseMemoryOptimization enables batched processing of large arrays
	UseMemoryOptimization bool
	// BatchSize is the chunk size used when UseMemoryOptimization is set
	BatchSize int
	// IgnoreWhitespace folds whitespace before comparing strings
	IgnoreWhitespace bool
	// IgnoreCase folds case before comparing strings
	IgnoreCase bool
	// BriefMode reports only whether any difference exists
	BriefMode bool
	// QuietMode suppresses human-readable output, leaving exit status only
	QuietMode bool
}

// option names recognized by the builders, mirroring the wire contract
const (
	optEpsilon               = "epsilon"
	optArrayIDKey            = "array_id_key"
	optIgnoreKeysRegex       = "ignore_keys_regex"
	optPathFilter            = "path_filter"
	optOutputFormat          = "output_format"
	optShowUnchanged         = "show_unchanged"
	optShowTypes             = "show_types"
	optUseMemoryOptimization = "use_memory_optimization"
	optBatchSize             = "batch_size"
	optIgnoreWhitespace      = "ignore_whitespace"
	optIgnoreCase            = "ignore_case"
	optBriefMode             = "brief_mode"
	optQuietMode             = "quiet_mode"
)

// ParseOptions builds validated Options from a loosely-typed option mapping.
// Each recognized key is independently optional; a present key must carry a
// value of the expected type or the build fails with a ConfigError naming the
// option. Malformed regular expressions and unknown output format names are
// rejected here, never deferred to diff time. Unrecognized keys are ignored.
func ParseOptions(raw map[string]interface{}) (*Options, error) {
	return buildOptions(raw, false)
}

// ParseOptionsStrict is ParseOptions with unrecognized keys rejected instead
// of ignored
func ParseOptionsStrict(raw map[string]interface{}) (*Options, error) {
	return buildOptions(raw, true)
}

func buildOptions(raw map[string]interface{}, strict bool) (*Options, error) {
	opts := &Options{OutputFormat: FormatDiffx}
	if raw == nil {
		return opts, nil
	}

	if strict {
		known := map[string]bool{
			optEpsilon: true, optArrayIDKey: true, optIgnoreKeysRegex: true,
			optPathFilter: true, optOutputFormat: true, optShowUnchanged: true,
			optShowTypes: true, optUseMemoryOptimization: true, optBatchSize: true,
			optIgnoreWhitespace: true, optIgnoreCase: true, optBriefMode: true,
			optQuietMode: true,
		}
		for key := range raw {
			if !known[key] {
				return nil, &ConfigError{Option: key, Reason: "unrecognized option"}
			}
		}
	}

	if eps, ok, err := extractFloat(raw, optEpsilon); err != nil {
		return nil, err
	} else if ok {
		opts.Epsilon = &eps
	}

	var err error
	if opts.ArrayIDKey, _, err = extractString(raw, optArrayIDKey); err != nil {
		return nil, err
	}
	if opts.PathFilter, _, err = extractString(raw, optPathFilter); err != nil {
		return nil, err
	}

	if pattern, ok, err := extractString(raw, optIgnoreKeysRegex); err != nil {
		return nil, err
	} else if ok {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &ConfigError{Option: optIgnoreKeysRegex, Reason: fmt.Sprintf("invalid regular expression: %s", err)}
		}
		opts.IgnoreKeysRegex = re
	}

	if name, ok, err := extractString(raw, optOutputFormat); err != nil {
		return nil, err
	} else if ok {
		format, err := ParseOutputFormat(name)
		if err != nil {
			return nil, &ConfigError{Option: optOutputFormat, Reason: err.Error()}
		}
		opts.OutputFormat = format
	}

	if size, ok, err := extractInt(raw, optBatchSize); err != nil {
		return nil, err
	} else if ok {
		if size <= 0 {
			return nil, &ConfigError{Option: optBatchSize, Reason: "must be a positive integer"}
		}
		opts.BatchSize = size
	}

	boolOpts := []struct {
		key string
		dst *bool
	}{
		{optShowUnchanged, &opts.ShowUnchanged},
		{optShowTypes, &opts.ShowTypes},
		{optUseMemoryOptimization, &opts.UseMemoryOptimization},
		{optIgnoreWhitespace, &opts.IgnoreWhitespace},
		{optIgnoreCase, &opts.IgnoreCase},
		{optBriefMode, &opts.BriefMode},
		{optQuietMode, &opts.QuietMode},
	}
	for _, b := range boolOpts {
		if v, _, err := extractBool(raw, b.key); err != nil {
			return nil, err
		} else {
			*b.dst = v
		}
	}

	return opts, nil
}

func extractBool(raw map[string]interface{}, key string) (bool, bool, error) {
	v, ok := raw[key]
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, false, &ConfigError{Option: key, Reason: fmt.Sprintf("expected bool, got %T", v)}
	}
	return b, true, nil
}

func extractString(raw map[string]interface{}, key string) (string, bool, error) {
	v, ok := raw[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, &ConfigError{Option: key, Reason: fmt.Sprintf("expected string, got %T", v)}
	}
	return s, true, nil
}

func extractFloat(raw map[string]interface{}, key string) (float64, bool, error) {
	v, ok := raw[key]
	if !ok {
		return 0, false, nil
	}
	// booleans are not numbers, despite what some hosts think
	switch x := v.(type) {
	case float64:
		return x, true, nil
	case float32:
		return float64(x), true, nil
	case int:
		return float64(x), true, nil
	case int64:
		return float64(x), true, nil
	}
	return 0, false, &ConfigError{Option: key, Reason: fmt.Sprintf("expected number, got %T", v)}
}

func extractInt(raw map[string]interface{}, key string) (int, bool, error) {
	v, ok := raw[key]
	if !ok {
		return 0, false, nil
	}
	switch x := v.(type) {
	case int:
		return x, true, nil
	case int64:
		return int(x), true, nil
	}
	return 0, false, &ConfigError{Option: key, Reason: fmt.Sprintf("expected integer, got %T", v)}
}
