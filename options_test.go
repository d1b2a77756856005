package diffx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsEmpty(t *testing.T) {
	// an empty option set must reproduce strict exact-match semantics
	for _, raw := range []map[string]interface{}{nil, {}} {
		opts, err := ParseOptions(raw)
		require.NoError(t, err)

		assert.Nil(t, opts.Epsilon)
		assert.Empty(t, opts.ArrayIDKey)
		assert.Nil(t, opts.IgnoreKeysRegex)
		assert.Empty(t, opts.PathFilter)
		assert.Equal(t, FormatDiffx, opts.OutputFormat)
		assert.False(t, opts.ShowUnchanged)
		assert.False(t, opts.IgnoreCase)
		assert.False(t, opts.IgnoreWhitespace)
		assert.False(t, opts.BriefMode)
		assert.False(t, opts.QuietMode)
		assert.False(t, opts.UseMemoryOptimization)
		assert.Zero(t, opts.BatchSize)
	}
}

func TestParseOptionsFull(t *testing.T) {
	opts, err := ParseOptions(map[string]interface{}{
		"epsilon":                 0.001,
		"array_id_key":            "id",
		"ignore_keys_regex":       "^ts$",
		"path_filter":             "config",
		"output_format":           "json",
		"show_unchanged":          true,
		"show_types":              true,
		"use_memory_optimization": true,
		"batch_size":              100,
		"ignore_whitespace":       true,
		"ignore_case":             true,
		"brief_mode":              true,
		"quiet_mode":              true,
	})
	require.NoError(t, err)

	require.NotNil(t, opts.Epsilon)
	assert.Equal(t, 0.001, *opts.Epsilon)
	assert.Equal(t, "id", opts.ArrayIDKey)
	require.NotNil(t, opts.IgnoreKeysRegex)
	assert.True(t, opts.IgnoreKeysRegex.MatchString("ts"))
	assert.Equal(t, "config", opts.PathFilter)
	assert.Equal(t, FormatJSON, opts.OutputFormat)
	assert.True(t, opts.ShowUnchanged)
	assert.True(t, opts.ShowTypes)
	assert.True(t, opts.UseMemoryOptimization)
	assert.Equal(t, 100, opts.BatchSize)
	assert.True(t, opts.IgnoreWhitespace)
	assert.True(t, opts.IgnoreCase)
	assert.True(t, opts.BriefMode)
	assert.True(t, opts.QuietMode)
}

func TestParseOptionsEpsilonAcceptsIntegers(t *testing.T) {
	opts, err := ParseOptions(map[string]interface{}{"epsilon": 1})
	require.NoError(t, err)
	require.NotNil(t, opts.Epsilon)
	assert.Equal(t, 1.0, *opts.Epsilon)
}

func TestParseOptionsTypeErrors(t *testing.T) {
	cases := []struct {
		option string
		value  interface{}
	}{
		{"epsilon", "0.1"},
		{"epsilon", true},
		{"array_id_key", 1},
		{"ignore_keys_regex", 1},
		{"path_filter", false},
		{"output_format", 3},
		{"show_unchanged", "yes"},
		{"batch_size", "10"},
		{"batch_size", 2.5},
		{"ignore_case", 1},
	}

	for _, c := range cases {
		t.Run(c.option, func(t *testing.T) {
			_, err := ParseOptions(map[string]interface{}{c.option: c.value})
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, c.option, ce.Option)
		})
	}
}

func TestParseOptionsRegexValidatedEagerly(t *testing.T) {
	_, err := ParseOptions(map[string]interface{}{"ignore_keys_regex": "(unclosed"})
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ignore_keys_regex", ce.Option)
	assert.Contains(t, ce.Reason, "invalid regular expression")
}

func TestParseOptionsInvalidOutputFormat(t *testing.T) {
	_, err := ParseOptions(map[string]interface{}{"output_format": "invalid_format"})
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	// the error names the valid set
	assert.Contains(t, ce.Reason, "diffx")
	assert.Contains(t, ce.Reason, "json")
	assert.Contains(t, ce.Reason, "yaml")
	assert.Contains(t, ce.Reason, "unified")
}

func TestParseOptionsBatchSizeBounds(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := ParseOptions(map[string]interface{}{"batch_size": size})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
	}
}

func TestParseOptionsUnknownKeyPolicy(t *testing.T) {
	raw := map[string]interface{}{"no_such_option": 1}

	_, err := ParseOptions(raw)
	assert.NoError(t, err, "permissive builder ignores unknown keys")

	_, err = ParseOptionsStrict(raw)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "no_such_option", ce.Option)
}

func TestParseOutputFormat(t *testing.T) {
	for _, name := range []string{"diffx", "json", "yaml", "unified"} {
		f, err := ParseOutputFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(f))
	}

	_, err := ParseOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid formats")
}
