package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOptionsDefaults(t *testing.T) {
	resetFlags(t)

	options := buildOptions(rootCmd)
	// only the output format default maps through; everything else stays
	// with the library defaults
	assert.Equal(t, map[string]interface{}{"output_format": "diffx"}, options)
}

func TestBuildOptionsMapsChangedFlags(t *testing.T) {
	resetFlags(t)

	flags := rootCmd.Flags()
	require.NoError(t, flags.Set("epsilon", "0.5"))
	require.NoError(t, flags.Set("array-id-key", "id"))
	require.NoError(t, flags.Set("ignore-keys-regex", "^_"))
	require.NoError(t, flags.Set("path-filter", "config"))
	require.NoError(t, flags.Set("output", "json"))
	require.NoError(t, flags.Set("show-types", "true"))
	require.NoError(t, flags.Set("ignore-whitespace", "true"))
	require.NoError(t, flags.Set("ignore-case", "true"))
	require.NoError(t, flags.Set("brief", "true"))
	require.NoError(t, flags.Set("quiet", "true"))
	require.NoError(t, flags.Set("memory-optimization", "true"))
	require.NoError(t, flags.Set("batch-size", "100"))

	options := buildOptions(rootCmd)
	assert.Equal(t, map[string]interface{}{
		"epsilon":                 0.5,
		"array_id_key":            "id",
		"ignore_keys_regex":       "^_",
		"path_filter":             "config",
		"output_format":           "json",
		"show_types":              true,
		"ignore_whitespace":       true,
		"ignore_case":             true,
		"brief_mode":              true,
		"quiet_mode":              true,
		"use_memory_optimization": true,
		"batch_size":              100,
	}, options)
}

func TestBuildOptionsZeroEpsilonWhenSet(t *testing.T) {
	resetFlags(t)

	// an explicit zero still reaches the library, unlike an untouched flag
	require.NoError(t, rootCmd.Flags().Set("epsilon", "0"))
	options := buildOptions(rootCmd)
	assert.Equal(t, float64(0), options["epsilon"])
}

func TestCompareFilesFormatOverride(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte(`{"a": 1}`), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte(`{"a": 2}`), 0o644))

	// .txt has no inferable format
	_, err := compareFiles(oldPath, newPath, nil)
	require.Error(t, err)

	flagInputFormat = "json"
	results, err := compareFiles(oldPath, newPath, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Path)
}

// resetFlags returns every flag to its declared default so cases don't leak
// state into each other
func resetFlags(t *testing.T) {
	t.Helper()

	flagEpsilon = 0
	flagArrayIDKey = ""
	flagIgnoreKeysRegex = ""
	flagPathFilter = ""
	flagOutput = "diffx"
	flagInputFormat = ""
	flagShowTypes = false
	flagShowUnchanged = false
	flagIgnoreWhitespace = false
	flagIgnoreCase = false
	flagBrief = false
	flagQuiet = false
	flagStats = false
	flagColor = false
	flagMemOpt = false
	flagBatchSize = 0

	flags := rootCmd.Flags()
	flags.VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}
