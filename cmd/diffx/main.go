package main

import (
	"fmt"
	"os"

	"github.com/diffx-go/diffx"
	"github.com/spf13/cobra"
)

var (
	flagEpsilon          float64
	flagArrayIDKey       string
	flagIgnoreKeysRegex  string
	flagPathFilter       string
	flagOutput           string
	flagInputFormat      string
	flagShowTypes        bool
	flagShowUnchanged    bool
	flagIgnoreWhitespace bool
	flagIgnoreCase       bool
	flagBrief            bool
	flagQuiet            bool
	flagStats            bool
	flagColor            bool
	flagMemOpt           bool
	flagBatchSize        int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(2)
	}
}

var rootCmd = &cobra.Command{
	Use:   "diffx OLD NEW",
	Short: "Semantic diff for structured data",
	Long: `Diffx compares two structured documents (JSON, YAML, TOML, CSV, INI, XML)
semantically: key order and formatting are irrelevant, numeric tolerance and
key exclusion are configurable, and the two files may use different formats.

Exit status is 0 when the documents match, 1 when differences were found,
and 2 on error.`,
	Version:       diffx.Version,
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runDiff,
}

func init() {
	flags := rootCmd.Flags()
	flags.Float64Var(&flagEpsilon, "epsilon", 0, "numeric comparison tolerance")
	flags.StringVar(&flagArrayIDKey, "array-id-key", "", "match array elements by this field instead of position")
	flags.StringVar(&flagIgnoreKeysRegex, "ignore-keys-regex", "", "exclude mapping keys matching this pattern")
	flags.StringVar(&flagPathFilter, "path-filter", "", "only report differences whose path contains this substring")
	flags.StringVar(&flagOutput, "output", "diffx", "output format: diffx|json|yaml|unified")
	flags.StringVar(&flagInputFormat, "format", "", "input format override (default: inferred from file extensions)")
	flags.BoolVar(&flagShowTypes, "show-types", false, "annotate values with their kinds")
	flags.BoolVar(&flagShowUnchanged, "show-unchanged", false, "include unchanged context in output")
	flags.BoolVar(&flagIgnoreWhitespace, "ignore-whitespace", false, "ignore whitespace differences in strings")
	flags.BoolVar(&flagIgnoreCase, "ignore-case", false, "ignore case differences in strings")
	flags.BoolVar(&flagBrief, "brief", false, "report only whether the documents differ")
	flags.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress output, report through exit status only")
	flags.BoolVar(&flagStats, "stats", false, "print a difference summary to stderr")
	flags.BoolVar(&flagColor, "color", false, "colorize diffx output")
	flags.BoolVar(&flagMemOpt, "memory-optimization", false, "batch large array comparisons")
	flags.IntVar(&flagBatchSize, "batch-size", 0, "batch size for --memory-optimization")
}

func runDiff(cmd *cobra.Command, args []string) error {
	options := buildOptions(cmd)

	opts, err := diffx.ParseOptionsStrict(options)
	if err != nil {
		return err
	}

	results, err := compareFiles(args[0], args[1], options)
	if err != nil {
		return err
	}

	if err := report(results, opts); err != nil {
		return err
	}

	if len(results) > 0 {
		os.Exit(1)
	}
	return nil
}

// buildOptions maps set flags onto the library's option names. Only flags
// the user changed are included, so library defaults stay in charge.
func buildOptions(cmd *cobra.Command) map[string]interface{} {
	options := map[string]interface{}{}
	if cmd.Flags().Changed("epsilon") {
		options["epsilon"] = flagEpsilon
	}
	if flagArrayIDKey != "" {
		options["array_id_key"] = flagArrayIDKey
	}
	if flagIgnoreKeysRegex != "" {
		options["ignore_keys_regex"] = flagIgnoreKeysRegex
	}
	if flagPathFilter != "" {
		options["path_filter"] = flagPathFilter
	}
	if flagOutput != "" {
		options["output_format"] = flagOutput
	}
	if flagShowTypes {
		options["show_types"] = true
	}
	if flagShowUnchanged {
		options["show_unchanged"] = true
	}
	if flagIgnoreWhitespace {
		options["ignore_whitespace"] = true
	}
	if flagIgnoreCase {
		options["ignore_case"] = true
	}
	if flagBrief {
		options["brief_mode"] = true
	}
	if flagQuiet {
		options["quiet_mode"] = true
	}
	if flagMemOpt {
		options["use_memory_optimization"] = true
	}
	if cmd.Flags().Changed("batch-size") {
		options["batch_size"] = flagBatchSize
	}
	return options
}

func compareFiles(oldPath, newPath string, options map[string]interface{}) (diffx.Results, error) {
	if flagInputFormat == "" {
		return diffx.DiffFiles(oldPath, newPath, options)
	}

	format := diffx.DataFormat(flagInputFormat)
	oldText, err := os.ReadFile(oldPath)
	if err != nil {
		return nil, err
	}
	newText, err := os.ReadFile(newPath)
	if err != nil {
		return nil, err
	}
	return diffx.DiffStrings(string(oldText), string(newText), format, options)
}

func report(results diffx.Results, opts *diffx.Options) error {
	switch {
	case opts.QuietMode:
		// exit status carries the answer
	case opts.BriefMode:
		if len(results) > 0 {
			fmt.Println("Files differ")
		}
	case flagColor && opts.OutputFormat == diffx.FormatDiffx:
		if err := diffx.FormatDiffxColor(os.Stdout, results, opts); err != nil {
			return err
		}
	default:
		if err := diffx.FormatResults(os.Stdout, results, opts.OutputFormat, opts); err != nil {
			return err
		}
		if opts.OutputFormat == diffx.FormatJSON {
			fmt.Println()
		}
	}

	if flagStats && !opts.QuietMode {
		if flagColor {
			fmt.Fprint(os.Stderr, diffx.FormatStatsColor(diffx.ResultStats(results)))
		} else {
			fmt.Fprint(os.Stderr, diffx.FormatStats(diffx.ResultStats(results)))
		}
	}
	return nil
}
