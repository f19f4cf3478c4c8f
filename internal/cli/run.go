package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shiddong/blog/internal/analyze"
	"github.com/shiddong/blog/internal/config"
	"github.com/shiddong/blog/internal/outline"
	"github.com/shiddong/blog/internal/parser"
	"github.com/spf13/cobra"
)

func runCount(cmd *cobra.Command, input string) error {
	wpm, _ := cmd.Flags().GetInt("wpm")

	report, err := analyzeFile(input, wpm, outline.DefaultOptions())
	if err != nil {
		return err
	}

	if asJSON(cmd) {
		return printJSON(cmd, map[string]any{
			"title":           report.Title,
			"latin":           report.Latin,
			"han":             report.Han,
			"words":           report.Words,
			"reading_minutes": report.ReadingMinutes,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", report.Title)
	fmt.Fprintf(out, "words: %d (latin %d, han %d)\n", report.Words, report.Latin, report.Han)
	fmt.Fprintf(out, "reading time: %d min\n", report.ReadingMinutes)
	return nil
}

func runTOC(cmd *cobra.Command, input string) error {
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")
	indentDepth, _ := cmd.Flags().GetInt("indent-depth")
	policy, _ := cmd.Flags().GetString("policy")
	exclude, _ := cmd.Flags().GetStringArray("exclude")

	p, err := outline.ParsePolicy(policy)
	if err != nil {
		return err
	}
	opts := outline.Options{
		IndentDepth: indentDepth,
		FromHeading: from,
		ToHeading:   to,
		Exclude:     outline.Patterns(exclude),
		Policy:      p,
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	report, err := analyzeFile(input, 0, opts)
	if err != nil {
		return err
	}

	if asJSON(cmd) {
		return printJSON(cmd, report.Outline)
	}
	out := cmd.OutOrStdout()
	for _, it := range report.Outline {
		fmt.Fprintf(out, "%s- %s (%s)\n", strings.Repeat("  ", it.Indent), it.Value, it.URL)
	}
	return nil
}

func analyzeFile(input string, wpm int, opts outline.Options) (*analyze.Report, error) {
	if !parser.IsSupportedExtension(input) {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(input))
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	a := &analyze.Analyzer{
		Parsers:        config.Load().ParserConfig(),
		WordsPerMinute: wpm,
	}
	return a.Analyze(data, filepath.Base(input), opts)
}

func asJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
