package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shiddong/blog/internal/config"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := NewRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the blogtext command tree.
func NewRootCommand() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:           "blogtext",
		Short:         "Word counts and inline tables of contents for blog posts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "Print JSON instead of text")

	count := &cobra.Command{
		Use:   "count <file>",
		Short: "Count Latin words and Han characters in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, args[0])
		},
	}
	count.Flags().Int("wpm", cfg.WordsPerMinute, "Reading speed in words per minute")

	toc := &cobra.Command{
		Use:   "toc <file>",
		Short: "Print the filtered, indented outline of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTOC(cmd, args[0])
		},
	}
	toc.Flags().Int("from", cfg.TOCFromHeading, "Shallowest heading depth to include")
	toc.Flags().Int("to", cfg.TOCToHeading, "Deepest heading depth to include")
	toc.Flags().Int("indent-depth", cfg.TOCIndentDepth, "Depth threshold for the binary indent policy")
	toc.Flags().String("policy", cfg.TOCPolicy, "Indent policy: stepped or binary")
	toc.Flags().StringArray("exclude", nil, "Heading text to exclude (regular expression, repeatable)")

	root.AddCommand(count, toc)
	return root
}
