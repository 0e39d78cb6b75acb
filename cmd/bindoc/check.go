package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bindoc/internal/diag"
	"bindoc/internal/diagfmt"
	"bindoc/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [root]",
	Short: "Build the API model and report diagnostics",
	Long: `Run extraction and model assembly over every source of the project found
at [root] (default: the current directory) and print the diagnostics`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("summary", true, "print a model summary after the diagnostics")
	addPipelineFlags(checkCmd)
}

// runCheck runs the pipeline and prints its diagnostics. It exits with a
// non-zero status when errors remain.
func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return fmt.Errorf("failed to get summary flag: %w", err)
	}

	_, res, err := runPipeline(cmd, "bindoc check", args)
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	out := cmd.OutOrStdout()

	switch format {
	case "pretty":
		diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd),
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: withNotes,
			ShowFixes: suggest,
		})
		if summary && !quiet(cmd) {
			printSummary(out, res)
		}
	case "short":
		if err := diagfmt.Short(out, res.Bag, res.FileSet, withNotes); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "json":
		err := diagfmt.JSON(out, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeFixes:     suggest,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	printTimings(cmd, res, "check", format == "json")

	if res.HasErrors() {
		return errSilent
	}
	return nil
}

func printSummary(w io.Writer, res *driver.Result) {
	s := res.Summary
	fmt.Fprintf(w, "%d files, %d blocks: %d types (%d documented), %d methods, %d overloads, %d compacted, %d failed\n",
		len(res.Files), s.Blocks, s.Types, s.Documented, s.Methods, s.Overloads, s.Compacted, s.Failed)
	errs := res.Bag.Count(diag.SevError)
	warns := res.Bag.Count(diag.SevWarning)
	line := fmt.Sprintf("%d errors, %d warnings", errs, warns)
	if dropped := res.Bag.Dropped(); dropped > 0 {
		line += fmt.Sprintf(" (%d not shown)", dropped)
	}
	fmt.Fprintf(w, "%s, model %s\n", line, res.Digest.Short())
}
