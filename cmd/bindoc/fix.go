package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bindoc/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [root]",
	Short: "Apply suggested annotation fixes",
	Long: `Run the pipeline, collect the fixes attached to diagnostics (misspelled
type names, synonyms, overload targets) and rewrite the annotations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("dry-run", false, "report the changes without writing files")
	addPipelineFlags(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}

	_, res, err := runPipeline(cmd, "bindoc fix", args)
	if err != nil {
		return err
	}

	result, applyErr := fix.Apply(res.FileSet, res.Bag.Items(), fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
		DryRun:   dryRun,
	})
	if err := printFixResult(cmd.OutOrStdout(), result, dryRun); err != nil {
		return err
	}
	if errors.Is(applyErr, fix.ErrNoFixes) {
		if !quiet(cmd) {
			fmt.Fprintln(cmd.OutOrStdout(), "no applicable fixes found")
		}
		return nil
	}
	return applyErr
}

func printFixResult(out io.Writer, res *fix.ApplyResult, dryRun bool) error {
	if res == nil {
		return nil
	}
	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	if len(res.Applied) > 0 {
		if _, err := fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied)); err != nil {
			return err
		}
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			if _, err := fmt.Fprintf(out, "  %s [%s] %s (%d edits)\n", item.Title, item.ID, location, item.EditCount); err != nil {
				return err
			}
		}
	}
	if len(res.FileChanges) > 0 {
		if _, err := fmt.Fprintln(out, "Updated files:"); err != nil {
			return err
		}
		for _, change := range res.FileChanges {
			if _, err := fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount); err != nil {
				return err
			}
		}
	}
	if len(res.Skipped) > 0 {
		if _, err := fmt.Fprintln(out, "Skipped fixes:"); err != nil {
			return err
		}
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if _, err := fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason); err != nil {
				return err
			}
		}
	}
	return nil
}
