package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bindoc/internal/driver"
	"bindoc/internal/project"
	"bindoc/internal/typegraph"
)

// addPipelineFlags registers the flags shared by commands that run the pipeline.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().String("root-type", "", "override [model].root_type")
	cmd.Flags().String("synonyms", "", "YAML file with the primitive synonym table")
}

// loadManifest finds bindoc.toml starting at args[0] or the working directory.
func loadManifest(args []string) (*project.Manifest, error) {
	start := "."
	if len(args) > 0 {
		start = args[0]
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	return project.Load(abs)
}

// pipelineOptions merges the manifest settings with command line overrides.
func pipelineOptions(cmd *cobra.Command, m *project.Manifest) (driver.Options, error) {
	opts := driver.OptionsFromManifest(m)
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if root.Changed("max-diagnostics") {
		maxDiagnostics, err := root.GetInt("max-diagnostics")
		if err != nil {
			return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		opts.MaxDiagnostics = maxDiagnostics
	}
	jobs, err := root.GetInt("jobs")
	if err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	opts.Jobs = jobs

	if flags.Changed("warnings-as-errors") {
		wae, err := flags.GetBool("warnings-as-errors")
		if err != nil {
			return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
		}
		opts.WarningsAsErrors = wae
	}
	rootType, err := flags.GetString("root-type")
	if err != nil {
		return opts, fmt.Errorf("failed to get root-type flag: %w", err)
	}
	if rootType != "" {
		opts.RootType = rootType
	}

	synonyms, err := flags.GetString("synonyms")
	if err != nil {
		return opts, fmt.Errorf("failed to get synonyms flag: %w", err)
	}
	if synonyms != "" {
		data, err := os.ReadFile(synonyms)
		if err != nil {
			return opts, fmt.Errorf("failed to read synonym table: %w", err)
		}
		table, err := typegraph.ParseTable(data)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", synonyms, err)
		}
		opts.Table = table
	}
	return opts, nil
}

// runPipeline loads the project and runs the driver, under the progress
// view when the terminal allows it.
func runPipeline(cmd *cobra.Command, title string, args []string) (*project.Manifest, *driver.Result, error) {
	m, err := loadManifest(args)
	if err != nil {
		return nil, nil, err
	}
	for _, key := range m.Unknown {
		if !quiet(cmd) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: unknown key %q\n", m.Path, key)
		}
	}
	opts, err := pipelineOptions(cmd, m)
	if err != nil {
		return m, nil, err
	}

	withUI, err := wantProgressUI(cmd)
	if err != nil {
		return m, nil, err
	}
	if !withUI {
		res, err := driver.Run(cmd.Context(), m, opts)
		return m, res, err
	}

	files, err := driver.ListSources(m)
	if err != nil {
		return m, nil, err
	}
	res, err := runWithUI(cmd.Context(), title, m, files, opts)
	return m, res, err
}

// printTimings writes the timing report to stderr when --timings is set.
func printTimings(cmd *cobra.Command, res *driver.Result, kind string, asJSON bool) {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil || !show || res == nil {
		return
	}
	report := res.Timings.Report(kind, res.Elapsed)
	if asJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), report.JSON())
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), report.String())
}
