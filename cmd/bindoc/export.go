package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"bindoc/internal/diagfmt"
	"bindoc/internal/driver"
	"bindoc/internal/export"
	"bindoc/internal/project"
	"bindoc/internal/signature"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] [root]",
	Short: "Build the API model and write it in the configured formats",
	Long: `Run the pipeline over the project found at [root] and write the model as
completion tables, XML, markdown, wiki pages, YAML or msgpack. Formats and the output
directory default to the [export] section of bindoc.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringSlice("format", nil, "comma-separated formats (completion|xml|markdown|wiki|yaml|msgpack)")
	exportCmd.Flags().String("out", "", "output directory (default: [export].output)")
	exportCmd.Flags().Bool("names", true, "include parameter names in signatures")
	exportCmd.Flags().String("grouping", "", "signature grouping (inline|none|paren)")
	exportCmd.Flags().Bool("stdout", false, "write the single selected format to stdout")
	addPipelineFlags(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	m, res, err := runPipeline(cmd, "bindoc export", args)
	if err != nil {
		return err
	}

	// ошибки модели печатаем, но всё равно пишем то, что собрали
	if res.Bag.Len() > 0 {
		if err := diagfmt.Short(cmd.ErrOrStderr(), res.Bag, res.FileSet, false); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}

	formats, err := exportFormats(cmd, m)
	if err != nil {
		return err
	}
	ro, err := exportRenderOptions(cmd, m)
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return fmt.Errorf("failed to get stdout flag: %w", err)
	}

	started := time.Now()
	model := export.Build(res.Graph, export.Options{
		Project: m.Config.Project.Name,
		Digest:  res.Digest.String(),
		Render:  ro,
	})

	if toStdout {
		if len(formats) != 1 {
			return fmt.Errorf("--stdout needs exactly one format, got %d", len(formats))
		}
		if err := formats[0].Write(cmd.OutOrStdout(), model); err != nil {
			return fmt.Errorf("%s: %w", formats[0].Name(), err)
		}
	} else {
		dir, err := exportDir(cmd, m)
		if err != nil {
			return err
		}
		paths, err := export.WriteFiles(dir, model, formats)
		if err != nil {
			return err
		}
		if !quiet(cmd) {
			for _, p := range paths {
				rel, relErr := filepath.Rel(m.Root, p)
				if relErr != nil {
					rel = p
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.ToSlash(rel))
			}
		}
	}

	elapsed := time.Since(started)
	res.Timings.Set(driver.StageExport, elapsed)
	res.Elapsed += elapsed
	printTimings(cmd, res, "export", false)

	if res.HasErrors() {
		return errSilent
	}
	return nil
}

func exportFormats(cmd *cobra.Command, m *project.Manifest) ([]export.Writer, error) {
	values, err := cmd.Flags().GetStringSlice("format")
	if err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	if len(values) == 0 {
		values = m.Config.Export.Formats
	}
	formats, err := export.ParseFormats(values)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no export formats selected")
	}
	return formats, nil
}

func exportRenderOptions(cmd *cobra.Command, m *project.Manifest) (signature.RenderOptions, error) {
	ro := signature.RenderOptions{ShowNames: m.Config.Export.ShowNames}
	if cmd.Flags().Changed("names") {
		names, err := cmd.Flags().GetBool("names")
		if err != nil {
			return ro, fmt.Errorf("failed to get names flag: %w", err)
		}
		ro.ShowNames = names
	}
	grouping := m.Config.Export.Grouping
	if cmd.Flags().Changed("grouping") {
		g, err := cmd.Flags().GetString("grouping")
		if err != nil {
			return ro, fmt.Errorf("failed to get grouping flag: %w", err)
		}
		grouping = g
	}
	g, err := signature.ParseGrouping(grouping)
	if err != nil {
		return ro, err
	}
	ro.Grouping = g
	return ro, nil
}

func exportDir(cmd *cobra.Command, m *project.Manifest) (string, error) {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return "", fmt.Errorf("failed to get out flag: %w", err)
	}
	if out == "" {
		return m.OutputDir(), nil
	}
	return filepath.Abs(out)
}
