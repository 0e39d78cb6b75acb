package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bindoc/internal/directive"
	"bindoc/internal/driver"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks [flags] [root]",
	Short: "List the annotation blocks found in the project sources",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBlocks,
}

func init() {
	blocksCmd.Flags().String("kind", "", "comma-separated block kinds to list (class|method|attribute|...)")
}

func runBlocks(cmd *cobra.Command, args []string) error {
	kindStr, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
	}
	var kinds []string
	for _, k := range strings.Split(kindStr, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			kinds = append(kinds, k)
		}
	}

	m, err := loadManifest(args)
	if err != nil {
		return err
	}
	opts := driver.OptionsFromManifest(m)
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	opts.Jobs = jobs

	res, err := driver.Run(cmd.Context(), m, opts)
	if err != nil {
		return err
	}
	directive.NewLister(res.Registry, directive.ListerConfig{
		Filter: kinds,
		Output: cmd.OutOrStdout(),
	}).Run()
	return nil
}
