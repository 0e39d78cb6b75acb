package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bindoc/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter bindoc.toml",
	Long: `Create a project manifest (bindoc.toml) in [path]. If [path] is omitted the
current directory is used; a missing directory is created`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing bindoc.toml")
	initCmd.Flags().String("name", "", "project name (default: directory name)")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = filepath.Base(target)
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "bindoc-project"
	}

	path, err := project.WriteTemplate(target, name, force)
	if err != nil {
		return err
	}
	if !quiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}
