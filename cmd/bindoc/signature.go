package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bindoc/internal/signature"
)

var signatureCmd = &cobra.Command{
	Use:   "signature [flags] <overload>...",
	Short: "Compact a set of overloads given on the command line",
	Long: `Compact ad-hoc overloads and print the rendering. Every argument is one
overload written as "type name, type name"; pass "" for the empty overload`,
	Example: `  bindoc signature "number x, number y" "number x, number y, number z"
  bindoc signature --names=false "" "string s"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSignature,
}

func init() {
	signatureCmd.Flags().Bool("names", true, "include parameter names")
	signatureCmd.Flags().String("grouping", "inline", "grouping mode (inline|none|paren)")
	signatureCmd.Flags().Bool("stats", false, "print leaf and node counts")
	signatureCmd.Flags().Bool("expand", false, "print every pattern the rendering accepts")
}

func runSignature(cmd *cobra.Command, args []string) error {
	names, err := cmd.Flags().GetBool("names")
	if err != nil {
		return fmt.Errorf("failed to get names flag: %w", err)
	}
	groupingStr, err := cmd.Flags().GetString("grouping")
	if err != nil {
		return fmt.Errorf("failed to get grouping flag: %w", err)
	}
	grouping, err := signature.ParseGrouping(groupingStr)
	if err != nil {
		return err
	}
	stats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}
	expand, err := cmd.Flags().GetBool("expand")
	if err != nil {
		return fmt.Errorf("failed to get expand flag: %w", err)
	}

	overloads := make([][]signature.Param, 0, len(args))
	for i, arg := range args {
		params, err := signature.ParseParams(arg)
		if err != nil {
			return fmt.Errorf("overload %d: %w", i+1, err)
		}
		overloads = append(overloads, params)
	}

	node, err := signature.Compact(overloads)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, signature.Render(node, signature.RenderOptions{ShowNames: names, Grouping: grouping}))
	if stats {
		fmt.Fprintf(out, "leaves: %d, nodes: %d\n", signature.LeafCount(node), signature.NodeCount(node))
	}
	if expand {
		for _, pattern := range signature.Flatten(node) {
			parts := make([]string, len(pattern))
			for i, p := range pattern {
				parts[i] = p.String()
			}
			fmt.Fprintf(out, "  (%s)\n", strings.Join(parts, ", "))
		}
	}
	return nil
}
