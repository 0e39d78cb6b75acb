package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bindoc/internal/version"
)

// errSilent ends a command with exit status 1 once diagnostics were printed.
var errSilent = errors.New("")

var (
	traceCleanup   = func() {}
	profileCleanup = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "bindoc",
	Short: "API documentation extractor for annotated C++ bindings",
	Long: `bindoc scans C++ binding sources for doc-comment annotations and
builds a typed API model with compacted method signatures`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyColorFlag(cmd)
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		profiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profileCleanup = profiling
		return nil
	},
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(signatureCmd)
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers for extraction (0=auto)")
	rootCmd.PersistentFlags().String("ui", "auto", "progress view (auto|on|off)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

// main runs the root command. Any returned error ends the process with status 1.
func main() {
	err := rootCmd.Execute()
	profileCleanup()
	traceCleanup()
	if err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command) bool {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch flag {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

func applyColorFlag(cmd *cobra.Command) {
	version.SetColor(useColor(cmd))
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}
