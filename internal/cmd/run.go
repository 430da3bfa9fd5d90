package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rask/internal/orchestrator"
)

var (
	runEntry              string
	runParallel           bool
	runPrefix             bool
	runMaxParallel        int
	runRequireUniqueNames bool
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Run a task across every matching configuration",
	Long: `Run resolves the entry configuration, discovers every configuration it
links to, and executes the named task in dependency order: configurations
deepest in the tree run first, the entry configuration runs last.

Examples:
  # Run the build task from the current directory
  rask run build

  # Run each dependency level concurrently
  rask run build --parallel

  # Run every task whose name starts with "build"
  rask run build --prefix

  # Run from another directory
  rask run test --entry ../monorepo`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runEntry, "entry", ".", "entry directory or configuration file")
	runCmd.Flags().BoolVarP(&runParallel, "parallel", "p", false, "run each dependency level concurrently")
	runCmd.Flags().BoolVar(&runPrefix, "prefix", false, "match every task name starting with <task>")
	runCmd.Flags().IntVar(&runMaxParallel, "max-parallel", 0, "max concurrent tasks per level (0 = default, negative = unbounded)")
	runCmd.Flags().BoolVar(&runRequireUniqueNames, "require-unique-names", false, "fail when two configurations share a name")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	taskName := args[0]

	_, err := orchestrator.RunTask(cmd.Context(), runEntry, taskName, orchestrator.RunOptions{
		Parallel:           runParallel,
		MaxParallel:        runMaxParallel,
		PrefixMatch:        runPrefix,
		RequireUniqueNames: runRequireUniqueNames,
		Stdout:             cmd.OutOrStdout(),
		Stderr:             cmd.ErrOrStderr(),
	})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), failureStyle.Render(fmt.Sprintf("✗ %s failed", taskName)))
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ %s completed", taskName)))
	return nil
}
