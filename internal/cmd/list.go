package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rask/internal/orchestrator"
)

var listEntry string

var (
	listTitleStyle = lipgloss.NewStyle().Bold(true)
	listDirStyle   = lipgloss.NewStyle().Faint(true)
	listKindStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every task reachable from the entry configuration",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listEntry, "entry", ".", "entry directory or configuration file")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	nodes, err := orchestrator.ListTasks(listEntry)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, node := range nodes {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s %s\n",
			listTitleStyle.Render(node.Name),
			listDirStyle.Render(node.Dir))

		if len(node.Tasks) == 0 {
			fmt.Fprintln(out, "  (no tasks)")
			continue
		}
		for _, task := range node.Tasks {
			fmt.Fprintf(out, "  %-20s %s %s\n",
				task.Key,
				listKindStyle.Render(string(task.Kind)),
				task.Invocation)
		}
	}

	return nil
}
