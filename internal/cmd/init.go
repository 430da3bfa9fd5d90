package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rask/internal/orchestrator"
)

var (
	initEntry       string
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a new rask.yaml in the entry directory",
	Long: `Init writes a fresh configuration file. The configuration name defaults
to the directory name; pass a name argument or use --interactive to choose
one. An existing configuration is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initEntry, "entry", ".", "directory to initialise")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "prompt for the configuration name")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}

	if initInteractive && name == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Configuration name").
				Description("Leave empty to use the directory name").
				Value(&name),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	written, err := orchestrator.InitConfig(initEntry, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rask initialised: %s\n", written)
	return nil
}
