package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dir string

	rootCmd := &cobra.Command{
		Use:     "pocket",
		Short:   "Personal ledger with card billing cycles",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dir, "dir", ".", "ledger directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountCommand(),
		newCardCommand(),
		newCategoryCommand(),
		newTxCommand(),
		newInvoiceCommand(),
		newImportCommand(),
		newReportCommand(),
		newLogCommand(),
	)

	return rootCmd
}
