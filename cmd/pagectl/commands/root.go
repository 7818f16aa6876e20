package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&state{})
}

func newRootCmd(s *state) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pagectl",
		Short:         "Page through documents stored in a search backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&s.configFile, "config", "c", "", "config file path")
	flags.StringVarP(&s.index, "index", "i", "", "index name without prefix")
	flags.StringVarP(&s.documentType, "type", "t", "", "document type to scope to")

	rootCmd.AddCommand(
		newSearchCommand(s),
		newAllCommand(s),
		newGetCommand(s),
		newSaveCommand(s),
		newDeleteCommand(s),
		newIndexCommand(s),
		newHealthCommand(s),
		newServeCommand(s),
		newVersionCommand(),
	)

	return rootCmd
}
