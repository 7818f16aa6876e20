package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/ecode"
	"github.com/ncobase/pagination/version"
	"github.com/spf13/cobra"
)

func newIndexCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Args:  cobra.NoArgs,
		Short: "Index management commands",
	}
	cmd.AddCommand(newIndexCreateCommand(s), newIndexExistsCommand(s))
	return cmd
}

func newIndexCreateCommand(s *state) *cobra.Command {
	var mappingFile string

	cmd := &cobra.Command{
		Use:   "create",
		Args:  cobra.NoArgs,
		Short: "Create the index unless it exists",
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			if s.index == "" {
				return fmt.Errorf("--index is required")
			}

			var schema *search.Schema
			if mappingFile != "" {
				body, err := os.ReadFile(mappingFile)
				if err != nil {
					return err
				}
				if !json.Valid(body) {
					return ecode.ParseError("mapping", nil)
				}
				schema = &search.Schema{Mapping: body}
			}

			if err := s.data.Search.CreateIndex(cmd.Context(), s.index, schema); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.data.Search.IndexName(s.index))
			return nil
		}),
	}

	cmd.Flags().StringVar(&mappingFile, "mapping", "", "index body JSON file (default from config)")
	return cmd
}

func newIndexExistsCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "exists",
		Args:  cobra.NoArgs,
		Short: "Report whether the index exists",
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			exists, err := s.data.Search.IndexExists(cmd.Context(), s.index)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), exists)
			return nil
		}),
	}
}

func newHealthCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Args:  cobra.NoArgs,
		Short: "Check every configured search engine",
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"engine":     s.data.Search.GetEngine(),
				"components": s.data.Health(cmd.Context()),
			})
		}),
	}
}

// newVersionCommand creates the version command
func newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetVersionInfo()
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return nil
			}
			out, err := info.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
