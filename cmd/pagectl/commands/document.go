package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/ecode"
	"github.com/ncobase/pagination/paging"
	"github.com/spf13/cobra"
)

func refreshFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "refresh", string(search.RefreshFalse), "refresh policy: false, true or wait_for")
}

func parseRefresh(v string) (search.Refresh, error) {
	switch r := search.Refresh(v); r {
	case search.RefreshFalse, search.RefreshTrue, search.RefreshWaitFor:
		return r, nil
	default:
		return "", fmt.Errorf("%w: refresh %q", ecode.ErrInvalidArgument, v)
	}
}

func newGetCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Args:  cobra.ExactArgs(1),
		Short: "Print one document",
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			c, err := s.client(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		}),
	}
}

func newSaveCommand(s *state) *cobra.Command {
	var (
		id      string
		refresh string
	)

	cmd := &cobra.Command{
		Use:   "save [file]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Index a JSON document read from file or stdin",
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			r, err := parseRefresh(refresh)
			if err != nil {
				return err
			}
			doc, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			c, err := s.client(cmd.Context())
			if err != nil {
				return err
			}

			opts := []paging.CallOption{paging.WithRefresh(r)}
			if id == "" {
				if v, ok := doc["id"].(string); ok {
					id = v
				}
			}
			if id == "" {
				id = uuid.NewString()
			}
			doc["id"] = id
			opts = append(opts, paging.WithID(id))

			saved, err := c.Save(cmd.Context(), doc, s.callOptions(opts...)...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), saved)
		}),
	}

	cmd.Flags().StringVar(&id, "id", "", "document id (default the id key, else a new uuid)")
	refreshFlag(cmd, &refresh)
	return cmd
}

func readDocument(cmd *cobra.Command, args []string) (document, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, ecode.ParseError("document", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document must be a JSON object", ecode.ErrInvalidArgument)
	}
	return doc, nil
}

func newDeleteCommand(s *state) *cobra.Command {
	var refresh string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Args:  cobra.ExactArgs(1),
		Short: "Delete one document and print it",
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			r, err := parseRefresh(refresh)
			if err != nil {
				return err
			}
			c, err := s.client(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := c.Delete(cmd.Context(), args[0], paging.WithRefresh(r))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		}),
	}

	refreshFlag(cmd, &refresh)
	return cmd
}
