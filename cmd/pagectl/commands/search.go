package commands

import (
	"encoding/json"

	"github.com/ncobase/pagination/paging"
	"github.com/ncobase/pagination/query"
	"github.com/ncobase/pagination/sorting"
	"github.com/spf13/cobra"
)

// queryFlags selects and orders documents
type queryFlags struct {
	filter  string
	fields  []string
	raw     string
	sort    string
	orderBy string
	desc    bool
}

func (f *queryFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.filter, "filter", "f", "", `filter document, e.g. {"status": ["open"]}`)
	flags.StringSliceVar(&f.fields, "field", nil, "filter keys to honor (default every key)")
	flags.StringVarP(&f.raw, "query", "q", "", "raw backend query JSON")
	flags.StringVar(&f.sort, "sort", "", `sort spec, e.g. [{"created": "desc"}]`)
	flags.StringVar(&f.orderBy, "order-by", "", "sort by a single field")
	flags.BoolVar(&f.desc, "desc", false, "sort --order-by descending")
	cmd.MarkFlagsMutuallyExclusive("filter", "query")
	cmd.MarkFlagsMutuallyExclusive("sort", "order-by")
}

func (f *queryFlags) query() (*query.Query, error) {
	if f.raw != "" {
		return query.From(f.raw)
	}
	if f.filter == "" {
		return nil, nil
	}

	return query.ParseFields([]byte(f.filter), f.fields...)
}

func (f *queryFlags) sortSpec() (sorting.Spec, error) {
	if f.sort != "" {
		return sorting.Parse([]byte(f.sort))
	}
	req := paging.Request{OrderingKey: f.orderBy, Descending: f.desc}
	return req.SortSpec(), nil
}

func newSearchCommand(s *state) *cobra.Command {
	var (
		qf       queryFlags
		page     int
		size     int
		walkNext bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Args:  cobra.NoArgs,
		Short: "Print one page of matching documents",
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			q, err := qf.query()
			if err != nil {
				return err
			}
			sort, err := qf.sortSpec()
			if err != nil {
				return err
			}

			p, err := c.Paged(ctx, page, size, q, sort, s.callOptions()...)
			if err != nil {
				return err
			}
			if !walkNext {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			for p, err := range p.AllPages(ctx) {
				if err != nil {
					return err
				}
				if err := writeJSON(cmd.OutOrStdout(), p); err != nil {
					return err
				}
			}
			return nil
		}),
	}

	qf.register(cmd)
	cmd.Flags().IntVarP(&page, "page", "p", paging.DefaultPageNumber, "page number, starting at 1")
	cmd.Flags().IntVarP(&size, "size", "s", 0, "page size (default from config)")
	cmd.Flags().BoolVar(&walkNext, "follow", false, "keep printing the following pages")
	return cmd
}

func newAllCommand(s *state) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "all",
		Args:  cobra.NoArgs,
		Short: "Stream every matching document as JSON lines",
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := s.client(ctx)
			if err != nil {
				return err
			}
			q, err := qf.query()
			if err != nil {
				return err
			}
			sort, err := qf.sortSpec()
			if err != nil {
				return err
			}

			resp, err := c.All(ctx, q, sort, s.callOptions()...)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for doc, err := range resp.Data {
				if err != nil {
					return err
				}
				if err := enc.Encode(doc); err != nil {
					return err
				}
			}
			return nil
		}),
	}

	qf.register(cmd)
	return cmd
}
