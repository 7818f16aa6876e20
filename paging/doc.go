// Package paging provides page number based pagination over a document
// search backend.
//
// A Client runs one search per page and returns a Page holding the page
// items, the total match count and the query and sort that produced it, so
// the caller can move to the previous or next page without rebuilding the
// filter:
//
//	client, err := paging.NewClient[Article](ctx, searchClient, "articles")
//	if err != nil {
//	    return err
//	}
//
//	q, err := filter.Parse(body)
//	if err != nil {
//	    return err
//	}
//
//	page, err := client.Paged(ctx, 2, 20, q, sorting.By("created_at", true))
//	if err != nil {
//	    return err
//	}
//	next, err := page.Next(ctx) // nil, nil on the last page
//
// # Normalization
//
// Page numbers start at 1; smaller values select page 1. A page size of 0 or
// less selects the default of 50 and sizes above 10000 are clamped. A page
// whose first item index exceeds the match count is answered with page 1 at
// the default size.
//
// # Traversal
//
// AllPages and AllData walk the remaining pages lazily, issuing one search
// per page as the consumer pulls:
//
//	for item, err := range page.AllData(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    process(item)
//	}
//
// A sequence is consumed by one reader at a time. Ranging over it again
// issues every search again.
package paging
