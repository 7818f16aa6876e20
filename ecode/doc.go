// Package ecode defines the error taxonomy shared by the paging, query and
// search packages.
//
// Every failure that crosses the backend boundary is returned as an error
// value wrapping one of the sentinels below, so callers classify with
// errors.Is:
//
//	page, err := client.Paged(ctx, 2, 20, q, sort)
//	switch {
//	case errors.Is(err, ecode.ErrNotFound):
//	    // missing document
//	case errors.Is(err, ecode.ErrBackend):
//	    var be *ecode.BackendError
//	    errors.As(err, &be)
//	    log.Println(be.Message, be.Debug)
//	}
//
// The message helpers (NotExist, FieldIsInvalid, ...) build the short
// human-readable fragments used in those errors.
package ecode
