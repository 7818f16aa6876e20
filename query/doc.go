// Package query compiles loosely-typed filter documents into structured
// boolean queries.
//
// A Filter is an ordered list of clause providers. The common provider is
// Rules, which maps request-facing field names to backend field names and
// emits one clause per field present in the input:
//
//	scalar       {"status": "open"}      -> term   status = "open"
//	array        {"status": ["a", "b"]}  -> terms  status in {"a", "b"}
//	empty array  {"status": []}          -> bool.must_not(exists status)
//	absent                               -> no clause
//
// Filters compose by appending providers, so a more specific filter is the
// base filter plus its own derived clauses:
//
//	var tickets = query.NewFilter(query.Rules(query.NewField("status"), query.MapField("owner", "owner.id")))
//	var recentTickets = tickets.With(query.DateRange("created_at", "since", "until"))
//
//	q, err := recentTickets.Parse(body)
//
// The compiled Query is a conjunction (bool.must) of the clauses in provider
// order. Caller-built queries can be passed through untouched with Raw or From.
package query
