// Package caselookup is a Go client for hybrid legal case search: an
// in-memory local collection merged with the Kenya Law search API, plus
// per-case detail and summary retrieval.
//
// # One-shot queries
//
//	client, _ := caselookup.New(ctx, caselookup.WithBaseURL("https://api.example.org"))
//	defer client.Close()
//	page, _ := client.Search(ctx, caselookup.Filters{Scope: caselookup.ScopeOnline, Term: "land"}, 1)
//	detail, _ := client.Detail(ctx, page.Cases[0].ID)
//	summary := client.Summary(ctx, detail.ID)
//
// # Interactive sessions
//
// A Session keeps the draft and committed filters of a search dialog,
// debounces free-text edits and discards responses for superseded queries.
//
//	sess := client.NewSession()
//	sess.Subscribe(func(s caselookup.Snapshot) { render(s) })
//	_ = sess.Start(ctx)
//	_ = sess.UpdateFilters(caselookup.Patch{}.WithTerm("land"))
//	defer sess.Close()
package caselookup
