package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/lipgloss"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	if deps.Config.Search.EngineKey == "" {
		err := docsite.Errorf(docsite.EINVALID, "search engine key required")
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		fmt.Fprintln(deps.Stderr, "Hint: set DOCSITE_SEARCH_KEY or search.engine_key in the config file")
		return err
	}

	perPage := c.PerPage
	if perPage <= 0 {
		perPage = deps.Config.Search.PerPage
	}

	tracker := docsite.NewActivityTracker(deps.Searcher,
		func() { fmt.Fprint(deps.Stderr, "Searching...") },
		func() { fmt.Fprint(deps.Stderr, "\r\033[K") },
	)

	resp, err := tracker.Search(deps.Ctx, docsite.SearchQuery{
		Query:   strings.Join(c.Query, " "),
		Page:    c.Page,
		PerPage: perPage,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Query   string                    `json:"query"`
			Total   int                       `json:"total"`
			Results []docsite.FormattedResult `json:"results"`
		}{resp.Query, resp.Total, docsite.FormatResults(resp)})
	}

	lipgloss.NewPrinter(deps.Stdout).SearchResults(resp)
	return nil
}
