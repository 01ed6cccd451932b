package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/distill"
)

// Run executes the results command.
func (c *ResultsCmd) Run(deps *Dependencies) error {
	if c.URL != "" {
		stored, err := deps.Results.FindResult(deps.Ctx, c.URL)
		if err != nil {
			return report(deps, err)
		}
		return writeJSON(deps, stored.Result)
	}

	filter := distill.ResultFilter{Limit: c.Limit}
	if c.Host != "" {
		filter.Host = &c.Host
	}
	if c.Failed {
		success := false
		filter.Success = &success
	}

	results, err := deps.Results.FindResults(deps.Ctx, filter)
	if err != nil {
		return report(deps, err)
	}
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results stored.")
		return nil
	}

	for _, r := range results {
		status := "ok    "
		detail := r.Result.Title
		if !r.Result.Success {
			status = "failed"
			detail = r.Result.ErrorMessage
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", r.CrawledAt.Local().Format(time.DateTime), status, r.Result.URL, detail)
	}
	return nil
}
