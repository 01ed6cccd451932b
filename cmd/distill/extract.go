package main

import (
	"encoding/json"
	"os"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/goquery"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	schema, err := os.ReadFile(c.Schema)
	if err != nil {
		return report(deps, distill.Errorf(distill.EINVALID, "read schema: %v", err))
	}
	x, err := crawl.NewExtractor(schema, crawl.Backend(c.Backend), deps.Logger)
	if err != nil {
		return report(deps, err)
	}

	html, _, err := readInput(deps, c.Input)
	if err != nil {
		return report(deps, err)
	}

	records := x.Extract(html)
	if records == nil {
		records = []distill.Record{}
	}
	return writeJSON(deps, records)
}

// Run executes the entities command.
func (c *EntitiesCmd) Run(deps *Dependencies) error {
	x, err := distill.NewRegexExtractor(c.Labels...)
	if err != nil {
		return report(deps, err)
	}

	src, baseURL, err := readInput(deps, c.Input)
	if err != nil {
		return report(deps, err)
	}
	text := src
	if !c.Text {
		text = goquery.VisibleText(src)
	}

	entities := x.Extract(baseURL, text)
	if entities == nil {
		entities = []distill.Entity{}
	}
	return writeJSON(deps, entities)
}

func writeJSON(deps *Dependencies, v any) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return report(deps, distill.Errorf(distill.EINTERNAL, "encode output: %v", err))
	}
	return nil
}
