// Package distill reduces raw HTML documents to the content that matters.
// It provides density-based pruning, query-relevance ranking, LLM-assisted
// distillation and schema-driven structured extraction over parsed HTML.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, xmlquery/, openai/).
package distill
