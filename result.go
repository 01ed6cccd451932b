package distill

import (
	"context"
	"time"
)

// CrawlResult is the outcome of processing one page.
type CrawlResult struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	HTML    string `json:"html"`
	Success bool   `json:"success"`

	CleanedHTML string `json:"cleaned_html,omitempty"`
	Title       string `json:"title,omitempty"`

	Media Media `json:"media"`
	Links Links `json:"links"`

	Markdown *MarkdownResult `json:"markdown,omitempty"`

	// ExtractedContent is the JSON-encoded output of the configured extractor.
	ExtractedContent string `json:"extracted_content,omitempty"`

	// ContentHash identifies the raw HTML; equal hashes mean unchanged pages.
	ContentHash string `json:"content_hash,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"`
}

// MarkdownResult holds the markdown renditions of a page.
type MarkdownResult struct {
	RawMarkdown           string `json:"raw_markdown"`
	MarkdownWithCitations string `json:"markdown_with_citations"`
	ReferencesMarkdown    string `json:"references_markdown"`

	// FitMarkdown and FitHTML are set when a content filter ran.
	FitMarkdown string `json:"fit_markdown,omitempty"`
	FitHTML     string `json:"fit_html,omitempty"`
}

// Media groups the media found on a page.
type Media struct {
	Images []MediaItem `json:"images"`
}

// MediaItem is one image, video or audio reference.
type MediaItem struct {
	Src   string `json:"src"`
	Alt   string `json:"alt,omitempty"`
	Desc  string `json:"desc,omitempty"`
	Score int    `json:"score,omitempty"`
	Type  string `json:"type"`
}

// Links splits a page's links by whether they stay on the page's host.
type Links struct {
	Internal []Link `json:"internal"`
	External []Link `json:"external"`
}

// Link is one resolved anchor.
type Link struct {
	Href  string `json:"href"`
	Text  string `json:"text,omitempty"`
	Title string `json:"title,omitempty"`
}

// ResultWriter persists crawl results.
type ResultWriter interface {
	WriteResult(ctx context.Context, result *CrawlResult) error
}

// StoredResult is a persisted crawl result.
type StoredResult struct {
	Result    *CrawlResult
	CrawledAt time.Time
}

// ResultFilter selects stored results. Nil fields match everything.
type ResultFilter struct {
	Host    *string
	Success *bool

	Limit  int
	Offset int
}

// ResultStore keeps the latest crawl result of every URL.
type ResultStore interface {
	ResultWriter

	// FindResult returns the stored result for url.
	// Returns ENOTFOUND if the URL was never stored.
	FindResult(ctx context.Context, url string) (*StoredResult, error)

	// FindResults returns results matching filter, newest first.
	FindResults(ctx context.Context, filter ResultFilter) ([]*StoredResult, error)

	// DeleteResult removes the result for url.
	// Returns ENOTFOUND if the URL was never stored.
	DeleteResult(ctx context.Context, url string) error
}
