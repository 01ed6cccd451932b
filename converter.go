package distill

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input is usually a filter's output fragment or cleaned HTML.
	Convert(html string) (string, error)
}
