package distill

// CleanResult holds the main content of an HTML page.
type CleanResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Cleaner strips boilerplate from a page, keeping its main content.
type Cleaner interface {
	// Clean processes raw HTML and returns the main content.
	// The content HTML has boilerplate removed but preserves structure.
	Clean(html string) (*CleanResult, error)
}
