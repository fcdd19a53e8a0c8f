package docsite

// ExtractResult holds the main content located in an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML, with site chrome
	// (nav, footer, sidebar) removed.
	ContentHTML string
}

// Extractor locates the main content of pages that lack a marked content region.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
