package docsite

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown.
	Convert(html string) (string, error)
}

// Renderer renders Markdown page sources to HTML.
type Renderer interface {
	// Render converts Markdown into an HTML fragment and returns the
	// text of the first level 1 heading as the page title, if any.
	Render(markdown []byte) (html string, title string, err error)
}
