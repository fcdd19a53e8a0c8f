package mock

import "github.com/fwojciec/docsite"

// Compile-time interface verification.
var (
	_ docsite.Converter = (*Converter)(nil)
	_ docsite.Renderer  = (*Renderer)(nil)
	_ docsite.Extractor = (*Extractor)(nil)
)

// Converter is a mock implementation of docsite.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// Renderer is a mock implementation of docsite.Renderer.
type Renderer struct {
	RenderFn func(markdown []byte) (string, string, error)
}

func (r *Renderer) Render(markdown []byte) (string, string, error) {
	return r.RenderFn(markdown)
}

// Extractor is a mock implementation of docsite.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docsite.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docsite.ExtractResult, error) {
	return e.ExtractFn(html)
}
