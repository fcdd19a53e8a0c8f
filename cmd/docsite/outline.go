package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/htmltomarkdown"
	"github.com/fwojciec/docsite/trafilatura"
)

// Run executes the outline command.
func (c *OutlineCmd) Run(deps *Dependencies) error {
	html, pagePath, err := c.load(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	res, err := deps.Processor.Process(html, pagePath)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}
	if res.Excluded() {
		err := docsite.Errorf(docsite.EINVALID, "page %s is excluded from indexing", pagePath)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	// Pages without a marked content region fall back to extracted content.
	if !res.HasContent {
		extracted, err := deps.Extractor.Extract(html)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
			return err
		}
		page := trafilatura.ContentPage(extracted, deps.Config.Site.ContentSelector)
		if res, err = deps.Processor.Process(page, pagePath); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
			return err
		}
	}

	out, err := htmltomarkdown.Outline(deps.Converter, res.TOC, res.Levels())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}
	fmt.Fprint(deps.Stdout, out)
	return nil
}

// load reads the target page from the network or the local filesystem.
func (c *OutlineCmd) load(deps *Dependencies) (html, pagePath string, err error) {
	if u, err := url.Parse(c.Target); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		html, err := deps.Fetcher.Fetch(deps.Ctx, c.Target)
		if err != nil {
			return "", "", err
		}
		p := u.Path
		if p == "" {
			p = "/"
		}
		return html, p, nil
	}

	data, err := os.ReadFile(c.Target)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", docsite.Errorf(docsite.ENOTFOUND, "file not found: %s", c.Target)
		}
		return "", "", err
	}
	return string(data), "/" + filepath.Base(c.Target), nil
}
