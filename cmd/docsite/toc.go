package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/fs"
)

// Run executes the toc command.
func (c *TocCmd) Run(deps *Dependencies) error {
	for _, name := range c.Files {
		pagePath, err := c.pagePath(name)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
			return err
		}

		var res *docsite.ProcessResult
		changed := false
		if c.Stdout {
			data, err := os.ReadFile(name)
			if err != nil {
				return err
			}
			res, err = deps.Processor.Process(string(data), pagePath)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s: %s\n", name, docsite.ErrorMessage(err))
				return err
			}
			fmt.Fprint(deps.Stdout, res.HTML)
		} else {
			res, changed, err = fs.IndexFile(deps.Processor, name, pagePath)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s: %s\n", name, docsite.ErrorMessage(err))
				return err
			}
			switch {
			case res.Excluded():
				fmt.Fprintf(deps.Stdout, "%s: excluded\n", name)
			case changed:
				fmt.Fprintf(deps.Stdout, "%s: %d entries\n", name, len(res.TOC.Entries))
			default:
				fmt.Fprintf(deps.Stdout, "%s: unchanged\n", name)
			}
		}

		for _, d := range res.TOC.Duplicates() {
			fmt.Fprintf(deps.Stderr, "warning: %s: duplicate anchor #%s\n", name, d)
		}
	}
	return nil
}

// pagePath derives the site path of a file for exclusion checks.
func (c *TocCmd) pagePath(name string) (string, error) {
	if c.Root == "" {
		return "/" + filepath.Base(name), nil
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", docsite.Errorf(docsite.EINVALID, "%s is outside the site root %s", name, c.Root)
	}
	return fs.PagePath(rel), nil
}
