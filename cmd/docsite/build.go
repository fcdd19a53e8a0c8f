package main

import (
	"fmt"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/fs"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	site := deps.Site
	if c.Layout != "" {
		layout, err := fs.LoadLayout(c.Layout)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
			return err
		}
		custom := *site
		custom.Layout = layout
		site = &custom
	}

	stats, err := site.Build(deps.Ctx, c.Src, c.Dst)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Built %s: %d pages (%d from Markdown, %d excluded), %d files copied, %d unchanged, %s written\n",
		c.Dst, stats.Pages, stats.Rendered, stats.Excluded, stats.Copied, stats.Unchanged, formatBytes(stats.Bytes))
	return nil
}

// formatBytes formats bytes in human-readable form.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
