package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Config    *docsite.Config
	Logger    *slog.Logger
	Processor docsite.PageProcessor
	Site      *fs.Site
	Searcher  docsite.Searcher
	Fetcher   docsite.Fetcher
	Extractor docsite.Extractor
	Converter docsite.Converter
	Auditor   docsite.Auditor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" type:"path" env:"DOCSITE_CONFIG" help:"Path to a YAML configuration file"`
	Verbose bool   `short:"v" help:"Log service calls to stderr"`

	Toc     TocCmd     `cmd:"" help:"Insert the table of contents into HTML files"`
	Build   BuildCmd   `cmd:"" help:"Build a site directory with tables of contents"`
	Serve   ServeCmd   `cmd:"" help:"Preview a site directory over HTTP"`
	Search  SearchCmd  `cmd:"" help:"Query the hosted search engine"`
	Outline OutlineCmd `cmd:"" help:"Print the table of contents of a page as Markdown"`
	Audit   AuditCmd   `cmd:"" help:"Check the tables of contents of a published site"`
}

// TocCmd is the "toc" subcommand.
type TocCmd struct {
	Files  []string `arg:"" type:"existingfile" help:"HTML files to index in place"`
	Root   string   `type:"existingdir" help:"Site root used to derive page paths (default: each file's directory)"`
	Stdout bool     `help:"Write the result to stdout instead of rewriting the file"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Src    string `arg:"" type:"existingdir" help:"Source directory"`
	Dst    string `arg:"" type:"path" help:"Output directory (replaced atomically)"`
	Layout string `type:"existingfile" help:"HTML template wrapping rendered Markdown pages"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Dir  string `arg:"" type:"existingdir" help:"Site directory"`
	Addr string `short:"a" help:"Listen address (default from config)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query   []string `arg:"" help:"Search terms"`
	Page    int      `default:"1" help:"Result page"`
	PerPage int      `short:"n" help:"Results per page (default from config)"`
	JSON    bool     `help:"Print results as JSON"`
}

// OutlineCmd is the "outline" subcommand.
type OutlineCmd struct {
	Target string `arg:"" help:"Page URL or local HTML file"`
}

// AuditCmd is the "audit" subcommand.
type AuditCmd struct {
	URL         string        `arg:"" help:"Published site URL"`
	Filter      []string      `short:"F" name:"filter" help:"Only audit URLs matching regex (repeatable)"`
	Skip        []string      `name:"skip" help:"Skip URLs matching regex (repeatable)"`
	Concurrency int           `short:"c" help:"Concurrent fetch limit (default from config)"`
	Rate        float64       `help:"Requests per second per host (default from config)"`
	Timeout     time.Duration `short:"t" help:"Fetch timeout per page (default from config)"`
	RenderJS    bool          `name:"render-js" help:"Render pages in headless Chrome"`
	JSON        bool          `help:"Print the report as JSON"`
	Strict      bool          `help:"Exit with an error when any page has issues"`
}
