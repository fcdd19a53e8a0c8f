// Package fs builds documentation sites on the local filesystem.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docsite"
)

// DefaultLayout wraps rendered Markdown pages. Its regions use the default
// content and sidebar selectors.
const DefaultLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<ul class="sidebar-nav"></ul>
<div class="content">
{{.Content}}
</div>
</body>
</html>
`

// LayoutData is passed to the layout template for each Markdown page.
type LayoutData struct {
	Title   string
	Path    string
	Content template.HTML
}

// BuildStats summarises a site build.
type BuildStats struct {
	Pages     int
	Rendered  int
	Excluded  int
	Copied    int
	Unchanged int
	Bytes     int64
}

// Site builds a source tree into a publishable output directory.
type Site struct {
	Renderer  docsite.Renderer
	Processor docsite.PageProcessor
	Layout    *template.Template
}

// NewSite creates a Site using DefaultLayout.
func NewSite(renderer docsite.Renderer, processor docsite.PageProcessor) *Site {
	return &Site{
		Renderer:  renderer,
		Processor: processor,
		Layout:    template.Must(template.New("layout").Parse(DefaultLayout)),
	}
}

// LoadLayout parses a layout template file.
func LoadLayout(filename string) (*template.Template, error) {
	t, err := template.ParseFiles(filename)
	if err != nil {
		return nil, docsite.Errorf(docsite.EINVALID, "invalid layout %s: %v", filename, err)
	}
	return t, nil
}

// Build renders every page under src into dst. Markdown pages are rendered
// into the layout, every HTML page gets its table of contents, and other
// files are copied. Output goes to dst.tmp first and replaces dst only when
// the whole build succeeds. Files identical to the previous build are
// hard-linked so they keep their modification time.
func (s *Site) Build(ctx context.Context, src, dst string) (*BuildStats, error) {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return nil, docsite.Errorf(docsite.EINVALID, "source %s is not a directory", src)
	}
	if within(dst, src) {
		return nil, docsite.Errorf(docsite.EINVALID, "destination %s must not be inside source %s", dst, src)
	}

	tmp := dst + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return nil, err
	}

	stats := &BuildStats{}
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != src && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		return s.buildFile(p, rel, dst, tmp, stats)
	})
	if err != nil {
		_ = os.RemoveAll(tmp)
		return nil, err
	}

	if err := os.RemoveAll(dst); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Site) buildFile(srcPath, rel, dst, tmp string, stats *BuildStats) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	outRel := rel
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".md", ".markdown":
		outRel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
		data, err = s.renderMarkdown(data, PagePath(outRel))
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		stats.Rendered++
		fallthrough
	case ".html", ".htm":
		res, err := s.Processor.Process(string(data), PagePath(outRel))
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		if res.Excluded() {
			stats.Excluded++
		}
		data = []byte(res.HTML)
		stats.Pages++
	default:
		stats.Copied++
	}

	target := filepath.Join(tmp, outRel)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	previous := filepath.Join(dst, outRel)
	if same, _ := sameContent(previous, data); same {
		if err := os.Link(previous, target); err == nil {
			stats.Unchanged++
			return nil
		}
	}

	stats.Bytes += int64(len(data))
	return os.WriteFile(target, data, 0644)
}

func (s *Site) renderMarkdown(src []byte, pagePath string) ([]byte, error) {
	body, title, err := s.Renderer.Render(src)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = s.Layout.Execute(&buf, LayoutData{
		Title:   title,
		Path:    pagePath,
		Content: template.HTML(body),
	})
	if err != nil {
		return nil, docsite.Errorf(docsite.EINTERNAL, "executing layout: %v", err)
	}
	return buf.Bytes(), nil
}

// PagePath returns the site path of a file relative to the site root,
// e.g. platform/index.html -> /platform/index.html.
func PagePath(rel string) string {
	return path.Join("/", filepath.ToSlash(rel))
}

// sameContent reports whether the file at name holds exactly data.
func sameContent(name string, data []byte) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() != int64(len(data)) {
		return false, err
	}

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, err
	}
	return h.Sum64() == xxhash.Sum64(data), nil
}

func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
