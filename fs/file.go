package fs

import (
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docsite"
)

// IndexFile inserts the table of contents into the HTML file at name.
// pagePath is the site path used for exclusion checks. The file is
// replaced atomically and left untouched when the output is identical.
// It returns the processing result and whether the file changed.
func IndexFile(p docsite.PageProcessor, name, pagePath string) (*docsite.ProcessResult, bool, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, false, err
	}

	res, err := p.Process(string(data), pagePath)
	if err != nil {
		return nil, false, err
	}
	if xxhash.Sum64String(res.HTML) == xxhash.Sum64(data) {
		return res, false, nil
	}

	info, err := os.Stat(name)
	if err != nil {
		return nil, false, err
	}
	if err := writeAtomic(name, []byte(res.HTML), info.Mode().Perm()); err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// writeAtomic writes data to a temporary file beside name and renames it
// over name.
func writeAtomic(name string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, name)
}
