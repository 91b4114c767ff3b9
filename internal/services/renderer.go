package services

import (
	"os"
	"path/filepath"
)

// FileRenderer is a DocumentRenderer that writes reports to a directory and
// returns the file path as the document URI. It is the server-side stand-in
// for a print-to-PDF collaborator; it has no share destination.
type FileRenderer struct {
	Dir   string
	idGen func() string
}

func NewFileRenderer(dir string) *FileRenderer {
	return &FileRenderer{Dir: dir, idGen: func() string { return shortID(8) }}
}

func (r *FileRenderer) Render(html string) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(r.Dir, "report-"+r.idGen()+".html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (r *FileRenderer) Share(string, string) error {
	return ErrNoShareTarget
}
