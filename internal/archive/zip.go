// Package archive locates and extracts the machine-readable instance
// document from an EDINET filing archive. Each archive bundles one
// PublicDoc XBRL instance plus ancillary documents (audit reports, HTML
// renderings) the pipeline ignores.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractInstanceDoc extracts the PublicDoc .xbrl entry from the filing
// archive into destDir and returns its path.
func ExtractInstanceDoc(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "archive: open filing archive")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.Contains(f.Name, "PublicDoc") && strings.HasSuffix(f.Name, ".xbrl") {
			return extractEntry(f, destDir)
		}
	}

	return "", eris.Errorf("archive: no PublicDoc instance document in %s", filepath.Base(zipPath))
}

// extractEntry writes a single archive entry under destDir, guarding
// against zip-slip paths.
func extractEntry(f *zip.File, destDir string) (string, error) {
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("archive: illegal path %q (zip slip attempt)", f.Name)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", eris.Wrap(err, "archive: create parent directory")
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "archive: open entry")
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "archive: create file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "archive: write file")
	}

	return destPath, nil
}
