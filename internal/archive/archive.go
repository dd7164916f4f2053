// Package archive bundles report artifacts into the weekly zip.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// ErrEmptyArchive is returned when none of the requested files exist.
// The archive is still written so downstream delivery sees a consistent path.
var ErrEmptyArchive = errors.New("archive contains no files")

// Bundler writes zip archives of report files.
type Bundler struct {
	logger *zap.Logger
}

// NewBundler creates a Bundler.
func NewBundler() *Bundler {
	return &Bundler{logger: zap.NewNop()}
}

// WithLogger sets the logger.
func (b *Bundler) WithLogger(logger *zap.Logger) *Bundler {
	b.logger = logger
	return b
}

// RemoveStale deletes archives of previous runs in dir matching pattern, except keep.
// Every failed removal is reported; the remaining files are still attempted.
func (b *Bundler) RemoveStale(dir, pattern, keep string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, fmt.Errorf("glob %s: %w", pattern, err)
	}

	var result *multierror.Error
	removed := 0
	for _, path := range matches {
		if keep != "" && filepath.Clean(path) == filepath.Clean(keep) {
			continue
		}
		if err := os.Remove(path); err != nil {
			result = multierror.Append(result, fmt.Errorf("remove %s: %w", filepath.Base(path), err))
			continue
		}
		b.logger.Info("deleted previous archive", zap.String("file", filepath.Base(path)))
		removed++
	}
	return removed, result.ErrorOrNil()
}

// Bundle writes zipPath with every existing file stored under its base name.
// Missing files are logged and skipped. Returns the number of files added.
func (b *Bundler) Bundle(zipPath string, files ...string) (int, error) {
	out, err := os.Create(zipPath)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", zipPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	added := 0
	for _, path := range files {
		ok, err := addFile(zw, path)
		if err != nil {
			zw.Close()
			return added, err
		}
		if !ok {
			b.logger.Warn("file not found, skipped", zap.String("file", filepath.Base(path)))
			continue
		}
		b.logger.Debug("added to archive", zap.String("file", filepath.Base(path)))
		added++
	}

	if err := zw.Close(); err != nil {
		return added, fmt.Errorf("finalize %s: %w", zipPath, err)
	}
	if err := out.Close(); err != nil {
		return added, fmt.Errorf("close %s: %w", zipPath, err)
	}

	b.logger.Info("archive created", zap.String("file", filepath.Base(zipPath)), zap.Int("files", added))
	if added == 0 {
		return 0, ErrEmptyArchive
	}
	return added, nil
}

func addFile(zw *zip.Writer, path string) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return false, fmt.Errorf("zip header %s: %w", path, err)
	}
	hdr.Name = filepath.Base(path)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return false, fmt.Errorf("add %s: %w", hdr.Name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return false, fmt.Errorf("write %s: %w", hdr.Name, err)
	}
	return true, nil
}
