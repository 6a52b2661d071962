// Package export hands slide state to the export collaborator as JSON.
//
// Bundles are written either to a directory, one file per slide, or to a
// single writer such as stdout.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

// Ensure JSONExporter implements the interface.
var _ driven.Exporter = (*JSONExporter)(nil)

// JSONExporter writes export bundles as indented JSON.
type JSONExporter struct {
	dir string
	w   io.Writer
}

// NewDirExporter writes each bundle to <dir>/<slide>.json.
func NewDirExporter(dir string) *JSONExporter {
	return &JSONExporter{dir: dir}
}

// NewWriterExporter writes bundles to w.
func NewWriterExporter(w io.Writer) *JSONExporter {
	return &JSONExporter{w: w}
}

// Export writes the bundle.
func (e *JSONExporter) Export(ctx context.Context, bundle domain.ExportBundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bundle.SlideID == "" {
		return fmt.Errorf("%w: export bundle without slide id", domain.ErrInvalidInput)
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	data = append(data, '\n')

	if e.w != nil {
		if _, err := e.w.Write(data); err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(e.dir, 0700); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	path := e.Path(bundle.SlideID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write bundle: %w", err)
	}
	return nil
}

// Path returns the file a slide's bundle is written to.
func (e *JSONExporter) Path(slideID string) string {
	return filepath.Join(e.dir, fileSafe(slideID)+".json")
}

// fileSafe maps a slide ID to a portable file name.
func fileSafe(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}
