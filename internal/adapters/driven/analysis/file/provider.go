// Package file provides an analysis provider backed by JSON files on disk.
//
// Results are laid out as <dir>/<file-hash>/<slide-index>.json, the format
// the analysis service exports. A single result file can also be read with
// LoadResult.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.AnalysisProvider = (*Provider)(nil)

// Provider reads analysis results from a directory tree.
type Provider struct {
	dir string
}

// NewProvider creates a provider rooted at dir.
func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// Name identifies the provider in logs.
func (p *Provider) Name() string {
	return "file"
}

// Path returns the file a slide's analysis is read from.
func (p *Provider) Path(ref domain.SlideRef) string {
	return filepath.Join(p.dir, ref.FileHash, strconv.Itoa(ref.Index)+".json")
}

// Analyze reads the stored analysis for a slide.
func (p *Provider) Analyze(ctx context.Context, ref domain.SlideRef) (*domain.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ref.FileHash == "" || ref.Index < 0 {
		return nil, fmt.Errorf("%w: slide ref %q", domain.ErrInvalidInput, ref.Key())
	}
	result, err := LoadResult(p.Path(ref))
	if err != nil {
		return nil, err
	}
	result.Ref = ref
	return result, nil
}

// LoadResult decodes one analysis result file. Relative preview references
// are resolved against the file's directory.
func LoadResult(path string) (*domain.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("analysis %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading analysis %s: %w", path, err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding analysis %s: %v", domain.ErrInvalidInput, path, err)
	}
	if ref := result.PreviewImageRef; ref != "" && !filepath.IsAbs(ref) && !isURL(ref) {
		result.PreviewImageRef = filepath.Join(filepath.Dir(path), ref)
	}
	return &result, nil
}

func isURL(s string) bool {
	for _, prefix := range []string{"http://", "https://", "data:"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
