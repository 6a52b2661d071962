package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

const sampleJSON = `{
  "slide_id": "deck#0",
  "slide_width": 12192000,
  "slide_height": 6858000,
  "preview_image_ref": "preview.png",
  "regions": [
    {"id": "title", "kind": "TITLE", "budget_chars": 40,
     "position": {"x": 50, "y": 40, "width": 900, "height": 120, "space": "normalized1000"}},
    {"id": "body", "kind": "BULLETS", "budget_chars": 120,
     "position": {"x": 50, "y": 200, "width": 500, "height": 600, "space": "normalized1000"}}
  ]
}`

func writeResult(t *testing.T, dir, hash string, index int, body string) string {
	t.Helper()
	p := NewProvider(dir)
	path := p.Path(domain.SlideRef{FileHash: hash, Index: index})
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestProvider_Analyze(t *testing.T) {
	dir := t.TempDir()
	path := writeResult(t, dir, "abc", 0, sampleJSON)
	p := NewProvider(dir)
	ref := domain.SlideRef{FileHash: "abc", Index: 0}

	result, err := p.Analyze(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, "file", p.Name())
	assert.Equal(t, ref, result.Ref)
	assert.Equal(t, "deck#0", result.SlideID)
	require.Len(t, result.Regions, 2)
	assert.Equal(t, domain.RegionBullets, result.Regions[1].Kind)
	assert.Equal(t, domain.SpaceNormalized1000, result.Regions[0].Position.Space)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "preview.png"), result.PreviewImageRef)
}

func TestProvider_Analyze_Errors(t *testing.T) {
	dir := t.TempDir()
	writeResult(t, dir, "bad", 1, "{not json")
	p := NewProvider(dir)
	ctx := context.Background()

	_, err := p.Analyze(ctx, domain.SlideRef{FileHash: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = p.Analyze(ctx, domain.SlideRef{FileHash: "bad", Index: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = p.Analyze(ctx, domain.SlideRef{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.Analyze(cancelled, domain.SlideRef{FileHash: "abc"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadResult_KeepsAbsoluteAndRemoteRefs(t *testing.T) {
	dir := t.TempDir()
	for _, ref := range []string{"https://cdn.example.com/p.png", "/srv/previews/p.png"} {
		path := filepath.Join(dir, "r.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"preview_image_ref": "`+ref+`"}`), 0600))

		result, err := LoadResult(path)
		require.NoError(t, err)
		assert.Equal(t, ref, result.PreviewImageRef)
	}
}
