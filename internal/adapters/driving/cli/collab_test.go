package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

func TestCollabCmd_HasListen(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"collab", "listen"})

	require.NoError(t, err)
	assert.Equal(t, collabListenCmd, cmd)
}

func TestCollabListen_WithoutChannelReturns(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "collab", "listen", "deck#0")

	require.NoError(t, err)
	assert.Contains(t, out, "Listening for changes to deck#0")
}

func TestCollabListen_UnknownSlide(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "collab", "listen", "deck#3")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummarizeFrame(t *testing.T) {
	frame := &domain.Frame{
		SlideID: "deck#0",
		Regions: []domain.RegionElement{
			{RegionID: "title", Fit: domain.FitResult{Classification: domain.FitOK}},
			{RegionID: "bullets", Fit: domain.FitResult{Classification: domain.FitError}},
			{RegionID: "notes", Fit: domain.FitResult{Classification: domain.FitWarning}},
			{RegionID: "chart", Fit: domain.FitResult{Unbounded: true, Classification: domain.FitOK}},
		},
		Assets: []domain.AssetElement{{AssetID: "a"}, {AssetID: "b"}},
	}

	assert.Equal(t, "Updated deck#0: 1 OK, 1 WARNING, 1 ERROR, 2 assets", summarizeFrame(frame))
}

func TestSummarizeFrame_Empty(t *testing.T) {
	assert.Equal(t, "Updated deck#1: 0 OK, 0 WARNING, 0 ERROR, 0 assets",
		summarizeFrame(&domain.Frame{SlideID: "deck#1"}))
}
