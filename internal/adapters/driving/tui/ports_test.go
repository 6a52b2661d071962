package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/slidefit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/services"
)

// stubAnalysis implements driving.AnalysisService for testing.
type stubAnalysis struct {
	LoadFunc func(ctx context.Context, ref domain.SlideRef) (*domain.AnalysisResult, error)
}

func (s *stubAnalysis) Load(ctx context.Context, ref domain.SlideRef) (*domain.AnalysisResult, error) {
	if s.LoadFunc != nil {
		return s.LoadFunc(ctx, ref)
	}
	return nil, domain.ErrNotFound
}

func (s *stubAnalysis) Invalidate(_ context.Context, _ domain.SlideRef) error {
	return nil
}

func newTestEditor(t *testing.T) *services.EditorSession {
	t.Helper()
	session, err := services.NewEditorSession(services.EditorPorts{
		Validator: services.NewFitValidator(0),
		Scaler:    services.NewDisplayScaler(domain.DisplaySettings{}, 0),
		Store:     memory.NewSlideStore(),
	})
	require.NoError(t, err)
	return session
}

func TestNewPorts(t *testing.T) {
	editor := newTestEditor(t)
	analysis := &stubAnalysis{}
	validator := services.NewFitValidator(0)

	ports := NewPorts(editor, analysis, nil, validator)

	require.NotNil(t, ports)
	assert.Equal(t, editor, ports.Editor)
	assert.Equal(t, analysis, ports.Analysis)
	assert.Nil(t, ports.Settings)
	assert.Equal(t, validator, ports.Validator)
}

func TestPorts_Validate_EditorOnly(t *testing.T) {
	ports := &Ports{Editor: newTestEditor(t)}

	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingEditor(t *testing.T) {
	ports := &Ports{Analysis: &stubAnalysis{}}

	assert.ErrorIs(t, ports.Validate(), ErrMissingEditorService)
}

func TestPorts_Validate_Nil(t *testing.T) {
	var ports *Ports

	assert.ErrorIs(t, ports.Validate(), ErrInvalidPorts)
}
