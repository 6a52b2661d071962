package services

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

// mockGenerator is a testify mock of driven.ContentGenerator.
type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req driven.GenerationRequest) (domain.ContentPatch, error) {
	args := m.Called(ctx, req)
	patch, _ := args.Get(0).(domain.ContentPatch)
	return patch, args.Error(1)
}

func (m *mockGenerator) ModelName() string {
	return m.Called().String(0)
}

func (m *mockGenerator) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// recordingChannel captures published mutations.
type recordingChannel struct {
	mu        sync.Mutex
	published []domain.Mutation
	in        chan domain.Mutation
}

func newRecordingChannel() *recordingChannel {
	return &recordingChannel{in: make(chan domain.Mutation, 8)}
}

func (c *recordingChannel) Publish(_ context.Context, m domain.Mutation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, m)
	return nil
}

func (c *recordingChannel) Subscribe(_ context.Context) (<-chan domain.Mutation, error) {
	return c.in, nil
}

func (c *recordingChannel) Close() error { return nil }

func (c *recordingChannel) Published() []domain.Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Mutation, len(c.published))
	copy(out, c.published)
	return out
}

var errStoreDown = errors.New("store down")

// failingStore fails every write.
type failingStore struct{}

func (failingStore) SaveContent(context.Context, string, string, domain.Content) error {
	return errStoreDown
}

func (failingStore) LoadBinding(context.Context, string) (domain.ContentBinding, error) {
	return nil, errStoreDown
}

func (failingStore) SaveAsset(context.Context, domain.Asset) error { return errStoreDown }

func (failingStore) DeleteAsset(context.Context, string, string) error { return errStoreDown }

func (failingStore) ListAssets(context.Context, string) ([]domain.Asset, error) {
	return nil, errStoreDown
}

// stubProvider returns a fixed result and counts calls.
type stubProvider struct {
	result *domain.AnalysisResult
	err    error
	calls  int
}

func (p *stubProvider) Analyze(_ context.Context, _ domain.SlideRef) (*domain.AnalysisResult, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	r := *p.result
	return &r, nil
}

func (p *stubProvider) Name() string { return "stub" }
