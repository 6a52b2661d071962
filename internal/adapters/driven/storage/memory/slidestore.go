package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

// Ensure SlideStore implements the interface.
var _ driven.SlideStore = (*SlideStore)(nil)

// SlideStore is an in-memory implementation of driven.SlideStore.
type SlideStore struct {
	mu       sync.RWMutex
	bindings map[string]domain.ContentBinding
	assets   map[string][]domain.Asset
}

// NewSlideStore creates a new in-memory slide store.
func NewSlideStore() *SlideStore {
	return &SlideStore{
		bindings: make(map[string]domain.ContentBinding),
		assets:   make(map[string][]domain.Asset),
	}
}

// SaveContent stores or replaces the content bound to one region.
func (s *SlideStore) SaveContent(_ context.Context, slideID, regionID string, content domain.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings[slideID]
	if !ok {
		b = make(domain.ContentBinding)
		s.bindings[slideID] = b
	}
	b[regionID] = content.Clone()
	return nil
}

// LoadBinding returns a copy of every content value bound on a slide.
func (s *SlideStore) LoadBinding(_ context.Context, slideID string) (domain.ContentBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bindings[slideID]
	if !ok {
		return domain.ContentBinding{}, nil
	}
	return b.Clone(), nil
}

// SaveAsset stores or updates one asset, keeping insertion order.
func (s *SlideStore) SaveAsset(_ context.Context, asset domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.assets[asset.SlideID]
	for i := range list {
		if list[i].ID == asset.ID {
			list[i] = asset
			return nil
		}
	}
	s.assets[asset.SlideID] = append(list, asset)
	return nil
}

// DeleteAsset removes an asset.
func (s *SlideStore) DeleteAsset(_ context.Context, slideID, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.assets[slideID]
	for i := range list {
		if list[i].ID == assetID {
			s.assets[slideID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ListAssets returns a slide's assets in insertion order.
func (s *SlideStore) ListAssets(_ context.Context, slideID string) ([]domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.assets[slideID]
	out := make([]domain.Asset, len(list))
	copy(out, list)
	return out, nil
}
