package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/logger"
)

// Default placement of new assets, in RelativePercent.
const (
	defaultAssetX     = 40.0
	defaultAssetY     = 40.0
	defaultAssetStep  = 5.0
	defaultAssetSlots = 10
	defaultAssetRows  = 5
)

// AssetPlacement is the free-form position model for the user assets of one slide.
// Assets are independent of detected regions: there is no collision detection
// and no auto-layout.
type AssetPlacement struct {
	slideID  string
	store    driven.SlideStore
	assets   []domain.Asset
	// inserted counts default placements; it only grows.
	inserted int
	newID    func() string
	now      func() time.Time
}

// NewAssetPlacement creates an empty placement model. The store may be nil.
func NewAssetPlacement(slideID string, store driven.SlideStore) *AssetPlacement {
	return &AssetPlacement{
		slideID: slideID,
		store:   store,
		newID:   uuid.NewString,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Load restores persisted assets, replacing the in-memory list.
func (p *AssetPlacement) Load(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	assets, err := p.store.ListAssets(ctx, p.slideID)
	if err != nil {
		return fmt.Errorf("list assets: %w", err)
	}
	p.assets = assets
	return nil
}

// List returns the assets in insertion order, bottom to top.
func (p *AssetPlacement) List() []domain.Asset {
	out := make([]domain.Asset, len(p.assets))
	copy(out, p.assets)
	return out
}

// Get returns one asset.
func (p *AssetPlacement) Get(id string) (domain.Asset, bool) {
	i := p.find(id)
	if i < 0 {
		return domain.Asset{}, false
	}
	return p.assets[i], true
}

// Insert adds an asset at the default position, stepped diagonally from the
// previous insertion and past any position a live asset already occupies.
// A nil payload is replaced with the kind's empty payload.
func (p *AssetPlacement) Insert(ctx context.Context, kind domain.AssetKind, payload domain.AssetPayload) (domain.Asset, error) {
	if !kind.IsValid() {
		return domain.Asset{}, fmt.Errorf("%w: asset kind %q", domain.ErrUnsupportedType, kind)
	}
	if payload == nil {
		payload, _ = domain.NewPayload(kind)
	}
	if payload.Kind() != kind {
		return domain.Asset{}, fmt.Errorf("%w: %s payload for %s asset", domain.ErrInvalidInput, payload.Kind(), kind)
	}

	now := p.now()
	asset := domain.Asset{
		ID:        p.newID(),
		SlideID:   p.slideID,
		Kind:      kind,
		Position:  p.nextPosition(),
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.persist(ctx, asset); err != nil {
		return domain.Asset{}, err
	}
	p.assets = append(p.assets, asset)
	logger.Debug("asset %s (%s) inserted at %.1f,%.1f", asset.ID, kind, asset.Position.X, asset.Position.Y)
	return asset, nil
}

// Upsert stores an asset received from elsewhere, keeping its ID and position.
func (p *AssetPlacement) Upsert(ctx context.Context, asset domain.Asset) (domain.Asset, error) {
	if !asset.Kind.IsValid() {
		return domain.Asset{}, fmt.Errorf("%w: asset kind %q", domain.ErrUnsupportedType, asset.Kind)
	}
	if asset.ID == "" {
		return domain.Asset{}, fmt.Errorf("%w: asset without id", domain.ErrInvalidInput)
	}
	if asset.Payload == nil {
		asset.Payload, _ = domain.NewPayload(asset.Kind)
	}
	asset.SlideID = p.slideID
	asset.Position = clampPosition(asset.Position)
	if err := p.persist(ctx, asset); err != nil {
		return domain.Asset{}, err
	}
	if i := p.find(asset.ID); i >= 0 {
		p.assets[i] = asset
	} else {
		p.assets = append(p.assets, asset)
	}
	return asset, nil
}

// MoveTo commits a new position, clamped to the canvas.
func (p *AssetPlacement) MoveTo(ctx context.Context, id string, pos domain.Position) (domain.Asset, error) {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
		return domain.Asset{}, fmt.Errorf("%w: position is not a number", domain.ErrInvalidInput)
	}
	i := p.find(id)
	if i < 0 {
		return domain.Asset{}, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	asset := p.assets[i]
	asset.Position = clampPosition(pos)
	asset.UpdatedAt = p.now()
	if err := p.persist(ctx, asset); err != nil {
		return domain.Asset{}, err
	}
	p.assets[i] = asset
	return asset, nil
}

// UpdatePayload replaces the kind-specific data. The kind cannot change.
func (p *AssetPlacement) UpdatePayload(ctx context.Context, id string, payload domain.AssetPayload) (domain.Asset, error) {
	i := p.find(id)
	if i < 0 {
		return domain.Asset{}, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	asset := p.assets[i]
	if payload == nil || payload.Kind() != asset.Kind {
		return domain.Asset{}, fmt.Errorf("%w: payload does not match %s asset", domain.ErrInvalidInput, asset.Kind)
	}
	asset.Payload = payload
	asset.UpdatedAt = p.now()
	if err := p.persist(ctx, asset); err != nil {
		return domain.Asset{}, err
	}
	p.assets[i] = asset
	return asset, nil
}

// Remove deletes an asset. Removing the last asset of a slide is allowed.
func (p *AssetPlacement) Remove(ctx context.Context, id string) error {
	i := p.find(id)
	if i < 0 {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	if p.store != nil {
		if err := p.store.DeleteAsset(ctx, p.slideID, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete asset: %w", err)
		}
	}
	p.assets = append(p.assets[:i], p.assets[i+1:]...)
	return nil
}

func (p *AssetPlacement) persist(ctx context.Context, asset domain.Asset) error {
	if p.store == nil {
		return nil
	}
	if err := p.store.SaveAsset(ctx, asset); err != nil {
		return fmt.Errorf("save asset: %w", err)
	}
	return nil
}

func (p *AssetPlacement) find(id string) int {
	for i := range p.assets {
		if p.assets[i].ID == id {
			return i
		}
	}
	return -1
}

// nextPosition walks the default slots from the insertion counter and returns
// the first one no live asset sits on. Every tenth slot starts a new diagonal
// shifted one point right. When all slots are taken the counter's slot is used.
func (p *AssetPlacement) nextPosition() domain.Position {
	total := defaultAssetSlots * defaultAssetRows
	for i := 0; i < total; i++ {
		pos := assetSlot(p.inserted + i)
		if !p.occupied(pos) {
			p.inserted += i + 1
			return pos
		}
	}
	pos := assetSlot(p.inserted)
	p.inserted++
	return pos
}

func assetSlot(n int) domain.Position {
	step := float64(n%defaultAssetSlots) * defaultAssetStep
	shift := float64((n / defaultAssetSlots) % defaultAssetRows)
	return domain.Position{X: defaultAssetX + step + shift, Y: defaultAssetY + step}
}

func (p *AssetPlacement) occupied(pos domain.Position) bool {
	for _, a := range p.assets {
		if a.Position == pos {
			return true
		}
	}
	return false
}

func clampPosition(pos domain.Position) domain.Position {
	return domain.Position{
		X: math.Max(0, math.Min(100, pos.X)),
		Y: math.Max(0, math.Min(100, pos.Y)),
	}
}
