package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
	"github.com/custodia-labs/slidefit/internal/logger"
)

// Ensure EditorSession implements the interface.
var _ driving.EditorService = (*EditorSession)(nil)

// EditorPorts holds the collaborators of an editor session.
// Only Validator and Scaler are required.
type EditorPorts struct {
	Validator *FitValidator
	Scaler    *DisplayScaler
	Store     driven.SlideStore
	Collab    driven.CollaborationChannel
	Generator driven.ContentGenerator

	// User tags outgoing mutations.
	User string
}

// Validate checks that required ports are set.
func (p *EditorPorts) Validate() error {
	if p.Validator == nil {
		return errors.New("fit validator is required")
	}
	if p.Scaler == nil {
		return errors.New("display scaler is required")
	}
	return nil
}

// EditorSession is the editing session for one slide at a time.
// Every event is handled synchronously under one lock; remote mutations
// enter through the same path as local edits.
type EditorSession struct {
	mu sync.Mutex

	ports      EditorPorts
	compositor *Compositor

	result  *domain.AnalysisResult
	regions *RegionModel
	binding domain.ContentBinding
	assets  *AssetPlacement
	frame   *domain.Frame

	onChange func(*domain.Frame)
}

// NewEditorSession creates a session with no slide loaded.
func NewEditorSession(ports EditorPorts) (*EditorSession, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	return &EditorSession{
		ports:      ports,
		compositor: NewCompositor(ports.Validator, ports.Scaler),
		binding:    domain.ContentBinding{},
	}, nil
}

// OnChange registers a callback invoked with every new frame.
// It runs with the session lock held and must not call back into the session.
func (e *EditorSession) OnChange(fn func(*domain.Frame)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Compositor exposes the view state machine, mainly for state observers.
func (e *EditorSession) Compositor() *Compositor {
	return e.compositor
}

// Ingest replaces the slide and restores persisted content and assets.
// Store failures are logged: the slide still renders with empty content.
func (e *EditorSession) Ingest(ctx context.Context, result *domain.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("%w: nil analysis result", domain.ErrInvalidInput)
	}
	slideID := result.SlideID
	if slideID == "" {
		slideID = result.Ref.Key()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	logger.Section("Ingest " + slideID)
	e.result = result
	e.regions = NewRegionModel(result.Regions)
	e.binding = domain.ContentBinding{}
	e.assets = NewAssetPlacement(slideID, e.ports.Store)

	if e.ports.Store != nil {
		binding, err := e.ports.Store.LoadBinding(ctx, slideID)
		if err != nil {
			logger.Warn("load content for %s: %v", slideID, err)
		} else {
			e.binding = binding
		}
		if err := e.assets.Load(ctx); err != nil {
			logger.Warn("load assets for %s: %v", slideID, err)
		}
	}
	logger.Info("ingested %d regions, %d bound, %d assets", e.regions.Len(), len(e.binding), len(e.assets.List()))

	e.compositor.Load(&Scene{
		SlideID:            slideID,
		SlideSize:          result.SlideSize(),
		Background:         result.PreviewImageRef,
		PreviewUnavailable: result.PreviewImageRef == "",
		Regions:            e.regions,
		Media:              result.Media,
	})
	if result.PreviewImageRef == "" {
		logger.Warn("%v: using fallback layout for %s", domain.ErrViewportUnavailable, slideID)
	}
	if !result.HasSlideSize() && result.NeedsSlideSize() {
		logger.Warn("%s has absolute regions but no slide size; assuming %.0fx%.0f EMU",
			slideID, domain.DefaultSlideSize.Width, domain.DefaultSlideSize.Height)
	}
	e.renderLocked()
	return nil
}

// SlideID returns the current slide ID.
func (e *EditorSession) SlideID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slideIDLocked()
}

func (e *EditorSession) slideIDLocked() string {
	if e.assets == nil {
		return ""
	}
	return e.assets.slideID
}

// Regions returns copies of the ingested regions.
func (e *EditorSession) Regions() []domain.Region {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.regions == nil {
		return nil
	}
	return e.regions.Regions()
}

// Content returns a region's content, defaulted for unset regions.
func (e *EditorSession) Content(regionID string) (domain.Content, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	region, err := e.regionLocked(regionID)
	if err != nil {
		return domain.Content{}, err
	}
	return ForType(region, e.binding), nil
}

// SetContent binds a value to a region and returns its fit.
// The edit is applied even when it overflows; a persistence failure is
// returned but leaves the edit applied in the session.
func (e *EditorSession) SetContent(ctx context.Context, regionID string, content domain.Content) (domain.FitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, fit, err := e.applyContentLocked(regionID, content)
	if err != nil {
		return domain.FitResult{}, err
	}
	persistErr := e.persistContentLocked(ctx, regionID, value)
	e.publishLocked(ctx, domain.Mutation{Kind: domain.MutationContent, RegionID: regionID, Content: &value})
	e.renderLocked()
	return fit, persistErr
}

// applyContentLocked binds content in memory, reshaped for the region's layout.
func (e *EditorSession) applyContentLocked(regionID string, content domain.Content) (domain.Content, domain.FitResult, error) {
	region, err := e.regionLocked(regionID)
	if err != nil {
		return domain.Content{}, domain.FitResult{}, err
	}
	if !region.HoldsText() {
		return domain.Content{}, domain.FitResult{}, fmt.Errorf(
			"%w: region %s (%s) holds no text", domain.ErrInvalidInput, regionID, region.Kind)
	}

	value := content.AsLayout(region.Layout)
	e.binding[regionID] = value
	fit := e.ports.Validator.Validate(value, region.BudgetChars)
	logger.Debug("region %s: %d/%d chars, %s", regionID, fit.OccupiedChars, fit.BudgetChars, fit.Classification)
	return value.Clone(), fit, nil
}

func (e *EditorSession) persistContentLocked(ctx context.Context, regionID string, value domain.Content) error {
	if e.ports.Store == nil {
		return nil
	}
	if err := e.ports.Store.SaveContent(ctx, e.slideIDLocked(), regionID, value); err != nil {
		return fmt.Errorf("persist content: %w", err)
	}
	return nil
}

// ApplyPatch applies a generation patch verbatim. Keys name a region ID or a
// region kind; unmatched keys and regions without text are ignored.
func (e *EditorSession) ApplyPatch(ctx context.Context, patch domain.ContentPatch) (map[string]domain.FitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.regions == nil {
		return nil, domain.ErrNoSlide
	}

	results := make(map[string]domain.FitResult)
	var errs []error
	for key, value := range patch {
		ids := e.regions.Resolve(key)
		if len(ids) == 0 {
			logger.Debug("patch key %q matches no region", key)
			continue
		}
		for _, id := range ids {
			region, _ := e.regions.Region(id)
			if !region.HoldsText() {
				continue
			}
			applied, fit, err := e.applyContentLocked(id, value)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			results[id] = fit
			if err := e.persistContentLocked(ctx, id, applied); err != nil {
				errs = append(errs, err)
			}
			e.publishLocked(ctx, domain.Mutation{Kind: domain.MutationContent, RegionID: id, Content: &applied})
		}
	}
	e.renderLocked()
	return results, errors.Join(errs...)
}

// Generate asks the content generator for a patch and applies it.
// The generator is called without holding the session lock.
func (e *EditorSession) Generate(ctx context.Context, prompt string) (map[string]domain.FitResult, error) {
	if e.ports.Generator == nil {
		return nil, domain.ErrGeneratorUnavailable
	}

	e.mu.Lock()
	if e.regions == nil {
		e.mu.Unlock()
		return nil, domain.ErrNoSlide
	}
	req := driven.GenerationRequest{Prompt: prompt}
	for _, r := range e.regions.Regions() {
		if !r.HoldsText() {
			continue
		}
		req.Regions = append(req.Regions, driven.GenerationRegion{
			Kind:        r.Kind,
			Layout:      r.Layout,
			BudgetChars: r.BudgetChars,
			Current:     ForType(r, e.binding),
		})
	}
	e.mu.Unlock()

	patch, err := e.ports.Generator.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return e.ApplyPatch(ctx, patch)
}

// Resize re-renders for a new viewport.
func (e *EditorSession) Resize(viewport domain.Viewport) *domain.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compositor.SetViewport(viewport)
	return e.renderLocked()
}

// Frame returns the current frame.
func (e *EditorSession) Frame() *domain.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.frame == nil {
		return e.renderLocked()
	}
	return e.frame
}

// ToggleDebug flips the debug grid.
func (e *EditorSession) ToggleDebug() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	on := e.compositor.ToggleDebug()
	e.renderLocked()
	return on
}

// SetMediaVisible shows or hides extracted media.
func (e *EditorSession) SetMediaVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compositor.SetMediaVisible(visible)
	e.renderLocked()
}

// HitTest resolves a pointer position against the current frame.
func (e *EditorSession) HitTest(x, y float64) domain.HitTarget {
	e.mu.Lock()
	defer e.mu.Unlock()
	return HitTest(e.frame, x, y)
}

// InsertAsset adds an asset at the default position.
func (e *EditorSession) InsertAsset(ctx context.Context, kind domain.AssetKind, payload domain.AssetPayload) (domain.Asset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.assets == nil {
		return domain.Asset{}, domain.ErrNoSlide
	}
	asset, err := e.assets.Insert(ctx, kind, payload)
	if err != nil {
		return domain.Asset{}, err
	}
	e.publishLocked(ctx, domain.Mutation{Kind: domain.MutationAssetInsert, AssetID: asset.ID, Asset: &asset})
	e.renderLocked()
	return asset, nil
}

// UpdateAssetPayload replaces an asset's payload.
func (e *EditorSession) UpdateAssetPayload(ctx context.Context, assetID string, payload domain.AssetPayload) (domain.Asset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.assets == nil {
		return domain.Asset{}, domain.ErrNoSlide
	}
	asset, err := e.assets.UpdatePayload(ctx, assetID, payload)
	if err != nil {
		return domain.Asset{}, err
	}
	e.publishLocked(ctx, domain.Mutation{Kind: domain.MutationAssetInsert, AssetID: asset.ID, Asset: &asset})
	e.renderLocked()
	return asset, nil
}

// SelectAsset selects one asset, deselecting every other.
func (e *EditorSession) SelectAsset(assetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if assetID != "" {
		if e.assets == nil {
			return domain.ErrNoSlide
		}
		if _, ok := e.assets.Get(assetID); !ok {
			return fmt.Errorf("asset %s: %w", assetID, domain.ErrNotFound)
		}
	}
	e.compositor.Select(assetID)
	e.renderLocked()
	return nil
}

// BeginDrag starts dragging an asset.
func (e *EditorSession) BeginDrag(assetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.assets == nil {
		return domain.ErrNoSlide
	}
	asset, ok := e.assets.Get(assetID)
	if !ok {
		return fmt.Errorf("asset %s: %w", assetID, domain.ErrNotFound)
	}
	e.compositor.BeginDrag(assetID, asset.Position)
	e.renderLocked()
	return nil
}

// DragTo moves the dragged asset on screen without persisting.
func (e *EditorSession) DragTo(pos domain.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.compositor.DragTo(pos); err != nil {
		return err
	}
	e.renderLocked()
	return nil
}

// EndDrag commits the dragged asset's final position.
func (e *EditorSession) EndDrag(ctx context.Context) (domain.Asset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, pos, err := e.compositor.EndDrag()
	if err != nil {
		return domain.Asset{}, err
	}
	return e.moveLocked(ctx, id, pos)
}

// MoveAsset commits a position directly.
func (e *EditorSession) MoveAsset(ctx context.Context, assetID string, pos domain.Position) (domain.Asset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveLocked(ctx, assetID, pos)
}

func (e *EditorSession) moveLocked(ctx context.Context, assetID string, pos domain.Position) (domain.Asset, error) {
	if e.assets == nil {
		return domain.Asset{}, domain.ErrNoSlide
	}
	asset, err := e.assets.MoveTo(ctx, assetID, pos)
	if err != nil {
		e.renderLocked()
		return domain.Asset{}, err
	}
	p := asset.Position
	e.publishLocked(ctx, domain.Mutation{Kind: domain.MutationAssetMove, AssetID: asset.ID, Position: &p})
	e.renderLocked()
	return asset, nil
}

// RemoveAsset deletes an asset.
func (e *EditorSession) RemoveAsset(ctx context.Context, assetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.assets == nil {
		return domain.ErrNoSlide
	}
	if err := e.assets.Remove(ctx, assetID); err != nil {
		return err
	}
	e.compositor.Forget(assetID)
	e.publishLocked(ctx, domain.Mutation{Kind: domain.MutationAssetRemove, AssetID: assetID})
	e.renderLocked()
	return nil
}

// Assets returns the slide's assets.
func (e *EditorSession) Assets() []domain.Asset {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.assets == nil {
		return nil
	}
	return e.assets.List()
}

// ApplyRemote applies a mutation from another participant, last-write-wins.
// Remote mutations are never re-published.
func (e *EditorSession) ApplyRemote(ctx context.Context, m domain.Mutation) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.assets == nil {
		return domain.ErrNoSlide
	}
	if m.SlideID != e.slideIDLocked() {
		logger.Debug("ignoring mutation %s for slide %s", m.ID, m.SlideID)
		return nil
	}
	logger.Debug("remote %s from %s", m.Kind, m.Origin)

	var err error
	switch m.Kind {
	case domain.MutationContent:
		if m.Content == nil {
			return fmt.Errorf("%w: content mutation without content", domain.ErrInvalidInput)
		}
		var value domain.Content
		value, _, err = e.applyContentLocked(m.RegionID, *m.Content)
		if err == nil {
			err = e.persistContentLocked(ctx, m.RegionID, value)
		}
	case domain.MutationAssetInsert:
		if m.Asset == nil {
			return fmt.Errorf("%w: insert mutation without asset", domain.ErrInvalidInput)
		}
		_, err = e.assets.Upsert(ctx, *m.Asset)
	case domain.MutationAssetMove:
		if m.Position == nil {
			return fmt.Errorf("%w: move mutation without position", domain.ErrInvalidInput)
		}
		_, err = e.assets.MoveTo(ctx, m.AssetID, *m.Position)
	case domain.MutationAssetRemove:
		err = e.assets.Remove(ctx, m.AssetID)
		if errors.Is(err, domain.ErrNotFound) {
			err = nil
		}
		e.compositor.Forget(m.AssetID)
	default:
		return fmt.Errorf("%w: mutation kind %q", domain.ErrUnsupportedType, m.Kind)
	}
	e.renderLocked()
	return err
}

// Listen applies remote mutations until ctx is cancelled or the channel closes.
func (e *EditorSession) Listen(ctx context.Context) error {
	if e.ports.Collab == nil {
		return nil
	}
	in, err := e.ports.Collab.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	for m := range in {
		if err := e.ApplyRemote(ctx, m); err != nil {
			logger.Warn("apply remote mutation %s: %v", m.ID, err)
		}
	}
	return ctx.Err()
}

// Export returns stored content and assets. Formatting is the stored
// formatting; display-scaled sizes never appear here.
func (e *EditorSession) Export(_ context.Context) (domain.ExportBundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.regions == nil {
		return domain.ExportBundle{}, domain.ErrNoSlide
	}
	size := e.result.SlideSize()
	bundle := domain.ExportBundle{
		SlideID:    e.slideIDLocked(),
		SlideSize:  size,
		Assets:     e.assets.List(),
		ExportedAt: time.Now().UTC(),
	}
	for _, r := range e.regions.Regions() {
		if err := r.Validate(); err != nil {
			logger.Warn("export: %v", err)
			continue
		}
		abs, err := domain.Convert(*r.Position, domain.SpaceAbsolute, size)
		if err != nil {
			logger.Warn("export: region %s: %v", r.ID, err)
			continue
		}
		content, ok := e.binding[r.ID]
		if !ok {
			content = domain.Content{}.AsLayout(r.Layout)
		}
		bundle.Regions = append(bundle.Regions, domain.ExportRegion{
			ID:         r.ID,
			Kind:       r.Kind,
			Position:   abs,
			Formatting: r.Formatting,
			Content:    content.Clone(),
		})
	}
	return bundle, nil
}

func (e *EditorSession) regionLocked(id string) (domain.Region, error) {
	if e.regions == nil {
		return domain.Region{}, domain.ErrNoSlide
	}
	r, ok := e.regions.Region(id)
	if !ok {
		return domain.Region{}, fmt.Errorf("region %s: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

func (e *EditorSession) publishLocked(ctx context.Context, m domain.Mutation) {
	if e.ports.Collab == nil {
		return
	}
	m.ID = uuid.NewString()
	m.SlideID = e.slideIDLocked()
	m.Origin = e.ports.User
	m.At = time.Now().UTC()
	if err := e.ports.Collab.Publish(ctx, m); err != nil {
		logger.Warn("publish %s: %v", m.Kind, err)
	}
}

func (e *EditorSession) renderLocked() *domain.Frame {
	var assets []domain.Asset
	if e.assets != nil {
		assets = e.assets.List()
	}
	e.frame = e.compositor.Render(e.binding, assets)
	if e.onChange != nil {
		e.onChange(e.frame)
	}
	return e.frame
}
