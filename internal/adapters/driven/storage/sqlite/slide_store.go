package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

// slideStore implements driven.SlideStore.
type slideStore struct {
	store *Store
}

var _ driven.SlideStore = (*slideStore)(nil)

// SaveContent stores or replaces the content bound to one region.
func (s *slideStore) SaveContent(ctx context.Context, slideID, regionID string, content domain.Content) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshalling content: %w", err)
	}
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO content_bindings (slide_id, region_id, content, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slide_id, region_id) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at
	`, slideID, regionID, string(data), formatTime(s.store.now()))
	if err != nil {
		return fmt.Errorf("saving content %s/%s: %w", slideID, regionID, err)
	}
	return nil
}

// LoadBinding returns every content value bound on a slide.
func (s *slideStore) LoadBinding(ctx context.Context, slideID string) (domain.ContentBinding, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT region_id, content FROM content_bindings WHERE slide_id = ?`, slideID)
	if err != nil {
		return nil, fmt.Errorf("querying content: %w", err)
	}
	defer rows.Close()

	binding := domain.ContentBinding{}
	for rows.Next() {
		var regionID, data string
		if err := rows.Scan(&regionID, &data); err != nil {
			return nil, fmt.Errorf("scanning content: %w", err)
		}
		var content domain.Content
		if err := json.Unmarshal([]byte(data), &content); err != nil {
			return nil, fmt.Errorf("decoding content %s: %w", regionID, err)
		}
		binding[regionID] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content: %w", err)
	}
	return binding, nil
}

// SaveAsset stores or updates one asset. Updates keep the original rowid,
// so insertion order survives moves.
func (s *slideStore) SaveAsset(ctx context.Context, asset domain.Asset) error {
	var payload interface{}
	if asset.Payload != nil {
		data, err := json.Marshal(asset.Payload)
		if err != nil {
			return fmt.Errorf("marshalling payload: %w", err)
		}
		payload = string(data)
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO assets (id, slide_id, kind, pos_x, pos_y, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slide_id = excluded.slide_id,
			kind = excluded.kind,
			pos_x = excluded.pos_x,
			pos_y = excluded.pos_y,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`,
		asset.ID,
		asset.SlideID,
		string(asset.Kind),
		asset.Position.X,
		asset.Position.Y,
		payload,
		formatTime(asset.CreatedAt),
		formatTime(asset.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving asset %s: %w", asset.ID, err)
	}
	return nil
}

// DeleteAsset removes an asset. Returns domain.ErrNotFound if absent.
func (s *slideStore) DeleteAsset(ctx context.Context, slideID, assetID string) error {
	res, err := s.store.db.ExecContext(ctx,
		`DELETE FROM assets WHERE slide_id = ? AND id = ?`, slideID, assetID)
	if err != nil {
		return fmt.Errorf("deleting asset %s: %w", assetID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting asset %s: %w", assetID, err)
	}
	if n == 0 {
		return fmt.Errorf("asset %s: %w", assetID, domain.ErrNotFound)
	}
	return nil
}

// ListAssets returns a slide's assets in insertion order.
func (s *slideStore) ListAssets(ctx context.Context, slideID string) ([]domain.Asset, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, slide_id, kind, pos_x, pos_y, payload, created_at, updated_at
		FROM assets WHERE slide_id = ? ORDER BY rowid
	`, slideID)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset //nolint:prealloc // size unknown from query
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}
	return assets, nil
}

func scanAsset(rows *sql.Rows) (*domain.Asset, error) {
	var a domain.Asset
	var kind string
	var payload, createdAt, updatedAt sql.NullString
	if err := rows.Scan(&a.ID, &a.SlideID, &kind, &a.Position.X, &a.Position.Y,
		&payload, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning asset: %w", err)
	}
	a.Kind = domain.AssetKind(kind)
	p, err := domain.DecodePayload(a.Kind, []byte(payload.String))
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", a.ID, err)
	}
	a.Payload = p
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return &a, nil
}
