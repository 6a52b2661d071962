package domain

import "time"

// MutationKind identifies what a mutation changes.
type MutationKind string

// Mutation kinds.
const (
	MutationContent     MutationKind = "content"
	MutationAssetInsert MutationKind = "asset_insert"
	MutationAssetMove   MutationKind = "asset_move"
	MutationAssetRemove MutationKind = "asset_remove"
)

// IsValid returns true if the mutation kind is recognised.
func (k MutationKind) IsValid() bool {
	switch k {
	case MutationContent, MutationAssetInsert, MutationAssetMove, MutationAssetRemove:
		return true
	default:
		return false
	}
}

// Mutation is a content or asset change broadcast on the collaboration channel.
// Remote mutations re-enter the editor through the same path as local edits
// and are applied last-write-wins.
type Mutation struct {
	ID      string       `json:"id"`
	SlideID string       `json:"slide_id"`
	Kind    MutationKind `json:"kind"`

	// Origin is the identity of the user who made the change.
	Origin string `json:"origin"`

	RegionID string   `json:"region_id,omitempty"`
	Content  *Content `json:"content,omitempty"`

	AssetID  string    `json:"asset_id,omitempty"`
	Position *Position `json:"position,omitempty"`
	Asset    *Asset    `json:"asset,omitempty"`

	At time.Time `json:"at"`
}
