package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown region, asset or provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Geometry Errors.

	// ErrUnknownSpace indicates a rectangle tagged with an unrecognised coordinate space.
	ErrUnknownSpace = errors.New("unknown coordinate space")

	// ErrInvalidSlideSize indicates a conversion needed a slide size that is not positive.
	ErrInvalidSlideSize = errors.New("invalid slide size")

	// ErrMalformedGeometry indicates a region without a usable position.
	// Regions failing with this error are skipped, never fatal.
	ErrMalformedGeometry = errors.New("malformed region geometry")

	// ErrViewportUnavailable indicates no background preview is available.
	// The compositor degrades to the fallback proportional layout.
	ErrViewportUnavailable = errors.New("viewport unavailable")

	// Collaborator Errors.

	// ErrAnalysisUnavailable indicates the analysis collaborator is not configured.
	ErrAnalysisUnavailable = errors.New("analysis service unavailable")

	// ErrGeneratorUnavailable indicates the generation collaborator is not configured.
	ErrGeneratorUnavailable = errors.New("content generator unavailable")

	// ErrChannelClosed indicates the collaboration channel has been closed.
	ErrChannelClosed = errors.New("collaboration channel closed")

	// ErrRateLimited indicates the collaborator's rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Session Errors.

	// ErrNoSlide indicates an editor operation ran before a slide was ingested.
	ErrNoSlide = errors.New("no slide loaded")

	// ErrNoDrag indicates a drag update arrived without a drag in progress.
	ErrNoDrag = errors.New("no drag in progress")
)

// GeometryError describes a region that could not be positioned.
type GeometryError struct {
	RegionID string `json:"region_id"`
	Reason   string `json:"reason"`
}

// Error implements error.
func (e *GeometryError) Error() string {
	return fmt.Sprintf("region %s: %s", e.RegionID, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformedGeometry).
func (e *GeometryError) Unwrap() error {
	return ErrMalformedGeometry
}
