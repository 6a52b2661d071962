// Package domain defines the core business entities for slidefit.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Rect, Space: rectangles in Absolute, Normalized1000 or RelativePercent space
//   - Region: a detected content area with kind, geometry, formatting and budget
//   - Content, ContentBinding: the values bound to regions
//   - FitResult: how a content value sits against its region's budget
//   - Asset: a user-inserted graphical element with a sealed payload type
//   - Frame: the composed overlay stack for one viewport
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
