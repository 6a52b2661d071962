// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two interfaces through a
// single database connection:
//
//   - SlideStore: content bindings and assets, per slide
//   - GeometryCache: analysis results with LRU eviction and a TTL
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.slidefit/data/slidefit.db
package sqlite
