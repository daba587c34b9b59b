// Package sqlite provides SQLite-based implementations of the cache ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It keeps two databases:
//
//   - metadata.db: the key-value table behind the structured chapter cache
//   - audio.db: synthesized speech, opened lazily and compressed with xz
//
// # Schema
//
// Each database's schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the databases are stored in ~/.smartegy/data/
//
// # Thread Safety
//
// All operations are thread-safe. The stores use database-level locking provided
// by SQLite in WAL mode.
package sqlite
