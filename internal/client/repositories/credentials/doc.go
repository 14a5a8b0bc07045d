// Package credentials persists the client's session credentials (the bearer
// token and the serialized user profile) so that a restart can resume the
// session without a network call.
//
// Three backends implement Repository:
//   - SQLiteRepository: a metadata table in a local SQLite file, schema managed
//     by embedded goose migrations. The default.
//   - BoltRepository: a single bucket in a bbolt file.
//   - MemoryRepository: process memory only; for tests and throwaway sessions.
//
// Open picks one by driver name.
package credentials
