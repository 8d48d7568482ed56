// Package slots provides the secure slot store: a tiny key/value abstraction
// where each logical slot (credentials, session, userData) holds exactly one
// encrypted blob under its own keystore identifier.
//
// # Backends
//
//   - SQLiteStore  - local SQLite file (modernc.org/sqlite); atomic updates via a transaction.
//   - KeyringStore - OS keychain / secret service (github.com/zalando/go-keyring).
//   - RedisStore   - Redis (github.com/redis/go-redis/v9), for shared dev setups.
//   - MemoryStore  - process memory, for tests and throwaway sessions.
//
// # Errors
//
// Backend failures wrap ErrUnavailable; WithTimeout reports slow calls as
// ErrTimeout. Callers above this package convert both into plain
// success/absent results and never show them to users.
//
// Stores never encrypt on their own: callers hand them ciphertext.
package slots
