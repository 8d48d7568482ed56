package config

import (
	"fmt"
	"time"
)

// DefaultEncryptionKey is the AES-256 key compiled into the client. It only
// obscures data at rest: anyone holding the binary can recover it. Deployments
// that need real confidentiality set KeySource to "passphrase".
const DefaultEncryptionKey = "6c6f63616c617574682d7374617469632d6b65792d76312d3332627974657321"

const (
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
	BackendRedis   = "redis"
	BackendMemory  = "memory"

	KeySourceStatic     = "static"
	KeySourcePassphrase = "passphrase"

	PasswordStoragePlain  = "plain"
	PasswordStorageBcrypt = "bcrypt"
)

// Config holds runtime settings for the localauth client.
//
// Fields:
//   - Backend: secure slot backend (sqlite, keyring, redis, memory).
//   - DatabasePath: SQLite file holding slots (sqlite backend) and the
//     unencrypted signup draft (all backends).
//   - Namespace: prefix that turns slot names into keystore service names.
//   - RedisAddr: host:port of Redis for the redis backend.
//   - StorageTimeout: upper bound for every single slot operation.
//   - EncryptionKey: hex AES key used when KeySource is "static".
//   - KeySource: "static" or "passphrase" (argon2id over a prompted passphrase).
//   - KeySalt: salt for the passphrase key derivation.
//   - PasswordStorage: "plain" (stored as entered, encrypted) or "bcrypt".
//   - LogLevel / LogFormat: slog level and handler ("text" or "json").
type Config struct {
	Backend         string
	DatabasePath    string
	Namespace       string
	RedisAddr       string
	StorageTimeout  time.Duration
	EncryptionKey   string
	KeySource       string
	KeySalt         string
	PasswordStorage string
	LogLevel        string
	LogFormat       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendSQLite
	c.DatabasePath = "localauth.db"
	c.Namespace = "com.localauth"
	c.RedisAddr = "127.0.0.1:6379"
	c.StorageTimeout = 3 * time.Second
	c.EncryptionKey = DefaultEncryptionKey
	c.KeySource = KeySourceStatic
	c.KeySalt = "localauth"
	c.PasswordStorage = PasswordStoragePlain
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendKeyring, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.KeySource {
	case KeySourceStatic, KeySourcePassphrase:
	default:
		return fmt.Errorf("unknown key source %q", c.KeySource)
	}
	switch c.PasswordStorage {
	case PasswordStoragePlain, PasswordStorageBcrypt:
	default:
		return fmt.Errorf("unknown password storage %q", c.PasswordStorage)
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("storage timeout must be positive, got %s", c.StorageTimeout)
	}
	if c.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
