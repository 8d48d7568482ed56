package cli

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/localauth/internal/client/config"
	"github.com/dmitrijs2005/localauth/internal/client/credentials"
	"github.com/dmitrijs2005/localauth/internal/client/database"
	"github.com/dmitrijs2005/localauth/internal/client/draft"
	"github.com/dmitrijs2005/localauth/internal/client/lockout"
	"github.com/dmitrijs2005/localauth/internal/client/models"
	"github.com/dmitrijs2005/localauth/internal/client/profile"
	"github.com/dmitrijs2005/localauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/localauth/internal/client/services"
	"github.com/dmitrijs2005/localauth/internal/client/session"
	"github.com/dmitrijs2005/localauth/internal/client/slots"
	"github.com/dmitrijs2005/localauth/internal/common"
	"github.com/dmitrijs2005/localauth/internal/cryptox"
	"github.com/dmitrijs2005/localauth/internal/logging"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "localauth"

type App struct {
	config      *config.Config
	authService services.AuthService
	drafts      *draft.Store
	log         logging.Logger

	// tracker holds the login form's lockout state between attempts.
	tracker lockout.Tracker
	profile *models.Profile

	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	return newApp(ctx, c, log, os.Stdin, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{config: c, log: log, reader: bufio.NewReader(in), out: out}

	store, meta, err := a.openStorage(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	keys, err := a.keyProvider(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	codec := cryptox.NewCodec(keys)

	var opts []credentials.Option
	if c.PasswordStorage == config.PasswordStorageBcrypt {
		opts = append(opts, credentials.WithPasswordHasher(credentials.BcryptPasswords(0)))
	}

	a.authService = services.NewAuthService(
		credentials.NewRepository(store, codec, log, opts...),
		session.NewManager(store, codec, log),
		profile.NewCache(store, codec, log),
		log,
	)
	a.drafts = draft.NewStore(meta, log)
	return a, nil
}

// openStorage returns the configured slot backend, limited by StorageTimeout,
// and the plain key/value store that holds the signup draft.
func (a *App) openStorage(ctx context.Context) (slots.Store, metadata.Repository, error) {
	c := a.config

	if c.Backend == config.BackendMemory {
		return slots.WithTimeout(slots.NewMemoryStore(), c.StorageTimeout), metadata.NewMemoryRepository(), nil
	}

	db, err := database.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	var store slots.Store
	switch c.Backend {
	case config.BackendSQLite:
		store = slots.NewSQLiteStore(db, c.Namespace)
	case config.BackendKeyring:
		store = slots.NewKeyringStore(c.Namespace)
	case config.BackendRedis:
		rc := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		a.closers = append(a.closers, rc.Close)
		store = slots.NewRedisStore(rc, redisKeyPrefix, c.Namespace)
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", c.Backend)
	}

	a.log.Debug(ctx, "storage opened", "backend", c.Backend, "namespace", c.Namespace)
	return slots.WithTimeout(store, c.StorageTimeout), metadata.NewSQLiteRepository(db), nil
}

func (a *App) keyProvider(ctx context.Context) (cryptox.KeyProvider, error) {
	var keys cryptox.KeyProvider

	switch a.config.KeySource {
	case config.KeySourcePassphrase:
		passphrase, err := getPassword("Enter storage passphrase", a.out)
		if err != nil {
			return nil, fmt.Errorf("passphrase input error: %w", err)
		}
		keys = cryptox.NewPassphraseKey(passphrase, []byte(a.config.KeySalt))
		common.WipeByteArray(passphrase)
	default:
		static, err := cryptox.ParseStaticKey(a.config.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		keys = static
	}

	key, err := keys.Key(ctx)
	if err != nil {
		return nil, fmt.Errorf("key retrieval error: %w", err)
	}
	defer common.WipeByteArray(key)

	a.log.Debug(ctx, "encryption key ready",
		"source", a.config.KeySource,
		"fingerprint", hex.EncodeToString(cryptox.MakeVerifier(key))[:16])
	return keys, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warn(ctx, "shutdown error", "error", err)
		}
	}()
	a.Root(ctx)
}

// Close releases the database and network clients opened by NewApp.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.profile != nil
}
