package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/localauth/internal/flagx"
)

var knownFlags = []string{"-b", "-d", "-n", "-r", "-t", "-k", "-s", "-p", "-l"}

// parseFlags populates Config fields from command-line flags:
//
//	-b string   slot backend: sqlite, keyring, redis, memory
//	-d string   path to the local SQLite database
//	-n string   keystore namespace
//	-r string   redis address (host:port)
//	-t int      storage timeout (seconds)
//	-k string   hex encryption key (static key source)
//	-s string   key source: static, passphrase
//	-p string   password storage: plain, bcrypt
//	-l string   log level
//
// Only the flags above are taken from os.Args, so -c/-config can coexist.
// Parse errors panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "slot backend: sqlite, keyring, redis, memory")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.StringVar(&cfg.Namespace, "n", cfg.Namespace, "keystore namespace")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	timeout := fs.Int("t", int(cfg.StorageTimeout.Seconds()), "storage timeout (in seconds)")
	fs.StringVar(&cfg.EncryptionKey, "k", cfg.EncryptionKey, "hex encryption key")
	fs.StringVar(&cfg.KeySource, "s", cfg.KeySource, "key source: static, passphrase")
	fs.StringVar(&cfg.PasswordStorage, "p", cfg.PasswordStorage, "password storage: plain, bcrypt")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.StorageTimeout = time.Duration(*timeout) * time.Second
}
