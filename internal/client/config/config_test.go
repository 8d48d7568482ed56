package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, BackendSQLite, c.Backend)
	assert.Equal(t, "localauth.db", c.DatabasePath)
	assert.Equal(t, 3*time.Second, c.StorageTimeout)
	assert.Equal(t, DefaultEncryptionKey, c.EncryptionKey)
	assert.Equal(t, PasswordStoragePlain, c.PasswordStorage)
	require.NoError(t, c.Validate())
}

func TestDefaultEncryptionKey_IsAES256(t *testing.T) {
	assert.Len(t, DefaultEncryptionKey, 64)
}

func TestLoadConfig_UsesDefaultsWithoutArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, 3*time.Second, cfg.StorageTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "redis backend", mutate: func(c *Config) { c.Backend = BackendRedis }, ok: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "floppy" }},
		{name: "unknown key source", mutate: func(c *Config) { c.KeySource = "hsm" }},
		{name: "unknown password storage", mutate: func(c *Config) { c.PasswordStorage = "md5" }},
		{name: "zero timeout", mutate: func(c *Config) { c.StorageTimeout = 0 }},
		{name: "empty namespace", mutate: func(c *Config) { c.Namespace = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			if tt.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}
