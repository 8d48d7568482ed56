package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/localauth/internal/flagx"
	"github.com/dmitrijs2005/localauth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent or
// empty fields leave the corresponding Config value untouched.
type JsonConfig struct {
	Backend         string          `json:"backend"`
	DatabasePath    string          `json:"database_path"`
	Namespace       string          `json:"namespace"`
	RedisAddr       string          `json:"redis_addr"`
	StorageTimeout  *timex.Duration `json:"storage_timeout"`
	EncryptionKey   string          `json:"encryption_key"`
	KeySource       string          `json:"key_source"`
	KeySalt         string          `json:"key_salt"`
	PasswordStorage string          `json:"password_storage"`
	LogLevel        string          `json:"log_level"`
	LogFormat       string          `json:"log_format"`
}

// parseJson overlays cfg with the JSON file named by -c / -config.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.Backend, jc.Backend)
	overlay(&cfg.DatabasePath, jc.DatabasePath)
	overlay(&cfg.Namespace, jc.Namespace)
	overlay(&cfg.RedisAddr, jc.RedisAddr)
	overlay(&cfg.EncryptionKey, jc.EncryptionKey)
	overlay(&cfg.KeySource, jc.KeySource)
	overlay(&cfg.KeySalt, jc.KeySalt)
	overlay(&cfg.PasswordStorage, jc.PasswordStorage)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogFormat, jc.LogFormat)
	if jc.StorageTimeout != nil {
		cfg.StorageTimeout = jc.StorageTimeout.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
