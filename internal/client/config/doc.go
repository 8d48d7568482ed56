// Package config loads runtime configuration for the localauth client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations accept "3s"-style strings or integer nanoseconds:
//
//	{
//	  "backend": "sqlite",
//	  "database_path": "localauth.db",
//	  "namespace": "com.localauth",
//	  "redis_addr": "127.0.0.1:6379",
//	  "storage_timeout": "3s",
//	  "key_source": "static",
//	  "password_storage": "plain",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// Environment variables are not read.
package config
