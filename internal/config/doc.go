// Package config handles configuration loading for warden.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	webhook:
//	  secret_token: "${WARDEN_WEBHOOK_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"   # webhook and health endpoints
//
// Database:
//
//	database:
//	  path: "/var/lib/warden/warden.db"
//
// Webhook:
//
//	webhook:
//	  secret_token: "${WARDEN_WEBHOOK_SECRET}"  # empty disables the check
//	  admins: [123456789]                       # static admin user IDs
//
// Flood tracker:
//
//	flood:
//	  idle_sweep: "1h"   # drop buckets idle longer than this
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
