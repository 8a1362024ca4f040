// Package config provides configuration management for the formcheck service and CLI.
//
// Configuration is loaded from a YAML file, completed with defaults, overridden
// from the environment and validated:
//
//	cfg, err := config.LoadConfig("formcheck.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("formcheck.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention FORMCHECK_SECTION_FIELD:
//
//   - FORMCHECK_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - FORMCHECK_SCHEMAS_PATH overrides schemas.path
//   - FORMCHECK_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//   - FORMCHECK_AUDIT_ENABLED overrides audit.enabled
//
// Variables may also come from a .env file, loaded with godotenv before the
// overrides are applied. Variables already present in the environment win.
//
// # Configuration Precedence
//
//  1. Default values
//  2. YAML configuration file
//  3. .env file (only for variables not already set)
//  4. Environment variables
//
// # Example Configuration
//
//	server:
//	  listen_address: "0.0.0.0:8080"
//	  max_body_bytes: 1048576
//	schemas:
//	  path: "./forms"
//	  watch: true
//	telemetry:
//	  logging:
//	    level: "debug"
//	    format: "console"
//	  metrics:
//	    namespace: "acme"
//
// # Global Configuration
//
// Initialize, GetConfig and SetConfig manage a process-wide instance for the
// CLI. Library code should receive a *Config explicitly.
package config
