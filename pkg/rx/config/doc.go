// Package config loads the settings a host needs to run rx pipelines:
// logging, the event loop, telemetry export and operator tunables.
//
// Sources, lowest precedence first:
//   - Default()
//   - a YAML file (WithConfigFile)
//   - a .env file (WithEnvFile), loaded into the environment
//   - RX_ prefixed environment variables, e.g. RX_LOGGING_LEVEL=debug
package config
