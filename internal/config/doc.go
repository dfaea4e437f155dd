// Package config provides configuration management for pphistory.
//
// # Configuration Sources
//
// Configuration is resolved in the following order, later sources winning:
//
//	1. Default() values (reproduce the published page)
//	2. YAML file (--config, pphistory.yaml or configs/pphistory.yaml)
//	3. Environment variables with the PPH_ prefix
//
// Command line flags of the executables override the loaded values.
//
// # Environment Variables
//
//	PPH_BUILD_INPUT=data.xlsx
//	PPH_BUILD_OUTPUT=index.html
//	PPH_BUILD_TODAY=2025-11-08
//	PPH_ASSETS_REPLAY_DIR=replays
//	PPH_LOGGING_LEVEL=debug
//	PPH_TELEMETRY_TRACE_EXPORTER=stdout
//	PPH_PREVIEW_ADDR=127.0.0.1:8080
//
// The loaded Config is validated with go-playground/validator struct tags.
package config
