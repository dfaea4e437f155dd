package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data.xlsx", cfg.Build.Input)
				assert.Equal(t, "index.html", cfg.Build.Output)
				assert.Equal(t, 1280, cfg.Build.SnapshotWidth)
				assert.Equal(t, "ja", cfg.Site.Lang)
				assert.Equal(t, "osu!taiko pp record history", cfg.Site.Title)
				assert.Len(t, cfg.Site.Subtitle, 2)
				assert.Equal(t, "replays", cfg.Assets.ReplayDir)
				assert.Equal(t, "icons_mod", cfg.Assets.ModDir)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.Equal(t, time.Second, cfg.Preview.PollInterval)
			},
		},
		{
			name: "yaml file overrides defaults",
			fileContent: `
build:
  input: records.csv
  today: "2025-01-02"
site:
  title: Custom title
  subtitle:
    - only line
assets:
  replay_dir: osr
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "records.csv", cfg.Build.Input)
				assert.Equal(t, "index.html", cfg.Build.Output)
				assert.Equal(t, "2025-01-02", cfg.Build.Today)
				assert.Equal(t, "Custom title", cfg.Site.Title)
				assert.Equal(t, []string{"only line"}, cfg.Site.Subtitle)
				assert.Equal(t, "osr", cfg.Assets.ReplayDir)
				assert.Equal(t, "jackets", cfg.Assets.JacketDir)
			},
		},
		{
			name:        "environment wins over file",
			fileContent: "build:\n  output: from-file.html\n",
			env: map[string]string{
				"PPH_BUILD_OUTPUT":           "from-env.html",
				"PPH_LOGGING_LEVEL":          "debug",
				"PPH_PREVIEW_POLL_INTERVAL":  "3s",
				"PPH_TELEMETRY_TRACE_EXPORTER": "stdout",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env.html", cfg.Build.Output)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 3*time.Second, cfg.Preview.PollInterval)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"PPH_LOGGING_LEVEL": "verbose"},
			wantErr: true,
		},
		{
			name:    "invalid today",
			env:     map[string]string{"PPH_BUILD_TODAY": "08/11/2025"},
			wantErr: true,
		},
		{
			name:        "malformed yaml",
			fileContent: "build: [",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var configFile string
			if tt.fileContent != "" {
				configFile = filepath.Join(t.TempDir(), "pphistory.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))
			} else {
				// keep Load from picking up a config file from the package directory
				t.Chdir(t.TempDir())
			}

			cfg, err := Load(configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestValidate_FileOutputNeedsPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_path")
}

func TestValidate_ReportsFieldNames(t *testing.T) {
	cfg := Default()
	cfg.Build.Input = ""
	cfg.Preview.Addr = "not an address"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Build.Input failed on 'required'")
	assert.Contains(t, err.Error(), "Config.Preview.Addr")
}

func TestReferenceDate(t *testing.T) {
	now := time.Date(2025, 11, 8, 23, 30, 0, 0, time.Local)

	cfg := Default()
	assert.Equal(t, time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC), cfg.ReferenceDate(now))

	cfg.Build.Today = "2024-02-29"
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), cfg.ReferenceDate(now))
}
