package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Build     BuildConfig     `yaml:"build" envconfig:"BUILD"`
	Site      SiteConfig      `yaml:"site" envconfig:"SITE"`
	Assets    AssetsConfig    `yaml:"assets" envconfig:"ASSETS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Preview   PreviewConfig   `yaml:"preview" envconfig:"PREVIEW"`
}

// BuildConfig describes one batch run
type BuildConfig struct {
	// Input is a .xlsx or .csv path, or gsheet://<spreadsheet-id>/<range>
	Input  string `yaml:"input" envconfig:"INPUT" validate:"required"`
	Sheet  string `yaml:"sheet" envconfig:"SHEET"`
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"required"`
	// CSVOutput mirrors the rendered table as CSV when set
	CSVOutput string `yaml:"csv_output" envconfig:"CSV_OUTPUT"`
	// Snapshot writes a PNG of the built page when set
	Snapshot      string `yaml:"snapshot" envconfig:"SNAPSHOT"`
	SnapshotWidth int    `yaml:"snapshot_width" envconfig:"SNAPSHOT_WIDTH" validate:"gte=320,lte=7680"`
	// Today pins the reference date (YYYY-MM-DD) used for days maintained
	Today string `yaml:"today" envconfig:"TODAY" validate:"omitempty,datetime=2006-01-02"`

	GoogleAPIKey          string `yaml:"google_api_key" envconfig:"GOOGLE_API_KEY"`
	GoogleCredentialsFile string `yaml:"google_credentials_file" envconfig:"GOOGLE_CREDENTIALS_FILE"`
}

// SiteConfig holds the fixed text of the page around the table
type SiteConfig struct {
	Lang        string   `yaml:"lang" envconfig:"LANG" validate:"required"`
	Title       string   `yaml:"title" envconfig:"TITLE" validate:"required"`
	Description string   `yaml:"description" envconfig:"DESCRIPTION"`
	Heading     string   `yaml:"heading" envconfig:"HEADING"`
	AuthorName  string   `yaml:"author_name" envconfig:"AUTHOR_NAME"`
	AuthorURL   string   `yaml:"author_url" envconfig:"AUTHOR_URL" validate:"omitempty,url"`
	Subtitle    []string `yaml:"subtitle" ignored:"true"`
	Stylesheet  string   `yaml:"stylesheet" envconfig:"STYLESHEET"`
	Viewport    string   `yaml:"viewport" envconfig:"VIEWPORT"`
	FooterURL   string   `yaml:"footer_url" envconfig:"FOOTER_URL" validate:"omitempty,url"`
	FooterText  string   `yaml:"footer_text" envconfig:"FOOTER_TEXT"`
}

// AssetsConfig contains the relative asset folders referenced by the page
type AssetsConfig struct {
	ReplayDir  string `yaml:"replay_dir" envconfig:"REPLAY_DIR" validate:"required"`
	FlagDir    string `yaml:"flag_dir" envconfig:"FLAG_DIR" validate:"required"`
	JacketDir  string `yaml:"jacket_dir" envconfig:"JACKET_DIR" validate:"required"`
	ModDir     string `yaml:"mod_dir" envconfig:"MOD_DIR" validate:"required"`
	RefIconDir string `yaml:"ref_icon_dir" envconfig:"REF_ICON_DIR" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	// TraceExporter is "none" or "stdout"
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	// MetricsTextfile receives Prometheus text exposition after a batch run
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// PreviewConfig contains the live preview server configuration
type PreviewConfig struct {
	Addr               string        `yaml:"addr" envconfig:"ADDR" validate:"required,hostname_port"`
	SiteDir            string        `yaml:"site_dir" envconfig:"SITE_DIR" validate:"required"`
	PollInterval       time.Duration `yaml:"poll_interval" envconfig:"POLL_INTERVAL" validate:"gt=0"`
	MinRebuildInterval time.Duration `yaml:"min_rebuild_interval" envconfig:"MIN_REBUILD_INTERVAL" validate:"gte=0"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// Default returns the default configuration. The site text reproduces the
// published record history page.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			Input:         "data.xlsx",
			Output:        "index.html",
			SnapshotWidth: 1280,
		},
		Site: SiteConfig{
			Lang:        "ja",
			Title:       "osu!taiko pp record history",
			Description: "Historical record of osu!taiko top performance points (pp) plays, manually collected by Vanity8.",
			Heading:     "osu!taiko pp record history",
			AuthorName:  "Vanity8",
			AuthorURL:   "https://osu.ppy.sh/users/12029122",
			Subtitle: []string{
				"I manually collect records using web archives, osu! comments, and all kinds of social media.",
				"If you notice any missing information or have replay data, please let me know on my Discord (id: vanity8) and I'll add it.",
			},
			Stylesheet: "style.css",
			Viewport:   "width=1280",
			FooterURL:  "https://github.com/calmeel/osu-taiko-pp-record-history",
			FooterText: "View this project on GitHub",
		},
		Assets: AssetsConfig{
			ReplayDir:  "replays",
			FlagDir:    "icons_flag",
			JacketDir:  "jackets",
			ModDir:     "icons_mod",
			RefIconDir: "ref_icons",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/pphistory.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
		},
		Preview: PreviewConfig{
			Addr:               "127.0.0.1:8080",
			SiteDir:            ".",
			PollInterval:       time.Second,
			MinRebuildInterval: 500 * time.Millisecond,
			ShutdownTimeout:    5 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file (if any),
// then PPH_* environment variables. Environment wins over the file.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func findConfigFile() string {
	locations := []string{
		DefaultConfigFile,
		"configs/" + DefaultConfigFile,
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

var validate = validator.New()

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required when output is %q", c.Logging.Output)
	}
	return nil
}

// ReferenceDate returns the pinned build date, or the local calendar date when unset
func (c *Config) ReferenceDate(now time.Time) time.Time {
	if c.Build.Today != "" {
		if t, err := time.Parse("2006-01-02", c.Build.Today); err == nil {
			return t
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
