package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// RemoteScheme marks inputs that are not local files
const RemoteScheme = "gsheet://"

// supportedInputs are the local input extensions
var supportedInputs = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".csv":  true,
}

// FileValidator checks input and output paths before a build starts
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that input is a readable workbook or CSV file.
// Remote inputs are accepted without checks.
func (v *FileValidator) ValidateInputFile(input string) error {
	if strings.HasPrefix(input, RemoteScheme) {
		if strings.TrimPrefix(input, RemoteScheme) == "" {
			return fmt.Errorf("input %s has no spreadsheet id", input)
		}
		return nil
	}

	ext := strings.ToLower(filepath.Ext(input))
	if !supportedInputs[ext] {
		v.logger.Error("Unsupported input file",
			slog.String("file", input),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not a supported input (extension: %s)", input, ext)
	}

	// Excel lock files share the workbook's extension
	if strings.HasPrefix(filepath.Base(input), "~$") {
		v.logger.Warn("Rejecting temporary Excel file",
			slog.String("file", input))
		return fmt.Errorf("file %s is a temporary Excel file", input)
	}

	return v.ValidateFile(input)
}

// ValidateOutputFile checks that the directory of an output file is writable
func (v *FileValidator) ValidateOutputFile(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("output %s is a directory", path)
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	file, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(file.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
