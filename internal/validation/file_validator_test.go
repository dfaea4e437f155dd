package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("test"), 0644))
	return path
}

func TestFileValidator_ValidateInputFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name:      "workbook",
			setupFunc: func(t *testing.T) string { return writeFile(t, "data.xlsx") },
		},
		{
			name:      "macro workbook",
			setupFunc: func(t *testing.T) string { return writeFile(t, "data.XLSM") },
		},
		{
			name:      "csv",
			setupFunc: func(t *testing.T) string { return writeFile(t, "data.csv") },
		},
		{
			name:      "google sheet",
			setupFunc: func(t *testing.T) string { return "gsheet://abc123/Sheet1" },
		},
		{
			name:          "google sheet without id",
			setupFunc:     func(t *testing.T) string { return "gsheet://" },
			wantErr:       true,
			errorContains: "no spreadsheet id",
		},
		{
			name:          "legacy xls",
			setupFunc:     func(t *testing.T) string { return writeFile(t, "data.xls") },
			wantErr:       true,
			errorContains: "not a supported input",
		},
		{
			name:          "temp Excel file",
			setupFunc:     func(t *testing.T) string { return writeFile(t, "~$data.xlsx") },
			wantErr:       true,
			errorContains: "temporary",
		},
		{
			name:          "non-existent file",
			setupFunc:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.xlsx") },
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "data.csv")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			err := validator.ValidateInputFile(tt.setupFunc(t))

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)
	dir := filepath.Join(t.TempDir(), "new", "nested", "dir")

	require.NoError(t, validator.ValidateOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe must be removed")
}

func TestFileValidator_ValidateOutputFile(t *testing.T) {
	validator := NewFileValidator(nil)
	base := t.TempDir()

	assert.NoError(t, validator.ValidateOutputFile(filepath.Join(base, "site", "index.html")))

	err := validator.ValidateOutputFile(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
