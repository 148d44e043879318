package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/jsongraph/pkg/errors"
)

// readFile reads a local input file, mapping a missing file to
// FILE_NOT_FOUND.
func readFile(name string) (string, error) {
	if err := errors.ValidatePath(name); err != nil {
		return "", err
	}
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return "", errors.New(errors.ErrCodeFileNotFound, "file not found: %s", name)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", name)
	}
	return string(data), nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// formatFromPath infers an output format from a file extension.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "yml":
		return formatYAML
	case "gv":
		return formatDOT
	}
	return ext
}
