package ingest

import (
	"path/filepath"
	"strings"

	"github.com/ravisuresh229/bidbook/constants"
)

// Allowed reports whether path has an ingestible extension.
func Allowed(path string) bool {
	return constants.AllowedExt(filepath.Ext(path))
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
