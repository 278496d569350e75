// Package validation provides input validation for command-line arguments:
// catalogue file paths and unit expressions.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits on user input to prevent resource exhaustion (CWE-400).
const (
	// MaxCatalogSize is the maximum size of a catalogue file on disk (16 MB).
	MaxCatalogSize = 16 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// MaxExpressionLength is the maximum length of a unit expression in bytes.
	MaxExpressionLength = 1024
)

// Common validation errors.
var (
	ErrEmptyPath         = errors.New("path cannot be empty")
	ErrPathTooLong       = errors.New("path too long")
	ErrInvalidCharacter  = errors.New("invalid character")
	ErrUnsupportedFile   = errors.New("unsupported catalogue file type")
	ErrFileTooLarge      = errors.New("file too large")
	ErrNotRegularFile    = errors.New("not a regular file")
	ErrEmptyExpression   = errors.New("expression cannot be empty")
	ErrExpressionTooLong = errors.New("expression too long")
	ErrInvalidEncoding   = errors.New("expression is not valid UTF-8")
)

// catalogExtensions are the file extensions a catalogue may have, before an
// optional ".xz".
var catalogExtensions = []string{".yaml", ".yml", ".xml"}

// ValidatePath performs path validation without requiring a base directory.
// It checks length limits and invalid characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// ValidateCatalogPath checks that path names an existing regular file with a
// catalogue extension (".yaml", ".yml" or ".xml", optionally followed by
// ".xz") no larger than MaxCatalogSize.
func ValidateCatalogPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	name := strings.TrimSuffix(strings.ToLower(filepath.Base(path)), ".xz")
	supported := false
	for _, ext := range catalogExtensions {
		if strings.HasSuffix(name, ext) {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %s (want .yaml, .yml or .xml, optionally .xz)", ErrUnsupportedFile, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	if info.Size() > MaxCatalogSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, path, info.Size(), MaxCatalogSize)
	}
	return nil
}

// ValidateExpression checks a unit expression supplied on the command line
// before it reaches the parser.
func ValidateExpression(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return ErrEmptyExpression
	}
	if len(expr) > MaxExpressionLength {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrExpressionTooLong, len(expr), MaxExpressionLength)
	}
	if !utf8.ValidString(expr) {
		return ErrInvalidEncoding
	}
	for _, r := range expr {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}
