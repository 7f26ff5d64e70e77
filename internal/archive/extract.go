// Package archive extracts bounded, prompt-sized text fragments from zip uploads.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/skill-passport/internal/types"
)

const (
	// DefaultPerFileCap is the maximum number of characters kept from one entry.
	DefaultPerFileCap = 2000
	// DefaultTotalBudget is the maximum number of characters returned across all entries.
	DefaultTotalBudget = 12000
	// minContentChars drops entries that are essentially empty after trimming.
	minContentChars = 20
)

// Options controls which entries are kept and how much text is returned.
type Options struct {
	AllowedExtensions map[string]bool
	BlockedPaths      []string
	PerFileCap        int
	TotalBudget       int
}

// DefaultOptions returns the standard extraction limits.
func DefaultOptions() Options {
	return Options{
		AllowedExtensions: map[string]bool{
			".md": true, ".txt": true,
			".js": true, ".jsx": true, ".ts": true, ".tsx": true,
			".py": true, ".java": true, ".go": true,
			".json": true, ".yml": true, ".yaml": true,
		},
		BlockedPaths: []string{"node_modules/", "dist/", "build/", ".git/", ".next/", "coverage/"},
		PerFileCap:   DefaultPerFileCap,
		TotalBudget:  DefaultTotalBudget,
	}
}

// FormatError is returned when the buffer is not a readable zip archive.
type FormatError struct {
	Cause error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid zip archive: %v", e.Cause)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// Extract reads a zip archive and returns text fragments in archive order using DefaultOptions.
func Extract(data []byte) ([]types.SourceFile, error) {
	return ExtractWithOptions(data, DefaultOptions())
}

// ExtractWithOptions reads a zip archive and returns text fragments in archive order.
// The combined content length (in characters) never exceeds opts.TotalBudget.
func ExtractWithOptions(data []byte, opts Options) ([]types.SourceFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	// Entries are never written to disk, so insecure names are only filtered, not rejected.
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && reader != nil) {
		return nil, &FormatError{Cause: err}
	}

	var files []types.SourceFile
	used := 0

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		name := strings.ReplaceAll(entry.Name, "\\", "/")
		if strings.HasSuffix(name, "/") || isBlocked(name, opts.BlockedPaths) {
			continue
		}
		if !opts.AllowedExtensions[strings.ToLower(path.Ext(name))] {
			continue
		}

		content, err := readEntry(entry, opts.PerFileCap)
		if err != nil {
			return nil, &FormatError{Cause: fmt.Errorf("%s: %w", name, err)}
		}
		if utf8.RuneCountInString(strings.TrimSpace(content)) < minContentChars {
			continue
		}

		remaining := opts.TotalBudget - used
		if remaining <= 0 {
			break
		}

		chunk := truncateRunes(content, remaining)
		used += utf8.RuneCountInString(chunk)
		files = append(files, types.SourceFile{Path: name, Content: chunk})
	}

	return files, nil
}

// isBlocked reports whether the path contains any blocked folder marker.
func isBlocked(name string, blocked []string) bool {
	for _, b := range blocked {
		if strings.Contains(name, b) {
			return true
		}
	}
	return false
}

// readEntry decodes an entry as text and keeps at most capChars characters.
// Only enough bytes to cover the cap are read.
func readEntry(entry *zip.File, capChars int) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	// A rune is at most utf8.UTFMax bytes.
	raw, err := io.ReadAll(io.LimitReader(rc, int64(capChars*utf8.UTFMax)))
	if err != nil {
		return "", err
	}
	return truncateRunes(strings.ToValidUTF8(string(raw), "�"), capChars), nil
}

// truncateRunes returns at most n characters of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
