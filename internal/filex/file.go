// Package filex contains the file-system helpers used for uploads: directory
// setup, safe file naming and streaming an upload to disk.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var whitespace = regexp.MustCompile(`\s+`)

// EnsureDir creates dir (and parents) if needed and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// SanitizeName strips any directory part from an uploaded file name and
// replaces runs of whitespace with a single underscore.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	return name
}

// TimestampedName prefixes the sanitized name with the unix time in
// milliseconds: "1700000000000-my_house.jpg".
func TimestampedName(now time.Time, original string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), SanitizeName(original))
}

// WriteNew streams r into dir/name. The file must not exist yet; the partial
// file is removed if copying fails. Returns the full path.
func WriteNew(dir, name string, r io.Reader) (string, error) {
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	return path, nil
}
