package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Exporter writes a fixture to a file
type Exporter interface {
	Export(path string, f *Fixture) error
}

// ExporterFunc is a function that implements Exporter
type ExporterFunc func(path string, f *Fixture) error

func (fn ExporterFunc) Export(path string, f *Fixture) error {
	return fn(path, f)
}

// exporters is the registry of available output formats
var exporters = map[string]Exporter{}

// RegisterExporter registers an exporter with the given format name
func RegisterExporter(name string, e Exporter) {
	exporters[name] = e
}

// GetExporter returns the exporter for the given format
func GetExporter(format string) (Exporter, error) {
	e, ok := exporters[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s (available: %v)", format, AvailableFormats())
	}
	return e, nil
}

// AvailableFormats returns the registered format names, sorted
func AvailableFormats() []string {
	var formats []string
	for name := range exporters {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

// IsKnownExporter returns true if the name is a registered format
func IsKnownExporter(name string) bool {
	_, ok := exporters[name]
	return ok
}

// ParseOutputArg splits an output argument that may carry a format prefix.
// Without a known prefix the format is inferred from the file extension.
// Example: "xlsx:fixture.xlsx" → ("xlsx", "fixture.xlsx")
// Example: "fixture.db" → ("sqlite", "fixture.db")
// Example: "C:\out\data.json" → ("json", "C:\out\data.json") // Windows path
func ParseOutputArg(arg string) (format, path string) {
	if idx := strings.Index(arg, ":"); idx != -1 {
		prefix := arg[:idx]
		if IsKnownExporter(prefix) {
			return prefix, arg[idx+1:]
		}
	}
	return FormatForPath(arg), arg
}

// FormatForPath infers the output format from a file extension, defaulting to json
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return "xlsx"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	default:
		return "json"
	}
}

// WriteJSON encodes the fixture with two-space indentation. Non-ASCII text
// and characters like '&' are written as-is.
func WriteJSON(w io.Writer, f *Fixture) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding fixture: %w", err)
	}
	return nil
}

// ExportJSON writes the fixture to path. It writes to a temporary file in the
// same directory first so a failed run never leaves a truncated fixture.
func ExportJSON(path string, f *Fixture) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".fixture-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(tmp, f); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	return nil
}

// ReadFixture parses a JSON fixture file
func ReadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return &f, nil
}

func init() {
	RegisterExporter("json", ExporterFunc(ExportJSON))
}
