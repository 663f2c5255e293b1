package prompts

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

//go:embed defaults/*.md
var defaults embed.FS

const (
	Context     = "context"
	Email       = "email"
	Message     = "message"
	CoverLetter = "cover_letter"
	Verify      = "verify"

	// DefaultDir holds user overrides
	DefaultDir = ".reachout/prompts"
)

// Library resolves prompt templates, preferring files in Dir over the embedded defaults.
type Library struct {
	Dir string
}

// New returns a library reading overrides from dir ("" disables overrides).
func New(dir string) *Library {
	return &Library{Dir: dir}
}

// Names returns the names of all embedded prompts, sorted
func Names() []string {
	entries, _ := fs.ReadDir(defaults, "defaults")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Default returns the embedded source of a prompt
func Default(name string) (string, error) {
	data, err := defaults.ReadFile("defaults/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return string(data), nil
}

// Source returns the raw template for name and whether it came from an override file.
func (l *Library) Source(name string) (string, bool, error) {
	if l.Dir != "" {
		data, err := os.ReadFile(filepath.Join(l.Dir, name+".md"))
		if err == nil {
			return string(data), true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, fmt.Errorf("read prompt override: %w", err)
		}
	}
	src, err := Default(name)
	return src, false, err
}

// Render executes the named template with data and returns the text
// together with its version identifier.
func (l *Library) Render(name string, data any) (string, string, error) {
	src, _, err := l.Source(name)
	if err != nil {
		return "", "", err
	}

	tmpl, err := template.New(name).Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", "", fmt.Errorf("parse prompt %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), Version(name, src), nil
}

// Version identifies a template source as "<name>:<first 8 hex chars of sha256>"
func Version(name, src string) string {
	sum := sha256.Sum256([]byte(src))
	return name + ":" + hex.EncodeToString(sum[:])[:8]
}

// WriteDefaults copies the embedded prompts into dir. Existing files are
// left alone unless overwrite is set.
func WriteDefaults(dir string, overwrite bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range Names() {
		path := filepath.Join(dir, name+".md")
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				continue
			}
		}
		src, err := Default(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			return err
		}
	}
	return nil
}
