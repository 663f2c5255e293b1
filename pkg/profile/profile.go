// Package profile assembles the candidate's reference documents into the
// user context handed to the context synthesizer.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Separator joins documents in the assembled profile
const Separator = "\n\n---\n\n"

// Extensions lists the file types read from a reference directory
var Extensions = []string{".md", ".markdown", ".txt"}

// Document is one reference file
type Document struct {
	Name string
	Text string
}

// Load reads path, which may be a single file or a directory. Directories are
// read non-recursively in name order; unsupported and empty files are skipped.
func Load(path string) ([]Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reference path: %w", err)
	}
	if !info.IsDir() {
		doc, err := readDoc(path)
		if err != nil {
			return nil, err
		}
		if doc.Text == "" {
			return nil, nil
		}
		return []Document{doc}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var docs []Document
	for _, e := range entries {
		if e.IsDir() || !supported(e.Name()) {
			continue
		}
		doc, err := readDoc(filepath.Join(path, e.Name()))
		if err != nil {
			return nil, err
		}
		if doc.Text != "" {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func readDoc(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Document{Name: filepath.Base(path), Text: strings.TrimSpace(string(data))}, nil
}

// Build renders the profile. No documents yields "".
func Build(candidate string, docs []Document) string {
	if len(docs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("USER PROFILE CONTEXT\n")
	b.WriteString("====================\n")
	if candidate != "" {
		fmt.Fprintf(&b, "Candidate: %s\n", candidate)
	}
	b.WriteString("This file contains consolidated personal data for downstream LLM agents.\n\n")

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	b.WriteString(strings.Join(texts, Separator))
	return b.String()
}

// FromPath loads and builds in one step. An empty path yields "".
func FromPath(candidate, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	docs, err := Load(path)
	if err != nil {
		return "", err
	}
	return Build(candidate, docs), nil
}
