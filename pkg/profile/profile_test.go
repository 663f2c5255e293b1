package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b_projects.md", "Built a Go payment gateway.\n")
	write(t, dir, "a_resume.txt", "  Ada Lovelace, engineer  ")
	write(t, dir, "photo.png", "binary")
	write(t, dir, "empty.md", "   \n")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	write(t, filepath.Join(dir, "sub"), "nested.md", "ignored")

	docs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2: %+v", len(docs), docs)
	}
	if docs[0].Name != "a_resume.txt" || docs[0].Text != "Ada Lovelace, engineer" {
		t.Errorf("docs[0] = %+v", docs[0])
	}
	if docs[1].Name != "b_projects.md" {
		t.Errorf("docs[1] = %+v", docs[1])
	}
}

func TestLoadFile(t *testing.T) {
	path := write(t, t.TempDir(), "cv.md", "CV text")
	docs, err := Load(path)
	if err != nil || len(docs) != 1 || docs[0].Text != "CV text" {
		t.Errorf("Load(file) = %+v, %v", docs, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestBuild(t *testing.T) {
	got := Build("Ada", []Document{{Text: "one"}, {Text: "two"}})
	if !strings.HasPrefix(got, "USER PROFILE CONTEXT\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "Candidate: Ada\n") {
		t.Errorf("missing candidate line: %q", got)
	}
	if !strings.HasSuffix(got, "one"+Separator+"two") {
		t.Errorf("documents not joined with separator: %q", got)
	}

	if Build("Ada", nil) != "" {
		t.Error("no documents should yield empty profile")
	}
	if strings.Contains(Build("", []Document{{Text: "x"}}), "Candidate:") {
		t.Error("candidate line should be omitted without a name")
	}
}

func TestFromPath(t *testing.T) {
	if got, err := FromPath("Ada", ""); got != "" || err != nil {
		t.Errorf("FromPath(\"\") = %q, %v", got, err)
	}
	dir := t.TempDir()
	write(t, dir, "cv.md", "CV")
	got, err := FromPath("Ada", dir)
	if err != nil || !strings.HasSuffix(got, "CV") {
		t.Errorf("FromPath = %q, %v", got, err)
	}
}
