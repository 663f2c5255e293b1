package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const key = "0123456789abcdef0123456789abcdef"

func TestPutGet(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "nested", "cache"))

	if _, ok := d.Get(key); ok {
		t.Fatal("empty cache should miss")
	}
	if err := d.Put(key, []byte(`{"job_title":"Engineer"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := d.Get(key)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if string(got) != `{"job_title":"Engineer"}` {
		t.Errorf("Get = %s", got)
	}
	if !d.Exists(key) {
		t.Error("Exists should be true")
	}

	// overwrite
	if err := d.Put(key, []byte(`{}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if got, _ := d.Get(key); string(got) != "{}" {
		t.Errorf("after overwrite Get = %s", got)
	}
}

func TestInvalidKeys(t *testing.T) {
	d := New(t.TempDir())
	for _, k := range []string{"", "../escape", "ABCDEF0123456789", "short"} {
		if err := d.Put(k, []byte("x")); err == nil {
			t.Errorf("Put(%q) should fail", k)
		}
		if _, ok := d.Get(k); ok {
			t.Errorf("Get(%q) should miss", k)
		}
	}
}

func TestNoTempFilesLeft(t *testing.T) {
	root := t.TempDir()
	d := New(root)
	if err := d.Put(key, []byte("data")); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(root)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestClear(t *testing.T) {
	root := t.TempDir()
	d := New(root)
	old := strings.Repeat("a", 32)
	fresh := strings.Repeat("b", 32)
	for _, k := range []string{old, fresh} {
		if err := d.Put(k, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(d.Path(old), past, past); err != nil {
		t.Fatal(err)
	}

	n, err := d.Clear(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 1 || d.Exists(old) || !d.Exists(fresh) {
		t.Errorf("Clear removed %d, old exists=%v fresh exists=%v", n, d.Exists(old), d.Exists(fresh))
	}

	n, _ = d.Clear(time.Time{})
	if n != 1 || d.Exists(fresh) {
		t.Errorf("Clear(zero) removed %d", n)
	}
}

func TestClearMissingDir(t *testing.T) {
	n, err := New(filepath.Join(t.TempDir(), "absent")).Clear(time.Time{})
	if err != nil || n != 0 {
		t.Errorf("Clear on missing dir = %d, %v", n, err)
	}
}

func TestDefaultDir(t *testing.T) {
	if got := New("").Path(key); got != filepath.Join(DefaultDir, key+".json") {
		t.Errorf("Path = %q", got)
	}
}
