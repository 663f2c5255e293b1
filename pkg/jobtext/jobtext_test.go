package jobtext

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const page = `<html>
<head><title>Jobs</title><style>.x{color:red}</style><script>var tracking = 1;</script></head>
<body>
<header>Acme Careers</header>
<nav>Home | Jobs</nav>
<main>
  <h1>Backend Engineer</h1>
  <p>We build   payment rails in Go.</p>

  <ul><li>Postgres</li><li>Kubernetes</li></ul>
</main>
<footer>© Acme</footer>
</body></html>`

func TestCleanHTML(t *testing.T) {
	got, err := CleanHTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("CleanHTML: %v", err)
	}
	want := "Backend Engineer\nWe build   payment rails in Go.\nPostgresKubernetes"
	if got != want {
		t.Errorf("CleanHTML =\n%q\nwant\n%q", got, want)
	}
	for _, banned := range []string{"tracking", "Acme Careers", "Home | Jobs", "© Acme", "color:red"} {
		if strings.Contains(got, banned) {
			t.Errorf("output contains %q", banned)
		}
	}
}

func TestCleanHTMLWithoutMain(t *testing.T) {
	got, err := CleanHTML(strings.NewReader(`<body><nav>menu</nav><div>Role: SRE</div></body>`))
	if err != nil {
		t.Fatal(err)
	}
	if got != "Role: SRE" {
		t.Errorf("got %q", got)
	}
}

func TestLoadURL(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/job":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(page))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("plain posting"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := New("reachout/test")
	got, err := f.Load(context.Background(), srv.URL+"/job")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.HasPrefix(got, "Backend Engineer") {
		t.Errorf("got %q", got)
	}
	if ua != "reachout/test" {
		t.Errorf("User-Agent = %q", ua)
	}

	if got, _ := f.Load(context.Background(), srv.URL+"/plain"); got != "plain posting" {
		t.Errorf("plain text = %q", got)
	}

	if _, err := f.Load(context.Background(), srv.URL+"/missing"); err == nil || !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("err = %v, want HTTP 404", err)
	}
}

func TestLoadFileAndStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.md")
	if err := os.WriteFile(path, []byte("Staff Engineer at Initech"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := New("")
	f.Stdin = strings.NewReader("from stdin")

	tests := []struct {
		src     string
		want    string
		wantErr bool
	}{
		{src: path, want: "Staff Engineer at Initech"},
		{src: "-", want: "from stdin"},
		{src: filepath.Join(t.TempDir(), "absent.md"), wantErr: true},
	}
	for _, tt := range tests {
		got, err := f.Load(context.Background(), tt.src)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Load(%s) expected error", tt.src)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Load(%s) = %q, %v", tt.src, got, err)
		}
	}
}

func TestLoadEmpty(t *testing.T) {
	f := New("")
	f.Stdin = strings.NewReader("  \n\t")
	if _, err := f.Load(context.Background(), "-"); err == nil || !strings.Contains(err.Error(), "stdin is empty") {
		t.Errorf("err = %v", err)
	}
}

type fakeGH struct{ data string }

func (f fakeGH) IssueView(context.Context, string, int, []string) ([]byte, error) {
	return []byte(f.data), nil
}

func TestFromIssue(t *testing.T) {
	f := &Fetcher{GitHub: fakeGH{data: `{"number": 3, "title": "Go dev @ Acme", "body": "Build things"}`}}
	got, err := f.FromIssue(context.Background(), "me/jobs", 3)
	if err != nil {
		t.Fatalf("FromIssue: %v", err)
	}
	if got != "# Go dev @ Acme\n\nBuild things" {
		t.Errorf("got %q", got)
	}

	f.GitHub = fakeGH{data: `{"number": 4, "title": "Empty"}`}
	if _, err := f.FromIssue(context.Background(), "me/jobs", 4); err == nil {
		t.Error("expected error for issue without body")
	}
}

func TestIsURL(t *testing.T) {
	for src, want := range map[string]bool{
		"https://acme.io/jobs/1": true,
		"http://x":               true,
		"job.md":                 false,
		"-":                      false,
	} {
		if IsURL(src) != want {
			t.Errorf("IsURL(%q) = %v", src, !want)
		}
	}
}
