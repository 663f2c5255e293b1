package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xrsl/reachout/pkg/config"
	"github.com/xrsl/reachout/pkg/drafting"
	"github.com/xrsl/reachout/pkg/export"
	"github.com/xrsl/reachout/pkg/mail"
	"github.com/xrsl/reachout/pkg/store"
	"github.com/xrsl/reachout/pkg/workflow"
)

func TestDispatcherRouting(t *testing.T) {
	tests := []struct {
		name        string
		dispatchAll bool
		wantTypes   []drafting.ContentType
	}{
		{"email only", false, []drafting.ContentType{drafting.Email}},
		{"dispatch all", true, []drafting.ContentType{drafting.Email, drafting.Message, drafting.CoverLetter}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := dispatcher(&config.Config{DispatchAll: tt.dispatchAll, ExportDir: t.TempDir()})
			if len(r) != len(tt.wantTypes) {
				t.Fatalf("routes = %d, want %d", len(r), len(tt.wantTypes))
			}
			if _, ok := r[drafting.Email].(mail.Dispatcher); !ok {
				t.Errorf("email route = %T", r[drafting.Email])
			}
			for _, ct := range tt.wantTypes[1:] {
				if _, ok := r[ct].(*export.Dispatcher); !ok {
					t.Errorf("%s route = %T", ct, r[ct])
				}
			}
		})
	}
}

func TestResolveAgent(t *testing.T) {
	cfg := &config.Config{Agent: "gemini-2.5-pro"}
	if got := resolveAgent(cfg, "gpt-4o"); got != "gpt-4o" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := resolveAgent(cfg, ""); got != "gemini-2.5-pro" {
		t.Errorf("config should be used, got %q", got)
	}
	if got := resolveAgent(&config.Config{}, ""); got == "" {
		t.Error("fallback agent should not be empty")
	}
}

func TestIdentity(t *testing.T) {
	id := identity(&config.Config{CandidateName: "Ada", Signature: "Best,\nAda", EmailPlaceholder: "jobs@x.io"})
	if id.CandidateName != "Ada" || id.Signature != "Best,\nAda" || id.EmailPlaceholder != "jobs@x.io" {
		t.Errorf("identity = %+v", id)
	}
}

func TestResolveSession(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	ctx := context.Background()
	now := time.Now()
	for _, id := range []string{"3f2a9c1e-aaaa", "3f2b0000-bbbb", "77aa0000-cccc"} {
		if err := st.Put(ctx, &workflow.State{SessionID: id, Step: workflow.StepReview, CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatal(err)
		}
	}
	a := &app{store: st}

	tests := []struct {
		arg     string
		want    string
		wantErr error
	}{
		{arg: "77aa0000-cccc", want: "77aa0000-cccc"},
		{arg: "77", want: "77aa0000-cccc"},
		{arg: "3f2a", want: "3f2a9c1e-aaaa"},
		{arg: "3f2"},
		{arg: "zz", wantErr: workflow.ErrSessionNotFound},
	}
	for _, tt := range tests {
		got, err := a.resolveSession(ctx, tt.arg)
		switch {
		case tt.want != "":
			if err != nil || got != tt.want {
				t.Errorf("resolveSession(%q) = %q, %v; want %q", tt.arg, got, err, tt.want)
			}
		case tt.wantErr != nil:
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("resolveSession(%q) err = %v, want %v", tt.arg, err, tt.wantErr)
			}
		default:
			if err == nil {
				t.Errorf("resolveSession(%q) should be ambiguous, got %q", tt.arg, got)
			}
		}
	}

	var ve *workflow.ValidationError
	if _, err := a.resolveSession(ctx, " "); !errors.As(err, &ve) {
		t.Errorf("blank id err = %v", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"Backend Engineer @ Acme", 10, "Backend E…"},
		{"Ingénieur données", 9, "Ingénieu…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestAgo(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5*time.Minute - time.Second), "5m ago"},
		{now.Add(-3*time.Hour - time.Second), "3h ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := ago(tt.t); got != tt.want {
			t.Errorf("ago(%v) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
	old := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)
	if got := ago(old); got != "2024-01-02" {
		t.Errorf("ago(old) = %q", got)
	}
}

func TestRoleAndShortID(t *testing.T) {
	s := &workflow.State{SessionID: "0123456789abcdef"}
	if role(s) != "-" {
		t.Errorf("role without context = %q", role(s))
	}
	s.Context = &drafting.Context{JobTitle: "SRE", CompanyName: "Acme"}
	if role(s) != "SRE @ Acme" {
		t.Errorf("role = %q", role(s))
	}
	if shortID(s.SessionID) != "01234567" || shortID("abc") != "abc" {
		t.Error("shortID wrong")
	}
}
