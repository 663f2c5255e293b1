package workflow

import (
	"context"
	"testing"

	"github.com/xrsl/reachout/pkg/drafting"
)

func TestRouter(t *testing.T) {
	var got drafting.ContentType
	r := Router{
		drafting.Email: DispatcherFunc(func(_ context.Context, d drafting.Draft, _ string) (string, error) {
			got = d.Type
			return "sent", nil
		}),
	}

	out, err := r.Dispatch(context.Background(), drafting.Draft{Type: drafting.Email}, "")
	if err != nil || out != "sent" || got != drafting.Email {
		t.Errorf("email route: out=%q err=%v got=%q", out, err, got)
	}

	if _, err := r.Dispatch(context.Background(), drafting.Draft{Type: drafting.Message}, ""); err == nil {
		t.Error("expected error for a type without a route")
	}
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	var k keyedMutex
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	if len(k.locks) != 2 {
		t.Errorf("locks = %d", len(k.locks))
	}
	unlockA()
	unlockB()
	if len(k.locks) != 0 {
		t.Errorf("locks not released: %d", len(k.locks))
	}
}

func TestStateClone(t *testing.T) {
	title := "hr@acme.io"
	s := &State{
		SessionID: "s",
		Draft:     &drafting.Draft{Type: drafting.Email, Body: "a"},
		Context:   &drafting.Context{HREmail: &title, Generated: drafting.GeneratedContext{KeySkillAlignment: []string{"Go"}}},
	}
	c := s.Clone()
	c.Draft.Body = "b"
	*c.Context.HREmail = "other"
	c.Context.Generated.KeySkillAlignment[0] = "Rust"

	if s.Draft.Body != "a" || *s.Context.HREmail != "hr@acme.io" || s.Context.Generated.KeySkillAlignment[0] != "Go" {
		t.Error("Clone shares memory with the original")
	}
}
