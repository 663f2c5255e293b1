package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	ResetForTest(t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if c.Agent != DefaultAgent {
		t.Errorf("Agent = %q, want %q", c.Agent, DefaultAgent)
	}
	if c.StorePath != DefaultStorePath {
		t.Errorf("StorePath = %q, want %q", c.StorePath, DefaultStorePath)
	}
	if c.EmailPlaceholder != DefaultEmailPlaceholder {
		t.Errorf("EmailPlaceholder = %q, want %q", c.EmailPlaceholder, DefaultEmailPlaceholder)
	}
	if !c.ContextCache {
		t.Error("ContextCache should default to true")
	}
	if !c.WebSearch {
		t.Error("WebSearch should default to true")
	}
	if c.DispatchAll {
		t.Error("DispatchAll should default to false")
	}
}

func TestSetAndGet(t *testing.T) {
	dir := t.TempDir()
	ResetForTest(dir)

	if err := Set("candidate_name", "Ada Lovelace"); err != nil {
		t.Fatalf("Set candidate_name: %v", err)
	}
	if err := Set("agent", "gemini-2.5-pro"); err != nil {
		t.Fatalf("Set agent: %v", err)
	}

	got, err := Get("candidate_name")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "Ada Lovelace" {
		t.Errorf("candidate_name = %q", got)
	}

	data, err := os.ReadFile(Path())
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "candidate_name: Ada Lovelace") {
		t.Errorf("config file missing value:\n%s", data)
	}

	// A fresh viper reading the same file sees the values
	ResetForTest(dir)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	c, _ := Load()
	if c.Agent != "gemini-2.5-pro" {
		t.Errorf("Agent after reload = %q", c.Agent)
	}
}

func TestSetBool(t *testing.T) {
	ResetForTest(t.TempDir())

	if err := Set("dispatch_all", "yes"); err != nil {
		t.Fatalf("Set dispatch_all: %v", err)
	}
	c, _ := Load()
	if !c.DispatchAll {
		t.Error("DispatchAll should be true")
	}

	if err := Set("dispatch_all", "maybe"); err == nil {
		t.Error("expected error for non-boolean value")
	}
}

func TestDisableDefaultOnSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	ResetForTest(dir)

	for _, key := range []string{"web_search", "context_cache"} {
		if err := Set(key, "off"); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	ResetForTest(dir)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	c, _ := Load()
	if c.WebSearch || c.ContextCache {
		t.Errorf("after reload web_search=%t context_cache=%t, want both false", c.WebSearch, c.ContextCache)
	}
}

func TestInvalidKeys(t *testing.T) {
	ResetForTest(t.TempDir())

	if err := Set("invalid_key", "value"); err == nil {
		t.Error("expected error for invalid key on Set")
	}
	if _, err := Get("invalid_key"); err == nil {
		t.Error("expected error for invalid key on Get")
	}
	if _, err := Get("smtp.password"); err == nil {
		t.Error("smtp.password must not be readable through Get")
	}
}

func TestSMTPFromEnvironment(t *testing.T) {
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_PORT", "587")
	t.Setenv("EMAIL_USER", "me@example.com")
	t.Setenv("EMAIL_PASSWORD", "secret")
	ResetForTest(t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.SMTP.Host != "smtp.example.com" || c.SMTP.Port != "587" {
		t.Errorf("SMTP host/port = %q/%q", c.SMTP.Host, c.SMTP.Port)
	}
	if c.SMTP.Password != "secret" {
		t.Error("SMTP password not read from EMAIL_PASSWORD")
	}
	if c.SMTP.From != "me@example.com" {
		t.Errorf("From should default to user, got %q", c.SMTP.From)
	}
}
