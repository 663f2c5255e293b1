package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the user-facing configuration stored in .reachout.yaml
type Config struct {
	Agent              string     `mapstructure:"agent" yaml:"agent,omitempty"`
	CandidateName      string     `mapstructure:"candidate_name" yaml:"candidate_name,omitempty"`
	Signature          string     `mapstructure:"signature" yaml:"signature,omitempty"`
	ReferencePath      string     `mapstructure:"reference_path" yaml:"reference_path,omitempty"`
	StorePath          string     `mapstructure:"store_path" yaml:"store_path,omitempty"`
	EmailPlaceholder   string     `mapstructure:"email_placeholder" yaml:"email_placeholder,omitempty"`
	MessagePlaceholder string     `mapstructure:"message_placeholder" yaml:"message_placeholder,omitempty"`
	DispatchAll        bool       `mapstructure:"dispatch_all" yaml:"dispatch_all,omitempty"`
	ExportDir          string     `mapstructure:"export_dir" yaml:"export_dir,omitempty"`
	ContextCache       bool       `mapstructure:"context_cache" yaml:"context_cache"`
	WebSearch          bool       `mapstructure:"web_search" yaml:"web_search"`
	Repo               string     `mapstructure:"repo" yaml:"repo,omitempty"`
	SMTP               SMTPConfig `mapstructure:"smtp" yaml:"smtp,omitempty"`
}

// SMTPConfig holds mail delivery settings. Secrets usually come from the
// environment (EMAIL_HOST, EMAIL_PORT, EMAIL_USER, EMAIL_PASSWORD).
type SMTPConfig struct {
	Host     string `mapstructure:"host" yaml:"host,omitempty"`
	Port     string `mapstructure:"port" yaml:"port,omitempty"`
	User     string `mapstructure:"user" yaml:"user,omitempty"`
	Password string `mapstructure:"password" yaml:"-"`
	From     string `mapstructure:"from" yaml:"from,omitempty"`
}

const (
	DefaultAgent              = "claude-sonnet-4"
	DefaultStorePath          = ".reachout/sessions.db"
	DefaultExportDir          = ".reachout/out"
	DefaultEmailPlaceholder   = "hiring@company.com"
	DefaultMessagePlaceholder = "Hiring Manager – LinkedIn"
)

// keys that can be read and written with Get/Set
var settableKeys = []string{
	"agent", "candidate_name", "signature", "reference_path", "store_path",
	"email_placeholder", "message_placeholder", "dispatch_all", "export_dir",
	"context_cache", "web_search", "repo", "smtp.host", "smtp.port", "smtp.user", "smtp.from",
}

var (
	configFile = ".reachout.yaml"
	v          *viper.Viper
)

func init() {
	v = newViper(configFile)
	// Missing config file is fine, defaults and env still apply
	_ = v.ReadInConfig()
}

func newViper(path string) *viper.Viper {
	nv := viper.New()
	nv.SetConfigFile(path)
	nv.SetConfigType("yaml")

	nv.SetDefault("agent", DefaultAgent)
	nv.SetDefault("store_path", DefaultStorePath)
	nv.SetDefault("export_dir", DefaultExportDir)
	nv.SetDefault("email_placeholder", DefaultEmailPlaceholder)
	nv.SetDefault("message_placeholder", DefaultMessagePlaceholder)
	nv.SetDefault("context_cache", true)
	nv.SetDefault("web_search", true)

	nv.SetEnvPrefix("REACHOUT")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	// Same variable names the mail sender has always used
	_ = nv.BindEnv("smtp.host", "REACHOUT_SMTP_HOST", "EMAIL_HOST")
	_ = nv.BindEnv("smtp.port", "REACHOUT_SMTP_PORT", "EMAIL_PORT")
	_ = nv.BindEnv("smtp.user", "REACHOUT_SMTP_USER", "EMAIL_USER")
	_ = nv.BindEnv("smtp.password", "REACHOUT_SMTP_PASSWORD", "EMAIL_PASSWORD")
	_ = nv.BindEnv("smtp.from", "REACHOUT_SMTP_FROM", "EMAIL_FROM")
	return nv
}

// Path returns the config file path
func Path() string {
	return configFile
}

// Load returns the merged config (file, env, defaults)
func Load() (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	return &cfg, nil
}

func isSettable(key string) bool {
	for _, k := range settableKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns a single config value as a string
func Get(key string) (string, error) {
	if !isSettable(key) {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return v.GetString(key), nil
}

// Set writes a config value to the config file
func Set(key, value string) error {
	if !isSettable(key) {
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(settableKeys, ", "))
	}

	switch key {
	case "dispatch_all", "context_cache", "web_search":
		switch strings.ToLower(value) {
		case "true", "yes", "1", "on":
			v.Set(key, true)
		case "false", "no", "0", "off":
			v.Set(key, false)
		default:
			return fmt.Errorf("%s expects a boolean, got %q", key, value)
		}
	default:
		v.Set(key, value)
	}

	cfg, err := Load()
	if err != nil {
		return err
	}
	return writeConfig(cfg)
}

// All returns every settable key with its current value, sorted by key
func All() map[string]string {
	out := make(map[string]string, len(settableKeys))
	for _, k := range settableKeys {
		out[k] = v.GetString(k)
	}
	return out
}

// Keys returns the settable keys in display order
func Keys() []string {
	keys := append([]string(nil), settableKeys...)
	sort.Strings(keys)
	return keys
}

// Save writes the full config
func Save(c *Config) error {
	return writeConfig(c)
}

func writeConfig(cfg *Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(configFile, buf.Bytes(), 0o644)
}

// ResetForTest points config at a fresh file under dir (only use in tests)
func ResetForTest(dir string) {
	configFile = dir + "/.reachout.yaml"
	v = newViper(configFile)
}
