// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/psy-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete psy configuration.
type Config struct {
	Version string `toml:"version"`

	// Pager tuning for the swipe navigation
	Pager PagerConfig `toml:"pager"`

	// Chat backend configuration
	Chat ChatConfig `toml:"chat"`

	// HTTP chat proxy configuration (psy serve)
	Server ServerConfig `toml:"server"`

	// Journal storage configuration
	Journal JournalConfig `toml:"journal"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Log configuration
	Log LogConfig `toml:"log"`

	warnings []string
}

// PagerConfig contains the swipe navigation tuning.
type PagerConfig struct {
	// ThresholdFraction is the share of the terminal width a drag must cover to change page.
	ThresholdFraction float64 `toml:"threshold_fraction"`
	// VelocityThreshold is the release speed in columns per second that changes page
	// regardless of distance.
	VelocityThreshold float64 `toml:"velocity_threshold"`
	// ElasticOverscrollLimit caps how far past the first/last page the strip can be pulled.
	ElasticOverscrollLimit float64 `toml:"elastic_overscroll_limit"`
	// InitialPage is the zero-based page shown on start.
	InitialPage int      `toml:"initial_page"`
	PageNames   []string `toml:"page_names"`
	// DirectionLock ignores drags that start out vertical.
	DirectionLock bool `toml:"direction_lock"`
	// FPS is the animation frame rate.
	FPS    int          `toml:"fps"`
	Spring SpringConfig `toml:"spring"`
}

// SpringConfig contains the page transition spring parameters.
type SpringConfig struct {
	Stiffness float64 `toml:"stiffness"`
	Damping   float64 `toml:"damping"`
	Mass      float64 `toml:"mass"`
}

// ChatConfig contains the chat backend configuration.
type ChatConfig struct {
	// Provider is one of "ollama", "openai" (any OpenAI compatible API) or
	// "remote" (a running psy serve instance).
	Provider string `toml:"provider"`
	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`
	// Model overrides the provider's default model.
	Model  string `toml:"model"`
	APIKey string `toml:"api_key"`
	// Endpoint is the chat URL used by the "remote" provider.
	Endpoint     string  `toml:"endpoint"`
	Temperature  float64 `toml:"temperature"`
	MaxTokens    int     `toml:"max_tokens"`
	TopP         float64 `toml:"top_p"`
	SystemPrompt string  `toml:"system_prompt"`
	TimeoutSecs  int     `toml:"timeout_secs"`
	// MaxRetries is the number of attempts the openai provider makes on
	// rate limits and server errors.
	MaxRetries int `toml:"max_retries"`
	// RetryBackoffMS is the base delay between those attempts; it doubles
	// after each one.
	RetryBackoffMS int `toml:"retry_backoff_ms"`
}

// ServerConfig contains the HTTP chat proxy configuration.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	// RatePerMinute limits chat requests per client IP (0 = unlimited).
	RatePerMinute int `toml:"rate_per_minute"`
}

// JournalConfig contains journal storage configuration.
type JournalConfig struct {
	// Path to the SQLite database (empty = ~/.psy/journal.db).
	Path string `toml:"path"`
	// MaxEntries shown on the journal page.
	MaxEntries int `toml:"max_entries"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme"`
	// Mouse enables mouse drag navigation.
	Mouse bool `toml:"mouse"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Path to the log file (empty = ~/.psy/psy.log).
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Provider names.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderRemote = "remote"
)

const (
	DefaultOllamaURL   = "http://127.0.0.1:11434"
	DefaultOllamaModel = "llama3.2"
	DefaultOpenAIURL   = "https://api.groq.com/openai/v1"
	DefaultOpenAIModel = "llama-3.3-70b-versatile"
	DefaultEndpoint    = "http://127.0.0.1:8787/api/chat"
)

// DefaultSystemPrompt frames every conversation.
const DefaultSystemPrompt = `You are a compassionate AI psychotherapist named Psy. Your role is to:
- Listen empathetically
- Provide supportive, non-judgmental responses
- Help users explore their emotions and thoughts
- Offer gentle guidance and coping strategies
- Maintain professional and ethical boundaries
- Never replace professional human therapy
- Adapt your communication style to the user's emotional state

Respond with warmth, understanding, and professional psychological insight.`

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Pager: PagerConfig{
			ThresholdFraction:      0.15,
			VelocityThreshold:      50,
			ElasticOverscrollLimit: 0.2,
			InitialPage:            1,
			PageNames:              []string{"Journal", "Chat", "Resources"},
			DirectionLock:          true,
			FPS:                    60,
			Spring: SpringConfig{
				Stiffness: 400,
				Damping:   40,
				Mass:      1,
			},
		},

		Chat: ChatConfig{
			Provider:       ProviderOllama,
			Temperature:    0.7,
			MaxTokens:      500,
			TopP:           1,
			SystemPrompt:   DefaultSystemPrompt,
			TimeoutSecs:    60,
			MaxRetries:     3,
			RetryBackoffMS: 500,
		},

		Server: ServerConfig{
			Addr:           "127.0.0.1:8787",
			AllowedOrigins: []string{"*"},
			RatePerMinute:  60,
		},

		Journal: JournalConfig{
			MaxEntries: 100,
		},

		UI: UIConfig{
			Theme: "auto",
			Mouse: true,
		},

		Log: LogConfig{
			Level: "info",
		},
	}
}

// EffectiveBaseURL returns the backend URL for the configured provider.
func (c ChatConfig) EffectiveBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	switch c.Provider {
	case ProviderOpenAI:
		return DefaultOpenAIURL
	case ProviderRemote:
		return c.EffectiveEndpoint()
	default:
		return DefaultOllamaURL
	}
}

// EffectiveModel returns the model for the configured provider.
func (c ChatConfig) EffectiveModel() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultOllamaModel
}

// EffectiveEndpoint returns the psy serve chat URL.
func (c ChatConfig) EffectiveEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return DefaultEndpoint
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the psy configuration directory path.
// PSY_CONFIG_DIR overrides the default ~/.psy.
func ConfigDir() (string, error) {
	if dir := os.Getenv("PSY_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".psy"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// JournalPath returns the journal database path.
func (c *Config) JournalPath() (string, error) {
	if c.Journal.Path != "" {
		return c.Journal.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.db"), nil
}

// LogPath returns the log file path.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "psy.log"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// SECURITY: Config files hold API keys and should be 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0077 != 0 {
		return os.Chmod(path, 0600)
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.psy/config.toml, falling back to defaults
// when the file does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		cfg.finish()
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.finish(); err != nil {
			return cfg, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadTOML decodes a TOML file over cfg. Keys missing from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		cfg.warnings = append(cfg.warnings, fmt.Sprintf("could not ensure secure permissions on %s: %v", path, err))
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	for _, key := range md.Undecoded() {
		cfg.warnings = append(cfg.warnings, fmt.Sprintf("unknown config key %q", key.String()))
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
// The returned config is usable even when an error is returned.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		fallback := Default()
		fallback.ApplyEnvOverrides()
		fallback.finish()
		return fallback, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.finish(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) finish() error {
	c.SetDefaults()
	c.Sanitize()
	return c.Validate()
}

// Warnings returns the adjustments made while loading.
func (c *Config) Warnings() []string {
	return c.warnings
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# psy configuration\n")
	buf.WriteString("# See `psy config show` for the effective values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate reports values that cannot be repaired by clamping.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.Chat.Provider {
	case ProviderOllama, ProviderOpenAI, ProviderRemote:
	default:
		errs = append(errs, ValidationError{
			Field:   "chat.provider",
			Message: fmt.Sprintf("invalid provider '%s', must be one of: ollama, openai, remote", c.Chat.Provider),
		})
	}

	if c.Chat.BaseURL != "" {
		if err := validateURL(c.Chat.BaseURL); err != nil {
			errs = append(errs, ValidationError{Field: "chat.base_url", Message: err.Error()})
		}
	}
	if c.Chat.Endpoint != "" {
		if err := validateURL(c.Chat.Endpoint); err != nil {
			errs = append(errs, ValidationError{Field: "chat.endpoint", Message: err.Error()})
		}
	}

	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "chat.temperature",
			Message: fmt.Sprintf("must be between 0 and 2, got %v", c.Chat.Temperature),
		})
	}
	if c.Chat.TopP <= 0 || c.Chat.TopP > 1 {
		errs = append(errs, ValidationError{
			Field:   "chat.top_p",
			Message: fmt.Sprintf("must be in (0, 1], got %v", c.Chat.TopP),
		})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[c.UI.Theme] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if c.Server.RatePerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_per_minute",
			Message: "must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}

// SetDefaults fills empty fields with default values.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if len(c.Pager.PageNames) == 0 {
		c.Pager.PageNames = defaults.Pager.PageNames
	}
	if c.Chat.Provider == "" {
		c.Chat.Provider = defaults.Chat.Provider
	}
	c.Chat.Provider = strings.ToLower(c.Chat.Provider)
	if c.Chat.SystemPrompt == "" {
		c.Chat.SystemPrompt = defaults.Chat.SystemPrompt
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// Sanitize clamps out-of-range numeric values to their defaults and records
// a warning for each one. Malformed tuning never prevents startup.
func (c *Config) Sanitize() {
	defaults := Default()
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
	warn := func(field string, got, used any) {
		c.warnings = append(c.warnings, fmt.Sprintf("%s: %v out of range, using %v", field, got, used))
	}

	p := &c.Pager
	if bad(p.ThresholdFraction) || p.ThresholdFraction <= 0 || p.ThresholdFraction > 1 {
		warn("pager.threshold_fraction", p.ThresholdFraction, defaults.Pager.ThresholdFraction)
		p.ThresholdFraction = defaults.Pager.ThresholdFraction
	}
	if bad(p.VelocityThreshold) || p.VelocityThreshold <= 0 {
		warn("pager.velocity_threshold", p.VelocityThreshold, defaults.Pager.VelocityThreshold)
		p.VelocityThreshold = defaults.Pager.VelocityThreshold
	}
	if bad(p.ElasticOverscrollLimit) || p.ElasticOverscrollLimit < 0 || p.ElasticOverscrollLimit > 1 {
		warn("pager.elastic_overscroll_limit", p.ElasticOverscrollLimit, defaults.Pager.ElasticOverscrollLimit)
		p.ElasticOverscrollLimit = defaults.Pager.ElasticOverscrollLimit
	}
	if p.InitialPage < 0 || p.InitialPage >= len(p.PageNames) {
		used := p.InitialPage
		if used < 0 {
			used = 0
		} else {
			used = len(p.PageNames) - 1
		}
		warn("pager.initial_page", p.InitialPage, used)
		p.InitialPage = used
	}
	if p.FPS < 1 || p.FPS > 240 {
		warn("pager.fps", p.FPS, defaults.Pager.FPS)
		p.FPS = defaults.Pager.FPS
	}
	if bad(p.Spring.Stiffness) || p.Spring.Stiffness <= 0 {
		warn("pager.spring.stiffness", p.Spring.Stiffness, defaults.Pager.Spring.Stiffness)
		p.Spring.Stiffness = defaults.Pager.Spring.Stiffness
	}
	if bad(p.Spring.Damping) || p.Spring.Damping <= 0 {
		warn("pager.spring.damping", p.Spring.Damping, defaults.Pager.Spring.Damping)
		p.Spring.Damping = defaults.Pager.Spring.Damping
	}
	if bad(p.Spring.Mass) || p.Spring.Mass <= 0 {
		warn("pager.spring.mass", p.Spring.Mass, defaults.Pager.Spring.Mass)
		p.Spring.Mass = defaults.Pager.Spring.Mass
	}

	if c.Chat.MaxTokens <= 0 {
		warn("chat.max_tokens", c.Chat.MaxTokens, defaults.Chat.MaxTokens)
		c.Chat.MaxTokens = defaults.Chat.MaxTokens
	}
	if c.Chat.TimeoutSecs <= 0 {
		warn("chat.timeout_secs", c.Chat.TimeoutSecs, defaults.Chat.TimeoutSecs)
		c.Chat.TimeoutSecs = defaults.Chat.TimeoutSecs
	}
	if c.Chat.MaxRetries < 1 || c.Chat.MaxRetries > 10 {
		warn("chat.max_retries", c.Chat.MaxRetries, defaults.Chat.MaxRetries)
		c.Chat.MaxRetries = defaults.Chat.MaxRetries
	}
	if c.Chat.RetryBackoffMS < 0 {
		warn("chat.retry_backoff_ms", c.Chat.RetryBackoffMS, defaults.Chat.RetryBackoffMS)
		c.Chat.RetryBackoffMS = defaults.Chat.RetryBackoffMS
	}
	if c.Journal.MaxEntries <= 0 {
		warn("journal.max_entries", c.Journal.MaxEntries, defaults.Journal.MaxEntries)
		c.Journal.MaxEntries = defaults.Journal.MaxEntries
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PSY_PROVIDER: overrides chat.provider
//   - PSY_MODEL: overrides chat.model
//   - PSY_BASE_URL: overrides chat.base_url
//   - PSY_API_KEY: overrides chat.api_key
//   - GROQ_API_KEY: used for chat.api_key when no key is configured
//   - PSY_ENDPOINT: overrides chat.endpoint
//   - PSY_THEME: overrides ui.theme
//   - PSY_LOG_LEVEL: overrides log.level
//   - PSY_NO_MOUSE: set to "1" or "true" to disable mouse input
func (c *Config) ApplyEnvOverrides() {
	if provider := os.Getenv("PSY_PROVIDER"); provider != "" {
		c.Chat.Provider = provider
	}
	if model := os.Getenv("PSY_MODEL"); model != "" {
		c.Chat.Model = model
	}
	if baseURL := os.Getenv("PSY_BASE_URL"); baseURL != "" {
		c.Chat.BaseURL = baseURL
	}
	if key := os.Getenv("PSY_API_KEY"); key != "" {
		c.Chat.APIKey = key
	} else if key := os.Getenv("GROQ_API_KEY"); key != "" && c.Chat.APIKey == "" {
		c.Chat.APIKey = key
	}
	if endpoint := os.Getenv("PSY_ENDPOINT"); endpoint != "" {
		c.Chat.Endpoint = endpoint
	}
	if theme := os.Getenv("PSY_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if level := os.Getenv("PSY_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if noMouse := os.Getenv("PSY_NO_MOUSE"); noMouse != "" {
		c.UI.Mouse = !(noMouse == "1" || strings.ToLower(noMouse) == "true")
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "pager.spring.stiffness").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() || !field.CanInterface() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(part[:1]))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, s := range strings.Split(strVal, ",") {
					if s = strings.TrimSpace(s); s != "" {
						items = append(items, s)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Pager.PageNames = append([]string(nil), c.Pager.PageNames...)
	clone.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	clone.warnings = append([]string(nil), c.warnings...)
	return &clone
}

// String renders the config as TOML with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Chat.APIKey != "" {
		safe.Chat.APIKey = "[REDACTED]"
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(safe); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
