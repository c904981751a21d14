// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/chatterm/internal/storage"
	"github.com/jeranaias/chatterm/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatterm configuration.
type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
	Server  ServerConfig  `toml:"server" json:"server"`
}

// APIConfig configures the chat backend client.
type APIConfig struct {
	// BaseURL is the backend root; /chat and /session/{id} are appended.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs bounds each request.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries applies to session deletes only; chat is never retried.
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// RateLimitPerSec caps outgoing requests. 0 disables the limiter.
	RateLimitPerSec float64 `toml:"rate_limit_per_sec" json:"rate_limit_per_sec"`
}

// Timeout returns TimeoutSecs as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// StorageConfig selects where the session identifier lives.
type StorageConfig struct {
	// Driver is one of memory, file, sqlite, redis.
	Driver string `toml:"driver" json:"driver"`
	// Path is the file or database path. Empty uses ~/.chatterm/state.json
	// (file) or ~/.chatterm/state.db (sqlite).
	Path string `toml:"path" json:"path"`
	// RedisURL is a redis:// URL for the redis driver.
	RedisURL string `toml:"redis_url" json:"redis_url"`
	// RedisTTLHours expires the stored id. 0 keeps it forever.
	RedisTTLHours int `toml:"redis_ttl_hours" json:"redis_ttl_hours"`
}

// ResolvedPath returns Path, or the default path for the driver.
func (c StorageConfig) ResolvedPath() (string, error) {
	if c.Path != "" {
		return expandHome(c.Path)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if strings.EqualFold(c.Driver, string(storage.DriverSQLite)) {
		return filepath.Join(dir, "state.db"), nil
	}
	return filepath.Join(dir, "state.json"), nil
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme is auto, dark or light.
	Theme string `toml:"theme" json:"theme"`
	// Greeting is the opening assistant message. Empty uses the built-in one.
	Greeting string `toml:"greeting" json:"greeting"`
	// AskName shows the "what should I call you" page on start.
	AskName bool `toml:"ask_name" json:"ask_name"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	// Level is trace, debug, info, warn, error or disabled.
	Level string `toml:"level" json:"level"`
	// File receives logs while the TUI owns the terminal.
	// Empty uses ~/.chatterm/chatterm.log.
	File string `toml:"file" json:"file"`
}

// ResolvedFile returns File, or the default log file path.
func (c LogConfig) ResolvedFile() (string, error) {
	if c.File != "" {
		return expandHome(c.File)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chatterm.log"), nil
}

// ServerConfig configures `chatterm serve`.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr" json:"addr"`
	// SessionTimeoutMins resets idle sessions.
	SessionTimeoutMins int `toml:"session_timeout_mins" json:"session_timeout_mins"`
	// HistoryLimit caps remembered exchanges per session.
	HistoryLimit int `toml:"history_limit" json:"history_limit"`
}

// SessionTimeout returns SessionTimeoutMins as a duration.
func (c ServerConfig) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutMins) * time.Minute
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// DefaultBaseURL is the local backend used when nothing is configured.
const DefaultBaseURL = "http://localhost:5000"

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         DefaultBaseURL,
			TimeoutSecs:     60,
			MaxRetries:      2,
			RateLimitPerSec: 2,
		},
		Storage: StorageConfig{
			Driver: string(storage.DriverFile),
		},
		UI: UIConfig{
			Theme:   "auto",
			AskName: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:               ":5000",
			SessionTimeoutMins: 30,
			HistoryLimit:       50,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatterm configuration directory path.
// CHATTERM_HOME overrides the default ~/.chatterm.
func ConfigDir() (string, error) {
	if dir := os.Getenv("CHATTERM_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatterm"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ActivePath returns the config file Load would read, preferring TOML.
// When neither exists the TOML path is returned.
func ActivePath() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment. Variables already set are left alone.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ActivePath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return LoadFromPath(path)
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with full validation.
// A .json suffix selects JSON; anything else is parsed as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	warnInsecurePermissions(path)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	warnInsecurePermissions(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// warnInsecurePermissions logs when a config file is group or world readable.
func warnInsecurePermissions(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		log.Warn().Str("path", path).Str("mode", fmt.Sprintf("%o", mode)).Msg("config file is readable by other users")
	}
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = defaults.Storage.Driver
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.SessionTimeoutMins == 0 {
		c.Server.SessionTimeoutMins = defaults.Server.SessionTimeoutMins
	}
	if c.Server.HistoryLimit == 0 {
		c.Server.HistoryLimit = defaults.Server.HistoryLimit
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the active config file.
func Save(cfg *Config) error {
	path, err := ActivePath()
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ".json") {
		return SaveJSON(cfg, path)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# chatterm configuration file\n")
	b.WriteString("# Generated by chatterm - edit with care\n\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600, 0700); err != nil {
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
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = map[string]bool{"auto": true, "dark": true, "light": true}
	validLogLevels = map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
		"error": true, "fatal": true, "panic": true, "disabled": true, "off": true,
	}
)

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// API
	if u, err := url.Parse(c.API.BaseURL); err != nil {
		add("api.base_url", "invalid URL: %v", err)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		add("api.base_url", "scheme must be http or https, got %q", u.Scheme)
	} else if u.Host == "" {
		add("api.base_url", "missing host")
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		add("api.timeout_secs", "must be between 1 and 600, got %d", c.API.TimeoutSecs)
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		add("api.max_retries", "must be between 0 and 10, got %d", c.API.MaxRetries)
	}
	if c.API.RateLimitPerSec < 0 {
		add("api.rate_limit_per_sec", "must not be negative")
	}

	// Storage
	driver, err := storage.ParseDriver(c.Storage.Driver)
	if err != nil {
		add("storage.driver", "invalid driver %q, must be one of: memory, file, sqlite, redis", c.Storage.Driver)
	}
	if driver == storage.DriverRedis && c.Storage.RedisURL == "" {
		add("storage.redis_url", "required when storage.driver is redis")
	}
	if c.Storage.RedisTTLHours < 0 {
		add("storage.redis_ttl_hours", "must not be negative")
	}

	// UI
	if !validThemes[c.UI.Theme] {
		add("ui.theme", "invalid theme %q, must be one of: auto, dark, light", c.UI.Theme)
	}
	if util.RuneLen(c.UI.Greeting) > 500 {
		add("ui.greeting", "must be at most 500 characters")
	}

	// Log
	if !validLogLevels[c.Log.Level] {
		add("log.level", "invalid level %q", c.Log.Level)
	}

	// Server
	if c.Server.Addr == "" {
		add("server.addr", "must not be empty")
	}
	if c.Server.SessionTimeoutMins < 1 {
		add("server.session_timeout_mins", "must be positive")
	}
	if c.Server.HistoryLimit < 1 {
		add("server.history_limit", "must be positive")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CHATTERM_API_URL: overrides api.base_url
//   - CHATTERM_STORAGE: overrides storage.driver
//   - CHATTERM_REDIS_URL: overrides storage.redis_url
//   - CHATTERM_LOG_LEVEL: overrides log.level
//   - CHATTERM_THEME: overrides ui.theme
//   - PORT: overrides server.addr as ":<port>"
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHATTERM_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CHATTERM_STORAGE"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("CHATTERM_REDIS_URL"); v != "" {
		c.Storage.RedisURL = v
	}
	if v := os.Getenv("CHATTERM_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CHATTERM_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if strings.Contains(v, ":") {
			c.Server.Addr = v
		} else {
			c.Server.Addr = ":" + v
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
// String values are converted to the field's type.
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
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("%s is a section, not a key", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := parseBool(strVal)
			if err != nil {
				return err
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return errors.New("cannot assign nil")
	}
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

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %q", s)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation, sorted.
func GetAllKeys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		prefix := tagName(section)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, prefix+"."+tagName(section.Type.Field(j)))
		}
	}
	sort.Strings(keys)
	return keys
}

func tagName(f reflect.StructField) string {
	if tag := f.Tag.Get("toml"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return strings.ToLower(f.Name)
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as JSON with credentials in the Redis URL redacted.
func (c *Config) String() string {
	safe := c.Clone()
	safe.Storage.RedisURL = redactURL(safe.Storage.RedisURL)
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

func redactURL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.User("REDACTED")
	return u.String()
}
