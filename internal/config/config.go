package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"keysort/internal/errors"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Verification modes for cross-volume moves.
const (
	VerifyHash = "hash"
	VerifySize = "size"
)

// CommandKey opens the command line in the TUI and cannot be bound.
const CommandKey = ":"

// DefaultPatterns are the image file patterns used when none are configured.
var DefaultPatterns = []string{"*.{jpg,jpeg,png,gif,webp}"}

// Config represents the application configuration structure.
// It defines the source folder, persisted key bindings, mover settings,
// reserved navigation keys and the theme.
type Config struct {
	Source struct {
		Directory string   `yaml:"directory"` // Folder to triage
		Patterns  []string `yaml:"patterns"`  // Glob patterns selecting image files
		Watch     bool     `yaml:"watch"`     // Queue new files as they appear
	} `yaml:"source"`
	Bindings map[string]string `yaml:"bindings"` // Key -> destination directory
	Settings struct {
		Verify       string `yaml:"verify"`        // Cross-volume verification: hash or size
		HistoryLimit int    `yaml:"history_limit"` // 0 keeps every move
		Journal      string `yaml:"journal"`       // SQLite journal path, empty disables
		LogFile      string `yaml:"log_file"`      // Log destination while the TUI runs
	} `yaml:"settings"`
	// Each key setting may list alternatives separated by commas, e.g. "right,j".
	Keys struct {
		Next     string `yaml:"next"`
		Previous string `yaml:"previous"`
		Undo     string `yaml:"undo"`
		Quit     string `yaml:"quit"`
	} `yaml:"keys"`
	Theme struct {
		Name string `yaml:"name"`
	} `yaml:"theme"`
}

// Dir returns the keysort configuration directory (~/.config/keysort).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "keysort"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/keysort/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if tempCfg.Source.Directory != "" {
		cfg.Source.Directory = tempCfg.Source.Directory
	}
	if len(tempCfg.Source.Patterns) > 0 {
		cfg.Source.Patterns = tempCfg.Source.Patterns
	}
	cfg.Source.Watch = tempCfg.Source.Watch

	for key, dest := range tempCfg.Bindings {
		cfg.Bindings[key] = dest
	}

	if tempCfg.Settings.Verify != "" {
		cfg.Settings.Verify = tempCfg.Settings.Verify
	}
	cfg.Settings.HistoryLimit = tempCfg.Settings.HistoryLimit
	if tempCfg.Settings.Journal != "" {
		cfg.Settings.Journal = tempCfg.Settings.Journal
	}
	if tempCfg.Settings.LogFile != "" {
		cfg.Settings.LogFile = tempCfg.Settings.LogFile
	}

	if tempCfg.Keys.Next != "" {
		cfg.Keys.Next = tempCfg.Keys.Next
	}
	if tempCfg.Keys.Previous != "" {
		cfg.Keys.Previous = tempCfg.Keys.Previous
	}
	if tempCfg.Keys.Undo != "" {
		cfg.Keys.Undo = tempCfg.Keys.Undo
	}
	if tempCfg.Keys.Quit != "" {
		cfg.Keys.Quit = tempCfg.Keys.Quit
	}
	if tempCfg.Theme.Name != "" {
		cfg.Theme.Name = tempCfg.Theme.Name
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Source.Directory = "."
	cfg.Source.Patterns = append([]string(nil), DefaultPatterns...)
	cfg.Source.Watch = false

	cfg.Bindings = make(map[string]string)

	cfg.Settings.Verify = VerifyHash
	cfg.Settings.HistoryLimit = 0
	if dir, err := Dir(); err == nil {
		cfg.Settings.Journal = filepath.Join(dir, "journal.db")
		cfg.Settings.LogFile = filepath.Join(dir, "keysort.log")
	}

	cfg.Keys.Next = "right"
	cfg.Keys.Previous = "left"
	cfg.Keys.Undo = "ctrl+z"
	cfg.Keys.Quit = "ctrl+c"

	cfg.Theme.Name = "default"

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Destination directories are not checked here; the binding table does that
// when the bindings are loaded.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if c.Settings.Verify != VerifyHash && c.Settings.Verify != VerifySize {
		return errors.NewConfigError("invalid verify mode "+c.Settings.Verify, "settings.verify", errors.InvalidConfig, nil)
	}

	if c.Settings.HistoryLimit < 0 {
		return errors.NewConfigError("history limit must be >= 0", "settings.history_limit", errors.InvalidConfig, nil)
	}

	if len(c.Source.Patterns) == 0 {
		return errors.NewConfigError("at least one pattern is required", "source.patterns", errors.InvalidConfig, nil)
	}
	for i, pattern := range c.Source.Patterns {
		if _, err := glob.Compile(strings.ToLower(pattern)); err != nil {
			return errors.NewConfigError(fmt.Sprintf("pattern %d does not compile", i), "source.patterns", errors.InvalidConfig, err)
		}
	}

	reserved := c.ReservedKeys()
	seen := make(map[string]bool, len(reserved))
	for _, k := range reserved {
		if k == "" {
			return errors.NewConfigError("reserved keys must not be empty", "keys", errors.InvalidConfig, nil)
		}
		if seen[k] {
			return errors.NewConfigError("reserved key used twice: "+k, "keys", errors.InvalidConfig, nil)
		}
		seen[k] = true
	}

	for key, dest := range c.Bindings {
		if key == "" {
			return errors.NewConfigError("binding key cannot be empty", "bindings", errors.InvalidConfig, nil)
		}
		if seen[key] || key == CommandKey {
			return errors.NewConfigError("binding uses a reserved key: "+key, "bindings", errors.InvalidConfig, nil)
		}
		if dest == "" {
			return errors.NewConfigError("binding "+key+" has no destination", "bindings", errors.InvalidConfig, nil)
		}
	}

	return nil
}

// IsReserved reports whether key is a navigation key or the command key.
func (c *Config) IsReserved(key string) bool {
	if key == CommandKey {
		return true
	}
	for _, k := range c.ReservedKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// ReservedKeys returns the navigation keys that cannot be bound.
func (c *Config) ReservedKeys() []string {
	var keys []string
	for _, setting := range []string{c.Keys.Next, c.Keys.Previous, c.Keys.Undo, c.Keys.Quit} {
		keys = append(keys, SplitKeys(setting)...)
	}
	return keys
}

// SplitKeys splits a key setting into its comma separated alternatives.
// An empty alternative is kept so validation can reject it.
func SplitKeys(setting string) []string {
	parts := strings.Split(setting, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// BindingKeys returns the bound keys in sorted order.
func (c *Config) BindingKeys() []string {
	keys := make([]string, 0, len(c.Bindings))
	for k := range c.Bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig(sourceDir string) *Config {
	cfg := defaultConfig()
	cfg.Source.Directory = sourceDir
	cfg.Settings.Journal = ""
	cfg.Settings.LogFile = ""
	return cfg
}

// GetTheme returns a predefined theme palette by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
