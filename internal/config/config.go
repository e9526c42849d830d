package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keypad/internal/logging"
)

// Config holds every Keypad setting.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Process ProcessConfig `mapstructure:"process" yaml:"process"`
	Dialog  DialogConfig  `mapstructure:"dialog" yaml:"dialog"`
	Editor  EditorConfig  `mapstructure:"editor" yaml:"editor"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Files   FilesConfig   `mapstructure:"files" yaml:"files"`
	Script  ScriptConfig  `mapstructure:"script" yaml:"script"`
}

// LoggingConfig controls the host log file.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// ProcessConfig controls renderer isolation.
type ProcessConfig struct {
	// Isolate runs the renderer as a separate child process.
	Isolate bool `mapstructure:"isolate" yaml:"isolate"`
}

// DialogConfig selects the dialog backend: auto, native or prompt.
type DialogConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// EditorConfig holds the text widget options.
type EditorConfig struct {
	Theme             string `mapstructure:"theme" yaml:"theme"`
	TabSize           int    `mapstructure:"tab_size" yaml:"tab_size"`
	IndentWithTabs    bool   `mapstructure:"indent_with_tabs" yaml:"indent_with_tabs"`
	LineNumbers       bool   `mapstructure:"line_numbers" yaml:"line_numbers"`
	AutoCloseBrackets bool   `mapstructure:"auto_close_brackets" yaml:"auto_close_brackets"`
	MatchBrackets     bool   `mapstructure:"match_brackets" yaml:"match_brackets"`
	StyleActiveLine   bool   `mapstructure:"style_active_line" yaml:"style_active_line"`
	LineWrapping      bool   `mapstructure:"line_wrapping" yaml:"line_wrapping"`
}

// UIConfig holds chrome colours as hex strings.
type UIConfig struct {
	MenuBarColor   string `mapstructure:"menu_bar_color" yaml:"menu_bar_color"`
	TabBarColor    string `mapstructure:"tab_bar_color" yaml:"tab_bar_color"`
	StatusBarColor string `mapstructure:"status_bar_color" yaml:"status_bar_color"`
}

// FilterConfig is one open/save dialog file filter.
type FilterConfig struct {
	Name       string   `mapstructure:"name" yaml:"name"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
}

// FilesConfig holds file dialog settings.
type FilesConfig struct {
	Filters []FilterConfig `mapstructure:"filters" yaml:"filters"`
}

// ScriptConfig locates the init script.
type ScriptConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "KEYPAD"

// Dir returns the Keypad config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ".keypad"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "keypad")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("process.isolate", true)
	v.SetDefault("dialog.backend", "auto")

	v.SetDefault("editor.theme", "monokai")
	v.SetDefault("editor.tab_size", 2)
	v.SetDefault("editor.indent_with_tabs", false)
	v.SetDefault("editor.line_numbers", true)
	v.SetDefault("editor.auto_close_brackets", true)
	v.SetDefault("editor.match_brackets", true)
	v.SetDefault("editor.style_active_line", true)
	v.SetDefault("editor.line_wrapping", false)

	v.SetDefault("ui.menu_bar_color", "#3e3d32")
	v.SetDefault("ui.tab_bar_color", "#1e1f1c")
	v.SetDefault("ui.status_bar_color", "#414339")

	v.SetDefault("files.filters", []map[string]any{
		{"name": "Text Files", "extensions": []string{"txt", "js", "html", "css", "json", "md"}},
		{"name": "All Files", "extensions": []string{"*"}},
	})

	v.SetDefault("script.path", filepath.Join(Dir(), "init.lua"))
}

// Store owns the loaded configuration and reloads it on file changes.
type Store struct {
	mu   sync.RWMutex
	v    *viper.Viper
	cfg  Config
	path string
}

// Load reads configuration from path (DefaultPath when empty), the
// environment and the defaults. A missing default file is not an error;
// a missing explicit path is.
func Load(path string) (*Store, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if !missing || explicit {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Store{v: v, cfg: cfg, path: path}, nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	cfg, _ := decode(v)
	return cfg
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return &ValidationError{Key: "logging.level", Value: c.Logging.Level, Message: "must be debug, info, warn or error"}
	}
	switch c.Dialog.Backend {
	case "auto", "native", "prompt":
	default:
		return &ValidationError{Key: "dialog.backend", Value: c.Dialog.Backend, Message: "must be auto, native or prompt"}
	}
	if c.Editor.TabSize < 1 || c.Editor.TabSize > 16 {
		return &ValidationError{Key: "editor.tab_size", Value: c.Editor.TabSize, Message: "must be between 1 and 16"}
	}
	for i, f := range c.Files.Filters {
		if f.Name == "" || len(f.Extensions) == 0 {
			return &ValidationError{Key: fmt.Sprintf("files.filters[%d]", i), Value: f.Name, Message: "needs a name and at least one extension"}
		}
	}
	return nil
}

// Config returns the current configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Path returns the config file path in use.
func (s *Store) Path() string {
	return s.path
}

// Watch reloads the file when it changes and calls fn with the new
// configuration. Invalid edits go to onErr and the previous
// configuration stays in effect.
func (s *Store) Watch(fn func(Config), onErr func(error)) {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(s.v)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		s.mu.Lock()
		s.cfg = cfg
		s.mu.Unlock()
		fn(cfg)
	})
	s.v.WatchConfig()
}

// Dump writes cfg as YAML.
func Dump(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
