// Package config handles loading and validation of the installer settings.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Setting keys, as used in config.yaml and, upper-cased with the env prefix,
// in the environment (MAGINIUM_BASE_PATH, ...).
const (
	KeyBasePath         = "base_path"
	KeyConfigPatterns   = "config_patterns"
	KeyConfigExtension  = "config_extension"
	KeyCommandPatterns  = "command_patterns"
	KeyCommandExtension = "command_extension"
	KeySectionOrder     = "section_order"
	KeyInstallTag       = "install_tag"
	KeyPHPBinary        = "php_binary"
	KeyMagentoBinary    = "magento_binary"
	KeyLogLevel         = "log_level"
	KeyRecentLimit      = "recent_limit"
)

// Settings are the user-tunable installer settings.
type Settings struct {
	// BasePath is an on-disk scaffold tree. Empty means the embedded scaffold.
	BasePath         string   `yaml:"base_path,omitempty" json:"base_path,omitempty"`
	ConfigPatterns   []string `yaml:"config_patterns,omitempty" json:"config_patterns,omitempty"`
	ConfigExtension  string   `yaml:"config_extension,omitempty" json:"config_extension,omitempty"`
	CommandPatterns  []string `yaml:"command_patterns,omitempty" json:"command_patterns,omitempty"`
	CommandExtension string   `yaml:"command_extension,omitempty" json:"command_extension,omitempty"`
	// SectionOrder lists the configuration types the wizard visits first.
	SectionOrder []string `yaml:"section_order,omitempty" json:"section_order,omitempty"`
	// InstallTag selects the entries forwarded to the install command.
	InstallTag    string `yaml:"install_tag,omitempty" json:"install_tag,omitempty"`
	PHPBinary     string `yaml:"php_binary,omitempty" json:"php_binary,omitempty"`
	MagentoBinary string `yaml:"magento_binary,omitempty" json:"magento_binary,omitempty"`
	LogLevel      string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	// RecentLimit bounds the remembered answers per option. Zero disables it.
	RecentLimit int `yaml:"recent_limit" json:"recent_limit"`
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		ConfigPatterns:   []string{"src/Configs", "src/Configs/*/*", "src/Configs/**"},
		ConfigExtension:  ".json",
		CommandPatterns:  []string{"src/Commands", "src/Commands/*/*", "src/Commands/**"},
		CommandExtension: ".php",
		SectionOrder: []string{
			"general", "store", "database", "cache", "ampq", "modules", "opensearch", "admin-user",
		},
		InstallTag:    "magento",
		PHPBinary:     "php",
		MagentoBinary: "bin/magento",
		LogLevel:      "warn",
		RecentLimit:   5,
	}
}

// Loader handles loading settings from the user config file and environment.
type Loader struct {
	cliName    string
	envPrefix  string
	configPath string
}

// NewLoader creates a new settings loader.
func NewLoader(cliName string) *Loader {
	return &Loader{
		cliName:   cliName,
		envPrefix: strings.ToUpper(strings.ReplaceAll(cliName, "-", "_")),
	}
}

// WithConfigPath overrides the user config file location.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// EnvPrefix returns the prefix of the environment overrides.
func (l *Loader) EnvPrefix() string {
	return l.envPrefix
}

// Load merges the settings sources.
// Priority: ENV > User Config > Default
func (l *Loader) Load() (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Defaults())

	configPath := l.ConfigPath()
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse user config %s: %w", configPath, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	settings := &Settings{
		BasePath:         cast.ToString(v.Get(KeyBasePath)),
		ConfigPatterns:   stringList(v.Get(KeyConfigPatterns)),
		ConfigExtension:  cast.ToString(v.Get(KeyConfigExtension)),
		CommandPatterns:  stringList(v.Get(KeyCommandPatterns)),
		CommandExtension: cast.ToString(v.Get(KeyCommandExtension)),
		SectionOrder:     stringList(v.Get(KeySectionOrder)),
		InstallTag:       cast.ToString(v.Get(KeyInstallTag)),
		PHPBinary:        cast.ToString(v.Get(KeyPHPBinary)),
		MagentoBinary:    cast.ToString(v.Get(KeyMagentoBinary)),
		LogLevel:         cast.ToString(v.Get(KeyLogLevel)),
	}

	limit, err := cast.ToIntE(v.Get(KeyRecentLimit))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyRecentLimit, err)
	}
	settings.RecentLimit = limit

	if err := NewValidator().Validate(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

func setDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault(KeyBasePath, d.BasePath)
	v.SetDefault(KeyConfigPatterns, d.ConfigPatterns)
	v.SetDefault(KeyConfigExtension, d.ConfigExtension)
	v.SetDefault(KeyCommandPatterns, d.CommandPatterns)
	v.SetDefault(KeyCommandExtension, d.CommandExtension)
	v.SetDefault(KeySectionOrder, d.SectionOrder)
	v.SetDefault(KeyInstallTag, d.InstallTag)
	v.SetDefault(KeyPHPBinary, d.PHPBinary)
	v.SetDefault(KeyMagentoBinary, d.MagentoBinary)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyRecentLimit, d.RecentLimit)
}

// stringList accepts a YAML list or a comma separated string.
func stringList(v any) []string {
	if s, ok := v.(string); ok {
		var out []string
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return cast.ToStringSlice(v)
}

// ConfigPath returns the user config file path: the explicit path, then
// <PREFIX>_CONFIG, then the XDG config directory.
func (l *Loader) ConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}
	if customPath := os.Getenv(l.envPrefix + "_CONFIG"); customPath != "" {
		return customPath
	}
	return filepath.Join(xdg.ConfigHome, l.cliName, "config.yaml")
}

// GetStateDir returns the XDG-compliant state directory.
func (l *Loader) GetStateDir() string {
	return filepath.Join(xdg.StateHome, l.cliName)
}

// EnsureConfigDirs creates the config and state directories.
func (l *Loader) EnsureConfigDirs() error {
	dirs := []string{
		filepath.Dir(l.ConfigPath()),
		l.GetStateDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// SaveUserConfig writes settings to the user config file.
func (l *Loader) SaveUserConfig(settings *Settings) error {
	configPath := l.ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
