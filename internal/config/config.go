// Package config manages application configuration using viper.
// It supports configuration from YAML files (.critic.yaml), environment variables
// (CRITIC_ prefix), and command-line flags with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
// It is populated from config files, environment variables, and command-line flags.
type Config struct {
	AI     AIConfig     `mapstructure:"ai" yaml:"ai"`         // Model provider settings
	Ollama OllamaConfig `mapstructure:"ollama" yaml:"ollama"` // Local ollama server settings
	Render RenderConfig `mapstructure:"render" yaml:"render"` // Markdown rendering settings
	Log    LogConfig    `mapstructure:"log" yaml:"log"`       // Log output settings
}

// AIConfig holds configuration for the text-generation backend.
// The model can be overridden via CRITIC_AI_MODEL or the --model flag.
type AIConfig struct {
	Provider  string `mapstructure:"provider" yaml:"provider"`       // gemini, ollama or claude
	Model     string `mapstructure:"model" yaml:"model"`             // Model identifier sent to the provider
	APIKeyEnv string `mapstructure:"api_key_env" yaml:"api_key_env"` // Environment variable holding the gemini key
	Timeout   int    `mapstructure:"timeout" yaml:"timeout"`         // Seconds; 0 leaves the client default in place
}

// OllamaConfig holds the address of a local ollama server.
type OllamaConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// RenderConfig controls how review markdown is drawn in the terminal.
type RenderConfig struct {
	Style string `mapstructure:"style" yaml:"style"` // glamour style name, or "auto"
	Width int    `mapstructure:"width" yaml:"width"` // Word-wrap width; 0 follows the terminal
}

// LogConfig controls the zerolog file logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Defaults used when nothing else is configured.
const (
	DefaultProvider  = "gemini"
	DefaultModel     = "gemini-3.1-pro-preview"
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
	DefaultOllamaURL = "http://localhost:11434"
)

var (
	cfg        Config
	configFile string
)

// Init initializes the configuration system by setting defaults,
// loading config files from current and home directories, and
// enabling environment variable overrides with the CRITIC_ prefix.
func Init() {
	setDefaults()
	loadConfigFile()
	loadEnvVars()
}

func setDefaults() {
	viper.SetDefault("ai.provider", DefaultProvider)
	viper.SetDefault("ai.model", DefaultModel)
	viper.SetDefault("ai.api_key_env", DefaultAPIKeyEnv)
	viper.SetDefault("ai.timeout", 0)

	viper.SetDefault("ollama.url", DefaultOllamaURL)

	viper.SetDefault("render.style", "auto")
	viper.SetDefault("render.width", 0)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", DefaultLogFile())
}

func loadConfigFile() {
	viper.SetConfigName(".critic")
	viper.SetConfigType("yaml")

	// Project config wins over the global one.
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err == nil {
		configFile = viper.ConfigFileUsed()
	}
}

func loadEnvVars() {
	viper.SetEnvPrefix("CRITIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// BindFlags binds cobra persistent flags to viper configuration values.
// Flags that the command does not define are skipped.
func BindFlags(cmd *cobra.Command) {
	bindings := map[string]string{
		"ai.provider": "provider",
		"ai.model":    "model",
		"log.level":   "log-level",
		"log.file":    "log-file",
	}
	for key, name := range bindings {
		if f := cmd.PersistentFlags().Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

// Get returns the current configuration by unmarshaling all viper values.
// Call this after Init and BindFlags to get the final merged configuration.
func Get() *Config {
	// Error is ignored as defaults are always valid
	_ = viper.Unmarshal(&cfg)
	return &cfg
}

// GetConfigPath returns the path to the config file that was loaded,
// or an empty string if no config file was found.
func GetConfigPath() string {
	return configFile
}

// GetDefaultConfigPath returns the default global config file path (~/.critic.yaml).
func GetDefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".critic.yaml")
}

// DefaultLogFile returns the log location under the user's state directory.
func DefaultLogFile() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "critic", "critic.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "critic.log")
	}
	return filepath.Join(home, ".local", "state", "critic", "critic.log")
}

// Defaults returns a Config populated only with built-in defaults.
func Defaults() Config {
	return Config{
		AI: AIConfig{
			Provider:  DefaultProvider,
			Model:     DefaultModel,
			APIKeyEnv: DefaultAPIKeyEnv,
		},
		Ollama: OllamaConfig{URL: DefaultOllamaURL},
		Render: RenderConfig{Style: "auto"},
		Log:    LogConfig{Level: "info", File: DefaultLogFile()},
	}
}

// WriteDefault writes a YAML config file with the built-in defaults to path.
// An existing file is left untouched unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
