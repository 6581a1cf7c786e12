package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/lingohop/internal/delegate"
	"codeberg.org/snonux/lingohop/internal/history"
	"codeberg.org/snonux/lingohop/internal/logging"
)

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".lingohop" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lingohop")
	}

	// Environment variables, LINGOHOP_PACKAGES_DIR for packages.dir
	viper.SetEnvPrefix("LINGOHOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("route.default", "en:es")
	viper.SetDefault("translator.backend", delegate.BackendServer)
	viper.SetDefault("translator.url", delegate.DefaultServerURL)
	viper.SetDefault("translator.timeout", 2*time.Minute)
	viper.SetDefault("openai.model", delegate.DefaultOpenAIModel)
	viper.SetDefault("gemini.model", delegate.DefaultGeminiModel)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("server.address", "127.0.0.1:8080")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}

	return viper.GetString("gemini.key")
}

// GetPackagesDir returns the configured packages directory, or the first
// existing default location
func GetPackagesDir() string {
	if dir := viper.GetString("packages.dir"); dir != "" {
		return dir
	}
	return DefaultPackagesDir()
}

// DefaultPackagesDir looks for a packages directory next to the executable,
// then one level above it, and falls back to
// $HOME/.local/share/lingohop/packages
func DefaultPackagesDir() string {
	home, _ := os.UserHomeDir()
	fallback := filepath.Join(home, ".local", "share", "lingohop", "packages")

	exe, err := os.Executable()
	if err != nil {
		return fallback
	}
	return findPackagesDir(filepath.Dir(exe), fallback)
}

func findPackagesDir(exeDir, fallback string) string {
	candidates := []string{
		filepath.Join(exeDir, "packages"),
		filepath.Join(exeDir, "..", "packages"),
	}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return filepath.Clean(dir)
		}
	}
	return fallback
}

// GetHistoryPath returns the history database location
func GetHistoryPath() string {
	if path := viper.GetString("history.path"); path != "" {
		return path
	}
	return history.DefaultPath()
}

// HistoryEnabled reports whether translations should be recorded
func HistoryEnabled(flags *Flags) bool {
	return !flags.NoHistory && viper.GetBool("history.enabled")
}

// GetDelegateConfig assembles the translator backend configuration
func GetDelegateConfig(logger logging.Logger) delegate.Config {
	return delegate.Config{
		Backend:     viper.GetString("translator.backend"),
		URL:         viper.GetString("translator.url"),
		Timeout:     viper.GetDuration("translator.timeout"),
		OpenAIKey:   GetOpenAIKey(),
		OpenAIModel: viper.GetString("openai.model"),
		GeminiKey:   GetGeminiKey(),
		GeminiModel: viper.GetString("gemini.model"),
		Logger:      logger,
	}
}

// GetLogger creates the logger configured by log.format and log.level
func GetLogger() logging.Logger {
	return logging.Configure(os.Stderr, viper.GetString("log.format"), viper.GetString("log.level"))
}
