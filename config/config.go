package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"packsmith/logger"
	"packsmith/types"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultModrinthAPIURL = "https://api.modrinth.com/v2"
	defaultCurseForgeURL  = "https://www.curseforge.com"
	defaultUserAgent      = "packsmith/dev (unknown-user)"
	defaultSearchLimit    = 20
	defaultWorkers        = 4
	defaultRequestTimeout = 30 * time.Second
	defaultDataDir        = ".packsmith"
	defaultDiscordAppID   = "1455868971067637763"
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	UserAgent       string        `mapstructure:"USERAGENT"`
	ModrinthAPIURL  string        `mapstructure:"MODRINTH_API_URL"`
	CurseForgeURL   string        `mapstructure:"CURSEFORGE_URL"`
	SearchLimit     int           `mapstructure:"SEARCH_LIMIT"`
	Workers         int           `mapstructure:"WORKERS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	DataDir         string        `mapstructure:"DATA_DIR"`
	DefaultPlatform string        `mapstructure:"DEFAULT_PLATFORM"`
	DefaultLoader   string        `mapstructure:"DEFAULT_LOADER"`
	DiscordRPC      bool          `mapstructure:"DISCORD_RPC"`
	DiscordAppID    string        `mapstructure:"DISCORD_APP_ID"`
	DatabasePath    string        `mapstructure:"-"` // derived from DataDir
}

var envKeys = []string{
	"USERAGENT",
	"MODRINTH_API_URL",
	"CURSEFORGE_URL",
	"SEARCH_LIMIT",
	"WORKERS",
	"REQUEST_TIMEOUT",
	"DATA_DIR",
	"DEFAULT_PLATFORM",
	"DEFAULT_LOADER",
	"DISCORD_RPC",
	"DISCORD_APP_ID",
}

// LoadConfig reads configuration from a .env file in path and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)   // Path to look for the config file in
	viper.SetConfigName(".env") // Name of config file (without extension)
	viper.SetConfigType("env")  // REQUIRED if the config file does not have the extension in the name

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		logger.Log.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	// Bind environment variables automatically.
	// Viper will check for an environment variable matching the key name (e.g., WORKERS)
	viper.AutomaticEnv()
	// Unmarshal only sees keys viper knows about, so bind each one explicitly
	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			logger.Log.Warnw("Unable to bind env var", zap.String("key", key), zap.Error(err))
		}
	}

	// Unmarshal the config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", err)
	}

	// --- Post-unmarshal processing and defaults ---
	processConfigDefaults(&config)
	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// ApplyLimits resets a non-positive search limit or worker count to its default.
// A worker limit of zero would block every download.
func ApplyLimits(config *Config) {
	if config.SearchLimit <= 0 {
		config.SearchLimit = defaultSearchLimit
	}
	if config.Workers <= 0 {
		config.Workers = defaultWorkers
	}
}

// processConfigDefaults fills in every setting that was left empty and resets values
// that are out of range.
func processConfigDefaults(config *Config) {
	// Basic validation
	if config.UserAgent == "" {
		// Modrinth asks every client to identify itself, so fall back to a generic agent
		config.UserAgent = defaultUserAgent
		logger.Log.Warn("USERAGENT not set in config or environment, using default.")
	}
	if config.ModrinthAPIURL == "" {
		config.ModrinthAPIURL = defaultModrinthAPIURL
	}
	if config.CurseForgeURL == "" {
		config.CurseForgeURL = defaultCurseForgeURL
	}
	ApplyLimits(config)
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaultRequestTimeout
	}
	if config.DataDir == "" {
		config.DataDir = defaultDataDir
	}
	if config.DiscordAppID == "" {
		config.DiscordAppID = defaultDiscordAppID
	}

	// Unknown platforms and loaders fall back to the defaults with a warning
	if !types.Platform(config.DefaultPlatform).Valid() {
		if config.DefaultPlatform != "" {
			logger.Log.Warnw("Invalid DEFAULT_PLATFORM, using modrinth", zap.String("value", config.DefaultPlatform))
		}
		config.DefaultPlatform = string(types.PlatformModrinth)
	}
	if !types.Loader(config.DefaultLoader).Valid() {
		if config.DefaultLoader != "" {
			logger.Log.Warnw("Invalid DEFAULT_LOADER, using forge", zap.String("value", config.DefaultLoader))
		}
		config.DefaultLoader = string(types.LoaderForge)
	}
}

// validateAndEnsureDirectories creates the data directory and derives the database path.
func validateAndEnsureDirectories(config *Config) error {
	if config.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}

	if _, err := os.Stat(config.DataDir); os.IsNotExist(err) {
		logger.Log.Infow("Data directory does not exist, creating it", zap.String("path", config.DataDir))
		if err := os.MkdirAll(config.DataDir, 0755); err != nil {
			return fmt.Errorf("create data directory %s: %w", config.DataDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("check data directory %s: %w", config.DataDir, err)
	}

	config.DatabasePath = filepath.Join(config.DataDir, "packsmith.db")
	return nil
}
