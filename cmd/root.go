/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/longkey1/dsadrill/internal/drill/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
	plain   bool

	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dsadrill",
	Short: "A strict Data Structures and Algorithms instructor in your terminal",
	Long: `dsadrill is a chat client for a strict Data Structures and Algorithms
instructor backed by Google's Gemini API.

Every question is answered on its own: the instructor does not remember
earlier turns. Questions outside DSA are refused.

Run 'dsadrill start' for an interactive drill or 'dsadrill chat' for a
single question. The API key is read from GEMINI_API_KEY (a .env file in
the working directory is honored) or from the configuration file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/dsadrill/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "print instructor replies without markdown rendering")
}

// initConfig reads in .env, config files and ENV variables if set.
func initConfig() {
	l, err := newLogger(verbose)
	cobra.CheckErr(err)
	logger = l

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not load .env file", zap.Error(err))
	}

	// Set environment variable prefix and automatic env
	viper.SetEnvPrefix("DSADRILL")
	viper.AutomaticEnv()

	// Determine config directory for user config
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "dsadrill")

	setDefaults(config.NewDefaultConfig())

	// Bind environment variables
	viper.BindEnv("model", "DSADRILL_MODEL")
	viper.BindEnv("gemini_base_url", "DSADRILL_GEMINI_BASE_URL")
	viper.BindEnv("gemini_token", "DSADRILL_GEMINI_TOKEN")
	viper.BindEnv("request_timeout", "DSADRILL_REQUEST_TIMEOUT")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			logger.Error("error reading config file", zap.String("path", cfgFile), zap.Error(err))
		}
	} else {
		readConfigFiles(userConfigDir)
	}

	logger.Debug("configuration loaded",
		zap.String("config_file", viper.ConfigFileUsed()),
		zap.String("model", viper.GetString("model")),
		zap.String("gemini_base_url", viper.GetString("gemini_base_url")),
		zap.String("request_timeout", viper.GetString("request_timeout")))
}

func setDefaults(defaults *config.Config) {
	viper.SetDefault("model", defaults.Model)
	viper.SetDefault("gemini_base_url", defaults.GeminiBaseURL)
	viper.SetDefault("gemini_token", defaults.GeminiToken)
	viper.SetDefault("request_timeout", defaults.RequestTimeout)
}

// readConfigFiles loads the system-wide config and merges the user config on
// top of it. Missing files are not an error.
func readConfigFiles(userConfigDir string) {
	systemConfigPaths := []string{
		"/etc/dsadrill",
		"/usr/local/etc/dsadrill",
	}

	systemConfigLoaded := false
	for _, path := range systemConfigPaths {
		viper.AddConfigPath(path)
	}
	viper.SetConfigType("toml")
	viper.SetConfigName("config")

	// Try to read system-wide config
	if err := viper.ReadInConfig(); err == nil {
		systemConfigLoaded = true
		logger.Debug("loaded system-wide config", zap.String("path", viper.ConfigFileUsed()))
	}

	// Load user config (higher priority) - merge with system config
	viper.AddConfigPath(userConfigDir)
	var err error
	if systemConfigLoaded {
		err = viper.MergeInConfig()
	} else {
		err = viper.ReadInConfig()
	}
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logger.Error("error reading user config file", zap.Error(err))
		}
		return
	}
	logger.Debug("loaded user config", zap.String("path", viper.ConfigFileUsed()))
}
