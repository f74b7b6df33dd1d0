package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alphabill-org/feecharging/internal/errors"
	"github.com/alphabill-org/feecharging/internal/logger"
)

type (
	feenodeApp struct {
		rootCmd    *cobra.Command
		rootConfig *rootConfiguration
	}

	rootConfiguration struct {
		// The node home directory
		HomeDir string
		// Configuration file URL. If it's relative, then it's relative from the HomeDir.
		CfgFile string
		// Logger configuration file URL. If it's relative, then it's relative from the HomeDir.
		LogCfgFile string
		// Overrides the default level of the logger configuration.
		LogLevel string

		// node properties, read from the configuration file, environment and flags
		v *viper.Viper
	}
)

const (
	// The prefix for configuration keys inside environment.
	envPrefix = "FEE"
	// The default name for config file.
	defaultConfigFile = "config.yaml"
	// The default name for logger config file.
	defaultLoggerConfigFile = "logger-config.yaml"
	// The default home directory name.
	defaultHomeDirName = ".feenode"

	keyHome               = "home"
	keyConfig             = "config"
	flagNameLoggerCfgFile = "logger-config"
	flagNameLogLevel      = "log-level"
)

// New creates a new fee node application
func New() *feenodeApp {
	rootCmd, rootConfig := newRootCmd()
	return &feenodeApp{rootCmd, rootConfig}
}

// Execute adds all child commands and runs the application
func (a *feenodeApp) Execute(ctx context.Context) error {
	a.rootCmd.AddCommand(newReplayCmd(a.rootConfig))
	return a.rootCmd.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, *rootConfiguration) {
	config := &rootConfiguration{}
	// rootCmd represents the base command when called without any subcommands
	var rootCmd = &cobra.Command{
		Use:           "feenode",
		Short:         "The fee charging node CLI",
		Long:          `Runs consensus ordered transactions through fee charging and prints the resulting transaction records.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// If subcommand does not define PersistentPreRunE, the one from root cmd is used.
			if err := initializeConfig(cmd, config); err != nil {
				return errors.Wrap(err, "failed to initialize configuration")
			}
			if err := initLogger(cmd, config); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&config.HomeDir, keyHome, "", fmt.Sprintf("set the %s_HOME for this invocation (default is $HOME/%s)", envPrefix, defaultHomeDirName))
	rootCmd.PersistentFlags().StringVar(&config.CfgFile, keyConfig, "", fmt.Sprintf("config file location (default is $%s_HOME/%s)", envPrefix, defaultConfigFile))
	rootCmd.PersistentFlags().StringVar(&config.LogCfgFile, flagNameLoggerCfgFile, defaultLoggerConfigFile, "logger config file URL. Considered absolute if starts with '/'. Otherwise relative from the home directory.")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, flagNameLogLevel, "", "logging level, one of: NONE, ERROR, WARNING, INFO, DEBUG, TRACE")

	return rootCmd, config
}

func (r *rootConfiguration) initConfigFileLocation() {
	// Home dir is loaded from command line argument. If it's not set, then from env. If that's not set, then default is used.
	if r.HomeDir == "" {
		r.HomeDir = os.Getenv(envKey(keyHome))
		if r.HomeDir == "" {
			r.HomeDir = defaultHomeDir()
		}
	}
	if r.CfgFile == "" {
		r.CfgFile = os.Getenv(envKey(keyConfig))
		if r.CfgFile == "" {
			r.CfgFile = defaultConfigFile
		}
	}
	if !filepath.IsAbs(r.CfgFile) {
		r.CfgFile = filepath.Join(r.HomeDir, r.CfgFile)
	}
}

func (r *rootConfiguration) loggerCfgFilename() string {
	if !filepath.IsAbs(r.LogCfgFile) {
		return filepath.Join(r.HomeDir, r.LogCfgFile)
	}
	return r.LogCfgFile
}

// initializeConfig reads in config file and ENV variables if set.
func initializeConfig(cmd *cobra.Command, rootConfig *rootConfiguration) error {
	v := viper.New()

	rootConfig.initConfigFileLocation()
	if fileExists(rootConfig.CfgFile) {
		v.SetConfigFile(rootConfig.CfgFile)
		// Attempt to read the config file, gracefully ignoring errors
		// caused by a config file not being found. Return an error
		// if we cannot parse the config file.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return errors.Wrapf(err, "reading config file %s", rootConfig.CfgFile)
			}
		}
	}

	// When we bind flags to environment variables expect that the
	// environment variables are prefixed, e.g. a flag like --db
	// binds to an environment variable FEE_DB. Property keys like
	// fees.network bind to FEE_FEES_NETWORK.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Bind the current command's flags to viper
	if err := bindFlags(cmd, v); err != nil {
		return errors.Wrap(err, "bind flags failed")
	}
	rootConfig.v = v
	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindFlagErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindFlagErr != nil || f.Name == keyHome || f.Name == keyConfig {
			// "home" and "config" are special configuration values, handled separately.
			return
		}
		// Environment variables can't have dashes in them, so bind them to their equivalent
		// keys with underscores, e.g. --metrics-file to FEE_METRICS_FILE
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				bindFlagErr = errors.Wrapf(err, "could not bind env to flag %q", f.Name)
				return
			}
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				bindFlagErr = errors.Wrapf(err, "could not set value of flag %q", f.Name)
				return
			}
		}
	})
	return bindFlagErr
}

// initLogger sends log output to stderr, stdout is for command output.
func initLogger(cmd *cobra.Command, rootConfig *rootConfiguration) error {
	conf := logger.DefaultConfiguration()
	if file := rootConfig.loggerCfgFilename(); fileExists(file) {
		var err error
		if conf, err = logger.LoadGlobalConfig(file); err != nil {
			return err
		}
	}
	if rootConfig.LogLevel != "" {
		conf.DefaultLevel = logger.LevelFromString(rootConfig.LogLevel)
	}
	conf.Writer = cmd.ErrOrStderr()
	logger.UpdateGlobalConfig(conf)
	return nil
}

func envKey(key string) string {
	return strings.ToUpper(envPrefix + "_" + key)
}

func defaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultHomeDirName
	}
	return filepath.Join(home, defaultHomeDirName)
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
