package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kondukto-io/dspolicy/internal/core/usecase/registry"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/token"
	configrepo "github.com/kondukto-io/dspolicy/internal/repository/config"
	"github.com/kondukto-io/dspolicy/pkg/logger"
)

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

var (
	verbose   bool
	version   string
	commit    string
	buildDate string
)

var rootCmd = cobra.Command{
	Use:     "dspolicy",
	Short:   "Evaluates CDN delivery service routing policies",
	Version: versionFormatter(version, commit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var logLevel = "info"
		if viper.GetBool("verbose") {
			logLevel = "debug"
		}

		logger.SetLevel(logLevel)
		logger.SetFormat(viper.GetString("log-format"))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "more logs")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text || json")
	rootCmd.PersistentFlags().StringP("config", "c", "", "delivery service configuration file")
	rootCmd.PersistentFlags().StringP("state", "s", "", "delivery service state file")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("state", rootCmd.PersistentFlags().Lookup("state"))

	viper.SetEnvPrefix("DSPOLICY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(args []string) {
	rootCmd.SetArgs(args)

	rootCmd.AddCommand(initValidateCommand())
	rootCmd.AddCommand(initEvaluateCommand())
	rootCmd.AddCommand(initGeoCommand())
	rootCmd.AddCommand(initTokenCommand())
	rootCmd.AddCommand(initWatchCommand())

	if err := rootCmd.Execute(); err != nil {
		qwe(exitCodeError, err, "failed to execute root command")
	}
}

// loadRegistry publishes the configuration file and applies the state
// file when one is given
func loadRegistry() (*registry.Registry, error) {
	var configPath = viper.GetString("config")
	if configPath == "" {
		return nil, errors.New("[config] flag is required")
	}

	repo, err := configrepo.New()
	if err != nil {
		return nil, err
	}

	reg := registry.New(repo, token.New())
	if _, err := reg.LoadConfigFile(configPath); err != nil {
		return nil, err
	}

	if statePath := viper.GetString("state"); statePath != "" {
		if err := reg.SetStatesFile(statePath); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

func versionFormatter(ver, commit, buildDate string) string {
	if ver == "" && buildDate == "" && commit == "" {
		return "dspolicy version (built from source)"
	}

	return fmt.Sprintf("%s (build date: %s commit: %s)", ver, buildDate, commit)
}

// qwe quits with error. If there are messages, wraps error with message
func qwe(code int, err error, messages ...string) {
	for _, m := range messages {
		err = fmt.Errorf("%s: %w", m, err)
	}

	logger.Log.Errorf("%v", err)
	os.Exit(code)
}

// qwm quits with message
func qwm(code int, message string) {
	logger.Log.Info(message)
	os.Exit(code)
}
