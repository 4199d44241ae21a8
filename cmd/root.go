// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/luthersystems/tinylisp/diagnostic"
	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser"
	"github.com/luthersystems/tinylisp/repl"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys.  Each key may be set with a flag, a TINYLISP_
// environment variable or the config file.
const (
	keyColor          = "color"
	keyLogLevel       = "log-level"
	keyReader         = "reader"
	keyMaxStackHeight = "max-stack-height"
	keyHistoryFile    = "history-file"
	keyTrace          = "trace"
	keyProfileOutput  = "profile-output"
)

// EnvPrefix is the prefix of environment variables which override the
// config file.
const EnvPrefix = "TINYLISP"

var cfgFile string

// errFailed is returned by commands which have already reported their
// failure to the user.
var errFailed = errors.New("command failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tinylisp",
	Short: "tinylisp, a minimal Lisp interpreter",
	Long: `tinylisp is a minimal Lisp interpreter implemented in Go.

Getting started:
  tinylisp run file.lisp          Run a Lisp source file
  tinylisp run -e '(+ 1 2)' -p    Evaluate an expression and print it
  tinylisp repl                   Start an interactive REPL
  tinylisp doc car                Show documentation for a function

Language overview:
  Values are integers, symbols, lists, functions and nil.
  (define name expr) binds name in the current environment.
  (lambda (params...) body) creates a closure over the current environment.
  Builtins: + - * list cons car.

Settings are read from $HOME/.tinylisp.yaml (or --config) and may be
overridden by TINYLISP_* environment variables, e.g. TINYLISP_LOG_LEVEL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(viper.GetString(keyLogLevel))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if !errors.Is(err, errFailed) {
		fmt.Fprintln(os.Stderr, "error:", err) //nolint:errcheck
	}
	os.Exit(1)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tinylisp.yaml)")
	flags.String(keyColor, "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String(keyLogLevel, "warning", "Operational log level (debug, info, warning, error).")
	flags.String(keyReader, parser.ReaderRD, fmt.Sprintf("Source reader: %q or %q.", parser.ReaderRD, parser.ReaderParsec))
	flags.Int(keyMaxStackHeight, lisp.DefaultMaxStackHeight, "Maximum call stack height (0 is unlimited).")
	flags.String(keyTrace, traceNone, "Profile function applications: none, otel, opencensus, callgrind, or pprof.")
	flags.String(keyProfileOutput, "", "Output file for the callgrind and pprof trace modes.")
	err := bindFlags(flags)
	if err != nil {
		panic(err)
	}
}

// bindFlags binds configuration keys to their persistent flags so that a
// flag given on the command line takes precedence over other sources.
func bindFlags(flags *pflag.FlagSet) error {
	for _, key := range []string{keyColor, keyLogLevel, keyReader, keyMaxStackHeight, keyTrace, keyProfileOutput} {
		err := viper.BindPFlag(key, flags.Lookup(key))
		if err != nil {
			return err
		}
	}
	viper.SetDefault(keyHistoryFile, repl.DefaultHistoryFile())
	return nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".tinylisp")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil {
		logrus.WithField("config", viper.ConfigFileUsed()).Debug("Using config file")
		return
	}
	var notFound viper.ConfigFileNotFoundError
	if cfgFile != "" || !errors.As(err, &notFound) {
		logrus.WithError(err).Warn("Unable to read config file")
	}
}

func initLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", keyLogLevel, err)
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return nil
}

// settings are the resolved configuration values used by commands.
type settings struct {
	Color          diagnostic.ColorMode
	Reader         string
	MaxStackHeight int
	HistoryFile    string
	Trace          string
	ProfileOutput  string
}

func loadSettings() settings {
	return settings{
		Color:          diagnostic.ParseColorMode(viper.GetString(keyColor)),
		Reader:         viper.GetString(keyReader),
		MaxStackHeight: viper.GetInt(keyMaxStackHeight),
		HistoryFile:    viper.GetString(keyHistoryFile),
		Trace:          viper.GetString(keyTrace),
		ProfileOutput:  viper.GetString(keyProfileOutput),
	}
}

// defaultSettings returns the settings used when no configuration is
// present.
func defaultSettings() settings {
	return settings{
		Color:          diagnostic.ColorAuto,
		Reader:         parser.ReaderRD,
		MaxStackHeight: lisp.DefaultMaxStackHeight,
		Trace:          traceNone,
	}
}
