package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kintrospect/kintrospect/internal/logs"
	"github.com/kintrospect/kintrospect/internal/message"
)

var (
	cfgFile     string
	logLevel    string
	logFile     string
	quietFlag   bool
	silentFlag  bool
	noColorFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kintrospect",
	Short: "Kintrospect audits kintone access control for record-level grants that exceed app-level permissions.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		message.SetQuiet(quietFlag)
		message.SetSilent(silentFlag)
		if noColorFlag {
			message.SetNoColor(true)
		}

		level := logs.ParseLevel(logLevel)
		if logFile != "" {
			if _, _, err := logs.FileLogger(logFile, level); err != nil {
				message.Error("cannot open log file %s: %v", logFile, err)
				os.Exit(1)
			}
		} else {
			logs.ConsoleLogger(level)
		}
	},
}

// Execute builds the command tree from the module registry and runs it.
// Called once from main.
func Execute() {
	generateCommands(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kintrospect.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write JSON logs to this file instead of the console")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress informational messages")
	rootCmd.PersistentFlags().BoolVar(&silentFlag, "silent", false, "suppress all console messages")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kintrospect")
	}

	viper.SetEnvPrefix("kintrospect")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
