package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd is the base command when armldr is called without a subcommand.
var RootCmd = &cobra.Command{
	Use:   "armldr",
	Short: "A dynamic loader for ELF32/ARM relocatable objects",
	Long: `armldr parses an ELF32 little-endian ARM relocatable object (.o), allocates
memory for its loadable sections, resolves its unresolved symbols against a
host-supplied manifest, applies its relocations, and dispatches to its entry
point.`,
}

// Execute runs RootCmd (its child commands are registered in init) and
// exits with status 1 on any error. Called once by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.armldr.yaml)")
	RootCmd.AddCommand(execCmd, inspectCmd, symbolsCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads a config file and ARMLDR_* environment variables, per
// SPEC_FULL.md's AMBIENT STACK "Configuration" section. Flags are not
// bound to viper; the only key read is no_color, which exec ORs with
// --no-color, so the flag can turn color off but not back on.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".armldr")
	}

	viper.SetEnvPrefix("ARMLDR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
