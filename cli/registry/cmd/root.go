package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/everFinance/tokenregistry/schema"
)

var cfgFile string
var host string
var signingKey string
var cfg schema.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "registry",
	Short:   "token registry host and client",
	Long:    `registry runs a token registry host and talks to running ones`,
	Version: "v0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "cfg", "", "cfg file (default is ./tokenregistry.yaml)")
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://127.0.0.1:8080", "registry host used by the client commands")
	rootCmd.PersistentFlags().StringVar(&signingKey, "key", "", "base58 private key signing the transactions, unsigned submission (faucet hosts only) when empty")
}

// initConfig reads in cfg file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("tokenregistry")
	}

	viper.AutomaticEnv()

	// client commands run fine without a config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		panic(err)
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		panic(err)
	}
}
