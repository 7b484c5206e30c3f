// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command go-pruner analyzes codebases for dead code and publishes
// removals as pull requests.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "go-pruner",
		Short: "Dead-code detection and removal",
		Long:  "go-pruner finds unreachable function and class definitions in a repository and can remove them on a branch with a pull request.",
	}

	// Global flags.
	rootCmd.PersistentFlags().String("language", "", "Language to analyze (go, python, javascript, typescript)")
	rootCmd.PersistentFlags().StringSlice("deny", nil, "Extra path fragments to exclude from analysis")
	rootCmd.PersistentFlags().String("listen", ":8000", "Address for the serve command")

	// Bind flags to viper.
	viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language"))
	viper.BindPFlag("deny", rootCmd.PersistentFlags().Lookup("deny"))
	viper.BindPFlag("listen", rootCmd.PersistentFlags().Lookup("listen"))

	// Env vars: GO_PRUNER_LANGUAGE, GO_PRUNER_LISTEN, etc.
	viper.SetEnvPrefix("GO_PRUNER")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".go-pruner")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print go-pruner version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("go-pruner %s\n", version)
		},
	}
}
