// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-mentat CLI, a pipeline that
// resolves paper identifiers and free-text queries into open-access
// metadata and full-text artifacts.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-mentat/internal/secrets"
	"github.com/pdiddy/paper-mentat/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the process-wide logger, configured in PersistentPreRunE.
var logger zerolog.Logger

// secretDefault returns fallback if set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the paper-mentat CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-mentat",
	Short: "Resolve scholarly papers to open-access metadata and full text",
	Long: `paper-mentat turns paper identifiers and research questions into
normalized metadata records with verified open-access locations.

It searches arXiv, Crossref, and OpenAlex, verifies open access through
Unpaywall with an OpenAlex fallback, and can download the resolved PDFs.
Each operation is a subcommand: search, topics, process, and fulltext.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./paper-mentat.yaml or ~/.config/paper-mentat/config.yaml)")
	pf.Bool("verbose", false, "enable debug logging")

	defaults := types.DefaultConfig()
	pf.Bool("enable-llm", defaults.Enrich.Enabled, "enable LLM metadata enrichment")
	pf.String("llm-provider", defaults.Enrich.Provider, "LLM provider (ollama or openai)")
	pf.String("ollama-model", defaults.Enrich.OllamaModel, "Ollama model name")
	pf.String("ollama-url", defaults.Enrich.OllamaBaseURL, "Ollama base URL")

	for key, flag := range map[string]string{
		"enable_llm_enhancement": "enable-llm",
		"llm_provider":           "llm-provider",
		"ollama_model":           "ollama-model",
		"ollama_base_url":        "ollama-url",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-mentat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-mentat"))
		}
	}

	viper.SetEnvPrefix("PAPER_MENTAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
