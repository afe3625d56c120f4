// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-mentat/internal/secrets"
	"github.com/pdiddy/paper-mentat/pkg/types"
)

// buildConfig assembles the pipeline configuration: built-in defaults,
// overridden by the config file and PAPER_MENTAT_* environment variables,
// with credentials falling back to .secrets/ files.
func buildConfig() types.PipelineConfig {
	cfg := types.DefaultConfig()

	viper.SetDefault("rate_limit_per_second", cfg.Gateway.RatePerSecond)
	viper.SetDefault("timeout", cfg.Gateway.Timeout)
	viper.SetDefault("user_agent", cfg.Gateway.UserAgent)
	viper.SetDefault("max_retries", cfg.Gateway.MaxRetries)
	viper.SetDefault("max_results", cfg.Search.MaxResults)
	viper.SetDefault("enable_llm_enhancement", cfg.Enrich.Enabled)
	viper.SetDefault("llm_provider", cfg.Enrich.Provider)
	viper.SetDefault("ollama_base_url", cfg.Enrich.OllamaBaseURL)
	viper.SetDefault("ollama_model", cfg.Enrich.OllamaModel)
	viper.SetDefault("ollama_timeout", cfg.Enrich.OllamaTimeout)
	viper.SetDefault("openai_model", cfg.Enrich.OpenAIModel)
	viper.SetDefault("output_dir", cfg.Output.Dir)
	viper.SetDefault("save_pdfs", cfg.Output.SavePDFs)

	cfg.Gateway.RatePerSecond = viper.GetFloat64("rate_limit_per_second")
	cfg.Gateway.Timeout = viper.GetDuration("timeout")
	cfg.Gateway.UserAgent = viper.GetString("user_agent")
	cfg.Gateway.MaxRetries = viper.GetInt("max_retries")

	cfg.Search.MaxResults = viper.GetInt("max_results")
	cfg.Search.Topics = viper.GetStringSlice("topics_of_interest")
	cfg.Search.ContactEmail = secretDefault(secrets.KeyContactEmail, viper.GetString("contact_email"))
	cfg.Search.COREAPIKey = secretDefault(secrets.KeyCOREAPI, viper.GetString("core_api_key"))

	cfg.Enrich.Enabled = viper.GetBool("enable_llm_enhancement")
	cfg.Enrich.Provider = viper.GetString("llm_provider")
	cfg.Enrich.OllamaBaseURL = viper.GetString("ollama_base_url")
	cfg.Enrich.OllamaModel = viper.GetString("ollama_model")
	cfg.Enrich.OllamaTimeout = viper.GetDuration("ollama_timeout")
	cfg.Enrich.OpenAIModel = viper.GetString("openai_model")
	cfg.Enrich.OpenAIAPIKey = secretDefault(secrets.KeyOpenAIAPI, viper.GetString("openai_api_key"))

	cfg.Output.Dir = viper.GetString("output_dir")
	cfg.Output.SavePDFs = viper.GetBool("save_pdfs")

	return cfg
}
