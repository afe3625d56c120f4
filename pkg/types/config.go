package types

import "time"

// GatewayConfig holds HTTP settings shared by every provider call.
type GatewayConfig struct {
	// RatePerSecond caps outbound requests across all providers sharing
	// one gateway (default 1).
	RatePerSecond float64 `json:"rate_limit_per_second" yaml:"rate_limit_per_second"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is sent with every outbound request.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SearchConfig holds settings for provider search and OA verification.
type SearchConfig struct {
	// MaxResults is the maximum number of merged results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// ContactEmail enables the Unpaywall check and Crossref/OpenAlex
	// polite pools. Empty disables Unpaywall, never fatally.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`

	// COREAPIKey enables the CORE full-text index. Empty skips CORE.
	COREAPIKey string `json:"core_api_key,omitempty" yaml:"core_api_key,omitempty"`

	// Topics are searched when no ad-hoc query is given.
	Topics []string `json:"topics_of_interest,omitempty" yaml:"topics_of_interest,omitempty"`
}

// EnrichConfig selects and configures the optional LLM metadata extractor.
type EnrichConfig struct {
	// Enabled turns the extractor on. Off by default; the pipeline is
	// fully functional without it.
	Enabled bool `json:"enable_llm_enhancement" yaml:"enable_llm_enhancement"`

	// Provider is "ollama" or "openai".
	Provider string `json:"llm_provider" yaml:"llm_provider"`

	OllamaBaseURL string        `json:"ollama_base_url" yaml:"ollama_base_url"`
	OllamaModel   string        `json:"ollama_model" yaml:"ollama_model"`
	OllamaTimeout time.Duration `json:"ollama_timeout" yaml:"ollama_timeout"`

	OpenAIAPIKey string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`
	OpenAIModel  string `json:"openai_model" yaml:"openai_model"`
}

// OutputConfig holds settings for result persistence and PDF retrieval.
type OutputConfig struct {
	// Dir receives result JSON, downloaded PDFs, and the seen-store.
	Dir string `json:"output_dir" yaml:"output_dir"`

	// SavePDFs enables artifact download for OA-resolved results.
	SavePDFs bool `json:"save_pdfs" yaml:"save_pdfs"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Gateway GatewayConfig `json:"gateway" yaml:"gateway"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Enrich  EnrichConfig  `json:"enrich" yaml:"enrich"`
	Output  OutputConfig  `json:"output" yaml:"output"`
}

// DefaultConfig returns the pipeline defaults, matching a bare run with no
// config file.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Gateway: GatewayConfig{
			RatePerSecond: 1,
			Timeout:       30 * time.Second,
			UserAgent:     "paper-mentat/1.0 (research-agent)",
			MaxRetries:    3,
		},
		Search: SearchConfig{
			MaxResults: 50,
		},
		Enrich: EnrichConfig{
			Provider:      "ollama",
			OllamaBaseURL: "http://localhost:11434",
			OllamaModel:   "llama2",
			OllamaTimeout: 60 * time.Second,
			OpenAIModel:   "gpt-4",
		},
		Output: OutputConfig{
			Dir:      "results",
			SavePDFs: true,
		},
	}
}
