package types

// AgentConfig is the immutable per-instance agent configuration,
// supplied at construction.
type AgentConfig struct {
	// MaxContextLength bounds short-term memory by message count.
	// Oldest messages are dropped from the front once exceeded.
	MaxContextLength int `json:"max_context_length"`

	// MaxResponseTokens caps generation length per LLM call.
	MaxResponseTokens int `json:"max_response_tokens"`

	// Temperature controls generation randomness.
	Temperature float32 `json:"temperature"`

	// ModelName is the generation model identifier.
	ModelName string `json:"model_name"`

	// EmbedModelName is the embedding model identifier.
	EmbedModelName string `json:"embed_model_name"`
}

// DefaultAgentConfig returns sensible defaults.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		MaxContextLength:  20,
		MaxResponseTokens: 1024,
		Temperature:       0.2,
		ModelName:         "gpt-4o",
		EmbedModelName:    "text-embedding-3-small",
	}
}

// Validate validates the configuration.
func (c AgentConfig) Validate() error {
	if c.MaxContextLength <= 0 {
		return &Error{Code: ErrInvalidRequest, Message: "max_context_length must be positive"}
	}
	if c.MaxResponseTokens <= 0 {
		return &Error{Code: ErrInvalidRequest, Message: "max_response_tokens must be positive"}
	}
	if c.ModelName == "" {
		return &Error{Code: ErrInvalidRequest, Message: "model_name is required"}
	}
	if c.EmbedModelName == "" {
		return &Error{Code: ErrInvalidRequest, Message: "embed_model_name is required"}
	}
	return nil
}
