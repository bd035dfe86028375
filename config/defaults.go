// 提供所有配置项的合理默认值
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Agent:     DefaultAgentConfig(),
		LLM:       DefaultLLMConfig(),
		Redis:     DefaultRedisConfig(),
		Retrieval: DefaultRetrievalConfig(),
		Casefile:  DefaultCasefileConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    5 * time.Minute,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    100,
		RateLimitBurst:  200,
	}
}

// DefaultAgentConfig 返回默认代理配置
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		MaxContextLength:  20,
		MaxResponseTokens: 1024,
		Temperature:       0.2,
		Model:             "gpt-4o",
		EmbedModel:        "text-embedding-3-small",
	}
}

// DefaultLLMConfig 返回默认 LLM 配置
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider: "openai",
		BaseURL:  "https://api.openai.com",
		Timeout:  30 * time.Second,
	}
}

// DefaultRedisConfig 返回默认 Redis 配置
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:   false,
		Addr:      "localhost:6379",
		DB:        0,
		TTL:       time.Hour,
		LocalSize: 1000,
	}
}

// DefaultRetrievalConfig 返回默认检索配置
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		Mode:    "memory",
		Timeout: 10 * time.Second,
	}
}

// DefaultCasefileConfig 返回默认案件服务配置
func DefaultCasefileConfig() CasefileConfig {
	return CasefileConfig{
		Timeout: 10 * time.Second,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "json",
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:     false,
		ServiceName: "lexflow",
		SampleRate:  1.0,
	}
}
