package llm

import (
	"context"
	"time"
)

// 统一的 LLM 错误码，用于对齐 HTTP 状态、可重试性与降级策略。
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "LLM_INVALID_REQUEST"      // 参数/格式错误
	ErrUnauthorized        ErrorCode = "LLM_UNAUTHORIZED"         // 未授权或密钥失效
	ErrForbidden           ErrorCode = "LLM_FORBIDDEN"            // 权限或内容策略拒绝
	ErrRateLimited         ErrorCode = "LLM_RATE_LIMITED"         // 上游或本地限流
	ErrQuotaExceeded       ErrorCode = "LLM_QUOTA_EXCEEDED"       // 额度/配额用尽
	ErrModelNotFound       ErrorCode = "LLM_MODEL_NOT_FOUND"      // 模型不存在
	ErrUpstreamTimeout     ErrorCode = "LLM_UPSTREAM_TIMEOUT"     // 上游超时
	ErrUpstreamError       ErrorCode = "LLM_UPSTREAM_ERROR"       // 上游 5xx/网络错误
	ErrProviderUnavailable ErrorCode = "LLM_PROVIDER_UNAVAILABLE" // Provider 不可用
)

type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// GenerateRequest 表示一次文本生成请求。
// Prompt 为主要输入；System 为可选系统提示词。
type GenerateRequest struct {
	TraceID     string        `json:"trace_id,omitempty"`
	Model       string        `json:"model"`
	System      string        `json:"system,omitempty"`
	Prompt      string        `json:"prompt"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
	Timeout     time.Duration `json:"timeout,omitempty"`
}

// Usage 表示一次请求的 Token 用量。
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// GenerateResponse 表示一次文本生成的完整响应。
type GenerateResponse struct {
	ID           string    `json:"id,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	Model        string    `json:"model"`
	Text         string    `json:"text"`
	FinishReason string    `json:"finish_reason,omitempty"`
	Usage        Usage     `json:"usage,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// StreamChunk 表示流式生成的一个增量。最终 chunk 可带 Usage。
type StreamChunk struct {
	ID           string `json:"id,omitempty"`
	Delta        string `json:"delta"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
	Err          *Error `json:"error,omitempty"`
}

// EmbedRequest 表示一次嵌入请求。
type EmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbedResponse 表示一次嵌入请求的响应。
// Embeddings 与 Input 按下标一一对应。
type EmbedResponse struct {
	Provider   string      `json:"provider,omitempty"`
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
	Usage      Usage       `json:"usage,omitempty"`
}

// Provider 定义了统一的生成/嵌入适配接口。
// 失败以 *Error 形式携带上游状态返回；核心层不做重试。
type Provider interface {
	// Generate 发起同步生成请求，返回完整响应。
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Stream 发起流式生成请求，返回增量响应通道。
	// 通道在生成结束或出错后关闭；错误通过 StreamChunk.Err 传递。
	Stream(ctx context.Context, req *GenerateRequest) (<-chan StreamChunk, error)

	// Embed 为输入文本生成嵌入向量。
	Embed(ctx context.Context, req *EmbedRequest) (*EmbedResponse, error)

	// Name 返回 Provider 的唯一标识。
	Name() string
}
