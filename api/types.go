package api

import (
	"strings"

	"github.com/BaSui01/lexflow/types"
)

// ChatRequest 是一轮对话请求。
// 会话在首次请求时隐式创建并绑定模式；同一 session_id 的后续
// 请求必须携带相同模式。
type ChatRequest struct {
	SessionID  string `json:"session_id"`
	UserID     string `json:"user_id,omitempty"`
	Mode       string `json:"mode"`
	Message    string `json:"message"`
	CaseID     string `json:"case_id,omitempty"`
	ResearchID string `json:"research_id,omitempty"`
}

// Validate 校验请求并返回第一个违例。
func (r *ChatRequest) Validate() *types.Error {
	if r.SessionID == "" {
		return types.NewError(types.ErrInvalidRequest, "session_id is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		return types.NewError(types.ErrInvalidRequest, "message cannot be empty")
	}
	if !types.Mode(r.Mode).Valid() {
		return types.NewError(types.ErrInvalidRequest, "unknown mode: "+r.Mode)
	}
	return nil
}

// AgentContext 构造该请求对应的会话上下文。
func (r *ChatRequest) AgentContext() types.AgentContext {
	return types.AgentContext{
		Mode:       types.Mode(r.Mode),
		UserID:     r.UserID,
		SessionID:  r.SessionID,
		CaseID:     r.CaseID,
		ResearchID: r.ResearchID,
	}
}

// ChatResponse 是非流式对话接口的响应体。
type ChatResponse struct {
	SessionID     string             `json:"session_id"`
	Message       types.AgentMessage `json:"message"`
	Actions       []types.Action     `json:"actions,omitempty"`
	ThinkingSteps []string           `json:"thinking_steps,omitempty"`
	Context       types.AgentContext `json:"context"`
}

// HealthResponse 是健康检查响应体。
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Sessions int    `json:"sessions"`
}
