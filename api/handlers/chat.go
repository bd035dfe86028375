package handlers

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/agent"
	"github.com/BaSui01/lexflow/api"
	"github.com/BaSui01/lexflow/protocol"
)

// ChatHandler 处理对话请求，流式与非流式共用会话管理器。
type ChatHandler struct {
	sessions *SessionManager
	logger   *zap.Logger
}

// NewChatHandler 创建对话处理器。
func NewChatHandler(sessions *SessionManager, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		sessions: sessions,
		logger:   logger.With(zap.String("component", "chat_handler")),
	}
}

// HandleChat 处理非流式对话。
// POST /v1/chat
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err, h.logger)
		return
	}

	ag, err := h.sessions.GetOrCreate(req.AgentContext())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	var mu sync.Mutex
	var steps []string
	ctx := agent.WithThinkingEmitter(r.Context(), func(step string) {
		mu.Lock()
		steps = append(steps, step)
		mu.Unlock()
	})

	start := time.Now()
	resp, err := ag.SendMessage(ctx, req.Message)
	h.sessions.observeTurn(ag.Context().Mode, err, time.Since(start), len(steps))
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	WriteSuccess(w, api.ChatResponse{
		SessionID:     req.SessionID,
		Message:       resp.Message,
		Actions:       resp.Actions,
		ThinkingSteps: steps,
		Context:       ag.Context(),
	})
}

// HandleChatStream 处理流式对话，按 NDJSON 帧下发思考步骤与终结响应。
// POST /v1/chat/stream
//
// 首帧产生前出错返回 JSON 错误信封；首帧之后出错只能中断流，
// 客户端解码器以 ErrNoResponse 判定失败。
func (h *ChatHandler) HandleChatStream(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err, h.logger)
		return
	}

	ag, err := h.sessions.GetOrCreate(req.AgentContext())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	rw := NewResponseWriter(w)
	enc := protocol.NewEncoder(rw)

	var headerOnce sync.Once
	writeStreamHeaders := func() {
		headerOnce.Do(func() {
			rw.Header().Set("Content-Type", "application/x-ndjson")
			rw.Header().Set("Cache-Control", "no-cache")
			rw.Header().Set("X-Accel-Buffering", "no")
		})
	}

	var mu sync.Mutex
	var steps []string
	ctx := agent.WithThinkingEmitter(r.Context(), func(step string) {
		mu.Lock()
		defer mu.Unlock()
		writeStreamHeaders()
		steps = append(steps, step)
		if err := enc.WriteThinkingStep(step); err != nil {
			h.logger.Warn("failed to write thinking step", zap.Error(err))
		}
	})

	start := time.Now()
	resp, err := ag.SendMessage(ctx, req.Message)
	mu.Lock()
	stepCount := len(steps)
	mu.Unlock()
	h.sessions.observeTurn(ag.Context().Mode, err, time.Since(start), stepCount)
	if err != nil {
		mu.Lock()
		written := rw.Written
		mu.Unlock()
		if !written {
			WriteError(w, err, h.logger)
			return
		}
		h.logger.Error("turn failed mid-stream",
			zap.String("session_id", req.SessionID), zap.Error(err))
		return
	}

	mu.Lock()
	defer mu.Unlock()
	writeStreamHeaders()
	if err := enc.WriteResponse(resp.Message.Content, steps); err != nil {
		h.logger.Error("failed to write response frame", zap.Error(err))
	}
}
