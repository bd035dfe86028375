package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/agent"
	"github.com/BaSui01/lexflow/api"
	"github.com/BaSui01/lexflow/protocol"
	"github.com/BaSui01/lexflow/types"
)

// WSHandler 在单条 websocket 连接上处理多轮对话。
// 每条入站消息是一个 ChatRequest，出站沿用 NDJSON 相同的帧格式。
// 出错时以关闭状态码收尾，客户端据"未见 response 帧"判定失败。
type WSHandler struct {
	sessions *SessionManager
	logger   *zap.Logger
}

// NewWSHandler 创建 websocket 对话处理器。
func NewWSHandler(sessions *SessionManager, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		sessions: sessions,
		logger:   logger.With(zap.String("component", "ws_handler")),
	}
}

// HandleWS 升级连接并循环处理请求直至对端关闭。
// GET /v1/chat/ws
func (h *WSHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler exit")

	ctx := r.Context()
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			// 对端正常关闭或连接断开，循环结束。
			return
		}

		var req api.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			c.Close(websocket.StatusPolicyViolation, "invalid request payload")
			return
		}
		if verr := req.Validate(); verr != nil {
			c.Close(websocket.StatusPolicyViolation, verr.Message)
			return
		}

		ag, err := h.sessions.GetOrCreate(req.AgentContext())
		if err != nil {
			c.Close(closeStatusFor(err), string(types.GetErrorCode(err)))
			return
		}

		var mu sync.Mutex
		var steps []string
		emitCtx := agent.WithThinkingEmitter(ctx, func(step string) {
			mu.Lock()
			defer mu.Unlock()
			steps = append(steps, step)
			if werr := protocol.WriteWSFrame(ctx, c, protocol.Frame{
				Type:    protocol.FrameThinkingStep,
				Content: step,
			}); werr != nil {
				h.logger.Warn("failed to write thinking frame", zap.Error(werr))
			}
		})

		start := time.Now()
		resp, err := ag.SendMessage(emitCtx, req.Message)
		mu.Lock()
		stepCount := len(steps)
		mu.Unlock()
		h.sessions.observeTurn(ag.Context().Mode, err, time.Since(start), stepCount)
		if err != nil {
			h.logger.Error("websocket turn failed",
				zap.String("session_id", req.SessionID), zap.Error(err))
			c.Close(closeStatusFor(err), string(types.GetErrorCode(err)))
			return
		}

		mu.Lock()
		frame := protocol.Frame{
			Type:          protocol.FrameResponse,
			Content:       resp.Message.Content,
			ThinkingSteps: steps,
		}
		mu.Unlock()
		if err := protocol.WriteWSFrame(ctx, c, frame); err != nil {
			h.logger.Warn("failed to write response frame", zap.Error(err))
			return
		}
	}
}

func closeStatusFor(err error) websocket.StatusCode {
	switch types.GetErrorCode(err) {
	case types.ErrAgentBusy, types.ErrRateLimited:
		return websocket.StatusTryAgainLater
	case types.ErrInvalidRequest, types.ErrPreconditionFailed:
		return websocket.StatusPolicyViolation
	default:
		return websocket.StatusInternalError
	}
}
