package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/api"
)

// HealthHandler 健康检查处理器。
type HealthHandler struct {
	version  string
	start    time.Time
	sessions *SessionManager
	logger   *zap.Logger
}

// NewHealthHandler 创建健康检查处理器。sessions 可为 nil。
func NewHealthHandler(version string, sessions *SessionManager, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{
		version:  version,
		start:    time.Now(),
		sessions: sessions,
		logger:   logger.With(zap.String("component", "health_handler")),
	}
}

// HandleHealth 返回进程健康状态。
// GET /healthz
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	count := 0
	if h.sessions != nil {
		count = h.sessions.Count()
	}
	WriteSuccess(w, api.HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Uptime:   time.Since(h.start).Round(time.Second).String(),
		Sessions: count,
	})
}
