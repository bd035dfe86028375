package handlers

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/agent"
	"github.com/BaSui01/lexflow/casefile"
	"github.com/BaSui01/lexflow/internal/metrics"
	"github.com/BaSui01/lexflow/llm"
	"github.com/BaSui01/lexflow/retrieval"
	"github.com/BaSui01/lexflow/types"
)

// Deps 是会话管理器的依赖集合。
// Provider 必填；Retriever 供研究与案件模式，Cases 供案件模式。
// Collector 可选，为 nil 时不上报指标。
type Deps struct {
	Provider    llm.Provider
	Retriever   retrieval.Client
	Cases       casefile.Client
	AgentConfig types.AgentConfig
	IDGen       agent.IDGenerator
	Collector   *metrics.Collector
	Logger      *zap.Logger
}

// SessionManager 按 session_id 持有代理实例。
// 会话在首次请求时创建并绑定模式，之后模式不可变。
type SessionManager struct {
	deps   Deps
	logger *zap.Logger

	mu     sync.RWMutex
	agents map[string]*agent.Agent
}

// NewSessionManager 创建会话管理器。
func NewSessionManager(deps Deps) (*SessionManager, error) {
	if deps.Provider == nil {
		return nil, types.NewError(types.ErrInvalidRequest, "llm provider is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		deps:   deps,
		logger: logger.With(zap.String("component", "session_manager")),
		agents: make(map[string]*agent.Agent),
	}, nil
}

// GetOrCreate 返回会话对应的代理，不存在则按上下文创建。
// 已存在的会话请求不同模式视为无效请求。
func (m *SessionManager) GetOrCreate(actx types.AgentContext) (*agent.Agent, error) {
	m.mu.RLock()
	ag, ok := m.agents[actx.SessionID]
	m.mu.RUnlock()
	if ok {
		if ag.Context().Mode != actx.Mode {
			return nil, types.NewError(types.ErrInvalidRequest,
				"session is bound to mode "+string(ag.Context().Mode))
		}
		return ag, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// 双检：解锁间隙可能有并发创建。
	if ag, ok := m.agents[actx.SessionID]; ok {
		if ag.Context().Mode != actx.Mode {
			return nil, types.NewError(types.ErrInvalidRequest,
				"session is bound to mode "+string(ag.Context().Mode))
		}
		return ag, nil
	}

	proc, err := m.buildProcessor(actx.Mode)
	if err != nil {
		return nil, err
	}

	ag, err = agent.New(actx, m.deps.AgentConfig, proc, m.deps.IDGen, m.deps.Logger)
	if err != nil {
		return nil, err
	}
	m.agents[actx.SessionID] = ag
	if m.deps.Collector != nil {
		m.deps.Collector.SetActiveSessions(len(m.agents))
	}
	m.logger.Info("session created",
		zap.String("session_id", actx.SessionID),
		zap.String("mode", string(actx.Mode)))
	return ag, nil
}

// observeTurn 上报一轮处理的指标，Collector 未配置时为空操作。
func (m *SessionManager) observeTurn(mode types.Mode, err error, duration time.Duration, thinkingSteps int) {
	if m.deps.Collector == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.deps.Collector.RecordTurn(string(mode), status, duration, thinkingSteps)
}

func (m *SessionManager) buildProcessor(mode types.Mode) (agent.Processor, error) {
	switch mode {
	case types.ModeResearch:
		if m.deps.Retriever == nil {
			return nil, types.NewError(types.ErrServiceUnavailable, "retrieval client not configured")
		}
		return agent.NewResearchProcessor(m.deps.Provider, m.deps.Retriever, m.deps.AgentConfig, m.deps.Logger), nil
	case types.ModeCase:
		if m.deps.Retriever == nil {
			return nil, types.NewError(types.ErrServiceUnavailable, "retrieval client not configured")
		}
		if m.deps.Cases == nil {
			return nil, types.NewError(types.ErrServiceUnavailable, "case service client not configured")
		}
		return agent.NewCaseProcessor(m.deps.Provider, m.deps.Retriever, m.deps.Cases, m.deps.AgentConfig, m.deps.Logger), nil
	case types.ModePlayground:
		return agent.NewPlaygroundProcessor(m.deps.Provider, m.deps.AgentConfig, m.deps.Logger), nil
	default:
		return nil, types.NewError(types.ErrInvalidRequest, "unknown mode: "+string(mode))
	}
}

// Get 返回已存在的会话代理。
func (m *SessionManager) Get(sessionID string) (*agent.Agent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ag, ok := m.agents[sessionID]
	return ag, ok
}

// Remove 删除会话。代理实例由 GC 回收，进行中的一轮不受影响。
func (m *SessionManager) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.agents, sessionID)
	if m.deps.Collector != nil {
		m.deps.Collector.SetActiveSessions(len(m.agents))
	}
}

// Count 返回活跃会话数。
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.agents)
}
