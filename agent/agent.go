package agent

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/types"
)

// Turn 是一轮处理的输入快照，交给 Processor。
// History 已包含触发消息本身；Memory 供处理器写入长期记录。
type Turn struct {
	Message types.AgentMessage
	Context types.AgentContext
	History []types.AgentMessage
	Memory  *Memory
}

// Processor 是领域策略接口，承担生命周期的中间阶段。
// 返回的 Message 只需填 Role/Content/Metadata，ID 与时间戳由
// Agent 统一补齐。
type Processor interface {
	ProcessMessage(ctx context.Context, turn *Turn) (*types.AgentResponse, error)
}

// Agent 是一个会话的消息处理引擎。
// 同一实例同时只允许一轮在途：并发 SendMessage 同步返回忙错误。
type Agent struct {
	cfg    types.AgentConfig
	proc   Processor
	idgen  IDGenerator
	logger *zap.Logger
	now    func() time.Time

	turnMu sync.Mutex // 整轮互斥

	stateMu    sync.RWMutex
	actx       types.AgentContext
	memory     *Memory
	processing bool
	lastErr    error
}

// New 创建代理实例。idgen 为 nil 时使用 UUID 生成器，logger 为 nil
// 时使用 zap.NewNop()。
func New(actx types.AgentContext, cfg types.AgentConfig, proc Processor, idgen IDGenerator, logger *zap.Logger) (*Agent, error) {
	if !actx.Mode.Valid() {
		return nil, types.NewError(types.ErrInvalidRequest, "unknown agent mode: "+string(actx.Mode))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if proc == nil {
		return nil, types.NewError(types.ErrInvalidRequest, "processor is required")
	}
	if idgen == nil {
		idgen = NewUUIDGenerator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		cfg:    cfg,
		proc:   proc,
		idgen:  idgen,
		logger: logger.With(zap.String("component", "agent"), zap.String("mode", string(actx.Mode)), zap.String("session_id", actx.SessionID)),
		now:    time.Now,
		actx:   actx,
		memory: NewMemory(cfg.MaxContextLength),
	}, nil
}

// SendMessage 执行一轮完整处理。
// 用户消息先于处理入队；处理失败时仅保留用户消息并记录错误，
// 成功时追加助手消息并合并上下文补丁。
func (a *Agent) SendMessage(ctx context.Context, content string) (*types.AgentResponse, error) {
	if !a.turnMu.TryLock() {
		return nil, errBusy()
	}
	defer a.turnMu.Unlock()

	a.setProcessing(true)
	defer a.setProcessing(false)

	userMsg := types.NewUserMessage(a.idgen.NextID(), content, a.now())
	a.memory.Append(userMsg)

	turn := &Turn{
		Message: userMsg,
		Context: a.Context(),
		History: a.memory.ShortTerm(),
		Memory:  a.memory,
	}

	resp, err := a.proc.ProcessMessage(ctx, turn)
	if err != nil {
		a.recordError(err)
		a.logger.Error("turn failed", zap.String("message_id", userMsg.ID), zap.Error(err))
		return nil, err
	}

	assistant := resp.Message
	assistant.ID = a.idgen.NextID()
	assistant.Role = types.RoleAssistant
	assistant.Timestamp = a.now()
	resp.Message = assistant
	a.memory.Append(assistant)

	if resp.Patch != nil {
		a.applyPatch(*resp.Patch)
	}

	a.logger.Debug("turn completed",
		zap.String("message_id", userMsg.ID),
		zap.Int("actions", len(resp.Actions)))
	return resp, nil
}

func (a *Agent) setProcessing(v bool) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.processing = v
	if v {
		a.lastErr = nil
	}
}

func (a *Agent) recordError(err error) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.lastErr = err
}

func (a *Agent) applyPatch(patch types.ContextPatch) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.actx = patch.ApplyTo(a.actx)
}

// Context 返回当前上下文快照。
func (a *Agent) Context() types.AgentContext {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.actx
}

// Memory 返回记忆的点时快照。
func (a *Agent) Memory() types.AgentMemory {
	return a.memory.Snapshot()
}

// State 返回外部可见状态快照。Processing 仅供忙指示，不承担同步职责。
func (a *Agent) State() types.AgentState {
	a.stateMu.RLock()
	processing := a.processing
	lastErr := a.lastErr
	actx := a.actx
	a.stateMu.RUnlock()

	return types.AgentState{
		Context:    actx,
		Memory:     a.memory.Snapshot(),
		Processing: processing,
		Err:        lastErr,
	}
}
