package agent

import (
	"sync"

	"github.com/BaSui01/lexflow/types"
)

// Memory 持有一个代理实例的短期与长期记忆。
// 短期记忆是 FIFO 滑动窗口：仅在写入时惰性截断，始终从队首
// 淘汰最旧消息直至不超过 maxContext。长期记忆无界累积。
type Memory struct {
	mu         sync.RWMutex
	maxContext int
	shortTerm  []types.AgentMessage
	longTerm   types.LongTermMemory
}

// NewMemory 创建记忆存储。
func NewMemory(maxContextLength int) *Memory {
	return &Memory{
		maxContext: maxContextLength,
		shortTerm:  make([]types.AgentMessage, 0, maxContextLength),
		longTerm: types.LongTermMemory{
			Cases:    make(map[string][]types.CaseRecord),
			Research: make(map[string][]types.ResearchRecord),
		},
	}
}

// Append 追加一条消息并截断到窗口上限。
func (m *Memory) Append(msg types.AgentMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shortTerm = append(m.shortTerm, msg)
	if over := len(m.shortTerm) - m.maxContext; over > 0 {
		m.shortTerm = append(m.shortTerm[:0:0], m.shortTerm[over:]...)
	}
}

// ShortTerm 返回短期记忆的拷贝。
func (m *Memory) ShortTerm() []types.AgentMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.AgentMessage, len(m.shortTerm))
	copy(out, m.shortTerm)
	return out
}

// AddCaseRecord 向指定案件追加一条长期记录。
func (m *Memory) AddCaseRecord(rec types.CaseRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.longTerm.Cases[rec.CaseID] = append(m.longTerm.Cases[rec.CaseID], rec)
}

// AddResearchRecord 向指定课题追加一条长期记录。
func (m *Memory) AddResearchRecord(rec types.ResearchRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.longTerm.Research[rec.ResearchID] = append(m.longTerm.Research[rec.ResearchID], rec)
}

// Snapshot 返回记忆的点时拷贝。
func (m *Memory) Snapshot() types.AgentMemory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	short := make([]types.AgentMessage, len(m.shortTerm))
	copy(short, m.shortTerm)

	cases := make(map[string][]types.CaseRecord, len(m.longTerm.Cases))
	for k, v := range m.longTerm.Cases {
		cases[k] = append([]types.CaseRecord(nil), v...)
	}
	research := make(map[string][]types.ResearchRecord, len(m.longTerm.Research))
	for k, v := range m.longTerm.Research {
		research[k] = append([]types.ResearchRecord(nil), v...)
	}

	return types.AgentMemory{
		ShortTerm: short,
		LongTerm:  types.LongTermMemory{Cases: cases, Research: research},
	}
}
