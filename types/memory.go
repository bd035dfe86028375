package types

import "time"

// CaseRecord is one long-term memory entry for a case conversation.
// Records accumulate per caseId for the life of the agent instance.
type CaseRecord struct {
	CaseID    string    `json:"case_id"`
	Intent    string    `json:"intent"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ResearchRecord is one long-term memory entry for a research topic.
type ResearchRecord struct {
	ResearchID string     `json:"research_id"`
	Query      string     `json:"query"`
	Response   string     `json:"response"`
	Citations  []Citation `json:"citations,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// LongTermMemory accumulates structured records per case and per
// research topic. It grows without eviction for the session lifetime
// and is the exclusive property of one agent instance.
type LongTermMemory struct {
	Cases    map[string][]CaseRecord     `json:"cases"`
	Research map[string][]ResearchRecord `json:"research"`
}

// AgentMemory is a point-in-time snapshot of an agent's memory.
type AgentMemory struct {
	ShortTerm []AgentMessage `json:"short_term"`
	LongTerm  LongTermMemory `json:"long_term"`
}

// AgentState is a point-in-time snapshot of an agent's externally
// visible state. Processing is advisory only; it exists for busy
// indicators, not for synchronization.
type AgentState struct {
	Context    AgentContext `json:"context"`
	Memory     AgentMemory  `json:"memory"`
	Processing bool         `json:"is_processing"`
	Err        error        `json:"-"`
}
