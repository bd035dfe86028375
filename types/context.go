package types

// Mode selects the agent specialization bound to a session.
type Mode string

const (
	ModeResearch   Mode = "research"
	ModeCase       Mode = "case"
	ModePlayground Mode = "playground"
)

// Valid reports whether the mode is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeResearch, ModeCase, ModePlayground:
		return true
	}
	return false
}

// AgentContext identifies the conversational session an agent serves.
// Mode is immutable for the lifetime of one agent instance; only the
// case/research identifiers may populate after construction, via a
// ContextPatch returned by a specialization.
type AgentContext struct {
	Mode       Mode   `json:"mode"`
	UserID     string `json:"user_id"`
	SessionID  string `json:"session_id"`
	CaseID     string `json:"case_id,omitempty"`
	ResearchID string `json:"research_id,omitempty"`
}

// ContextPatch is a partial context update carried on an AgentResponse.
// Merging is shallow field replacement: non-empty fields win, empty
// fields leave the existing value untouched. Mode cannot be patched.
type ContextPatch struct {
	CaseID     string `json:"case_id,omitempty"`
	ResearchID string `json:"research_id,omitempty"`
}

// ApplyTo merges the patch into ctx and returns the result.
func (p ContextPatch) ApplyTo(ctx AgentContext) AgentContext {
	if p.CaseID != "" {
		ctx.CaseID = p.CaseID
	}
	if p.ResearchID != "" {
		ctx.ResearchID = p.ResearchID
	}
	return ctx
}
