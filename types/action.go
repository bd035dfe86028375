package types

import "time"

// ActionType tags a side-effect directive emitted alongside a response.
// The agent never executes actions itself; the caller interprets them.
type ActionType string

const (
	ActionSaveResearch       ActionType = "SAVE_RESEARCH"
	ActionExportCitations    ActionType = "EXPORT_CITATIONS"
	ActionHighlightDocuments ActionType = "HIGHLIGHT_DOCUMENTS"
	ActionSuggestTasks       ActionType = "SUGGEST_TASKS"
)

// Action is a side-effect directive returned alongside a response.
type Action struct {
	Type    ActionType `json:"type"`
	Payload any        `json:"payload"`
}

// SaveResearchPayload asks the caller to persist a research answer.
type SaveResearchPayload struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportCitationsPayload asks the caller to offer a citation export.
type ExportCitationsPayload struct {
	Format string `json:"format"`
}

// HighlightDocumentsPayload asks the caller to highlight matched documents.
type HighlightDocumentsPayload struct {
	DocumentIDs []string `json:"document_ids"`
}

// SuggestTasksPayload asks the caller to surface recommended tasks.
type SuggestTasksPayload struct {
	CaseID          string `json:"case_id"`
	Recommendations string `json:"recommendations"`
}

// AgentResponse is the outcome of one successful turn.
type AgentResponse struct {
	Message AgentMessage  `json:"message"`
	Actions []Action      `json:"actions,omitempty"`
	Patch   *ContextPatch `json:"context,omitempty"`
}
