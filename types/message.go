// Package types provides core types used across the LexFlow agent core.
// This package has ZERO dependencies on other lexflow packages to avoid circular imports.
// All other packages should import types from here.
package types

import "time"

// Role represents the role of a message participant.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MetadataKind tags the shape of a message's metadata payload.
// Messages carry at most one metadata shape; MetadataNone means the
// message has no extra payload.
type MetadataKind string

const (
	MetadataNone      MetadataKind = "none"
	MetadataCitations MetadataKind = "citations"
	MetadataDocuments MetadataKind = "documents"
	MetadataTimeline  MetadataKind = "timeline"
	MetadataAnalysis  MetadataKind = "analysis"
)

// AnalysisMetadata records the case context a legal analysis was produced under.
type AnalysisMetadata struct {
	CaseType   string   `json:"case_type"`
	Stage      string   `json:"stage"`
	Precedents []string `json:"precedents,omitempty"`
}

// MessageMetadata is the tagged metadata payload attached to an AgentMessage.
// Only the fields matching Kind are populated; the rest stay zero.
type MessageMetadata struct {
	Kind MetadataKind `json:"kind"`

	// Kind == MetadataCitations
	Citations   []Citation `json:"citations,omitempty"`
	DocumentIDs []string   `json:"document_ids,omitempty"` // also set for MetadataDocuments

	// Kind == MetadataTimeline
	TimelineEventIDs []string `json:"timeline_event_ids,omitempty"`

	// Kind == MetadataAnalysis
	Analysis *AnalysisMetadata `json:"analysis,omitempty"`
}

// CitationsMetadata builds metadata carrying extracted citations and the
// documents they were grounded on.
func CitationsMetadata(citations []Citation, documentIDs []string) *MessageMetadata {
	return &MessageMetadata{Kind: MetadataCitations, Citations: citations, DocumentIDs: documentIDs}
}

// DocumentsMetadata builds metadata carrying matched document ids.
func DocumentsMetadata(documentIDs []string) *MessageMetadata {
	return &MessageMetadata{Kind: MetadataDocuments, DocumentIDs: documentIDs}
}

// TimelineMetadata builds metadata carrying referenced timeline event ids.
func TimelineMetadata(eventIDs []string) *MessageMetadata {
	return &MessageMetadata{Kind: MetadataTimeline, TimelineEventIDs: eventIDs}
}

// AnalysisMeta builds metadata carrying legal-analysis provenance.
func AnalysisMeta(a *AnalysisMetadata) *MessageMetadata {
	return &MessageMetadata{Kind: MetadataAnalysis, Analysis: a}
}

// AgentMessage represents one immutable conversation turn.
// Messages are created by the agent on every turn and never mutated
// after being appended to memory.
type AgentMessage struct {
	ID        string           `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// NewUserMessage creates a new user message.
func NewUserMessage(id, content string, at time.Time) AgentMessage {
	return AgentMessage{ID: id, Role: RoleUser, Content: content, Timestamp: at}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(id, content string, at time.Time) AgentMessage {
	return AgentMessage{ID: id, Role: RoleAssistant, Content: content, Timestamp: at}
}

// WithMetadata returns a copy of the message with the given metadata attached.
func (m AgentMessage) WithMetadata(md *MessageMetadata) AgentMessage {
	m.Metadata = md
	return m
}
