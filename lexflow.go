// Package lexflow provides a top-level convenience entry point for creating
// legal-assistant agents with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/lexflow"
//
//	a, err := lexflow.NewResearchAgent("session-1", provider, retriever, nil)
//	a, err := lexflow.NewCaseAgent("session-2", "case-42", provider, retriever, cases, nil)
//	a, err := lexflow.NewPlaygroundAgent("session-3", provider, nil)
//
// Each constructor builds an [agent.Agent] bound to one mode with default
// configuration. For full control over config and ID generation, use the
// agent package directly.
package lexflow

import (
	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/agent"
	"github.com/BaSui01/lexflow/casefile"
	"github.com/BaSui01/lexflow/llm"
	"github.com/BaSui01/lexflow/retrieval"
	"github.com/BaSui01/lexflow/types"
)

// NewResearchAgent creates a research-mode agent for the given session.
func NewResearchAgent(sessionID string, provider llm.Provider, retriever retrieval.Client, logger *zap.Logger) (*agent.Agent, error) {
	cfg := types.DefaultAgentConfig()
	proc := agent.NewResearchProcessor(provider, retriever, cfg, logger)
	return agent.New(types.AgentContext{
		Mode:      types.ModeResearch,
		SessionID: sessionID,
	}, cfg, proc, nil, logger)
}

// NewCaseAgent creates a case-mode agent bound to caseID.
func NewCaseAgent(sessionID, caseID string, provider llm.Provider, retriever retrieval.Client, cases casefile.Client, logger *zap.Logger) (*agent.Agent, error) {
	cfg := types.DefaultAgentConfig()
	proc := agent.NewCaseProcessor(provider, retriever, cases, cfg, logger)
	return agent.New(types.AgentContext{
		Mode:      types.ModeCase,
		SessionID: sessionID,
		CaseID:    caseID,
	}, cfg, proc, nil, logger)
}

// NewPlaygroundAgent creates a free-form assistant agent with no
// retrieval or case collaborators.
func NewPlaygroundAgent(sessionID string, provider llm.Provider, logger *zap.Logger) (*agent.Agent, error) {
	cfg := types.DefaultAgentConfig()
	proc := agent.NewPlaygroundProcessor(provider, cfg, logger)
	return agent.New(types.AgentContext{
		Mode:      types.ModePlayground,
		SessionID: sessionID,
	}, cfg, proc, nil, logger)
}
