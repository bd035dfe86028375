package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/casefile"
	"github.com/BaSui01/lexflow/llm"
	"github.com/BaSui01/lexflow/retrieval"
	"github.com/BaSui01/lexflow/types"
)

const caseTopK = 5

// CaseProcessor 实现案件助理流水线：先做意图分类（封闭枚举），
// 按意图分派到五个处理器之一，最后无条件追加一条时间线记录作为
// 审计轨迹。caseId 未绑定是调用方误用，在任何协作方调用之前拒绝。
type CaseProcessor struct {
	provider  llm.Provider
	retriever retrieval.Client
	cases     casefile.Client
	cfg       types.AgentConfig
	logger    *zap.Logger
}

// NewCaseProcessor 创建案件处理器。
func NewCaseProcessor(provider llm.Provider, retriever retrieval.Client, cases casefile.Client, cfg types.AgentConfig, logger *zap.Logger) *CaseProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaseProcessor{
		provider:  provider,
		retriever: retriever,
		cases:     cases,
		cfg:       cfg,
		logger:    logger.With(zap.String("component", "case_processor")),
	}
}

// ProcessMessage 执行一轮案件处理。
func (p *CaseProcessor) ProcessMessage(ctx context.Context, turn *Turn) (*types.AgentResponse, error) {
	caseID := turn.Context.CaseID
	if caseID == "" {
		return nil, errCaseNotBound()
	}

	EmitThinking(ctx, "Loading case context...")
	caseDetails, err := p.cases.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	EmitThinking(ctx, "Classifying your request...")
	intent, confidence, err := p.classifyIntent(ctx, turn.Message.Content, caseDetails)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("intent classified",
		zap.String("intent", string(intent)),
		zap.Float64("confidence", confidence))

	var resp *types.AgentResponse
	switch intent {
	case IntentDocumentRequest:
		resp, err = p.handleDocumentRequest(ctx, turn, caseDetails)
	case IntentTimelineQuery:
		resp, err = p.handleTimelineQuery(ctx, turn, caseDetails)
	case IntentLegalAnalysis:
		resp, err = p.handleLegalAnalysis(ctx, turn, caseDetails)
	case IntentActionRecommendation:
		resp, err = p.handleActionRecommendation(ctx, turn, caseDetails)
	case IntentGeneralQuery:
		resp, err = p.handleGeneralQuery(ctx, turn, caseDetails)
	default:
		err = types.NewError(types.ErrInternalError, "unhandled intent: "+string(intent))
	}
	if err != nil {
		return nil, err
	}

	// 每轮无条件记录时间线，建立审计轨迹。
	EmitThinking(ctx, "Updating case timeline...")
	if err := p.updateTimeline(ctx, caseID, turn, resp); err != nil {
		return nil, err
	}

	turn.Memory.AddCaseRecord(types.CaseRecord{
		CaseID:    caseID,
		Intent:    string(intent),
		Query:     turn.Message.Content,
		Response:  resp.Message.Content,
		Timestamp: turn.Message.Timestamp,
	})

	return resp, nil
}

func (p *CaseProcessor) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.provider.Generate(ctx, &llm.GenerateRequest{
		Model:       p.cfg.ModelName,
		Prompt:      prompt,
		MaxTokens:   p.cfg.MaxResponseTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return "", types.WrapError(types.ErrUpstreamError, "generation failed", err)
	}
	return resp.Text, nil
}

func (p *CaseProcessor) classifyIntent(ctx context.Context, content string, cs *casefile.Case) (Intent, float64, error) {
	labels := make([]string, 0, len(Intents()))
	for _, it := range Intents() {
		labels = append(labels, "- "+string(it))
	}

	prompt := fmt.Sprintf(`Analyze the intent of this message in the context of case management:

Message: %s

Case Type: %s
Current Stage: %s

Classify as one of:
%s

Return as JSON with type and confidence score.`, content, cs.Type, cs.Stage, strings.Join(labels, "\n"))

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return "", 0, err
	}

	intent, confidence, err := parseIntentClassification(raw)
	if err != nil {
		// 无法解析的分类输出归为通用问答，分类器噪声不应中止整轮。
		p.logger.Warn("intent classification unparsable, defaulting", zap.Error(err))
		return IntentGeneralQuery, 0, nil
	}
	return intent, confidence, nil
}

func (p *CaseProcessor) handleDocumentRequest(ctx context.Context, turn *Turn, cs *casefile.Case) (*types.AgentResponse, error) {
	EmitThinking(ctx, "Searching case documents...")
	results, err := p.retriever.Search(ctx, []string{turn.Message.Content, cs.Type, cs.ID}, caseTopK)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(results))
	docIDs := make([]string, 0, len(results))
	for _, r := range results {
		titles = append(titles, r.Document.Title)
		docIDs = append(docIDs, r.Document.ID)
	}

	answer, err := p.generate(ctx, fmt.Sprintf(`Based on the document request: %q
And the available documents: %s
Provide a summary of relevant documents and their locations.`, turn.Message.Content, strings.Join(titles, ", ")))
	if err != nil {
		return nil, err
	}

	return &types.AgentResponse{
		Message: types.AgentMessage{
			Role:     types.RoleAssistant,
			Content:  answer,
			Metadata: types.DocumentsMetadata(docIDs),
		},
		Actions: []types.Action{{
			Type:    types.ActionHighlightDocuments,
			Payload: types.HighlightDocumentsPayload{DocumentIDs: docIDs},
		}},
	}, nil
}

func (p *CaseProcessor) handleTimelineQuery(ctx context.Context, turn *Turn, cs *casefile.Case) (*types.AgentResponse, error) {
	lines := make([]string, 0, len(cs.Timeline))
	eventIDs := make([]string, 0, len(cs.Timeline))
	for _, ev := range cs.Timeline {
		lines = append(lines, fmt.Sprintf("%s: %s", ev.OccurredAt.Format("2006-01-02"), ev.Description))
		eventIDs = append(eventIDs, ev.ID)
	}

	answer, err := p.generate(ctx, fmt.Sprintf(`Analyze the following timeline events for the query: %q

Timeline:
%s

Provide a focused response addressing the specific timeline query.`, turn.Message.Content, strings.Join(lines, "\n")))
	if err != nil {
		return nil, err
	}

	return &types.AgentResponse{
		Message: types.AgentMessage{
			Role:     types.RoleAssistant,
			Content:  answer,
			Metadata: types.TimelineMetadata(eventIDs),
		},
	}, nil
}

func (p *CaseProcessor) handleLegalAnalysis(ctx context.Context, turn *Turn, cs *casefile.Case) (*types.AgentResponse, error) {
	EmitThinking(ctx, "Retrieving relevant precedents...")
	results, err := p.retriever.Search(ctx, []string{turn.Message.Content, cs.Type, "precedent"}, caseTopK)
	if err != nil {
		return nil, err
	}

	contents := make([]string, 0, len(results))
	precedents := make([]string, 0, len(results))
	for _, r := range results {
		contents = append(contents, r.Document.Content)
		precedents = append(precedents, r.Document.ID)
	}

	answer, err := p.generate(ctx, fmt.Sprintf(`Provide legal analysis for: %q

Case Context:
Type: %s
Stage: %s
Key Facts: %s

Relevant Precedents:
%s

Format as:
1. Issue Analysis
2. Applicable Law
3. Application to Facts
4. Recommendation`, turn.Message.Content, cs.Type, cs.Stage, strings.Join(cs.KeyFacts, "; "), strings.Join(contents, "\n\n")))
	if err != nil {
		return nil, err
	}

	return &types.AgentResponse{
		Message: types.AgentMessage{
			Role:    types.RoleAssistant,
			Content: answer,
			Metadata: types.AnalysisMeta(&types.AnalysisMetadata{
				CaseType:   cs.Type,
				Stage:      cs.Stage,
				Precedents: precedents,
			}),
		},
	}, nil
}

func (p *CaseProcessor) handleActionRecommendation(ctx context.Context, turn *Turn, cs *casefile.Case) (*types.AgentResponse, error) {
	deadline := "none"
	if cs.NextDeadline != nil {
		deadline = cs.NextDeadline.Format("2006-01-02")
	}
	recent := make([]string, 0, len(cs.RecentEvents))
	for _, ev := range cs.RecentEvents {
		recent = append(recent, ev.Description)
	}

	answer, err := p.generate(ctx, fmt.Sprintf(`Recommend actions for: %q

Case Context:
Stage: %s
Deadline: %s
Recent Events: %s

Provide:
1. Immediate Actions
2. Medium-term Strategy
3. Risk Assessment
4. Timeline Considerations`, turn.Message.Content, cs.Stage, deadline, strings.Join(recent, "; ")))
	if err != nil {
		return nil, err
	}

	return &types.AgentResponse{
		Message: types.AgentMessage{
			Role:    types.RoleAssistant,
			Content: answer,
		},
		Actions: []types.Action{{
			Type: types.ActionSuggestTasks,
			Payload: types.SuggestTasksPayload{
				CaseID:          cs.ID,
				Recommendations: answer,
			},
		}},
	}, nil
}

func (p *CaseProcessor) handleGeneralQuery(ctx context.Context, turn *Turn, cs *casefile.Case) (*types.AgentResponse, error) {
	caseJSON, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return nil, types.WrapError(types.ErrInternalError, "marshal case context", err)
	}

	answer, err := p.generate(ctx, fmt.Sprintf(`Answer the following query in the context of the current case:
%q

Case Context:
%s`, turn.Message.Content, caseJSON))
	if err != nil {
		return nil, err
	}

	return &types.AgentResponse{
		Message: types.AgentMessage{
			Role:    types.RoleAssistant,
			Content: answer,
		},
	}, nil
}

func (p *CaseProcessor) updateTimeline(ctx context.Context, caseID string, turn *Turn, resp *types.AgentResponse) error {
	desc := fmt.Sprintf("Q: %s\nA: %s", turn.Message.Content, resp.Message.Content)
	return p.cases.UpdateTimeline(ctx, caseID, casefile.TimelineEvent{
		Description: desc,
		Category:    "interaction",
		Query:       turn.Message.Content,
		Response:    resp.Message.Content,
		Metadata:    resp.Message.Metadata,
		OccurredAt:  turn.Message.Timestamp,
	})
}
