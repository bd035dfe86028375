package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/llm"
	"github.com/BaSui01/lexflow/llm/tokenizer"
	"github.com/BaSui01/lexflow/retrieval"
	"github.com/BaSui01/lexflow/types"
)

const (
	researchTopK = 5

	// saveResearchThreshold 是“值得持久化”的长度启发阈值。
	saveResearchThreshold = 500
)

// ResearchProcessor 实现法律研究流水线，固定五步无分支：
// 关键词抽取 → 文档检索 → 四段式作答 → 引文抽取 → 脚注格式化。
// 关键词抽取失败中止整轮；静默回退到原文检索会掩盖质量退化。
type ResearchProcessor struct {
	provider  llm.Provider
	retriever retrieval.Client
	cfg       types.AgentConfig
	counter   tokenizer.Tokenizer
	logger    *zap.Logger
}

// NewResearchProcessor 创建研究处理器。
func NewResearchProcessor(provider llm.Provider, retriever retrieval.Client, cfg types.AgentConfig, logger *zap.Logger) *ResearchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResearchProcessor{
		provider:  provider,
		retriever: retriever,
		cfg:       cfg,
		counter:   tokenizer.ForModel(cfg.ModelName),
		logger:    logger.With(zap.String("component", "research_processor")),
	}
}

// ProcessMessage 执行一轮研究处理。
func (p *ResearchProcessor) ProcessMessage(ctx context.Context, turn *Turn) (*types.AgentResponse, error) {
	query := turn.Message.Content

	EmitThinking(ctx, "Analyzing your legal question...")
	keywords, err := p.extractKeywords(ctx, query)
	if err != nil {
		return nil, err
	}

	EmitThinking(ctx, "Searching legal documents...")
	results, err := p.retriever.Search(ctx, keywords, researchTopK)
	if err != nil {
		return nil, err
	}
	EmitThinking(ctx, fmt.Sprintf("Found %d relevant documents", len(results)))

	EmitThinking(ctx, "Generating comprehensive answer...")
	answer, err := p.generateAnswer(ctx, query, results)
	if err != nil {
		return nil, err
	}

	EmitThinking(ctx, "Extracting citations...")
	citations, err := p.extractCitations(ctx, answer)
	if err != nil {
		return nil, err
	}

	formatted, inserted := FormatWithFootnotes(answer, citations)

	docIDs := make([]string, 0, len(results))
	for _, r := range results {
		docIDs = append(docIDs, r.Document.ID)
	}

	researchID := turn.Context.ResearchID
	if researchID == "" {
		researchID = turn.Context.SessionID
	}
	turn.Memory.AddResearchRecord(types.ResearchRecord{
		ResearchID: researchID,
		Query:      query,
		Response:   formatted,
		Citations:  citations,
		Timestamp:  turn.Message.Timestamp,
	})

	msg := types.AgentMessage{
		Role:    types.RoleAssistant,
		Content: formatted,
	}
	if len(citations) > 0 || len(docIDs) > 0 {
		msg.Metadata = types.CitationsMetadata(citations, docIDs)
	}

	p.logger.Info("research turn completed",
		zap.Int("documents", len(results)),
		zap.Int("citations", len(citations)),
		zap.Int("markers", inserted))

	return &types.AgentResponse{
		Message: msg,
		Actions: p.buildActions(formatted, inserted, turn.Message.Timestamp),
	}, nil
}

func (p *ResearchProcessor) extractKeywords(ctx context.Context, query string) ([]string, error) {
	prompt := fmt.Sprintf(`Extract key legal terms and concepts from the following query: %q

Return a JSON array of strings, nothing else.`, query)

	resp, err := p.provider.Generate(ctx, &llm.GenerateRequest{
		Model:       p.cfg.ModelName,
		Prompt:      prompt,
		MaxTokens:   p.cfg.MaxResponseTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return nil, types.WrapError(types.ErrUpstreamError, "keyword extraction failed", err)
	}

	keywords, err := parseKeywords(resp.Text)
	if err != nil {
		return nil, types.WrapError(types.ErrUpstreamError, "keyword extraction returned malformed output", err)
	}
	if len(keywords) == 0 {
		return nil, types.NewError(types.ErrUpstreamError, "keyword extraction returned no terms")
	}
	return keywords, nil
}

func (p *ResearchProcessor) generateAnswer(ctx context.Context, query string, results []retrieval.SearchResult) (string, error) {
	docContext := p.buildDocumentContext(results)

	prompt := fmt.Sprintf(`Based on the following context and the user's query, provide a detailed legal analysis:

Query: %s

Context:
%s

Provide a well-structured response with:
1. Direct answers to the query
2. Relevant legal principles
3. Supporting case law
4. Practical implications`, query, docContext)

	resp, err := p.provider.Generate(ctx, &llm.GenerateRequest{
		Model:       p.cfg.ModelName,
		Prompt:      prompt,
		MaxTokens:   p.cfg.MaxResponseTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return "", types.WrapError(types.ErrUpstreamError, "answer generation failed", err)
	}
	return resp.Text, nil
}

// buildDocumentContext 拼接文档内容，并按模型窗口预算截断。
// 预算为模型上下文减去响应与提示词骨架的保留量；超预算的文档整篇
// 丢弃，保持相关度排序的前缀。
func (p *ResearchProcessor) buildDocumentContext(results []retrieval.SearchResult) string {
	const promptReserve = 512
	budget := p.counter.MaxTokens() - p.cfg.MaxResponseTokens - promptReserve
	if budget <= 0 {
		budget = p.cfg.MaxResponseTokens
	}

	var sb strings.Builder
	used := 0
	for _, r := range results {
		piece := r.Document.Title + ": " + r.Document.Content
		n, err := p.counter.CountTokens(piece)
		if err != nil {
			n = len(piece) / 4
		}
		if used+n > budget {
			p.logger.Debug("document dropped from prompt budget",
				zap.String("doc_id", r.Document.ID),
				zap.Int("tokens", n),
				zap.Int("used", used))
			break
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(piece)
		used += n
	}
	return sb.String()
}

func (p *ResearchProcessor) extractCitations(ctx context.Context, answer string) ([]types.Citation, error) {
	prompt := fmt.Sprintf(`Extract all legal citations from the following text and verify their accuracy:

%s

Return as JSON array with format:
{
  "citation": "full citation text",
  "type": "case|statute|regulation",
  "verified": boolean
}`, answer)

	resp, err := p.provider.Generate(ctx, &llm.GenerateRequest{
		Model:       p.cfg.ModelName,
		Prompt:      prompt,
		MaxTokens:   p.cfg.MaxResponseTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return nil, types.WrapError(types.ErrUpstreamError, "citation extraction failed", err)
	}

	citations, err := parseCitations(resp.Text)
	if err != nil {
		return nil, types.WrapError(types.ErrUpstreamError, "citation extraction returned malformed output", err)
	}
	return citations, nil
}

func (p *ResearchProcessor) buildActions(formatted string, inserted int, at time.Time) []types.Action {
	var actions []types.Action
	if len(formatted) > saveResearchThreshold {
		actions = append(actions, types.Action{
			Type: types.ActionSaveResearch,
			Payload: types.SaveResearchPayload{
				Content:   formatted,
				Timestamp: at,
			},
		})
	}
	if inserted >= 1 {
		actions = append(actions, types.Action{
			Type:    types.ActionExportCitations,
			Payload: types.ExportCitationsPayload{Format: "bluebook"},
		})
	}
	return actions
}
