package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/llm"
	"github.com/BaSui01/lexflow/types"
)

// PlaygroundProcessor 是无协作方的直接生成模式，把短期记忆拼成
// 对话式提示词后调用生成客户端。
type PlaygroundProcessor struct {
	provider llm.Provider
	cfg      types.AgentConfig
	logger   *zap.Logger
}

// NewPlaygroundProcessor 创建演练场处理器。
func NewPlaygroundProcessor(provider llm.Provider, cfg types.AgentConfig, logger *zap.Logger) *PlaygroundProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlaygroundProcessor{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "playground_processor")),
	}
}

// ProcessMessage 执行一轮直接生成。
func (p *PlaygroundProcessor) ProcessMessage(ctx context.Context, turn *Turn) (*types.AgentResponse, error) {
	EmitThinking(ctx, "Thinking...")

	var sb strings.Builder
	for _, msg := range turn.History {
		fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
	}
	sb.WriteString("assistant:")

	resp, err := p.provider.Generate(ctx, &llm.GenerateRequest{
		Model:       p.cfg.ModelName,
		System:      "You are a helpful legal assistant.",
		Prompt:      sb.String(),
		MaxTokens:   p.cfg.MaxResponseTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return nil, types.WrapError(types.ErrUpstreamError, "generation failed", err)
	}

	return &types.AgentResponse{
		Message: types.AgentMessage{
			Role:    types.RoleAssistant,
			Content: strings.TrimSpace(resp.Text),
		},
	}, nil
}
