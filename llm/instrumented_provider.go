package llm

import (
	"context"
	"time"
)

// MetricsRecorder 是上报 LLM 调用指标的最小接口。
// internal/metrics.Collector 满足该接口。
type MetricsRecorder interface {
	RecordLLMRequest(provider, model, status string, duration time.Duration, promptTokens, completionTokens int)
}

// InstrumentedProvider 在任意 Provider 外包一层指标上报。
// 放在缓存层内侧时只统计真实上游调用。
type InstrumentedProvider struct {
	inner Provider
	rec   MetricsRecorder
}

// NewInstrumentedProvider 创建带指标上报的 Provider。
// rec 为 nil 时等价于直接透传。
func NewInstrumentedProvider(inner Provider, rec MetricsRecorder) *InstrumentedProvider {
	return &InstrumentedProvider{inner: inner, rec: rec}
}

func (p *InstrumentedProvider) Name() string { return p.inner.Name() }

// Generate 调用底层 Provider 并记录耗时与 token 用量。
func (p *InstrumentedProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	resp, err := p.inner.Generate(ctx, req)
	if p.rec != nil {
		status := "ok"
		var prompt, completion int
		if err != nil {
			status = "error"
		} else {
			prompt = resp.Usage.PromptTokens
			completion = resp.Usage.CompletionTokens
		}
		p.rec.RecordLLMRequest(p.inner.Name(), req.Model, status, time.Since(start), prompt, completion)
	}
	return resp, err
}

// Stream 直接透传。增量响应的用量由最终 chunk 携带，此处不聚合。
func (p *InstrumentedProvider) Stream(ctx context.Context, req *GenerateRequest) (<-chan StreamChunk, error) {
	return p.inner.Stream(ctx, req)
}

// Embed 调用底层 Provider 并记录耗时与 token 用量。
func (p *InstrumentedProvider) Embed(ctx context.Context, req *EmbedRequest) (*EmbedResponse, error) {
	start := time.Now()
	resp, err := p.inner.Embed(ctx, req)
	if p.rec != nil {
		status := "ok"
		var prompt int
		if err != nil {
			status = "error"
		} else {
			prompt = resp.Usage.PromptTokens
		}
		p.rec.RecordLLMRequest(p.inner.Name(), req.Model, status, time.Since(start), prompt, 0)
	}
	return resp, err
}
