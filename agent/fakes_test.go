package agent

import (
	"context"

	"github.com/BaSui01/lexflow/casefile"
	"github.com/BaSui01/lexflow/llm"
	"github.com/BaSui01/lexflow/retrieval"
)

// scriptedProvider 按脚本回答生成调用并计数。
type scriptedProvider struct {
	generateFn    func(call int, req *llm.GenerateRequest) (string, error)
	generateCalls int
	embedCalls    int
}

func (p *scriptedProvider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	call := p.generateCalls
	p.generateCalls++
	text, err := p.generateFn(call, req)
	if err != nil {
		return nil, err
	}
	return &llm.GenerateResponse{Model: req.Model, Text: text}, nil
}

func (p *scriptedProvider) Stream(ctx context.Context, req *llm.GenerateRequest) (<-chan llm.StreamChunk, error) {
	ch := make(chan llm.StreamChunk)
	close(ch)
	return ch, nil
}

func (p *scriptedProvider) Embed(ctx context.Context, req *llm.EmbedRequest) (*llm.EmbedResponse, error) {
	p.embedCalls++
	embeddings := make([][]float64, len(req.Input))
	for i := range embeddings {
		embeddings[i] = []float64{1, 0}
	}
	return &llm.EmbedResponse{Model: req.Model, Embeddings: embeddings}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

// fakeRetriever 返回固定结果并计数。
type fakeRetriever struct {
	results      []retrieval.SearchResult
	err          error
	searchCalls  int
	lastKeywords []string
}

func (r *fakeRetriever) Search(ctx context.Context, keywords []string, topK int) ([]retrieval.SearchResult, error) {
	r.searchCalls++
	r.lastKeywords = keywords
	if r.err != nil {
		return nil, r.err
	}
	if topK < len(r.results) {
		return r.results[:topK], nil
	}
	return r.results, nil
}

// fakeCaseClient 返回固定案件并记录时间线写入。
type fakeCaseClient struct {
	cs            *casefile.Case
	getErr        error
	timelineErr   error
	getCalls      int
	timelineCalls int
	lastEvent     casefile.TimelineEvent
}

func (c *fakeCaseClient) GetCase(ctx context.Context, caseID string) (*casefile.Case, error) {
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.cs, nil
}

func (c *fakeCaseClient) UpdateTimeline(ctx context.Context, caseID string, event casefile.TimelineEvent) error {
	c.timelineCalls++
	c.lastEvent = event
	return c.timelineErr
}
