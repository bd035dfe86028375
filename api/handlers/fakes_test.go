package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/BaSui01/lexflow/llm"
	"github.com/BaSui01/lexflow/retrieval"
	"github.com/BaSui01/lexflow/types"
)

// fakeProvider 按调用序号回放脚本化的生成结果。
type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	generate func(call int, req *llm.GenerateRequest) (string, error)
}

func (f *fakeProvider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	text, err := f.generate(n, req)
	if err != nil {
		return nil, err
	}
	return &llm.GenerateResponse{Model: req.Model, Text: text}, nil
}

func (f *fakeProvider) Stream(ctx context.Context, req *llm.GenerateRequest) (<-chan llm.StreamChunk, error) {
	ch := make(chan llm.StreamChunk)
	close(ch)
	return ch, nil
}

func (f *fakeProvider) Embed(ctx context.Context, req *llm.EmbedRequest) (*llm.EmbedResponse, error) {
	embeddings := make([][]float64, len(req.Input))
	for i := range embeddings {
		embeddings[i] = []float64{1, 0}
	}
	return &llm.EmbedResponse{Model: req.Model, Embeddings: embeddings}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// echoProvider 任何请求都返回固定文本。
func echoProvider(text string) *fakeProvider {
	return &fakeProvider{generate: func(int, *llm.GenerateRequest) (string, error) {
		return text, nil
	}}
}

// researchScriptProvider 回放一轮研究流程的三次生成调用。
func researchScriptProvider(keywords []string, answer, citationsJSON string) *fakeProvider {
	kw, _ := json.Marshal(keywords)
	return &fakeProvider{generate: func(call int, _ *llm.GenerateRequest) (string, error) {
		switch call {
		case 1:
			return string(kw), nil
		case 2:
			return answer, nil
		default:
			return citationsJSON, nil
		}
	}}
}

// fakeRetriever 返回固定检索结果。
type fakeRetriever struct {
	mu      sync.Mutex
	results []retrieval.SearchResult
	calls   int
}

func (f *fakeRetriever) Search(ctx context.Context, keywords []string, topK int) ([]retrieval.SearchResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.results, nil
}

var _ retrieval.Client = (*fakeRetriever)(nil)
var _ llm.Provider = (*fakeProvider)(nil)

// envelope 解码统一响应信封，Data 延迟解码。
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

func testDeps(p llm.Provider, r retrieval.Client) Deps {
	return Deps{
		Provider:    p,
		Retriever:   r,
		AgentConfig: types.DefaultAgentConfig(),
	}
}
