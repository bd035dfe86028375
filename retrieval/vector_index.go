package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/llm"
)

// VectorIndex 是内存向量检索实现。
// 文档入库时经 llm.Provider 生成嵌入；查询时将关键词拼接后嵌入，
// 按余弦相似度降序返回 Top-K。适合测试与小规模语料。
type VectorIndex struct {
	provider   llm.Provider
	embedModel string
	logger     *zap.Logger

	mu         sync.RWMutex
	docs       []Document
	embeddings [][]float64
}

// NewVectorIndex 创建内存向量索引。
func NewVectorIndex(provider llm.Provider, embedModel string, logger *zap.Logger) *VectorIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VectorIndex{
		provider:   provider,
		embedModel: embedModel,
		logger:     logger.With(zap.String("component", "vector_index")),
	}
}

// AddDocuments 嵌入并入库一批文档。
func (x *VectorIndex) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	input := make([]string, len(docs))
	for i, doc := range docs {
		input[i] = doc.Title + "\n" + doc.Content
	}

	resp, err := x.provider.Embed(ctx, &llm.EmbedRequest{
		Model: x.embedModel,
		Input: input,
	})
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(resp.Embeddings) != len(docs) {
		return fmt.Errorf("embed documents: got %d embeddings for %d documents", len(resp.Embeddings), len(docs))
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.docs = append(x.docs, docs...)
	x.embeddings = append(x.embeddings, resp.Embeddings...)

	x.logger.Info("documents indexed",
		zap.Int("count", len(docs)),
		zap.Int("total", len(x.docs)))
	return nil
}

// Search 检索与关键词最相关的 Top-K 文档。
func (x *VectorIndex) Search(ctx context.Context, keywords []string, topK int) ([]SearchResult, error) {
	if len(keywords) == 0 || topK <= 0 {
		return []SearchResult{}, nil
	}

	query := strings.Join(keywords, " ")
	resp, err := x.provider.Embed(ctx, &llm.EmbedRequest{
		Model: x.embedModel,
		Input: []string{query},
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(resp.Embeddings) != 1 {
		return nil, fmt.Errorf("embed query: got %d embeddings", len(resp.Embeddings))
	}
	queryVec := resp.Embeddings[0]

	x.mu.RLock()
	defer x.mu.RUnlock()

	results := make([]SearchResult, 0, len(x.docs))
	for i, doc := range x.docs {
		results = append(results, SearchResult{
			Document: doc,
			Score:    cosineSimilarity(queryVec, x.embeddings[i]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// Count 返回索引中的文档数。
func (x *VectorIndex) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs)
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
