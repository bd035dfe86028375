package retrieval

import "context"

// Document 表示一篇可检索的法律文档。
type Document struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchResult 表示一条检索结果，Score 越大越相关。
type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// Client 是统一的文档检索接口。
// 实现须保证返回结果按 Score 降序，且数量不超过 topK。
type Client interface {
	Search(ctx context.Context, keywords []string, topK int) ([]SearchResult, error)
}
