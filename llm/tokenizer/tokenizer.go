// Package tokenizer 提供统一的 token 计数接口，用于提示词预算控制。
package tokenizer

import "strings"

// Tokenizer 是统一的 token 计数接口。
type Tokenizer interface {
	// CountTokens 返回给定文本的 token 数。
	CountTokens(text string) (int, error)

	// MaxTokens 返回模型的最大上下文长度。
	MaxTokens() int

	// Name 返回分词器的名称。
	Name() string
}

// ForModel 返回给定模型的分词器。
// OpenAI 系模型走 tiktoken；未知模型回退到字符估算器。
func ForModel(model string) Tokenizer {
	if hasKnownEncoding(model) {
		t, err := NewTiktokenTokenizer(model)
		if err == nil {
			return t
		}
	}
	return NewEstimatorTokenizer(model, 0)
}

func hasKnownEncoding(model string) bool {
	if _, ok := modelEncodings[model]; ok {
		return true
	}
	for prefix := range modelEncodings {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
