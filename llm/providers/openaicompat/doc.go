// Package openaicompat 实现面向 OpenAI 兼容上游的 llm.Provider。
//
// 兼容 /v1/chat/completions 与 /v1/embeddings 两类端点，流式生成
// 走 SSE。错误统一经 MapHTTPError 映射为 *llm.Error，携带上游状态
// 与可重试标记。自建网关或 vLLM 等兼容服务通过 Config.BaseURL 接入。
package openaicompat
