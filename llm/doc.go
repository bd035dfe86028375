// Package llm 提供生成客户端的统一接口与支撑设施。
//
// Provider 是唯一的对外契约：Generate（同步生成）、Stream（增量生成）、
// Embed（嵌入向量）。具体的 HTTP 适配实现位于 llm/providers 子目录，
// Token 计数位于 llm/tokenizer。
//
// MultiLevelCache 提供本地 LRU + Redis 两级响应缓存；CachedProvider
// 将其组合到任意 Provider 上，对可缓存请求透明命中。
package llm
