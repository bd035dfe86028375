// Package retrieval 提供法律文档检索能力。
//
// Client 是代理侧的统一检索契约：给定关键词与 topK，返回按相关度
// 降序的文档结果。包内提供两个实现：VectorIndex（内存向量检索，
// 嵌入由 llm.Provider 生成）与 HTTPClient（对接外部文档服务）。
package retrieval
