// Package handlers 实现对外 HTTP/WS 端点。
//
// 包含会话管理器（按 session_id 持有代理实例）、NDJSON 流式对话、
// 非流式对话、websocket 对话与健康检查，以及统一的响应信封和
// 错误码到 HTTP 状态的映射。
package handlers
