// Package api 定义对外 HTTP/WS 接口的请求与响应形状。
// 只含数据结构与校验，处理逻辑在 api/handlers。
package api
