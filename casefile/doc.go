// Package casefile 对接案件管理服务。
//
// Client 提供案件上下文读取与时间线追加两个操作，是案件模式代理的
// 唯一协作方。HTTP 实现对接外部案件服务；测试可用内存实现替换。
package casefile
