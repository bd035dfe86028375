// Package agent 实现模式感知的会话代理核心。
//
// Agent 是会话级的消息处理引擎：每个会话实例独占一份上下文与记忆，
// SendMessage 按固定生命周期执行一轮（入队用户消息 → 委托
// Processor → 入队助手消息 → 合并上下文补丁）。短期记忆是按消息数
// 截断的 FIFO 窗口；长期记忆按案件/课题无界累积。
//
// Processor 是领域策略接口，包内提供三个实现：ResearchProcessor
// （检索增强的法律研究流水线）、CaseProcessor（意图分派的案件助理）
// 与 PlaygroundProcessor（无协作方的直接生成）。
//
// 思考步骤经 context.Context 注入的 ThinkingEmitter 向外发布，
// 不改变 Processor 的函数签名。
package agent
