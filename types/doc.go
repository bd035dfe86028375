// Copyright (c) LexFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供 LexFlow 法律助理内核的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 agent、llm、retrieval、
protocol、api 等上层模块提供统一的类型契约。所有跨包共享的结构体、
枚举和错误码均定义于此，以避免循环依赖。

# 核心类型

  - AgentMessage      — 对话消息（ID、Role、Content、Timestamp、Metadata）
  - MessageMetadata   — 带类型标签的消息元数据（citations / documents / timeline / analysis）
  - AgentContext      — 会话上下文（mode、userId、sessionId、caseId、researchId）
  - ContextPatch      — 上下文增量（浅合并，mode 不可变）
  - AgentConfig       — Agent 配置（maxContextLength、maxResponseTokens 等）
  - AgentResponse     — 单轮响应（消息 + 动作 + 上下文增量）
  - Action            — 副作用指令（SAVE_RESEARCH、HIGHLIGHT_DOCUMENTS 等）
  - Citation          — 法律引用（case / statute / regulation + verified 标记）
  - CaseRecord / ResearchRecord — 长期记忆条目
  - Error / ErrorCode — 结构化错误体系，含 HTTP 状态码与 Retryable 标记

# 主要能力

  - 错误工具链：WrapError / AsError / IsErrorCode / IsRetryable
  - 上下文增量合并：ContextPatch.ApplyTo（非空字段覆盖，禁止 mode 变更）
  - 配置校验：AgentConfig.Validate
*/
package types
